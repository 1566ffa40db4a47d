package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"datalens-backend/internal/analysis"
	"datalens-backend/internal/datasets"
	"datalens-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.run)
	rg.GET("/analyses", h.list)
	rg.GET("/analyses/:id", h.get)
	rg.POST("/analyses/quick", h.quick)
	rg.POST("/visualizations", h.createVisualization)
	rg.GET("/visualizations", h.listVisualizations)
}

type runRequest struct {
	DatasetID         string                `json:"datasetId"`
	Kind              string                `json:"analysisKind"`
	Columns           []string              `json:"columns,omitempty"`
	TargetColumn      string                `json:"targetColumn,omitempty"`
	FeatureColumns    []string              `json:"featureColumns,omitempty"`
	NClusters         int                   `json:"nClusters,omitempty"`
	CorrelationMethod string                `json:"correlationMethod,omitempty"`
	Chart             *analysis.ChartRequest `json:"chart,omitempty"`
}

func (r runRequest) toRequest() analysis.Request {
	req := analysis.Request{
		Kind:              r.Kind,
		Columns:           r.Columns,
		TargetColumn:      r.TargetColumn,
		FeatureColumns:    r.FeatureColumns,
		NClusters:         r.NClusters,
		CorrelationMethod: r.CorrelationMethod,
	}
	if r.Chart != nil {
		req.Chart = *r.Chart
	}
	return req
}

// AnalysisResponse is the outward-facing representation of a stored run.
type AnalysisResponse struct {
	AnalysisID string          `json:"analysisId"`
	DatasetID  string          `json:"datasetId"`
	Kind       string          `json:"analysisKind"`
	Status     string          `json:"status"`
	Result     analysis.Result `json:"result"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toResponse(a Analysis) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID: a.ID,
		DatasetID:  a.DatasetID,
		Kind:       a.Kind,
		Status:     a.Status,
		Result:     a.Result,
		CreatedAt:  a.CreatedAt,
	}
}

func (h *Handler) run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Run(c.Request.Context(), req.DatasetID, req.toRequest())
	if err != nil {
		h.serviceError(c, err, "failed to run analysis")
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(a))
}

func (h *Handler) quick(c *gin.Context) {
	var req struct {
		DatasetID string `json:"datasetId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Quick(c.Request.Context(), req.DatasetID)
	if err != nil {
		h.serviceError(c, err, "failed to run quick analysis")
		return
	}
	respond.JSON(c, http.StatusOK, result)
}

func (h *Handler) get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serviceError(c, err, "failed to fetch analysis")
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(a))
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.Svc.List(c.Request.Context(), c.Query("datasetId"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]AnalysisResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toResponse(a))
	}
	respond.JSON(c, http.StatusOK, resp)
}

type visualizationRequest struct {
	DatasetID string `json:"datasetId"`
	analysis.ChartRequest
}

func (h *Handler) createVisualization(c *gin.Context) {
	var req visualizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	v, err := h.Svc.CreateVisualization(c.Request.Context(), req.DatasetID, req.ChartRequest)
	if err != nil {
		h.serviceError(c, err, "failed to create visualization")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{
		"visualizationId": v.ID,
		"datasetId":       v.DatasetID,
		"chartType":       v.ChartType,
		"spec":            v.Spec,
		"createdAt":       v.CreatedAt,
	})
}

func (h *Handler) listVisualizations(c *gin.Context) {
	datasetID := c.Query("datasetId")
	if datasetID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "datasetId is required", nil)
		return
	}

	limit, offset := pagination(c)
	list, err := h.Svc.ListVisualizations(c.Request.Context(), datasetID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list visualizations", nil)
		return
	}

	resp := make([]gin.H, 0, len(list))
	for _, v := range list {
		resp = append(resp, gin.H{
			"visualizationId": v.ID,
			"datasetId":       v.DatasetID,
			"chartType":       v.ChartType,
			"spec":            v.Spec,
			"createdAt":       v.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) serviceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, datasets.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, datasets.ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, offset = 20, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
