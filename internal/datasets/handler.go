package datasets

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"datalens-backend/internal/shared/server/respond"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches dataset routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/datasets", h.upload)
	rg.GET("/datasets", h.list)
	rg.GET("/datasets/:id", h.get)
	rg.GET("/datasets/:id/preview", h.preview)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	ds, err := h.Svc.Upload(c.Request.Context(), c.PostForm("name"), fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload dataset", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(ds))
}

func (h *Handler) get(c *gin.Context) {
	ds, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "dataset not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch dataset", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(ds))
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.Svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list datasets", nil)
		return
	}

	resp := make([]DatasetResponse, 0, len(list))
	for _, ds := range list {
		resp = append(resp, toResponse(ds))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) preview(c *gin.Context) {
	limit := 10
	if v := c.Query("rows"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > 100 {
		limit = 100
	}

	preview, err := h.Svc.Preview(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "dataset not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to preview dataset", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, preview)
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
