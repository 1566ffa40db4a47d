package analyses_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"datalens-backend/internal/bootstrap"
	"datalens-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadCSV(t *testing.T, router *gin.Engine, fileName, content string) string {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DatasetID string `json:"datasetId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created.DatasetID
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const salesCSV = "region,revenue,units\nnorth,1200,10\nsouth,950,8\neast,1430,12\nwest,1100,9\n"

func TestRunDescriptiveAnalysis(t *testing.T) {
	app := buildTestApp(t)
	id := uploadCSV(t, app.Router, "sales.csv", salesCSV)

	resp := postJSON(t, app.Router, "/api/v1/analyses",
		`{"datasetId":"`+id+`","analysisKind":"descriptive"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var got struct {
		AnalysisID string `json:"analysisId"`
		DatasetID  string `json:"datasetId"`
		Kind       string `json:"analysisKind"`
		Status     string `json:"status"`
		Result     struct {
			Kind    string         `json:"analysis_kind"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.AnalysisID == "" {
		t.Fatalf("expected analysisId, got empty")
	}
	if got.Status != "completed" {
		t.Fatalf("expected status completed, got %s", got.Status)
	}
	if got.Result.Payload["rows_count"] != float64(4) {
		t.Fatalf("expected rows_count 4, got %v", got.Result.Payload["rows_count"])
	}

	// The stored record is retrievable.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+got.AnalysisID, nil)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
}

func TestRunAnalysisUnknownDataset(t *testing.T) {
	app := buildTestApp(t)

	resp := postJSON(t, app.Router, "/api/v1/analyses",
		`{"datasetId":"nope","analysisKind":"descriptive"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestRunAnalysisRequiresKind(t *testing.T) {
	app := buildTestApp(t)
	id := uploadCSV(t, app.Router, "sales.csv", salesCSV)

	resp := postJSON(t, app.Router, "/api/v1/analyses", `{"datasetId":"`+id+`"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestQuickAnalysisEndpoint(t *testing.T) {
	app := buildTestApp(t)
	id := uploadCSV(t, app.Router, "sales.csv", salesCSV)

	resp := postJSON(t, app.Router, "/api/v1/analyses/quick", `{"datasetId":"`+id+`"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got struct {
		Kind    string         `json:"analysis_kind"`
		Payload map[string]any `json:"payload"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Kind != "quick" {
		t.Fatalf("expected kind quick, got %s", got.Kind)
	}
	entries, ok := got.Payload["analyses"].(map[string]any)
	if !ok {
		t.Fatalf("expected analyses map in quick payload, got %T", got.Payload["analyses"])
	}
	for _, key := range []string{"dataset_info", "descriptive", "quality", "insights"} {
		if entries[key] == nil {
			t.Fatalf("expected %s entry in quick payload", key)
		}
	}
}

func TestListAnalysesFiltersByDataset(t *testing.T) {
	app := buildTestApp(t)
	id := uploadCSV(t, app.Router, "sales.csv", salesCSV)
	other := uploadCSV(t, app.Router, "other.csv", "x\n1\n2\n3\n")

	for _, dsID := range []string{id, id, other} {
		resp := postJSON(t, app.Router, "/api/v1/analyses",
			`{"datasetId":"`+dsID+`","analysisKind":"descriptive"}`)
		if resp.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?datasetId="+id, nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 analyses for dataset, got %d", len(list))
	}
}

func TestCreateAndListVisualizations(t *testing.T) {
	app := buildTestApp(t)
	id := uploadCSV(t, app.Router, "sales.csv", salesCSV)

	resp := postJSON(t, app.Router, "/api/v1/visualizations",
		`{"datasetId":"`+id+`","chart_type":"histogram","column":"revenue"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		VisualizationID string         `json:"visualizationId"`
		ChartType       string         `json:"chartType"`
		Spec            map[string]any `json:"spec"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.VisualizationID == "" {
		t.Fatalf("expected visualizationId, got empty")
	}
	if created.Spec["chart_type"] != "histogram" {
		t.Fatalf("expected spec chart_type histogram, got %v", created.Spec["chart_type"])
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/visualizations?datasetId="+id, nil)
	respList := httptest.NewRecorder()
	app.Router.ServeHTTP(respList, req)
	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}

	var list []map[string]any
	if err := json.NewDecoder(respList.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 visualization, got %d", len(list))
	}
}

func TestListVisualizationsRequiresDatasetID(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/visualizations", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
