package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/ecomap-backend-go/internal/config"
	"github.com/jengzang/ecomap-backend-go/internal/database"
	"github.com/jengzang/ecomap-backend-go/internal/middleware"
)

const testSecret = "router-test-secret"

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testServer struct {
	t      *testing.T
	router *Router
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db, database.Migrations).RunMigrations())

	cfg := &config.Config{
		JWTSecret:             testSecret,
		LogLevel:              "info",
		HeatmapRateLimit:      100,
		HeatmapRateWindow:     time.Minute,
		MaxAnnotationsPerTask: 5,
		OverlayFormat:         "png",
	}
	router, err := SetupRouter(cfg, db)
	require.NoError(t, err)
	t.Cleanup(router.Close)

	token, err := middleware.IssueToken(testSecret, "alice", jwt.RegisteredClaims{})
	require.NoError(t, err)

	return &testServer{t: t, router: router, token: token}
}

func (s *testServer) do(method, path string, body any, auth bool) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) apiResponse {
	t.Helper()
	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(resp.Data, into))
	}
	return resp
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestWriteRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/projects", map[string]string{"name": "x"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/annotations/batch", map[string]int{"subdivision_id": 1}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectWorkflow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/projects", map[string]string{
		"name":          "Wetland",
		"boundary_geom": "POLYGON((10 10, 10.02 10, 10.02 10.02, 10 10.02, 10 10))",
		"mode":          "FREEHAND",
	}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/projects", map[string]string{
		"name":          "Wetland",
		"boundary_geom": "POLYGON((10 10, 10.02 10, 10.02 10.02, 10 10.02, 10 10))",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var project struct {
		ID           int64           `json:"id"`
		BoundaryGeom json.RawMessage `json:"boundary_geom"`
	}
	decode(t, w, &project)
	require.NotZero(t, project.ID)
	assert.Contains(t, string(project.BoundaryGeom), `"type":"Polygon"`)
	base := fmt.Sprintf("/api/v1/projects/%d", project.ID)

	w = s.do(http.MethodPost, base+"/generate-grid", map[string]int{"rows": 2, "cols": 3}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var generated struct{ Count int }
	decode(t, w, &generated)
	assert.Equal(t, 6, generated.Count)

	w = s.do(http.MethodPost, base+"/generate-grid", map[string]int{"rows": 2, "cols": 40}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, base+"/tasks/next", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var task struct {
		ID  int64 `json:"id"`
		Seq int   `json:"seq"`
	}
	decode(t, w, &task)
	assert.Equal(t, 0, task.Seq)

	// First cell spans lon 10..10.00667, lat 10..10.01.
	w = s.do(http.MethodPost, "/api/v1/annotations/batch", map[string]any{
		"subdivision_id": task.ID,
		"annotations": []map[string]any{
			{"lat": 10.005, "lon": 10.003, "label_type": "circle:30"},
		},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/annotations/batch", map[string]any{
		"subdivision_id": task.ID,
		"annotations": []map[string]any{
			{"lat": 10.015, "lon": 10.015, "label_type": "circle:30"},
		},
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decode(t, w, nil)
	assert.Contains(t, resp.Error, "outside task")

	w = s.do(http.MethodGet, base+"/progress", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var progress struct {
		CompletedCells  int     `json:"completed_cells"`
		CoveragePercent float64 `json:"coverage_percent"`
		Contributors    int     `json:"contributors"`
	}
	decode(t, w, &progress)
	assert.Equal(t, 1, progress.CompletedCells)
	assert.Equal(t, 1, progress.Contributors)
	assert.InDelta(t, 100.0/6, progress.CoveragePercent, 1e-9)

	w = s.do(http.MethodGet, base+"/markers", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"radius_m"`)

	w = s.do(http.MethodGet, base+"/heatmap?width=120&height=80", nil, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	bounds := strings.Split(w.Header().Get("X-Overlay-Bounds"), ",")
	assert.Len(t, bounds, 4)
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())

	w = s.do(http.MethodGet, base+"/heatmap?threshold=1", nil, false)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, base+"/heatmap?format=gif", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/projects/999/heatmap", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/projects/abc", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridPreview(t *testing.T) {
	s := newTestServer(t)
	req := map[string]any{
		"boundary_geom": "POLYGON((0 0, 1 0, 0.2 1, 0 0))",
		"rows":          2,
		"cols":          2,
		"size":          64,
	}

	w := s.do(http.MethodPost, "/api/v1/grid/preview", req, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var preview struct {
		Count int `json:"count"`
		Cells []struct {
			WKT string `json:"wkt"`
		} `json:"cells"`
	}
	decode(t, w, &preview)
	// The upper-right cell centre (0.75, 0.75) is outside the triangle.
	assert.Equal(t, 3, preview.Count)
	assert.Equal(t, "POLYGON((0 0, 0.5 0, 0.5 0.5, 0 0.5, 0 0))", preview.Cells[0].WKT)

	w = s.do(http.MethodPost, "/api/v1/grid/preview.png", req, false)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}
