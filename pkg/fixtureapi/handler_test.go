package fixtureapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geostore/pkg/common/config"
	"geostore/pkg/fixture"
	"geostore/pkg/model"
	"geostore/pkg/teardown"
)

func setupRouter(t *testing.T) (*gin.Engine, *fixture.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Database.Dir = t.TempDir()
	fc, err := fixture.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fc.Close() })

	r := gin.New()
	RegisterRoutes(r.Group("/api/fixture"), fc)
	return r, fc
}

func do(t *testing.T, r *gin.Engine, method, path string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestPlanEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	code, body := do(t, r, http.MethodGet, "/api/fixture/plan")
	require.Equal(t, http.StatusOK, code)

	order := body["purge_order"].([]any)
	assert.Equal(t, teardown.StoredData, order[0])
	assert.Equal(t, teardown.Category, order[len(order)-1])
	tables := body["create_order"].([]any)
	assert.Equal(t, "gs_category", tables[0])
}

func TestPurgeAndCountsEndpoints(t *testing.T) {
	r, fc := setupRouter(t)
	ctx := context.Background()

	category := model.Category{Name: "c1"}
	require.NoError(t, fc.DAOs.Categories.Persist(ctx, &category))
	require.NoError(t, fc.DAOs.Resources.Persist(ctx, &model.Resource{Name: "r1", Creation: time.Now(), CategoryID: category.ID}))

	code, body := do(t, r, http.MethodGet, "/api/fixture/counts")
	require.Equal(t, http.StatusOK, code)
	counts := body["counts"].(map[string]any)
	assert.Equal(t, float64(1), counts["gs_resource"])

	code, body = do(t, r, http.MethodPost, "/api/fixture/purge")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["purged"])

	_, body = do(t, r, http.MethodGet, "/api/fixture/counts")
	for table, n := range body["counts"].(map[string]any) {
		assert.Equal(t, float64(0), n, table)
	}
}

func TestPurgeReportsRowFailure(t *testing.T) {
	r, fc := setupRouter(t)
	ctx := context.Background()

	category := model.Category{Name: "c1"}
	require.NoError(t, fc.DAOs.Categories.Persist(ctx, &category))
	resource := model.Resource{Name: "r1", Creation: time.Now(), CategoryID: category.ID}
	require.NoError(t, fc.DAOs.Resources.Persist(ctx, &resource))

	// swap in a plan that purges categories while resources still point at them
	engine, err := teardown.NewEngine(teardown.NewPlan().
		Add(teardown.For[model.Category](teardown.Category, fc.DAOs.Categories)))
	require.NoError(t, err)
	fc.Engine = engine

	code, body := do(t, r, http.MethodPost, "/api/fixture/purge")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, teardown.Category, body["entity"])
	assert.Equal(t, float64(category.ID), body["id"])
}

func TestPoolEndpoint(t *testing.T) {
	r, _ := setupRouter(t)
	code, body := do(t, r, http.MethodGet, "/api/fixture/pool")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body["pool"], "capacity")
}
