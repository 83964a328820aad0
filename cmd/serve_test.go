package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/discovery-funnel/internal/config"
	"github.com/sells-group/discovery-funnel/internal/model"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

type stubStore struct {
	products []model.CandidateProduct
	listErr  error
	pingErr  error
}

func (s *stubStore) ListProducts(context.Context) ([]model.CandidateProduct, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.products, nil
}

func (s *stubStore) ListProductsByCategory(_ context.Context, category string) ([]model.CandidateProduct, error) {
	var out []model.CandidateProduct
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubStore) GetProduct(context.Context, int64) (*model.CandidateProduct, error) {
	return nil, nil
}

func (s *stubStore) InsertProducts(_ context.Context, products []model.CandidateProduct) (int64, error) {
	return int64(len(products)), nil
}

func (s *stubStore) Ping(context.Context) error    { return s.pingErr }
func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

type stubICE struct {
	replies []*ice.GenerateResponse
	err     error
}

func (s *stubICE) Generate(context.Context, string, string) (*ice.GenerateResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return &ice.GenerateResponse{}, nil
	}
	resp := s.replies[0]
	s.replies = s.replies[1:]
	return resp, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{APIKey: "secret"},
		ICE:    config.ICEConfig{Model: "gpt-4", ProbeModel: "gpt-3.5-turbo"},
	}
}

func TestRouter_HealthNoAuth(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{}, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestRouter_AuthRequired(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{}, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discovery/status", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_AuthWrongKey(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/discovery/status", nil)
	req.Header.Set("x-api-key", "wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_AuthBearerPrefix(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{replies: []*ice.GenerateResponse{{Content: "pong"}}}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/discovery/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthServerKeyUnset(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKey = ""
	handler := newRouter(&stubStore{}, &stubICE{}, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/discovery/status", nil)
	req.Header.Set("x-api-key", "anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_WorkflowSuccess(t *testing.T) {
	st := &stubStore{products: []model.CandidateProduct{
		{ID: 1, Name: "Vase", Description: "decor piece", Price: 12},
	}}
	client := &stubICE{replies: []*ice.GenerateResponse{
		{Content: `[{"category": "Home Decor", "demand_score": 7, "reason": "r"}]`},
		{Content: `[{"demand_score": 8, "feasibility_score": 7, "competition_score": 3, "profit_score": 6, "overall_score": 7, "recommendation": "go"}]`},
	}}
	handler := newRouter(st, client, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/discovery/workflow", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result model.WorkflowResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Summary.TotalProducts)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 1, result.Recommendations[0].Ranking)
}

func TestRouter_WorkflowEmptyStoreFails(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{replies: []*ice.GenerateResponse{
		{Content: `[{"category": "Toys", "demand_score": 9, "reason": "r"}]`},
	}}, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/discovery/workflow", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Discovery Workflow Failed", body["error"])
}

func TestRouter_ProductsByCategory(t *testing.T) {
	st := &stubStore{products: []model.CandidateProduct{
		{ID: 1, Name: "Vase", Category: "decor"},
		{ID: 2, Name: "Wrench", Category: "tools"},
	}}
	handler := newRouter(st, &stubICE{}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/discovery/products/decor", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success  bool                     `json:"success"`
		Category string                   `json:"category"`
		Count    int                      `json:"count"`
		Products []model.CandidateProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "decor", body.Category)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Products, 1)
	assert.Equal(t, int64(1), body.Products[0].ID)
}

func TestRouter_StatusDegraded(t *testing.T) {
	handler := newRouter(&stubStore{pingErr: errors.New("down")}, &stubICE{err: errors.New("down")}, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/discovery/status", nil)
	req.Header.Set("x-api-key", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
}

func TestRouter_NotFound(t *testing.T) {
	handler := newRouter(&stubStore{}, &stubICE{}, testConfig())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
