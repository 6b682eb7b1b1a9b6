package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizhive/quizhive-rankings/internal/application/query"
	"github.com/quizhive/quizhive-rankings/internal/domain/ranking"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/internal/domain/streak"
)

type stubRankingRepo struct {
	stats []ranking.WindowedStats
}

func (s *stubRankingRepo) GetRankingForPeriod(_ context.Context, _ ranking.TimeWindow, _, _ int) ([]ranking.WindowedStats, error) {
	return s.stats, nil
}

func (s *stubRankingRepo) GetUserRankingPosition(_ context.Context, _ shared.UserID, _ ranking.TimeWindow, _ int) (*ranking.UserPosition, error) {
	return nil, nil
}

func (s *stubRankingRepo) GetEligibleCount(_ context.Context, _ ranking.TimeWindow, _ int) (int, error) {
	return len(s.stats), nil
}

type stubStreakStore struct {
	counters []streak.Counter
}

func (s *stubStreakStore) TopStreaks(_ context.Context, _, _ int) ([]streak.Counter, error) {
	return s.counters, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo := &stubRankingRepo{stats: []ranking.WindowedStats{
		ranking.NewWindowedStats("11111111-1111-4111-8111-111111111111", 10, 9),
	}}
	store := &stubStreakStore{counters: []streak.Counter{
		{UserID: "22222222-2222-4222-8222-222222222222", CurrentStreak: 7},
	}}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // no throttling in tests

	return NewServer(cfg, Dependencies{
		GetAccuracyRankingHandler: query.NewGetAccuracyRankingHandler(repo, nil, nil),
		GetStreakRankingHandler:   query.NewGetStreakRankingHandler(store, nil, nil),
	})
}

func doRequest(t *testing.T, s *Server, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestServer_HealthWithoutChecker(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GetAccuracyRanking(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/v1/rankings/accuracy?period=today", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_GetRankingsDispatch(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/rankings?mode=streak", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/rankings?mode=accuracy&period=week", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/v1/rankings?mode=elo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_InvalidPeriodRejected(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/v1/rankings/accuracy?period=decade", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_request", resp.Error.Code)
}

func TestServer_MalformedUserIDTreatedAsAnonymous(t *testing.T) {
	rec := doRequest(t, newTestServer(t), http.MethodGet, "/api/v1/rankings/accuracy?period=today", map[string]string{
		"X-User-ID": "definitely-not-a-uuid",
	})

	// A malformed identity header downgrades to anonymous, not an error.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_NotImplementedWithoutHandlers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	s := NewServer(cfg, Dependencies{})

	rec := doRequest(t, s, http.MethodGet, "/api/v1/rankings/accuracy", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
