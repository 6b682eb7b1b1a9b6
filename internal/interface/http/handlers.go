// Package http exposes the ranking read API over REST.
package http

import (
	"context"
	"net/http"

	"github.com/quizhive/quizhive-rankings/internal/application/query"
	"github.com/quizhive/quizhive-rankings/internal/domain/identity"
	"github.com/quizhive/quizhive-rankings/internal/domain/shared"
	"github.com/quizhive/quizhive-rankings/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "QuizHive Community Rankings API",
		"version":     "v1",
		"description": "Read-side ranking engine for the QuizHive quiz community",
		"endpoints": map[string]string{
			"health":   "/health",
			"rankings": "/api/v1/rankings",
			"accuracy": "/api/v1/rankings/accuracy",
			"streaks":  "/api/v1/rankings/streaks",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// requesterID extracts and validates the optional requester identity header.
// An absent or malformed header means an anonymous view, not an error.
func requesterID(r *http.Request) string {
	id := shared.UserID(r.Header.Get("X-User-ID"))
	if !id.IsValid() {
		return ""
	}
	return id.String()
}

// requesterProfile extracts the session-known profile of the requester.
// Used for the self row only; other rows resolve through the rosters.
func requesterProfile(r *http.Request) identity.LocalProfile {
	return identity.LocalProfile{
		FullName: r.Header.Get("X-Profile-Name"),
		Email:    r.Header.Get("X-Profile-Email"),
	}
}

// queryContext applies the configured aggregation deadline, if any.
func (s *Server) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.config.QueryDeadline > 0 {
		return context.WithTimeout(r.Context(), s.config.QueryDeadline)
	}
	return r.Context(), func() {}
}

// handleGetRankings handles GET /api/v1/rankings?mode=accuracy|streak
// and dispatches to the mode-specific handler.
func (s *Server) handleGetRankings(w http.ResponseWriter, r *http.Request) {
	mode := query.Mode(getQueryParam(r, "mode", query.ModeAccuracy.String()))
	switch mode {
	case query.ModeAccuracy:
		s.handleGetAccuracyRanking(w, r)
	case query.ModeStreak:
		s.handleGetStreakRanking(w, r)
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Unknown ranking mode: "+mode.String())
	}
}

// handleGetAccuracyRanking handles GET /api/v1/rankings/accuracy?period=today
func (s *Server) handleGetAccuracyRanking(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetAccuracyRankingHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Accuracy ranking handler not configured")
		return
	}

	q := query.GetAccuracyRankingQuery{
		RequesterID:  requesterID(r),
		Period:       getQueryParam(r, "period", "today"),
		Limit:        getQueryParamInt(r, "limit", s.config.AccuracyLimit),
		MinQuestions: s.config.MinQuestions,
		Profile:      requesterProfile(r),
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	view, err := s.deps.GetAccuracyRankingHandler.Handle(ctx, q)
	if err != nil {
		if shared.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("failed to get accuracy ranking", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get accuracy ranking")
		return
	}

	writeJSONWithRequestID(w, r, http.StatusOK, view)
}

// handleGetStreakRanking handles GET /api/v1/rankings/streaks
func (s *Server) handleGetStreakRanking(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetStreakRankingHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Streak ranking handler not configured")
		return
	}

	q := query.GetStreakRankingQuery{
		RequesterID: requesterID(r),
		MinStreak:   s.config.MinStreak,
		Limit:       getQueryParamInt(r, "limit", s.config.StreakLimit),
		Profile:     requesterProfile(r),
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	view, err := s.deps.GetStreakRankingHandler.Handle(ctx, q)
	if err != nil {
		if shared.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("failed to get streak ranking", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get streak ranking")
		return
	}

	writeJSONWithRequestID(w, r, http.StatusOK, view)
}
