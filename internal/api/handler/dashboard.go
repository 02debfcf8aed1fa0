package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/apperr"
	"github.com/ragdash/dashboard-api/internal/models"
	"github.com/ragdash/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardHandler serves the read-only reporting endpoints.
type DashboardHandler struct {
	store  repository.QueryLogStore
	logger *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(store repository.QueryLogStore, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{store: store, logger: logger}
}

// withSession runs fn on a dedicated session and releases it on every
// path. Errors from fn that are not already classified are reported as
// database errors.
func (h *DashboardHandler) withSession(c *gin.Context, fn func(r repository.QueryLogReader) (any, error)) (any, error) {
	session, err := h.store.Open(c.Request.Context())
	if err != nil {
		return nil, apperr.Database(err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			h.logger.Warn("Failed to release session", zap.Error(err))
		}
	}()

	body, err := fn(session)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Database(err)
	}
	return body, nil
}

// Analytics returns per-person, per-team and per-model usage.
// GET /analytics
func (h *DashboardHandler) Analytics(c *gin.Context) (any, error) {
	return h.withSession(c, func(r repository.QueryLogReader) (any, error) {
		ctx := c.Request.Context()

		persons, err := r.PersonStats(ctx)
		if err != nil {
			return nil, err
		}
		teams, err := r.TeamStats(ctx)
		if err != nil {
			return nil, err
		}
		modelStats, err := r.ModelStats(ctx)
		if err != nil {
			return nil, err
		}

		return models.AnalyticsSummary{
			PersonStats: persons,
			TeamStats:   teams,
			ModelStats:  modelStats,
		}, nil
	})
}

// Filters returns the values offered by the dashboard pickers.
// GET /filters
func (h *DashboardHandler) Filters(c *gin.Context) (any, error) {
	return h.withSession(c, func(r repository.QueryLogReader) (any, error) {
		ctx := c.Request.Context()

		persons, err := r.DistinctPersons(ctx)
		if err != nil {
			return nil, err
		}
		teams, err := r.DistinctTeams(ctx)
		if err != nil {
			return nil, err
		}

		return models.FilterOptions{
			Persons: persons,
			Teams:   teams,
			Models:  []string{models.DefaultModelID},
		}, nil
	})
}
