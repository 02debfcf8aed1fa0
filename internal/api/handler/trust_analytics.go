package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/repository"
)

const defaultTrustDays = 7

// TrustAnalytics returns trust indicators, tables and charts.
// GET /trust-analytics?days=7
func (h *DashboardHandler) TrustAnalytics(c *gin.Context) (any, error) {
	days, err := intParam(c.Request.URL.Query(), "days", defaultTrustDays)
	if err != nil {
		return nil, err
	}

	return h.withSession(c, func(r repository.QueryLogReader) (any, error) {
		return r.TrustAnalytics(c.Request.Context(), days)
	})
}
