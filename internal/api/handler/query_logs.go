package handler

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ragdash/dashboard-api/internal/apperr"
	"github.com/ragdash/dashboard-api/internal/models"
	"github.com/ragdash/dashboard-api/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultLogLimit  = 100
	defaultLogOffset = 0
)

// QueryLogs returns one page of query logs, newest first.
// GET /query-logs?limit=100&offset=0&person=...&team=...&start_date=...&end_date=...
func (h *DashboardHandler) QueryLogs(c *gin.Context) (any, error) {
	values := c.Request.URL.Query()

	limit, err := intParam(values, "limit", defaultLogLimit)
	if err != nil {
		return nil, err
	}
	offset, err := intParam(values, "offset", defaultLogOffset)
	if err != nil {
		return nil, err
	}

	filter := repository.QueryLogFilter{
		Person:    optionalParam(values, "person"),
		Team:      optionalParam(values, "team"),
		StartDate: optionalParam(values, "start_date"),
		EndDate:   optionalParam(values, "end_date"),
	}

	return h.withSession(c, func(r repository.QueryLogReader) (any, error) {
		records, total, err := r.List(c.Request.Context(), filter, limit, offset)
		if err != nil {
			return nil, err
		}

		data := make([]models.QueryLogListItem, 0, len(records))
		for _, rec := range records {
			data = append(data, models.NewQueryLogListItem(rec))
		}

		h.logger.Debug("Listed query logs",
			zap.Int("returned", len(data)),
			zap.Int64("total", total),
		)

		return models.QueryLogPage{
			Data:   data,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		}, nil
	})
}

// QueryLogDetail returns a single query log. The id is the last segment
// of the path.
// GET /query-logs/{id}
func (h *DashboardHandler) QueryLogDetail(c *gin.Context) (any, error) {
	id := lastSegment(c.Request.URL.Path)

	return h.withSession(c, func(r repository.QueryLogReader) (any, error) {
		rec, err := r.GetByID(c.Request.Context(), id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Query log not found")
		}
		if err != nil {
			return nil, err
		}
		return models.NewQueryLogDetail(rec), nil
	})
}

func lastSegment(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}
