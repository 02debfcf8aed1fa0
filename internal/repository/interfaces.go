// Package repository provides read access to the web_queries table.
package repository

import (
	"context"

	"github.com/ragdash/dashboard-api/internal/models"
)

// QueryLogStore hands out one QueryLogReader per request.
type QueryLogStore interface {
	// Open acquires a dedicated connection. The caller must Close the
	// returned reader on every path.
	Open(ctx context.Context) (QueryLogReader, error)
}

// QueryLogReader runs every statement of one request on a single
// connection.
type QueryLogReader interface {
	PersonStats(ctx context.Context) ([]models.PersonStat, error)
	TeamStats(ctx context.Context) ([]models.TeamStat, error)
	ModelStats(ctx context.Context) ([]models.ModelStat, error)
	DistinctPersons(ctx context.Context) ([]string, error)
	DistinctTeams(ctx context.Context) ([]string, error)
	// List returns one page of records matching filter plus the total
	// number of matches ignoring limit and offset.
	List(ctx context.Context, filter QueryLogFilter, limit, offset int) ([]*models.QueryLogRecord, int64, error)
	// GetByID returns sql.ErrNoRows when no record has the given id.
	GetByID(ctx context.Context, id string) (*models.QueryLogRecord, error)
	TrustAnalytics(ctx context.Context, days int) (*models.TrustAnalytics, error)
	Close() error
}
