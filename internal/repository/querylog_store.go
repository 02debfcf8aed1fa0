package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ragdash/dashboard-api/internal/database"
	"go.uber.org/zap"
)

// SQLQueryLogStore opens sessions against a *sql.DB.
type SQLQueryLogStore struct {
	db      *sql.DB
	dialect database.Dialect
	logger  *zap.Logger
	now     func() time.Time
}

// StoreOption configures a SQLQueryLogStore.
type StoreOption func(*SQLQueryLogStore)

// WithClock overrides the time source used for trust analytics windows.
func WithClock(now func() time.Time) StoreOption {
	return func(s *SQLQueryLogStore) {
		s.now = now
	}
}

// NewQueryLogStore creates a new SQLQueryLogStore.
func NewQueryLogStore(db *sql.DB, dialect database.Dialect, logger *zap.Logger, opts ...StoreOption) *SQLQueryLogStore {
	s := &SQLQueryLogStore{
		db:      db,
		dialect: dialect,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open pins one connection from the pool for the lifetime of a request.
func (s *SQLQueryLogStore) Open(ctx context.Context) (QueryLogReader, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &QueryLogSession{
		conn:    conn,
		dialect: s.dialect,
		logger:  s.logger,
		now:     s.now,
	}, nil
}

// QueryLogSession is a QueryLogReader bound to one connection.
type QueryLogSession struct {
	conn    *sql.Conn
	dialect database.Dialect
	logger  *zap.Logger
	now     func() time.Time
}

// Close releases the connection.
func (s *QueryLogSession) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to release connection: %w", err)
	}
	return nil
}
