package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ragdash/dashboard-api/internal/config"
)

// sqliteTimeLayout matches how created_at is stored as TEXT in SQLite.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Dialect captures the SQL differences between the supported drivers.
type Dialect interface {
	// Name returns the driver name.
	Name() string
	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string
	// Day returns an expression rendering column as YYYY-MM-DD text.
	Day(column string) string
	// TimeArg encodes t as a bind argument comparable with timestamp columns.
	TimeArg(t time.Time) any
	// SupportsPercentileCont reports whether PERCENTILE_CONT ... WITHIN GROUP is available.
	SupportsPercentileCont() bool
}

// Postgres is the PostgreSQL dialect.
var Postgres Dialect = postgresDialect{}

// SQLite is the SQLite dialect.
var SQLite Dialect = sqliteDialect{}

type postgresDialect struct{}

func (postgresDialect) Name() string { return config.DriverPostgres }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) Day(column string) string {
	return fmt.Sprintf("TO_CHAR(DATE(%s), 'YYYY-MM-DD')", column)
}

// TimeArg passes the time through; pgx encodes the wall clock for
// timestamp columns.
func (postgresDialect) TimeArg(t time.Time) any { return t }

func (postgresDialect) SupportsPercentileCont() bool { return true }

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return config.DriverSQLite }

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) Day(column string) string {
	return fmt.Sprintf("DATE(%s)", column)
}

func (sqliteDialect) TimeArg(t time.Time) any { return t.Format(sqliteTimeLayout) }

func (sqliteDialect) SupportsPercentileCont() bool { return false }

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverPostgres:
		return Postgres, nil
	case config.DriverSQLite:
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
