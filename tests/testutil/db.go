// Package testutil provides test utilities and fixtures for the dashboard API.
package testutil

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// TimeLayout is the layout seeded created_at values use.
const TimeLayout = "2006-01-02 15:04:05"

// NewTestDB creates an in-memory SQLite database with the web_queries
// schema. The database is automatically closed when the test completes.
//
// The pool is capped at one connection so every session sees the same
// in-memory database. A test must close a session before seeding more rows.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, "TIMESTAMP")
}

// NewZonedTestDB is NewTestDB with created_at declared TIMESTAMPTZ.
func NewZonedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return newTestDB(t, "TIMESTAMPTZ")
}

func newTestDB(t *testing.T, createdAtType string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open test database")
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		db.Close()
	})

	err = createSchema(db, createdAtType)
	require.NoError(t, err, "failed to create schema")

	return db
}

// NewTestDBFile creates a SQLite database file with the web_queries
// schema under t.TempDir, seeds rows and returns its path. The seeding
// handle is closed before returning.
func NewTestDBFile(t *testing.T, rows ...QueryLogRow) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dashboard.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err, "failed to create test database file")
	defer db.Close()

	require.NoError(t, createSchema(db, "TIMESTAMP"), "failed to create schema")
	for _, row := range rows {
		InsertQueryLog(t, db, row)
	}
	return path
}

// createSchema creates the web_queries table as the logging service
// writes it.
func createSchema(db *sql.DB, createdAtType string) error {
	schema := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS web_queries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id TEXT,
    created_at %s,
    person_name TEXT,
    app_name TEXT,
    user_name TEXT,
    session_token TEXT,
    conversation_id_bedrock TEXT,
    query_text TEXT,
    llm_response TEXT,
    status TEXT,
    response_time_ms REAL,
    tokens_input INTEGER,
    tokens_output INTEGER,
    tokens_total INTEGER,
    confidence_score REAL,
    llm_trust_category TEXT,
    tools_used TEXT,
    tool_results TEXT,
    retrieved_docs_count INTEGER
);

CREATE INDEX IF NOT EXISTS idx_web_queries_created_at ON web_queries(created_at);
`, createdAtType)
	_, err := db.Exec(schema)
	return err
}

// QueryLogRow is one web_queries row to seed. Nil fields are stored as NULL.
type QueryLogRow struct {
	UserID             *string
	CreatedAt          time.Time
	PersonName         *string
	AppName            *string
	UserName           *string
	SessionToken       *string
	ConversationID     *string
	QueryText          *string
	LLMResponse        *string
	Status             *string
	ResponseTimeMs     *float64
	TokensInput        *int64
	TokensOutput       *int64
	TokensTotal        *int64
	ConfidenceScore    *float64
	TrustCategory      *string
	ToolsUsed          *string
	ToolResults        *string
	RetrievedDocsCount *int64
}

// InsertQueryLog stores row and returns its id. A zero CreatedAt is
// stored as NULL.
func InsertQueryLog(t *testing.T, db *sql.DB, row QueryLogRow) int64 {
	t.Helper()

	var createdAt any
	if !row.CreatedAt.IsZero() {
		createdAt = row.CreatedAt.Format(TimeLayout)
	}

	res, err := db.Exec(`
		INSERT INTO web_queries (
			user_id, created_at, person_name, app_name, user_name,
			session_token, conversation_id_bedrock, query_text, llm_response,
			status, response_time_ms, tokens_input, tokens_output, tokens_total,
			confidence_score, llm_trust_category, tools_used, tool_results,
			retrieved_docs_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		row.UserID, createdAt, row.PersonName, row.AppName, row.UserName,
		row.SessionToken, row.ConversationID, row.QueryText, row.LLMResponse,
		row.Status, row.ResponseTimeMs, row.TokensInput, row.TokensOutput, row.TokensTotal,
		row.ConfidenceScore, row.TrustCategory, row.ToolsUsed, row.ToolResults,
		row.RetrievedDocsCount,
	)
	require.NoError(t, err, "failed to insert query log")

	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// ScoredQuery returns a fully attributed row with a confidence score and
// trust category.
func ScoredQuery(person, team string, createdAt time.Time, score float64, category string) QueryLogRow {
	return QueryLogRow{
		UserID:          Ptr("user-" + person),
		CreatedAt:       createdAt,
		PersonName:      Ptr(person),
		AppName:         Ptr(team),
		QueryText:       Ptr("question from " + person),
		LLMResponse:     Ptr("answer"),
		ResponseTimeMs:  Ptr(1000.0),
		TokensTotal:     Ptr(int64(100)),
		ConfidenceScore: Ptr(score),
		TrustCategory:   Ptr(category),
	}
}
