package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ragdash/dashboard-api/internal/models"
)

// recordColumns is the column list scanned by scanRecord, in order.
const recordColumns = `
	id, user_id, created_at, person_name, app_name, user_name,
	session_token, conversation_id_bedrock, query_text, llm_response,
	status, response_time_ms, tokens_input, tokens_output, tokens_total,
	confidence_score, llm_trust_category, tools_used, tool_results`

// PersonStats returns query count and mean latency per person, busiest first.
func (s *QueryLogSession) PersonStats(ctx context.Context) ([]models.PersonStat, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT person_name, COUNT(*) AS count, AVG(response_time_ms) AS avg_response_time
		FROM web_queries
		WHERE person_name IS NOT NULL
		GROUP BY person_name
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query person stats: %w", err)
	}
	defer rows.Close()

	stats := make([]models.PersonStat, 0)
	for rows.Next() {
		var st models.PersonStat
		var avg sql.NullFloat64
		if err := rows.Scan(&st.Person, &st.Count, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan person stats: %w", err)
		}
		st.AvgResponseTime = nullFloat(avg)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// TeamStats returns query count and mean latency per team, busiest first.
func (s *QueryLogSession) TeamStats(ctx context.Context) ([]models.TeamStat, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT app_name, COUNT(*) AS count, AVG(response_time_ms) AS avg_response_time
		FROM web_queries
		WHERE app_name IS NOT NULL
		GROUP BY app_name
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats: %w", err)
	}
	defer rows.Close()

	stats := make([]models.TeamStat, 0)
	for rows.Next() {
		var st models.TeamStat
		var avg sql.NullFloat64
		if err := rows.Scan(&st.Team, &st.Count, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		st.AvgResponseTime = nullFloat(avg)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// ModelStats returns a single row attributing every record to the
// default model.
func (s *QueryLogSession) ModelStats(ctx context.Context) ([]models.ModelStat, error) {
	var count int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM web_queries`).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}
	return []models.ModelStat{{ModelID: models.DefaultModelID, Count: count}}, nil
}

// DistinctPersons returns every non-null person name in ascending order.
func (s *QueryLogSession) DistinctPersons(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `
		SELECT DISTINCT person_name
		FROM web_queries
		WHERE person_name IS NOT NULL
		ORDER BY person_name
	`)
}

// DistinctTeams returns every non-null team name in ascending order.
func (s *QueryLogSession) DistinctTeams(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `
		SELECT DISTINCT app_name
		FROM web_queries
		WHERE app_name IS NOT NULL
		ORDER BY app_name
	`)
}

func (s *QueryLogSession) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct values: %w", err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// List retrieves records with filtering and pagination, newest first.
func (s *QueryLogSession) List(
	ctx context.Context,
	filter QueryLogFilter,
	limit, offset int,
) ([]*models.QueryLogRecord, int64, error) {
	where := listingWhere(s.dialect, filter)

	query := fmt.Sprintf(`
		SELECT %s
		FROM web_queries
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %s OFFSET %s
	`, recordColumns, where, where.next(1), where.next(2))

	params := append(append([]any(nil), where.args...), limit, offset)
	rows, err := s.conn.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	zoned := createdAtZoned(rows)
	records := make([]*models.QueryLogRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows, zoned)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate logs: %w", err)
	}
	rows.Close()

	// Count total with the same predicate, without the paging arguments.
	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM web_queries WHERE %s`, where)
	if err := s.conn.QueryRowContext(ctx, countQuery, where.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	return records, total, nil
}

// GetByID retrieves a single record.
func (s *QueryLogSession) GetByID(ctx context.Context, id string) (*models.QueryLogRecord, error) {
	where := newWhereBuilder(s.dialect).bind(idEquals, id)
	query := fmt.Sprintf(`
		SELECT %s, retrieved_docs_count
		FROM web_queries
		WHERE %s
	`, recordColumns, where)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query log by id: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to query log by id: %w", err)
		}
		return nil, sql.ErrNoRows
	}

	var docs sql.NullInt64
	rec, err := scanRecord(rows, createdAtZoned(rows), &docs)
	if err != nil {
		return nil, err
	}
	rec.RetrievedDocsCount = nullInt64(docs)
	return rec, nil
}

// createdAtZoned reports whether the driver describes created_at as a
// time zone aware column.
func createdAtZoned(rows *sql.Rows) bool {
	types, err := rows.ColumnTypes()
	if err != nil {
		return false
	}
	for _, ct := range types {
		if ct.Name() == "created_at" {
			return isZonedType(ct.DatabaseTypeName())
		}
	}
	return false
}

// scanRecord scans recordColumns followed by any extra destinations.
func scanRecord(rows *sql.Rows, zoned bool, extra ...any) (*models.QueryLogRecord, error) {
	var rec models.QueryLogRecord
	var (
		userID, createdAt, person, app, userName   sql.NullString
		session, conversation, queryText, response sql.NullString
		status, category                           sql.NullString
		responseTime, confidence                   sql.NullFloat64
		tokensIn, tokensOut, tokensTotal           sql.NullInt64
		toolsUsed, toolResults                     []byte
	)

	dest := []any{
		&rec.ID, &userID, &createdAt, &person, &app, &userName,
		&session, &conversation, &queryText, &response,
		&status, &responseTime, &tokensIn, &tokensOut, &tokensTotal,
		&confidence, &category, &toolsUsed, &toolResults,
	}
	dest = append(dest, extra...)

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("failed to scan log: %w", err)
	}

	rec.UserID = nullString(userID)
	rec.CreatedAtZoned = zoned
	if createdAt.Valid {
		if t, ok := parseFlexibleTime(createdAt.String); ok {
			rec.CreatedAt = &t
		}
	}
	rec.PersonName = nullString(person)
	rec.AppName = nullString(app)
	rec.UserName = nullString(userName)
	rec.SessionToken = nullString(session)
	rec.ConversationID = nullString(conversation)
	rec.QueryText = nullString(queryText)
	rec.LLMResponse = nullString(response)
	rec.Status = nullString(status)
	rec.ResponseTimeMs = nullFloat(responseTime)
	rec.TokensInput = nullInt64(tokensIn)
	rec.TokensOutput = nullInt64(tokensOut)
	rec.TokensTotal = nullInt64(tokensTotal)
	rec.ConfidenceScore = nullFloat(confidence)
	rec.TrustCategory = nullString(category)
	rec.ToolsUsed = toolsUsed
	rec.ToolResults = toolResults

	return &rec, nil
}
