package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ragdash/dashboard-api/internal/models"
	"go.uber.org/zap"
)

// p80 is the percentile reported by the trust indicators.
const p80 = 0.8

// TrustAnalytics computes the trust indicators, tables and charts over
// the last days days. All statements run on the session connection, in
// order.
func (s *QueryLogSession) TrustAnalytics(ctx context.Context, days int) (*models.TrustAnalytics, error) {
	now := s.now()
	start := now.AddDate(0, 0, -days)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	s.logger.Debug("Computing trust analytics",
		zap.Int("days", days),
		zap.Time("start", start),
		zap.Time("today_start", todayStart),
	)

	today, err := s.trustWindow(ctx, todayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute today indicators: %w", err)
	}
	period, err := s.trustWindow(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to compute period indicators: %w", err)
	}

	byTeamDay, err := s.teamDayTrust(ctx, start, "team, date")
	if err != nil {
		return nil, err
	}
	byTypology, err := s.typologyTrust(ctx, start)
	if err != nil {
		return nil, err
	}
	distribution, err := s.trustDistribution(ctx, start)
	if err != nil {
		return nil, err
	}
	evolution, err := s.teamDayTrust(ctx, start, "date, team")
	if err != nil {
		return nil, err
	}
	levels, err := s.trustLevels(ctx, start)
	if err != nil {
		return nil, err
	}

	return &models.TrustAnalytics{
		Indicators: models.NewTrustIndicators(*today, *period),
		Tables: models.TrustTables{
			TrustByTeamDay:  byTeamDay,
			TrustByTypology: byTypology,
		},
		Charts: models.TrustCharts{
			TrustDistribution:    distribution,
			TrustEvolutionByTeam: evolution,
			TrustLevelsEvolution: levels,
		},
	}, nil
}

// trustWindow returns the average, p80 and high confidence rate of all
// scored records created at or after from.
func (s *QueryLogSession) trustWindow(ctx context.Context, from time.Time) (*models.TrustWindowStats, error) {
	where := newWhereBuilder(s.dialect).bind(createdFrom, s.dialect.TimeArg(from))
	where.conditions = append(where.conditions, confidenceSet)

	percentile := ""
	if s.dialect.SupportsPercentileCont() {
		percentile = fmt.Sprintf(", PERCENTILE_CONT(%v) WITHIN GROUP (ORDER BY confidence_score) AS p80_trust", p80)
	}

	query := fmt.Sprintf(`
		SELECT
			AVG(confidence_score) AS avg_trust,
			COUNT(CASE WHEN llm_trust_category = 'high' THEN 1 END) * 100.0 / NULLIF(COUNT(*), 0) AS high_rate
			%s
		FROM web_queries
		WHERE %s
	`, percentile, where)

	var avg, highRate, p80Trust sql.NullFloat64
	dest := []any{&avg, &highRate}
	if s.dialect.SupportsPercentileCont() {
		dest = append(dest, &p80Trust)
	}
	if err := s.conn.QueryRowContext(ctx, query, where.args...).Scan(dest...); err != nil {
		return nil, err
	}

	stats := &models.TrustWindowStats{
		AvgTrust: nullFloat(avg),
		HighRate: nullFloat(highRate),
		P80Trust: nullFloat(p80Trust),
	}

	if !s.dialect.SupportsPercentileCont() {
		scores, err := s.sortedScores(ctx, where)
		if err != nil {
			return nil, err
		}
		if len(scores) > 0 {
			v := PercentileCont(scores, p80)
			stats.P80Trust = &v
		}
	}

	return stats, nil
}

// sortedScores loads the confidence scores matching where in ascending order.
func (s *QueryLogSession) sortedScores(ctx context.Context, where *whereBuilder) ([]float64, error) {
	query := fmt.Sprintf(`
		SELECT confidence_score
		FROM web_queries
		WHERE %s
		ORDER BY confidence_score
	`, where)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load confidence scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan confidence score: %w", err)
		}
		scores = append(scores, v)
	}
	return scores, rows.Err()
}

// teamDayTrust returns the mean confidence per team and day, ordered by
// orderBy (either "team, date" or "date, team").
func (s *QueryLogSession) teamDayTrust(ctx context.Context, from time.Time, orderBy string) ([]models.TeamDayTrust, error) {
	where := newWhereBuilder(s.dialect).bind(createdFrom, s.dialect.TimeArg(from))
	where.conditions = append(where.conditions, teamNotNull, confidenceSet)

	day := s.dialect.Day("created_at")
	query := fmt.Sprintf(`
		SELECT app_name AS team, %s AS date, AVG(confidence_score) AS avg_trust
		FROM web_queries
		WHERE %s
		GROUP BY app_name, %s
		ORDER BY %s
	`, day, where, day, orderBy)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trust by team and day: %w", err)
	}
	defer rows.Close()

	result := make([]models.TeamDayTrust, 0)
	for rows.Next() {
		var r models.TeamDayTrust
		if err := rows.Scan(&r.Team, &r.Date, &r.AvgTrust); err != nil {
			return nil, fmt.Errorf("failed to scan trust by team and day: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// typologyTrust summarizes scored records per trust category, highest
// average first. Records without a category are grouped as unknown.
func (s *QueryLogSession) typologyTrust(ctx context.Context, from time.Time) ([]models.TypologyTrust, error) {
	where := newWhereBuilder(s.dialect).bind(createdFrom, s.dialect.TimeArg(from))
	where.conditions = append(where.conditions, confidenceSet)

	query := fmt.Sprintf(`
		SELECT
			COALESCE(llm_trust_category, '%s') AS strategy_type,
			AVG(confidence_score) AS avg_trust,
			COUNT(*) AS query_count,
			MIN(confidence_score) AS min_trust,
			MAX(confidence_score) AS max_trust
		FROM web_queries
		WHERE %s
		GROUP BY llm_trust_category
		ORDER BY avg_trust DESC
	`, models.TrustUnknown, where)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trust by typology: %w", err)
	}
	defer rows.Close()

	result := make([]models.TypologyTrust, 0)
	for rows.Next() {
		var r models.TypologyTrust
		if err := rows.Scan(&r.StrategyType, &r.AvgTrust, &r.QueryCount, &r.MinTrust, &r.MaxTrust); err != nil {
			return nil, fmt.Errorf("failed to scan trust by typology: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// trustDistribution counts categorized records per category.
func (s *QueryLogSession) trustDistribution(ctx context.Context, from time.Time) (map[string]int64, error) {
	where := newWhereBuilder(s.dialect).bind(createdFrom, s.dialect.TimeArg(from))
	where.conditions = append(where.conditions, categoryNotNull)

	query := fmt.Sprintf(`
		SELECT llm_trust_category AS category, COUNT(*) AS count
		FROM web_queries
		WHERE %s
		GROUP BY llm_trust_category
	`, where)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trust distribution: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var category string
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan trust distribution: %w", err)
		}
		result[category] = count
	}
	return result, rows.Err()
}

// trustLevels counts categorized records per day and category.
func (s *QueryLogSession) trustLevels(ctx context.Context, from time.Time) ([]models.TrustLevelCount, error) {
	where := newWhereBuilder(s.dialect).bind(createdFrom, s.dialect.TimeArg(from))
	where.conditions = append(where.conditions, categoryNotNull)

	day := s.dialect.Day("created_at")
	query := fmt.Sprintf(`
		SELECT %s AS date, llm_trust_category AS level, COUNT(*) AS count
		FROM web_queries
		WHERE %s
		GROUP BY %s, llm_trust_category
		ORDER BY date, level
	`, day, where, day)

	rows, err := s.conn.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trust levels: %w", err)
	}
	defer rows.Close()

	result := make([]models.TrustLevelCount, 0)
	for rows.Next() {
		var r models.TrustLevelCount
		if err := rows.Scan(&r.Date, &r.Level, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan trust levels: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
