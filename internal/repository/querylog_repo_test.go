//go:build !integration && !e2e
// +build !integration,!e2e

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/ragdash/dashboard-api/internal/database"
	"github.com/ragdash/dashboard-api/internal/models"
	"github.com/ragdash/dashboard-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var day = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func openSession(t *testing.T, db *sql.DB) QueryLogReader {
	t.Helper()
	store := NewQueryLogStore(db, database.SQLite, zap.NewNop())
	session, err := store.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func seedAnalytics(t *testing.T, db *sql.DB) {
	t.Helper()
	for i := 0; i < 3; i++ {
		row := testutil.ScoredQuery("Ana", "finance", day.Add(time.Duration(i)*time.Hour), 80, "high")
		row.ResponseTimeMs = testutil.Ptr(float64(100 * (i + 1)))
		testutil.InsertQueryLog(t, db, row)
	}
	for i := 0; i < 2; i++ {
		row := testutil.ScoredQuery("Luis", "hr", day.Add(time.Duration(i)*time.Minute), 50, "medium")
		row.ResponseTimeMs = nil
		testutil.InsertQueryLog(t, db, row)
	}
	testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Marta", "finance", day, 40, "low"))
	// Anonymous row with no team.
	testutil.InsertQueryLog(t, db, testutil.QueryLogRow{CreatedAt: day})
}

func TestQueryLogSession_PersonStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedAnalytics(t, db)
	session := openSession(t, db)

	stats, err := session.PersonStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, "Ana", stats[0].Person)
	assert.Equal(t, int64(3), stats[0].Count)
	require.NotNil(t, stats[0].AvgResponseTime)
	assert.InDelta(t, 200.0, *stats[0].AvgResponseTime, 1e-9)

	assert.Equal(t, "Luis", stats[1].Person)
	assert.Equal(t, int64(2), stats[1].Count)
	assert.Nil(t, stats[1].AvgResponseTime, "AVG over only NULLs stays null")

	assert.Equal(t, "Marta", stats[2].Person)
}

func TestQueryLogSession_TeamStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedAnalytics(t, db)
	session := openSession(t, db)

	stats, err := session.TeamStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "finance", stats[0].Team)
	assert.Equal(t, int64(4), stats[0].Count)
	assert.Equal(t, "hr", stats[1].Team)
	assert.Equal(t, int64(2), stats[1].Count)
}

func TestQueryLogSession_ModelStats(t *testing.T) {
	db := testutil.NewTestDB(t)
	session := openSession(t, db)

	stats, err := session.ModelStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ModelStat{{ModelID: models.DefaultModelID, Count: 0}}, stats)
	session.Close()

	seedAnalytics(t, db)
	session = openSession(t, db)
	stats, err = session.ModelStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.ModelStat{{ModelID: "claude-3-haiku", Count: 7}}, stats)
}

func TestQueryLogSession_EmptyTable(t *testing.T) {
	db := testutil.NewTestDB(t)
	session := openSession(t, db)
	ctx := context.Background()

	persons, err := session.PersonStats(ctx)
	require.NoError(t, err)
	assert.NotNil(t, persons)
	assert.Empty(t, persons)

	names, err := session.DistinctPersons(ctx)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestQueryLogSession_Distinct(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedAnalytics(t, db)
	session := openSession(t, db)
	ctx := context.Background()

	persons, err := session.DistinctPersons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Luis", "Marta"}, persons)

	teams, err := session.DistinctTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "hr"}, teams)
}

func seedListing(t *testing.T, db *sql.DB) []int64 {
	t.Helper()
	ids := []int64{
		testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Ana", "finance", day.Add(-48*time.Hour+8*time.Hour), 90, "high")),
		testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Ana", "hr", day.Add(-24*time.Hour+8*time.Hour), 60, "medium")),
		testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Luis", "finance", day.Add(9*time.Hour), 30, "low")),
		testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Luis", "hr", day.Add(10*time.Hour), 75, "weird")),
	}

	// Excluded from the listing: missing person, team or category.
	noPerson := testutil.ScoredQuery("x", "finance", day, 50, "high")
	noPerson.PersonName = nil
	testutil.InsertQueryLog(t, db, noPerson)
	noTeam := testutil.ScoredQuery("Ana", "x", day, 50, "high")
	noTeam.AppName = nil
	testutil.InsertQueryLog(t, db, noTeam)
	noCategory := testutil.ScoredQuery("Ana", "finance", day, 50, "x")
	noCategory.TrustCategory = nil
	testutil.InsertQueryLog(t, db, noCategory)

	return ids
}

func TestQueryLogSession_List(t *testing.T) {
	db := testutil.NewTestDB(t)
	ids := seedListing(t, db)
	session := openSession(t, db)

	tests := []struct {
		name      string
		filter    QueryLogFilter
		limit     int
		offset    int
		wantIDs   []int64
		wantTotal int64
	}{
		{"all", QueryLogFilter{}, 100, 0, []int64{ids[3], ids[2], ids[1], ids[0]}, 4},
		{"first page", QueryLogFilter{}, 2, 0, []int64{ids[3], ids[2]}, 4},
		{"second page", QueryLogFilter{}, 2, 2, []int64{ids[1], ids[0]}, 4},
		{"past end", QueryLogFilter{}, 2, 10, []int64{}, 4},
		{"zero limit", QueryLogFilter{}, 0, 0, []int64{}, 4},
		{"person", QueryLogFilter{Person: testutil.Ptr("Ana")}, 100, 0, []int64{ids[1], ids[0]}, 2},
		{"person and team", QueryLogFilter{Person: testutil.Ptr("Luis"), Team: testutil.Ptr("hr")}, 100, 0, []int64{ids[3]}, 1},
		{"start date", QueryLogFilter{StartDate: testutil.Ptr("2026-10-18")}, 100, 0, []int64{ids[3], ids[2], ids[1]}, 3},
		{"end date excludes the day itself", QueryLogFilter{EndDate: testutil.Ptr("2026-10-18")}, 100, 0, []int64{ids[0]}, 1},
		{"unknown person", QueryLogFilter{Person: testutil.Ptr("Nobody")}, 100, 0, []int64{}, 0},
		{"injection is bound", QueryLogFilter{Person: testutil.Ptr("' OR '1'='1")}, 100, 0, []int64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total, err := session.List(context.Background(), tt.filter, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)

			got := make([]int64, 0, len(records))
			for _, r := range records {
				id, err := strconv.ParseInt(r.ID, 10, 64)
				require.NoError(t, err)
				got = append(got, id)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestQueryLogSession_List_RecordFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	row := testutil.ScoredQuery("Ana", "finance", time.Date(2026, 10, 19, 9, 30, 15, 0, time.UTC), 87.5, "high")
	row.ToolsUsed = testutil.Ptr(`["search","calculator"]`)
	row.TokensInput = testutil.Ptr(int64(60))
	row.TokensOutput = testutil.Ptr(int64(40))
	row.RetrievedDocsCount = testutil.Ptr(int64(4))
	testutil.InsertQueryLog(t, db, row)
	session := openSession(t, db)

	records, total, err := session.List(context.Background(), QueryLogFilter{}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "user-Ana", *rec.UserID)
	require.NotNil(t, rec.CreatedAt)
	assert.Equal(t, "2026-10-19T09:30:15", *models.FormatTimestamp(rec.CreatedAt))
	assert.Equal(t, 87.5, *rec.ConfidenceScore)
	assert.Equal(t, "high", *rec.TrustCategory)
	assert.Equal(t, int64(60), *rec.TokensInput)
	assert.JSONEq(t, `["search","calculator"]`, string(rec.ToolsUsed))
	assert.Nil(t, rec.ToolResults)
	assert.Nil(t, rec.Status)
	assert.Nil(t, rec.RetrievedDocsCount, "the listing does not read retrieved_docs_count")
	assert.False(t, rec.CreatedAtZoned)
}

func TestQueryLogSession_ZonedCreatedAt(t *testing.T) {
	db := testutil.NewZonedTestDB(t)
	id := testutil.InsertQueryLog(t, db, testutil.ScoredQuery("Ana", "finance", time.Time{}, 90, "high"))
	_, err := db.Exec(`UPDATE web_queries SET created_at = '2026-10-19 09:30:15+02:00' WHERE id = ?`, id)
	require.NoError(t, err)
	session := openSession(t, db)

	records, _, err := session.List(context.Background(), QueryLogFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].CreatedAtZoned)
	assert.Equal(t, "2026-10-19T09:30:15+02:00", *models.NewQueryLogListItem(records[0]).RequestTimestamp)

	rec, err := session.GetByID(context.Background(), strconv.FormatInt(id, 10))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19T09:30:15+02:00", *models.NewQueryLogDetail(rec).RequestTimestamp)
}

func TestQueryLogSession_GetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	row := testutil.ScoredQuery("Ana", "finance", day, 87.5, "low")
	row.RetrievedDocsCount = testutil.Ptr(int64(4))
	row.Status = testutil.Ptr("failed")
	id := testutil.InsertQueryLog(t, db, row)

	// Detail lookups are not restricted by the listing guards.
	bare := testutil.InsertQueryLog(t, db, testutil.QueryLogRow{})
	session := openSession(t, db)
	ctx := context.Background()

	rec, err := session.GetByID(ctx, strconv.FormatInt(id, 10))
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(id, 10), rec.ID)
	assert.Equal(t, "low", *rec.TrustCategory)
	assert.Equal(t, "failed", *rec.Status)
	require.NotNil(t, rec.RetrievedDocsCount)
	assert.Equal(t, int64(4), *rec.RetrievedDocsCount)

	rec, err = session.GetByID(ctx, strconv.FormatInt(bare, 10))
	require.NoError(t, err)
	assert.Nil(t, rec.CreatedAt)
	assert.Nil(t, rec.PersonName)
	assert.Nil(t, rec.RetrievedDocsCount)

	_, err = session.GetByID(ctx, "999999")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSQLQueryLogStore_OpenCancelled(t *testing.T) {
	db := testutil.NewTestDB(t)
	store := NewQueryLogStore(db, database.SQLite, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Open(ctx)
	assert.Error(t, err)
}
