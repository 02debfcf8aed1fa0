package repository

import (
	"database/sql"
	"strings"
	"time"
)

// timeLayouts are tried in order when parsing created_at text. Drivers
// that return time.Time are rendered by database/sql as RFC3339Nano.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseFlexibleTime parses a stored timestamp in any of timeLayouts.
func parseFlexibleTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

func nullInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	return &ni.Int64
}

// isZonedType reports whether a driver column type name is a timestamp
// with time zone.
func isZonedType(name string) bool {
	name = strings.ToUpper(name)
	return name == "TIMESTAMPTZ" || strings.Contains(name, "WITH TIME ZONE")
}
