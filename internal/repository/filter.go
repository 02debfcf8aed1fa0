package repository

import (
	"fmt"
	"strings"

	"github.com/ragdash/dashboard-api/internal/database"
)

// Predicate templates. These are the only fragments ever placed in a
// WHERE clause; user input only reaches the bind arguments.
const (
	personNotNull   = "person_name IS NOT NULL"
	teamNotNull     = "app_name IS NOT NULL"
	categoryNotNull = "llm_trust_category IS NOT NULL"
	confidenceSet   = "confidence_score IS NOT NULL"
	personEquals    = "person_name = %s"
	teamEquals      = "app_name = %s"
	createdFrom     = "created_at >= %s"
	createdUntil    = "created_at <= %s"
	idEquals        = "id = %s"
)

// QueryLogFilter holds the optional listing filters. Nil fields are not
// applied. Dates are passed to the database as given.
type QueryLogFilter struct {
	Person    *string
	Team      *string
	StartDate *string
	EndDate   *string
}

// whereBuilder accumulates predicates and their bind arguments.
type whereBuilder struct {
	dialect    database.Dialect
	conditions []string
	args       []any
}

func newWhereBuilder(dialect database.Dialect, fixed ...string) *whereBuilder {
	return &whereBuilder{
		dialect:    dialect,
		conditions: append([]string(nil), fixed...),
	}
}

// bind adds a predicate template with one argument.
func (b *whereBuilder) bind(template string, arg any) *whereBuilder {
	b.args = append(b.args, arg)
	b.conditions = append(b.conditions, fmt.Sprintf(template, b.dialect.Placeholder(len(b.args))))
	return b
}

// bindOptional adds the predicate only when arg is set.
func (b *whereBuilder) bindOptional(template string, arg *string) *whereBuilder {
	if arg != nil {
		b.bind(template, *arg)
	}
	return b
}

// next returns the placeholder for an argument appended after the
// predicate arguments (e.g. LIMIT/OFFSET).
func (b *whereBuilder) next(offset int) string {
	return b.dialect.Placeholder(len(b.args) + offset)
}

func (b *whereBuilder) String() string {
	if len(b.conditions) == 0 {
		return "1=1"
	}
	return strings.Join(b.conditions, " AND ")
}

// listingWhere builds the predicate shared by the listing page and count.
func listingWhere(dialect database.Dialect, f QueryLogFilter) *whereBuilder {
	return newWhereBuilder(dialect, personNotNull, teamNotNull, categoryNotNull).
		bindOptional(personEquals, f.Person).
		bindOptional(teamEquals, f.Team).
		bindOptional(createdFrom, f.StartDate).
		bindOptional(createdUntil, f.EndDate)
}
