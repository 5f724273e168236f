package models

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

// EventFilter is the sparse set of list filters. Empty fields add no
// constraint.
type EventFilter struct {
	Category string
	Location string
	DateFrom string
	DateTo   string
	PriceMax *float64
	Search   string
}

// ParseEventFilter reads filters from a query string.
func ParseEventFilter(values url.Values) (EventFilter, error) {
	f := EventFilter{
		Category: strings.TrimSpace(values.Get("category")),
		Location: strings.TrimSpace(values.Get("location")),
		DateFrom: strings.TrimSpace(values.Get("date_from")),
		DateTo:   strings.TrimSpace(values.Get("date_to")),
		Search:   strings.TrimSpace(values.Get("search")),
	}

	verr := &ValidationError{}
	if raw := strings.TrimSpace(values.Get("price_max")); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			verr.Violations = append(verr.Violations, FieldViolation{Field: "price_max", Message: "must be a non-negative number"})
		} else {
			f.PriceMax = &p
		}
	}
	bounds := []struct {
		field string
		value *string
	}{
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	}
	for _, b := range bounds {
		if *b.value == "" {
			continue
		}
		if _, err := ParseEventDate(*b.value); err != nil {
			verr.Violations = append(verr.Violations, FieldViolation{Field: b.field, Message: "must be a date formatted YYYY-MM-DD"})
			continue
		}
		*b.value = normalizeDate(*b.value)
	}

	if len(verr.Violations) > 0 {
		return EventFilter{}, verr
	}
	return f, nil
}

type ClauseOp string

const (
	OpEq    ClauseOp = "eq"
	OpIlike ClauseOp = "ilike"
	OpGte   ClauseOp = "gte"
	OpLte   ClauseOp = "lte"
	OpOr    ClauseOp = "or"
)

// Clause is one predicate of an event query. An OpOr clause matches when any
// of its Any clauses match.
type Clause struct {
	Op     ClauseOp
	Column string
	Value  string
	Any    []Clause
}

// EventQuery is a composed read over the events table. Clauses are ANDed and
// rows are ordered by creation time, newest first.
type EventQuery struct {
	Clauses   []Clause
	OrderBy   string
	Ascending bool
}

// BuildEventQuery translates a filter set into a single query.
func BuildEventQuery(f EventFilter) EventQuery {
	q := EventQuery{OrderBy: "created_at", Ascending: false}

	if f.Category != "" {
		q.Clauses = append(q.Clauses, Clause{Op: OpEq, Column: "category", Value: f.Category})
	}
	if f.Location != "" {
		q.Clauses = append(q.Clauses, Clause{Op: OpIlike, Column: "location", Value: f.Location})
	}
	if f.DateFrom != "" {
		q.Clauses = append(q.Clauses, Clause{Op: OpGte, Column: "date", Value: f.DateFrom})
	}
	if f.DateTo != "" {
		q.Clauses = append(q.Clauses, Clause{Op: OpLte, Column: "date", Value: f.DateTo})
	}
	if f.PriceMax != nil {
		q.Clauses = append(q.Clauses, Clause{Op: OpLte, Column: "price", Value: strconv.FormatFloat(*f.PriceMax, 'f', -1, 64)})
	}
	if f.Search != "" {
		q.Clauses = append(q.Clauses, Clause{Op: OpOr, Any: []Clause{
			{Op: OpIlike, Column: "title", Value: f.Search},
			{Op: OpIlike, Column: "description", Value: f.Search},
		}})
	}
	return q
}

// Apply renders the query onto a PostgREST filter builder.
func (q EventQuery) Apply(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
	for _, c := range q.Clauses {
		switch c.Op {
		case OpEq:
			fb = fb.Eq(c.Column, c.Value)
		case OpIlike:
			fb = fb.Ilike(c.Column, likePattern(c.Value))
		case OpGte:
			fb = fb.Gte(c.Column, c.Value)
		case OpLte:
			fb = fb.Lte(c.Column, c.Value)
		case OpOr:
			fb = fb.Or(c.OrExpression(), "")
		}
	}
	if q.OrderBy != "" {
		fb = fb.Order(q.OrderBy, &postgrest.OrderOpts{Ascending: q.Ascending})
	}
	return fb
}

// OrExpression renders an OpOr clause in PostgREST logical-filter syntax,
// e.g. title.ilike.%jazz%,description.ilike.%jazz%.
func (c Clause) OrExpression() string {
	parts := make([]string, 0, len(c.Any))
	for _, sub := range c.Any {
		v := sub.Value
		if sub.Op == OpIlike {
			v = likePattern(v)
		}
		parts = append(parts, sub.Column+"."+string(sub.Op)+"."+quoteReserved(v))
	}
	return strings.Join(parts, ",")
}

// Matches evaluates the query against a row in memory. Search terms are
// escaped before they reach the store, so ilike is a case-insensitive
// substring match on both sides. The one exception is `*`, which PostgREST
// always reads as a wildcard.
func (q EventQuery) Matches(e *Event) bool {
	for _, c := range q.Clauses {
		if !c.matches(e) {
			return false
		}
	}
	return true
}

func (c Clause) matches(e *Event) bool {
	if c.Op == OpOr {
		for _, sub := range c.Any {
			if sub.matches(e) {
				return true
			}
		}
		return false
	}

	switch c.Column {
	case "price":
		want, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return false
		}
		return compareFloat(c.Op, e.Price, want)
	case "date":
		// dates are normalized to YYYY-MM-DD, so string order is date order
		return compareString(c.Op, e.Date, c.Value)
	default:
		return compareString(c.Op, columnText(e, c.Column), c.Value)
	}
}

func columnText(e *Event, column string) string {
	switch column {
	case "title":
		return e.Title
	case "description":
		return e.Description
	case "location":
		return e.Location
	case "category":
		return e.Category
	case "time":
		return e.Time
	default:
		return ""
	}
}

func compareString(op ClauseOp, have, want string) bool {
	switch op {
	case OpEq:
		return have == want
	case OpIlike:
		return strings.Contains(strings.ToLower(have), strings.ToLower(want))
	case OpGte:
		return have >= want
	case OpLte:
		return have <= want
	default:
		return false
	}
}

func compareFloat(op ClauseOp, have, want float64) bool {
	switch op {
	case OpEq:
		return have == want
	case OpGte:
		return have >= want
	case OpLte:
		return have <= want
	default:
		return false
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps v for a substring ilike, escaping the LIKE wildcards so
// that they match literally.
func likePattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

// quoteReserved wraps a logical-filter value in double quotes when it holds
// characters PostgREST would otherwise parse as syntax.
func quoteReserved(v string) string {
	if !strings.ContainsAny(v, ",.:()\"\\") {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
