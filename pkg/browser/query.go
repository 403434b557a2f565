package browser

import (
	"github.com/matst80/preset-finder/pkg/types"
)

// ComposedQuery is the normalized combination of committed facet filters,
// free-text query and pagination cursor sent to the provider. Derived, never
// mutated in place.
type ComposedQuery struct {
	Filters types.Filters `json:"filters"`
	Query   string        `json:"query"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
}

// Compose builds the query for one fetch. Pure, no I/O. The text is taken
// exactly as given, whitespace and case normalization belong to the provider.
func Compose(filters types.Filters, query string, offset, limit int) ComposedQuery {
	filters.Normalize()
	return ComposedQuery{
		Filters: filters,
		Query:   query,
		Offset:  offset,
		Limit:   limit,
	}
}

// SameFilter reports whether two queries target the same result sequence,
// ignoring the pagination cursor. A change in this relation is what resets
// accumulation.
func (q *ComposedQuery) SameFilter(other *ComposedQuery) bool {
	return q.Query == other.Query && q.Filters.Equal(&other.Filters)
}

// page returns a copy of the query positioned at the given offset.
func (q ComposedQuery) page(offset int) ComposedQuery {
	q.Offset = offset
	return q
}
