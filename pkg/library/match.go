package library

import (
	"strings"

	"github.com/matst80/preset-finder/pkg/types"
)

// matcher is a filter compiled into sets for constant-time membership tests.
// An empty facet selection constrains nothing.
type matcher struct {
	vendors    types.KeySet[string]
	products   types.IdList
	categories types.IdList
	modes      types.IdList
	banks      types.IdList
	query      string
}

func compile(f *types.Filters, query string) *matcher {
	return &matcher{
		vendors:    types.NewKeySet(f.Vendors...),
		products:   types.NewKeySet(f.Products...),
		categories: types.NewKeySet(f.Categories...),
		modes:      types.NewKeySet(f.Modes...),
		banks:      types.NewKeySet(f.Banks...),
		query:      strings.ToLower(query),
	}
}

func (m *matcher) matches(p *types.Preset) bool {
	if m.vendors.Len() > 0 && !m.vendors.Has(p.Vendor) {
		return false
	}
	if m.products.Len() > 0 && !m.products.Has(p.ProductId) {
		return false
	}
	if m.categories.Len() > 0 && !m.categories.Intersects(p.Categories) {
		return false
	}
	if m.modes.Len() > 0 && !m.modes.Intersects(p.Modes) {
		return false
	}
	if m.banks.Len() > 0 && !m.banks.Has(p.Bank) {
		return false
	}
	if m.query != "" &&
		!strings.Contains(strings.ToLower(p.Name), m.query) &&
		!strings.Contains(strings.ToLower(p.Comment), m.query) {
		return false
	}
	return true
}

// anyMatches reports whether at least one preset in the id set passes the
// filter, used for catalog reachability.
func (l *Library) anyMatches(ids types.IdList, m *matcher) bool {
	for id := range ids {
		if p, ok := l.presetById[id]; ok && m.matches(p) {
			return true
		}
	}
	return false
}
