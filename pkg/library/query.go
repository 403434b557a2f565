package library

import (
	"context"

	"github.com/matst80/preset-finder/pkg/types"
)

// The catalog queries answer "which values of this facet are still reachable"
// given the other facets' selections. Callers pass filters with the queried
// facet already stripped; the text query never narrows catalogs.

func (l *Library) Vendors(_ context.Context, f *types.Filters) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := compile(f, "")
	result := make([]string, 0, len(l.vendors))
	for _, v := range l.vendors {
		if f.IsEmpty() || l.anyMatches(l.vendorPresets[v], m) {
			result = append(result, v)
		}
	}
	return result, nil
}

func (l *Library) Products(_ context.Context, f *types.Filters) ([]*types.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := compile(f, "")
	result := make([]*types.Product, 0, len(l.products))
	for _, p := range l.products {
		if f.IsEmpty() || l.anyMatches(p.Presets, m) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (l *Library) Categories(_ context.Context, f *types.Filters) ([]*types.Category, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := compile(f, "")
	result := make([]*types.Category, 0, len(l.categories))
	for _, c := range l.categories {
		if f.IsEmpty() || l.anyMatches(c.Presets, m) {
			result = append(result, c)
		}
	}
	return result, nil
}

func (l *Library) Modes(_ context.Context, f *types.Filters) ([]*types.Mode, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := compile(f, "")
	result := make([]*types.Mode, 0, len(l.modes))
	for _, mode := range l.modes {
		if f.IsEmpty() || l.anyMatches(mode.Presets, m) {
			result = append(result, mode)
		}
	}
	return result, nil
}

func (l *Library) Banks(_ context.Context, f *types.Filters) ([]*types.Bank, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m := compile(f, "")
	result := make([]*types.Bank, 0, len(l.banks))
	for _, b := range l.banks {
		if f.IsEmpty() || l.anyMatches(b.Presets, m) {
			result = append(result, b)
		}
	}
	return result, nil
}

// Search filters presets by the committed facets plus a case-insensitive
// substring query over name and comment, returning one page in natural order.
func (l *Library) Search(_ context.Context, f *types.Filters, query string, offset, limit int) (*types.PaginatedResult[types.Preset], error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	m := compile(f, query)
	results := make([]types.Preset, 0, limit)
	total := 0
	for _, p := range l.presets {
		if !m.matches(p) {
			continue
		}
		if total >= offset && len(results) < limit {
			results = append(results, *p)
		}
		total++
	}
	start := offset
	if start > total {
		start = total
	}
	return &types.PaginatedResult[types.Preset]{
		Results: results,
		Total:   total,
		Start:   start,
		End:     start + len(results),
	}, nil
}

func (l *Library) Loading(_ context.Context) (bool, error) {
	return l.IsLoading(), nil
}
