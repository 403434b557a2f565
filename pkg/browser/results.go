package browser

import (
	"fmt"

	"github.com/matst80/preset-finder/pkg/types"
)

// Accumulator merges successive result pages for one composed query into an
// ordered, duplicate-free sequence. Any filter or text change resets it; a
// reset is the dedup boundary. Callers serialize access.
type Accumulator struct {
	query   ComposedQuery
	presets []types.Preset
	seen    types.IdList
	fetched int
	total   int
	more    bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{seen: types.IdList{}, more: true}
}

// Reset discards everything accumulated and rebinds to a new composed query.
// Pages issued for the previous query must not be applied afterwards, the
// engine enforces that with its generation stamp.
func (a *Accumulator) Reset(query ComposedQuery) {
	a.query = query
	a.presets = a.presets[:0]
	a.seen = types.IdList{}
	a.fetched = 0
	a.total = 0
	a.more = true
}

// Apply appends one page. A malformed page is rejected without touching the
// accumulated state so the same offset can be retried. Records whose id was
// already seen are dropped while the offset bookkeeping still advances by the
// page's span.
func (a *Accumulator) Apply(page *types.PaginatedResult[types.Preset]) error {
	if page.End-page.Start != len(page.Results) {
		return fmt.Errorf("malformed page: start %d end %d with %d results", page.Start, page.End, len(page.Results))
	}
	if page.End > page.Total {
		return fmt.Errorf("malformed page: end %d past total %d", page.End, page.Total)
	}
	for _, p := range page.Results {
		if a.seen.Has(p.Id) {
			continue
		}
		a.seen.Add(p.Id)
		a.presets = append(a.presets, p)
	}
	if page.End > a.fetched {
		a.fetched = page.End
	}
	a.total = page.Total
	a.more = page.Total > page.End
	return nil
}

// NextOffset is where the next page starts, the end of the last applied one.
func (a *Accumulator) NextOffset() int {
	return a.fetched
}

// HasMore reports whether another page should be requested. True until a page
// has shown the sequence to be exhausted.
func (a *Accumulator) HasMore() bool {
	return a.more
}

func (a *Accumulator) Total() int {
	return a.total
}

func (a *Accumulator) Len() int {
	return len(a.presets)
}

// Results returns a copy of the accumulated sequence in provider order.
func (a *Accumulator) Results() []types.Preset {
	out := make([]types.Preset, len(a.presets))
	copy(out, a.presets)
	return out
}

// Query returns the composed query the accumulation is bound to.
func (a *Accumulator) Query() ComposedQuery {
	return a.query
}
