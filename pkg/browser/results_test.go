package browser

import (
	"testing"

	"github.com/matst80/preset-finder/pkg/types"
)

func page(ids []uint, total, start int) *types.PaginatedResult[types.Preset] {
	results := make([]types.Preset, len(ids))
	for i, id := range ids {
		results[i] = types.Preset{Id: id}
	}
	return &types.PaginatedResult[types.Preset]{
		Results: results,
		Total:   total,
		Start:   start,
		End:     start + len(results),
	}
}

func TestAccumulatorAppendsPages(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Compose(types.Filters{}, "", 0, 2))

	if err := a.Apply(page([]uint{1, 2}, 5, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.HasMore() {
		t.Errorf("expected more pages after 2 of 5")
	}
	if a.NextOffset() != 2 {
		t.Errorf("expected next offset 2, got %d", a.NextOffset())
	}
	if err := a.Apply(page([]uint{3, 4}, 5, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.Apply(page([]uint{5}, 5, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.HasMore() {
		t.Errorf("expected sequence to be exhausted")
	}
	if a.Len() != 5 || a.Total() != 5 {
		t.Errorf("expected 5 of 5 accumulated, got %d of %d", a.Len(), a.Total())
	}
}

func TestAccumulatorResetDiscardsEverything(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Compose(types.Filters{}, "", 0, 2))
	if err := a.Apply(page([]uint{1, 2}, 2, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.HasMore() {
		t.Errorf("expected exhausted sequence")
	}

	a.Reset(Compose(types.Filters{Vendors: []string{"Acme"}}, "", 0, 2))
	if a.Len() != 0 || a.NextOffset() != 0 || a.Total() != 0 {
		t.Errorf("expected clean accumulator after reset")
	}
	if !a.HasMore() {
		t.Errorf("expected reset to allow fetching again")
	}
	// a reset is the dedup boundary: previously seen ids may return
	if err := a.Apply(page([]uint{1}, 1, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() != 1 {
		t.Errorf("expected id seen before the reset to be accepted")
	}
}

func TestAccumulatorDropsDuplicatesButAdvances(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Compose(types.Filters{}, "", 0, 2))
	if err := a.Apply(page([]uint{1, 2}, 6, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// provider repeats id 2 on the next page
	if err := a.Apply(page([]uint{2, 3}, 6, 2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results := a.Results()
	if len(results) != 3 {
		t.Errorf("expected 3 unique presets, got %d", len(results))
	}
	if a.NextOffset() != 4 {
		t.Errorf("expected offset bookkeeping to advance past the duplicate, got %d", a.NextOffset())
	}
}

func TestAccumulatorRejectsMalformedPage(t *testing.T) {
	a := NewAccumulator()
	a.Reset(Compose(types.Filters{}, "", 0, 2))
	if err := a.Apply(page([]uint{1, 2}, 4, 0)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := page([]uint{3}, 4, 2)
	bad.End = 4 // end-start no longer matches result count
	if err := a.Apply(bad); err == nil {
		t.Errorf("expected malformed page to be rejected")
	}
	if a.Len() != 2 || a.NextOffset() != 2 {
		t.Errorf("malformed page corrupted accumulated state")
	}

	past := page([]uint{3, 4}, 3, 2)
	if err := a.Apply(past); err == nil {
		t.Errorf("expected page past total to be rejected")
	}
}

func TestComposeNormalizesFilters(t *testing.T) {
	q := Compose(types.Filters{Vendors: []string{"B", "A", "A"}}, "pad", 0, 50)
	if len(q.Filters.Vendors) != 2 || q.Filters.Vendors[0] != "A" {
		t.Errorf("expected sorted deduplicated vendors, got %v", q.Filters.Vendors)
	}
}

func TestSameFilterIgnoresPagination(t *testing.T) {
	a := Compose(types.Filters{Vendors: []string{"Acme"}}, "pad", 0, 50)
	b := Compose(types.Filters{Vendors: []string{"Acme"}}, "pad", 100, 25)
	if !a.SameFilter(&b) {
		t.Errorf("expected queries differing only in pagination to match")
	}
	c := Compose(types.Filters{Vendors: []string{"Acme"}}, "Pad", 0, 50)
	if a.SameFilter(&c) {
		t.Errorf("expected text comparison to be exact, no case folding")
	}
	d := Compose(types.Filters{Vendors: []string{"Acme"}}, "pad ", 0, 50)
	if a.SameFilter(&d) {
		t.Errorf("expected trailing whitespace to be significant")
	}
}
