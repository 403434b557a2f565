package library

import (
	"context"
	"testing"

	"github.com/matst80/preset-finder/pkg/types"
)

func testContent() *Content {
	presets := []*types.Preset{
		{Id: 1, Name: "Bass 10", Vendor: "Acme", ProductId: 1, Bank: 5,
			Categories: types.NewKeySet[uint](1), Modes: types.NewKeySet[uint](10)},
		{Id: 2, Name: "Bass 2", Vendor: "Acme", ProductId: 1,
			Categories: types.NewKeySet[uint](1), Modes: types.IdList{}},
		{Id: 3, Name: "Warm Pad", Comment: "evolving texture", Vendor: "Umbra", ProductId: 2,
			Categories: types.NewKeySet[uint](2), Modes: types.NewKeySet[uint](10)},
		{Id: 4, Name: "bass 1", Vendor: "Umbra", ProductId: 2,
			Categories: types.NewKeySet[uint](1), Modes: types.IdList{}},
	}
	return &Content{
		Vendors: []string{"Umbra", "Acme"},
		Products: []*types.Product{
			{Id: 1, Name: "Analog Dreams", Vendor: "Acme", Presets: types.NewKeySet[uint](1, 2)},
			{Id: 2, Name: "Texture Lab", Vendor: "Umbra", Presets: types.NewKeySet[uint](3, 4)},
		},
		Categories: []*types.Category{
			{Id: 1, Name: "Bass", Presets: types.NewKeySet[uint](1, 2, 4)},
			{Id: 2, Name: "Pad", Presets: types.NewKeySet[uint](3)},
		},
		Modes: []*types.Mode{
			{Id: 10, Name: "Arp", Presets: types.NewKeySet[uint](1, 3)},
		},
		Banks: []*types.Bank{
			{Id: 5, Entry1: "Factory", Presets: types.NewKeySet[uint](1)},
		},
		Presets: presets,
	}
}

func newTestLibrary() *Library {
	l := New()
	l.Replace(testContent())
	return l
}

func TestReplaceClearsLoading(t *testing.T) {
	l := New()
	if !l.IsLoading() {
		t.Errorf("expected a fresh library to report loading")
	}
	l.Replace(testContent())
	if l.IsLoading() {
		t.Errorf("expected loading to clear after replace")
	}
	if presets, products := l.Counts(); presets != 4 || products != 2 {
		t.Errorf("expected 4 presets and 2 products, got %d and %d", presets, products)
	}
}

func TestSearchNaturalOrder(t *testing.T) {
	l := newTestLibrary()
	page, err := l.Search(context.Background(), &types.Filters{}, "bass", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := make([]string, len(page.Results))
	for i, p := range page.Results {
		names[i] = p.Name
	}
	expected := []string{"bass 1", "Bass 2", "Bass 10"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d results, got %v", len(expected), names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("position %d: expected %q, got %q", i, expected[i], names[i])
		}
	}
}

func TestSearchQueryMatchesComment(t *testing.T) {
	l := newTestLibrary()
	page, err := l.Search(context.Background(), &types.Filters{}, "TEXTURE", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Results[0].Id != 3 {
		t.Errorf("expected the comment match only, got total %d", page.Total)
	}
}

func TestSearchPagination(t *testing.T) {
	l := newTestLibrary()
	ctx := context.Background()

	page, err := l.Search(ctx, &types.Filters{}, "", 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 4 || page.Start != 0 || page.End != 3 || !page.HasMore() {
		t.Errorf("unexpected first page: total %d start %d end %d", page.Total, page.Start, page.End)
	}

	page, err = l.Search(ctx, &types.Filters{}, "", 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Results) != 1 || page.Start != 3 || page.End != 4 || page.HasMore() {
		t.Errorf("unexpected last page: %d results start %d end %d", len(page.Results), page.Start, page.End)
	}

	page, err = l.Search(ctx, &types.Filters{}, "", 100, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Results) != 0 || page.Start != 4 || page.End != 4 {
		t.Errorf("expected an empty clamped page past the end, got start %d end %d", page.Start, page.End)
	}
}

func TestSearchFacetFilters(t *testing.T) {
	l := newTestLibrary()
	ctx := context.Background()

	page, err := l.Search(ctx, &types.Filters{Vendors: []string{"Acme"}}, "", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected 2 Acme presets, got %d", page.Total)
	}

	page, err = l.Search(ctx, &types.Filters{Banks: []uint{5}}, "", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Results[0].Id != 1 {
		t.Errorf("expected the single bank member, got total %d", page.Total)
	}

	page, err = l.Search(ctx, &types.Filters{Categories: []uint{1}, Modes: []uint{10}}, "", 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 1 || page.Results[0].Id != 1 {
		t.Errorf("expected facets to combine conjunctively, got total %d", page.Total)
	}
}

func TestCatalogsNarrowByOtherFacets(t *testing.T) {
	l := newTestLibrary()
	ctx := context.Background()

	vendors, err := l.Vendors(ctx, &types.Filters{Categories: []uint{2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vendors) != 1 || vendors[0] != "Umbra" {
		t.Errorf("expected only Umbra reachable under the pad category, got %v", vendors)
	}

	categories, err := l.Categories(ctx, &types.Filters{Vendors: []string{"Acme"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Bass" {
		t.Errorf("expected only the bass category under Acme, got %d entries", len(categories))
	}

	banks, err := l.Banks(ctx, &types.Filters{Vendors: []string{"Umbra"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(banks) != 0 {
		t.Errorf("expected no reachable bank under Umbra, got %d", len(banks))
	}
}

func TestCatalogsUnfilteredWhenEmpty(t *testing.T) {
	l := newTestLibrary()
	vendors, err := l.Vendors(context.Background(), &types.Filters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vendors) != 2 || vendors[0] != "Acme" {
		t.Errorf("expected the full sorted vendor list, got %v", vendors)
	}
}
