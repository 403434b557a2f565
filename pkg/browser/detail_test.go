package browser

import (
	"testing"

	"github.com/matst80/preset-finder/pkg/types"
)

func TestJoinWith(t *testing.T) {
	tests := []struct {
		items    []string
		expected string
	}{
		{nil, ""},
		{[]string{"Bass"}, "Bass"},
		{[]string{"Bass", "Lead"}, "Bass and Lead"},
		{[]string{"Bass", "Lead", "Pad"}, "Bass, Lead and Pad"},
		{[]string{"A", "B", "C", "D"}, "A, B, C and D"},
	}
	for _, tt := range tests {
		if got := JoinWith(tt.items, ", ", " and "); got != tt.expected {
			t.Errorf("JoinWith(%v) = %q, expected %q", tt.items, got, tt.expected)
		}
	}
}

func testCatalogs() *Catalogs {
	return &Catalogs{
		Categories: []*types.Category{
			{Id: 1, Name: "Bass", Subcategory: "Synth Bass"},
			{Id: 2, Name: "Lead"},
		},
		Modes: []*types.Mode{
			{Id: 10, Name: "Arp"},
			{Id: 11, Name: "Chord"},
			{Id: 12, Name: "Glide"},
		},
		Banks: []*types.Bank{
			{Id: 5, Entry1: "Factory", Entry2: "Vintage"},
		},
	}
}

func TestProjectJoinsNames(t *testing.T) {
	p := &types.Preset{
		Id:          42,
		Name:        "Deep One",
		Vendor:      "Acme",
		ProductName: "Analog Dreams",
		Bank:        5,
		Categories:  types.NewKeySet[uint](1, 2),
		Modes:       types.NewKeySet[uint](10, 11, 12),
	}
	view := Project(p, testCatalogs())
	if view.Categories != "Bass / Synth Bass and Lead" {
		t.Errorf("unexpected categories: %q", view.Categories)
	}
	if view.Modes != "Arp, Chord and Glide" {
		t.Errorf("unexpected modes: %q", view.Modes)
	}
	if view.Bank != "Factory / Vintage" {
		t.Errorf("unexpected bank: %q", view.Bank)
	}
}

func TestProjectNoBank(t *testing.T) {
	p := &types.Preset{Id: 1, Name: "Init", Bank: types.NoBank}
	view := Project(p, testCatalogs())
	if view.Bank != NoBankLabel {
		t.Errorf("expected %q for bank zero, got %q", NoBankLabel, view.Bank)
	}
}

func TestProjectSkipsUnknownIds(t *testing.T) {
	p := &types.Preset{
		Id:         1,
		Name:       "Init",
		Bank:       999,
		Categories: types.NewKeySet[uint](2, 77),
		Modes:      types.NewKeySet[uint](88),
	}
	view := Project(p, testCatalogs())
	if view.Categories != "Lead" {
		t.Errorf("expected unknown category id to be skipped, got %q", view.Categories)
	}
	if view.Modes != "" {
		t.Errorf("expected empty modes, got %q", view.Modes)
	}
	if view.Bank != "" {
		t.Errorf("expected empty bank for unknown id, got %q", view.Bank)
	}
}
