package types

import (
	"fmt"
	"slices"
	"strings"
)

// Filters is the normalized form of the committed facet selections sent to
// the data provider. Slices are sorted and deduplicated so equality and cache
// keys are order-independent.
type Filters struct {
	Vendors    []string `json:"vendors" schema:"vendor"`
	Products   []uint   `json:"products" schema:"product"`
	Categories []uint   `json:"categories" schema:"category"`
	Modes      []uint   `json:"modes" schema:"mode"`
	Banks      []uint   `json:"banks" schema:"bank"`
}

func (f *Filters) Normalize() {
	slices.Sort(f.Vendors)
	f.Vendors = slices.Compact(f.Vendors)
	for _, ids := range []*[]uint{&f.Products, &f.Categories, &f.Modes, &f.Banks} {
		slices.Sort(*ids)
		*ids = slices.Compact(*ids)
	}
}

// WithoutFacet strips the named facet's own constraint, a facet never
// filters itself.
func (f *Filters) WithoutFacet(facet Facet) *Filters {
	result := *f
	switch facet {
	case FacetVendor:
		result.Vendors = nil
	case FacetProduct:
		result.Products = nil
	case FacetCategory:
		result.Categories = nil
	case FacetMode:
		result.Modes = nil
	case FacetBank:
		result.Banks = nil
	}
	return &result
}

func (f *Filters) Equal(other *Filters) bool {
	return slices.Equal(f.Vendors, other.Vendors) &&
		slices.Equal(f.Products, other.Products) &&
		slices.Equal(f.Categories, other.Categories) &&
		slices.Equal(f.Modes, other.Modes) &&
		slices.Equal(f.Banks, other.Banks)
}

func (f *Filters) IsEmpty() bool {
	return len(f.Vendors) == 0 && len(f.Products) == 0 && len(f.Categories) == 0 &&
		len(f.Modes) == 0 && len(f.Banks) == 0
}

// Key is a stable representation usable as a cache key.
func (f *Filters) Key() string {
	var sb strings.Builder
	sb.WriteString("v:")
	sb.WriteString(strings.Join(f.Vendors, "|"))
	writeIds := func(prefix string, ids []uint) {
		sb.WriteString(prefix)
		for i, id := range ids {
			if i > 0 {
				sb.WriteByte('|')
			}
			fmt.Fprintf(&sb, "%d", id)
		}
	}
	writeIds(";p:", f.Products)
	writeIds(";c:", f.Categories)
	writeIds(";m:", f.Modes)
	writeIds(";b:", f.Banks)
	return sb.String()
}
