package browser

import (
	"github.com/matst80/preset-finder/pkg/types"
)

// Selection is one facet's chosen keys. The vendor facet selects by name,
// every other facet by catalog id.
type Selection struct {
	Names types.KeySet[string]
	Ids   types.IdList
}

func newSelection() Selection {
	return Selection{Names: types.KeySet[string]{}, Ids: types.IdList{}}
}

func (s Selection) Clone() Selection {
	return Selection{Names: s.Names.Clone(), Ids: s.Ids.Clone()}
}

func (s Selection) Equal(other Selection) bool {
	return s.Names.Equal(other.Names) && s.Ids.Equal(other.Ids)
}

func (s Selection) clear() {
	s.Names.Clear()
	s.Ids.Clear()
}

// Store keeps a committed and a pending selection per facet. The pending
// buffer is a scratch copy taken when a picker opens; only Confirm moves it
// into the committed state, Cancel throws it away. Callers serialize access.
type Store struct {
	committed map[types.Facet]Selection
	pending   map[types.Facet]Selection
	open      map[types.Facet]bool
}

var allFacets = []types.Facet{
	types.FacetVendor,
	types.FacetProduct,
	types.FacetCategory,
	types.FacetMode,
	types.FacetBank,
}

func NewStore() *Store {
	s := &Store{
		committed: make(map[types.Facet]Selection, len(allFacets)),
		pending:   make(map[types.Facet]Selection, len(allFacets)),
		open:      make(map[types.Facet]bool, len(allFacets)),
	}
	for _, f := range allFacets {
		s.committed[f] = newSelection()
		s.pending[f] = newSelection()
	}
	return s
}

// OpenEditor snapshots the committed selection into the pending buffer.
func (s *Store) OpenEditor(facet types.Facet) {
	s.pending[facet] = s.committed[facet].Clone()
	s.open[facet] = true
}

// Toggle flips an id in the facet's pending buffer. Ignored while the picker
// is closed so pending never diverges outside an open edit.
func (s *Store) Toggle(facet types.Facet, id uint) {
	if !s.open[facet] {
		return
	}
	s.pending[facet].Ids.Toggle(id)
}

// ToggleVendor flips a vendor name in the vendor facet's pending buffer.
func (s *Store) ToggleVendor(name string) {
	if !s.open[types.FacetVendor] {
		return
	}
	s.pending[types.FacetVendor].Names.Toggle(name)
}

// ClearPending empties the pending buffer, the bulk "deselect all".
func (s *Store) ClearPending(facet types.Facet) {
	if !s.open[facet] {
		return
	}
	s.pending[facet].clear()
}

// Confirm copies pending into committed and closes the picker. It reports
// whether the committed selection actually changed.
func (s *Store) Confirm(facet types.Facet) bool {
	if !s.open[facet] {
		return false
	}
	s.open[facet] = false
	if s.pending[facet].Equal(s.committed[facet]) {
		return false
	}
	s.committed[facet] = s.pending[facet].Clone()
	return true
}

// Cancel discards the pending buffer and closes the picker, leaving the
// committed selection untouched.
func (s *Store) Cancel(facet types.Facet) {
	s.pending[facet] = newSelection()
	s.open[facet] = false
}

func (s *Store) IsOpen(facet types.Facet) bool {
	return s.open[facet]
}

// Pending returns a copy of the facet's in-progress selection for display.
func (s *Store) Pending(facet types.Facet) Selection {
	return s.pending[facet].Clone()
}

// Selected returns a copy of the facet's committed selection.
func (s *Store) Selected(facet types.Facet) Selection {
	return s.committed[facet].Clone()
}

// Committed flattens the committed selections into normalized filters.
func (s *Store) Committed() types.Filters {
	f := types.Filters{
		Vendors:    s.committed[types.FacetVendor].Names.Sorted(),
		Products:   s.committed[types.FacetProduct].Ids.Sorted(),
		Categories: s.committed[types.FacetCategory].Ids.Sorted(),
		Modes:      s.committed[types.FacetMode].Ids.Sorted(),
		Banks:      s.committed[types.FacetBank].Ids.Sorted(),
	}
	return f
}
