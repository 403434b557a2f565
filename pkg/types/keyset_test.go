package types

import (
	"slices"
	"testing"
)

func TestKeySetToggle(t *testing.T) {
	s := NewKeySet[uint]()
	if !s.Toggle(7) {
		t.Errorf("expected toggle to add 7")
	}
	if !s.Has(7) {
		t.Errorf("expected 7 to be present")
	}
	if s.Toggle(7) {
		t.Errorf("expected toggle to remove 7")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty set, got %d", s.Len())
	}
}

func TestKeySetCloneIsIndependent(t *testing.T) {
	s := NewKeySet("a", "b")
	c := s.Clone()
	c.Add("c")
	if s.Has("c") {
		t.Errorf("clone mutation leaked into original")
	}
	if !s.Equal(NewKeySet("b", "a")) {
		t.Errorf("expected order-independent equality")
	}
}

func TestKeySetSorted(t *testing.T) {
	s := NewKeySet[uint](3, 1, 2)
	if got := s.Sorted(); !slices.Equal(got, []uint{1, 2, 3}) {
		t.Errorf("expected sorted ids, got %v", got)
	}
}

func TestKeySetIntersects(t *testing.T) {
	a := NewKeySet[uint](1, 2, 3)
	b := NewKeySet[uint](3, 4)
	if !a.Intersects(b) || !b.Intersects(a) {
		t.Errorf("expected intersection on 3")
	}
	if a.Intersects(NewKeySet[uint](9)) {
		t.Errorf("expected no intersection")
	}
	if a.Intersects(NewKeySet[uint]()) {
		t.Errorf("expected no intersection with empty set")
	}
}
