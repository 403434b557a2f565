package types

import (
	"cmp"
	"maps"
	"slices"
)

// KeySet holds the selected keys of one facet. Vendor facets key by name,
// every other facet keys by catalog id.
type KeySet[K cmp.Ordered] map[K]struct{}

var empty = struct{}{}

func NewKeySet[K cmp.Ordered](keys ...K) KeySet[K] {
	s := make(KeySet[K], len(keys))
	for _, k := range keys {
		s[k] = empty
	}
	return s
}

func (s KeySet[K]) Add(key K) {
	s[key] = empty
}

func (s KeySet[K]) Remove(key K) {
	delete(s, key)
}

// Toggle flips membership of key and reports whether it is now present.
func (s KeySet[K]) Toggle(key K) bool {
	if _, ok := s[key]; ok {
		delete(s, key)
		return false
	}
	s[key] = empty
	return true
}

func (s KeySet[K]) Has(key K) bool {
	_, ok := s[key]
	return ok
}

func (s KeySet[K]) Len() int {
	return len(s)
}

func (s KeySet[K]) Clear() {
	clear(s)
}

func (s KeySet[K]) Clone() KeySet[K] {
	return maps.Clone(s)
}

func (s KeySet[K]) Equal(other KeySet[K]) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if _, ok := other[k]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the keys in ascending order, for stable serialization.
func (s KeySet[K]) Sorted() []K {
	keys := slices.Collect(maps.Keys(s))
	slices.Sort(keys)
	return keys
}

// IdList is the preset id set used for reverse links and match results.
type IdList = KeySet[uint]

// Intersects reports whether the two sets share at least one id.
func (s KeySet[K]) Intersects(other KeySet[K]) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for k := range small {
		if _, ok := large[k]; ok {
			return true
		}
	}
	return false
}
