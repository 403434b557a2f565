package library

import (
	"slices"
	"strings"
	"sync"

	"github.com/maruel/natural"

	"github.com/matst80/preset-finder/pkg/types"
)

// Library is the in-memory preset index. It is populated once by a loader and
// read-only afterwards; Loading reports true until the first Replace.
type Library struct {
	mu      sync.RWMutex
	loading bool

	vendors    []string
	products   []*types.Product
	categories []*types.Category
	modes      []*types.Mode
	banks      []*types.Bank
	presets    []*types.Preset

	presetById    map[uint]*types.Preset
	vendorPresets map[string]types.IdList
	productById   map[uint]*types.Product
	productByUpid map[string]*types.Product
	categoryById  map[uint]*types.Category
	modeById      map[uint]*types.Mode
	bankById      map[uint]*types.Bank
}

// Content is everything a loader hands over in one piece. Slices may arrive
// in storage order, Replace sorts them into provider order.
type Content struct {
	Vendors    []string
	Products   []*types.Product
	Categories []*types.Category
	Modes      []*types.Mode
	Banks      []*types.Bank
	Presets    []*types.Preset
}

func New() *Library {
	return &Library{loading: true}
}

// Replace swaps in freshly loaded content and clears the loading flag.
func (l *Library) Replace(c *Content) {
	sortNatural(c.Vendors, func(v string) string { return v })
	sortNatural(c.Products, func(p *types.Product) string { return p.Name })
	sortNatural(c.Categories, func(c *types.Category) string { return c.Name })
	sortNatural(c.Modes, func(m *types.Mode) string { return m.Name })
	sortNatural(c.Banks, func(b *types.Bank) string { return b.Entry1 })
	sortNatural(c.Presets, func(p *types.Preset) string { return p.Name })

	presetById := make(map[uint]*types.Preset, len(c.Presets))
	vendorPresets := make(map[string]types.IdList, len(c.Vendors))
	for _, p := range c.Presets {
		presetById[p.Id] = p
		ids, ok := vendorPresets[p.Vendor]
		if !ok {
			ids = types.IdList{}
			vendorPresets[p.Vendor] = ids
		}
		ids.Add(p.Id)
	}
	productById := make(map[uint]*types.Product, len(c.Products))
	productByUpid := make(map[string]*types.Product)
	for _, p := range c.Products {
		productById[p.Id] = p
		if p.Upid != "" {
			productByUpid[p.Upid] = p
		}
	}
	categoryById := make(map[uint]*types.Category, len(c.Categories))
	for _, cat := range c.Categories {
		categoryById[cat.Id] = cat
	}
	modeById := make(map[uint]*types.Mode, len(c.Modes))
	for _, m := range c.Modes {
		modeById[m.Id] = m
	}
	bankById := make(map[uint]*types.Bank, len(c.Banks))
	for _, b := range c.Banks {
		bankById[b.Id] = b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.vendors = c.Vendors
	l.products = c.Products
	l.categories = c.Categories
	l.modes = c.Modes
	l.banks = c.Banks
	l.presets = c.Presets
	l.presetById = presetById
	l.vendorPresets = vendorPresets
	l.productById = productById
	l.productByUpid = productByUpid
	l.categoryById = categoryById
	l.modeById = modeById
	l.bankById = bankById
	l.loading = false
}

func (l *Library) IsLoading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

func (l *Library) Preset(id uint) (*types.Preset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.presetById[id]
	return p, ok
}

func (l *Library) Product(id uint) (*types.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.productById[id]
	return p, ok
}

func (l *Library) ProductByUpid(upid string) (*types.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.productByUpid[upid]
	return p, ok
}

func (l *Library) Counts() (presets, products int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.presets), len(l.products)
}

func sortNatural[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		an, bn := strings.ToLower(name(a)), strings.ToLower(name(b))
		if an == bn {
			return 0
		}
		if natural.Less(an, bn) {
			return -1
		}
		return 1
	})
}
