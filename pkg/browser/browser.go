package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matst80/preset-finder/pkg/types"
)

// Provider answers catalog and search queries for the browser. Catalog
// queries receive the other facets' committed filters, never their own.
type Provider interface {
	Vendors(ctx context.Context, f *types.Filters) ([]string, error)
	Products(ctx context.Context, f *types.Filters) ([]*types.Product, error)
	Categories(ctx context.Context, f *types.Filters) ([]*types.Category, error)
	Modes(ctx context.Context, f *types.Filters) ([]*types.Mode, error)
	Banks(ctx context.Context, f *types.Filters) ([]*types.Bank, error)
	Search(ctx context.Context, f *types.Filters, query string, offset, limit int) (*types.PaginatedResult[types.Preset], error)
	Loading(ctx context.Context) (bool, error)
}

// Activator receives the fire-and-forget side effect of selecting a preset.
type Activator interface {
	Activate(p *types.Preset)
}

const (
	DefaultPageSize     = 50
	DefaultPollInterval = 100 * time.Millisecond
)

type Config struct {
	PageSize     int
	PollInterval time.Duration
	Activator    Activator
}

// Browser drives one browse session: committed/pending facet selections, the
// composed query, the accumulated result pages and the active preset.
//
// Every committed-state change bumps a generation counter; responses carrying
// a stale generation are dropped, so catalog and result state always converge
// to the most recently committed query regardless of arrival order. The
// mutex is only held for state reads and writes, never across provider calls.
type Browser struct {
	mu        sync.Mutex
	provider  Provider
	activator Activator
	store     *Store
	acc       *Accumulator
	catalogs  Catalogs
	text      string
	pageSize  int
	poll      time.Duration
	gen       uint64
	selected  *types.Preset
}

func New(provider Provider, cfg Config) *Browser {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Browser{
		provider:  provider,
		activator: cfg.Activator,
		store:     NewStore(),
		acc:       NewAccumulator(),
		pageSize:  cfg.PageSize,
		poll:      cfg.PollInterval,
	}
}

// WaitReady polls the provider's loading flag at a fixed interval until it
// clears or the context ends. No real query is issued before this returns.
func (b *Browser) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()
	for {
		loading, err := b.provider.Loading(ctx)
		if err == nil && !loading {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// rebind bumps the generation, recomposes the query from the committed state
// and resets accumulation. Must be called with the mutex held.
func (b *Browser) rebindLocked() (uint64, types.Filters, ComposedQuery) {
	b.gen++
	filters := b.store.Committed()
	q := Compose(filters, b.text, 0, b.pageSize)
	b.acc.Reset(q)
	return b.gen, filters, q
}

// Refresh recomputes every facet catalog and the first result page from the
// current committed state.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	gen, filters, q := b.rebindLocked()
	b.mu.Unlock()

	g := new(errgroup.Group)
	g.Go(func() error { return b.fetchPage(ctx, gen, q) })
	g.Go(func() error { return b.refreshCatalogs(ctx, gen, filters) })
	return g.Wait()
}

func (b *Browser) OpenEditor(facet types.Facet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.OpenEditor(facet)
}

func (b *Browser) Toggle(facet types.Facet, id uint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.Toggle(facet, id)
}

func (b *Browser) ToggleVendor(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.ToggleVendor(name)
}

func (b *Browser) ClearPending(facet types.Facet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.ClearPending(facet)
}

// Cancel discards the facet's pending edit. Nothing is sent to the provider.
func (b *Browser) Cancel(facet types.Facet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.Cancel(facet)
}

// Confirm applies the facet's pending edit. When the committed selection
// actually changed it resets accumulation and refetches catalogs and the
// first page under the new filters; otherwise it is a no-op.
func (b *Browser) Confirm(ctx context.Context, facet types.Facet) error {
	b.mu.Lock()
	if !b.store.Confirm(facet) {
		b.mu.Unlock()
		return nil
	}
	gen, filters, q := b.rebindLocked()
	b.mu.Unlock()

	g := new(errgroup.Group)
	g.Go(func() error { return b.fetchPage(ctx, gen, q) })
	g.Go(func() error { return b.refreshCatalogs(ctx, gen, filters) })
	return g.Wait()
}

// SetQuery replaces the free-text query. Results reset and refetch, facet
// catalogs stay as they are: text narrows results, not catalogs.
func (b *Browser) SetQuery(ctx context.Context, text string) error {
	b.mu.Lock()
	if text == b.text {
		b.mu.Unlock()
		return nil
	}
	b.text = text
	gen, _, q := b.rebindLocked()
	b.mu.Unlock()
	return b.fetchPage(ctx, gen, q)
}

// LoadMore fetches the next page of the current query. A no-op once the
// sequence is known to be exhausted.
func (b *Browser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if !b.acc.HasMore() {
		b.mu.Unlock()
		return nil
	}
	gen := b.gen
	q := b.acc.Query().page(b.acc.NextOffset())
	b.mu.Unlock()
	return b.fetchPage(ctx, gen, q)
}

func (b *Browser) fetchPage(ctx context.Context, gen uint64, q ComposedQuery) error {
	page, err := b.provider.Search(ctx, &q.Filters, q.Query, q.Offset, q.Limit)
	if err != nil {
		return fmt.Errorf("search page at offset %d: %w", q.Offset, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		// stale response for a superseded query
		return nil
	}
	return b.acc.Apply(page)
}

func (b *Browser) refreshCatalogs(ctx context.Context, gen uint64, filters types.Filters) error {
	g := new(errgroup.Group)
	g.Go(func() error {
		vendors, err := b.provider.Vendors(ctx, filters.WithoutFacet(types.FacetVendor))
		if err != nil {
			return fmt.Errorf("vendor catalog: %w", err)
		}
		b.applyCatalog(gen, func(c *Catalogs) { c.Vendors = vendors })
		return nil
	})
	g.Go(func() error {
		products, err := b.provider.Products(ctx, filters.WithoutFacet(types.FacetProduct))
		if err != nil {
			return fmt.Errorf("product catalog: %w", err)
		}
		b.applyCatalog(gen, func(c *Catalogs) { c.Products = products })
		return nil
	})
	g.Go(func() error {
		categories, err := b.provider.Categories(ctx, filters.WithoutFacet(types.FacetCategory))
		if err != nil {
			return fmt.Errorf("category catalog: %w", err)
		}
		b.applyCatalog(gen, func(c *Catalogs) { c.Categories = categories })
		return nil
	})
	g.Go(func() error {
		modes, err := b.provider.Modes(ctx, filters.WithoutFacet(types.FacetMode))
		if err != nil {
			return fmt.Errorf("mode catalog: %w", err)
		}
		b.applyCatalog(gen, func(c *Catalogs) { c.Modes = modes })
		return nil
	})
	g.Go(func() error {
		banks, err := b.provider.Banks(ctx, filters.WithoutFacet(types.FacetBank))
		if err != nil {
			return fmt.Errorf("bank catalog: %w", err)
		}
		b.applyCatalog(gen, func(c *Catalogs) { c.Banks = banks })
		return nil
	})
	return g.Wait()
}

// applyCatalog installs a refreshed facet list unless a newer committed state
// has superseded the request it was issued for.
func (b *Browser) applyCatalog(gen uint64, apply func(*Catalogs)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.gen {
		return
	}
	apply(&b.catalogs)
}

// Select makes the preset with the given id the active one, replacing any
// previous selection atomically, and fires the activation side effect.
func (b *Browser) Select(id uint) (DetailView, error) {
	b.mu.Lock()
	var selected *types.Preset
	for i := range b.acc.presets {
		if b.acc.presets[i].Id == id {
			selected = &b.acc.presets[i]
			break
		}
	}
	if selected == nil {
		b.mu.Unlock()
		return DetailView{}, fmt.Errorf("preset %d is not in the current results", id)
	}
	p := *selected
	b.selected = &p
	view := Project(&p, &b.catalogs)
	activator := b.activator
	b.mu.Unlock()

	if activator != nil {
		activator.Activate(&p)
	}
	return view, nil
}

// Selected returns the active preset, if any.
func (b *Browser) Selected() (types.Preset, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.selected == nil {
		return types.Preset{}, false
	}
	return *b.selected, true
}

// Results returns the accumulated sequence, the provider's total and whether
// more pages exist.
func (b *Browser) Results() ([]types.Preset, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.acc.Results(), b.acc.Total(), b.acc.HasMore()
}

// Catalogs returns the current per-facet option lists.
func (b *Browser) Catalogs() Catalogs {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.catalogs
}

func (b *Browser) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Pending returns the facet's in-progress selection for rendering a picker.
func (b *Browser) Pending(facet types.Facet) Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Pending(facet)
}

// EditorOpen reports whether the facet's picker is currently open.
func (b *Browser) EditorOpen(facet types.Facet) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.IsOpen(facet)
}

// CommittedFilters returns the normalized committed filter state.
func (b *Browser) CommittedFilters() types.Filters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Committed()
}
