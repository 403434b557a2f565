package browser

import (
	"github.com/matst80/preset-finder/pkg/types"
)

// Catalogs holds the currently reachable values of every facet, in provider
// order. Each facet refreshes independently; a failed refresh keeps the
// previous list since an empty catalog would hide options irrecoverably.
type Catalogs struct {
	Vendors    []string          `json:"vendors"`
	Products   []*types.Product  `json:"products"`
	Categories []*types.Category `json:"categories"`
	Modes      []*types.Mode     `json:"modes"`
	Banks      []*types.Bank     `json:"banks"`
}

func (c *Catalogs) Category(id uint) (*types.Category, bool) {
	for _, cat := range c.Categories {
		if cat.Id == id {
			return cat, true
		}
	}
	return nil, false
}

func (c *Catalogs) Mode(id uint) (*types.Mode, bool) {
	for _, m := range c.Modes {
		if m.Id == id {
			return m, true
		}
	}
	return nil, false
}

func (c *Catalogs) Bank(id uint) (*types.Bank, bool) {
	for _, b := range c.Banks {
		if b.Id == id {
			return b, true
		}
	}
	return nil, false
}
