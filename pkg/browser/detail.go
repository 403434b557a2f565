package browser

import (
	"strings"

	"github.com/matst80/preset-finder/pkg/types"
)

// NoBankLabel is shown for presets outside any bank chain.
const NoBankLabel = "No bank"

const levelSeparator = " / "

// DetailView is the human-readable projection of one preset against the
// current catalogs.
type DetailView struct {
	Id         uint   `json:"id"`
	Name       string `json:"name"`
	Vendor     string `json:"vendor"`
	Product    string `json:"product"`
	Comment    string `json:"comment"`
	Categories string `json:"categories"`
	Modes      string `json:"modes"`
	Bank       string `json:"bank"`
}

// Project resolves the preset's raw category/mode/bank ids against the given
// catalogs. Ids missing from a catalog are skipped rather than failing the
// projection; a bank of zero renders the distinguished no-bank marker.
func Project(p *types.Preset, c *Catalogs) DetailView {
	categories := make([]string, 0, p.Categories.Len())
	for _, id := range p.Categories.Sorted() {
		if cat, ok := c.Category(id); ok {
			categories = append(categories, strings.Join(cat.Levels(), levelSeparator))
		}
	}
	modes := make([]string, 0, p.Modes.Len())
	for _, id := range p.Modes.Sorted() {
		if m, ok := c.Mode(id); ok {
			modes = append(modes, m.Name)
		}
	}
	bank := ""
	if p.Bank == types.NoBank {
		bank = NoBankLabel
	} else if b, ok := c.Bank(p.Bank); ok {
		bank = strings.Join(b.Levels(), levelSeparator)
	}
	return DetailView{
		Id:         p.Id,
		Name:       p.Name,
		Vendor:     p.Vendor,
		Product:    p.ProductName,
		Comment:    p.Comment,
		Categories: JoinWith(categories, ", ", " and "),
		Modes:      JoinWith(modes, ", ", " and "),
		Bank:       bank,
	}
}

// JoinWith joins items with sep, using final before the last one, so
// ["A","B","C"] becomes "A, B and C".
func JoinWith(items []string, sep, final string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], sep) + final + items[len(items)-1]
}
