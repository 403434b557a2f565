package types

// Facet is one of the five independent filter dimensions.
type Facet int

const (
	FacetVendor Facet = iota
	FacetProduct
	FacetCategory
	FacetMode
	FacetBank
)

var facetNames = map[Facet]string{
	FacetVendor:   "vendor",
	FacetProduct:  "product",
	FacetCategory: "category",
	FacetMode:     "mode",
	FacetBank:     "bank",
}

func (f Facet) String() string {
	name, ok := facetNames[f]
	if !ok {
		return "unknown"
	}
	return name
}

// FacetFromName resolves a facet by its wire name.
func FacetFromName(name string) (Facet, bool) {
	for f, n := range facetNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// Product groups presets shipped together, keyed by content path id. Upid and
// ContentDir are carried for preview resolution, not display.
type Product struct {
	Id         uint   `json:"id"`
	Name       string `json:"name"`
	Vendor     string `json:"vendor"`
	ContentDir string `json:"-"`
	Upid       string `json:"-"`
	Presets    IdList `json:"-"`
}

// Category is a hierarchical triple, any level may be empty.
type Category struct {
	Id             uint   `json:"id"`
	Name           string `json:"name"`
	Subcategory    string `json:"subcategory"`
	Subsubcategory string `json:"subsubcategory"`
	Presets        IdList `json:"-"`
}

// Levels returns the non-empty hierarchy levels top down.
func (c *Category) Levels() []string {
	return nonEmpty(c.Name, c.Subcategory, c.Subsubcategory)
}

type Mode struct {
	Id      uint   `json:"id"`
	Name    string `json:"name"`
	Presets IdList `json:"-"`
}

// Bank is a hierarchical bank chain, any level may be empty.
type Bank struct {
	Id      uint   `json:"id"`
	Entry1  string `json:"entry1"`
	Entry2  string `json:"entry2"`
	Entry3  string `json:"entry3"`
	Presets IdList `json:"-"`
}

func (b *Bank) Levels() []string {
	return nonEmpty(b.Entry1, b.Entry2, b.Entry3)
}

func nonEmpty(levels ...string) []string {
	result := make([]string, 0, len(levels))
	for _, l := range levels {
		if l != "" {
			result = append(result, l)
		}
	}
	return result
}
