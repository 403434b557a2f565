// Package storage persists a loaded preset library as a gzipped gob snapshot
// so the service can start without the browser database present.
package storage

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/matst80/preset-finder/pkg/library"
	"github.com/matst80/preset-finder/pkg/types"
)

// Storage forms of the catalog types: id sets flattened to slices for gob.

type rawPreset struct {
	Id          uint
	Name        string
	Comment     string
	Vendor      string
	ProductId   uint
	ProductName string
	FileName    string
	Bank        uint
	Categories  []uint
	Modes       []uint
}

type rawProduct struct {
	Id         uint
	Name       string
	Vendor     string
	ContentDir string
	Upid       string
}

type rawCategory struct {
	Id                                uint
	Name, Subcategory, Subsubcategory string
}

type rawMode struct {
	Id   uint
	Name string
}

type rawBank struct {
	Id                     uint
	Entry1, Entry2, Entry3 string
}

type snapshot struct {
	Vendors    []string
	Products   []rawProduct
	Categories []rawCategory
	Modes      []rawMode
	Banks      []rawBank
	Presets    []rawPreset
}

type SnapshotStore struct {
	Path string
}

func (s *SnapshotStore) Save(c *library.Content) error {
	file, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer file.Close()
	zw := gzip.NewWriter(file)
	defer zw.Close()
	if err := gob.NewEncoder(zw).Encode(toSnapshot(c)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return zw.Close()
}

func (s *SnapshotStore) Load() (*library.Content, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer file.Close()
	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer zr.Close()
	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return fromSnapshot(&snap), nil
}

func toSnapshot(c *library.Content) *snapshot {
	snap := &snapshot{Vendors: c.Vendors}
	for _, p := range c.Products {
		snap.Products = append(snap.Products, rawProduct{
			Id: p.Id, Name: p.Name, Vendor: p.Vendor, ContentDir: p.ContentDir, Upid: p.Upid,
		})
	}
	for _, cat := range c.Categories {
		snap.Categories = append(snap.Categories, rawCategory{
			Id: cat.Id, Name: cat.Name, Subcategory: cat.Subcategory, Subsubcategory: cat.Subsubcategory,
		})
	}
	for _, m := range c.Modes {
		snap.Modes = append(snap.Modes, rawMode{Id: m.Id, Name: m.Name})
	}
	for _, b := range c.Banks {
		snap.Banks = append(snap.Banks, rawBank{Id: b.Id, Entry1: b.Entry1, Entry2: b.Entry2, Entry3: b.Entry3})
	}
	for _, p := range c.Presets {
		snap.Presets = append(snap.Presets, rawPreset{
			Id:          p.Id,
			Name:        p.Name,
			Comment:     p.Comment,
			Vendor:      p.Vendor,
			ProductId:   p.ProductId,
			ProductName: p.ProductName,
			FileName:    p.FileName,
			Bank:        p.Bank,
			Categories:  p.Categories.Sorted(),
			Modes:       p.Modes.Sorted(),
		})
	}
	return snap
}

func fromSnapshot(snap *snapshot) *library.Content {
	c := &library.Content{Vendors: snap.Vendors}
	products := make(map[uint]*types.Product, len(snap.Products))
	for _, p := range snap.Products {
		product := &types.Product{
			Id: p.Id, Name: p.Name, Vendor: p.Vendor, ContentDir: p.ContentDir, Upid: p.Upid,
			Presets: types.IdList{},
		}
		products[p.Id] = product
		c.Products = append(c.Products, product)
	}
	categories := make(map[uint]*types.Category, len(snap.Categories))
	for _, cat := range snap.Categories {
		category := &types.Category{
			Id: cat.Id, Name: cat.Name, Subcategory: cat.Subcategory, Subsubcategory: cat.Subsubcategory,
			Presets: types.IdList{},
		}
		categories[cat.Id] = category
		c.Categories = append(c.Categories, category)
	}
	modes := make(map[uint]*types.Mode, len(snap.Modes))
	for _, m := range snap.Modes {
		mode := &types.Mode{Id: m.Id, Name: m.Name, Presets: types.IdList{}}
		modes[m.Id] = mode
		c.Modes = append(c.Modes, mode)
	}
	banks := make(map[uint]*types.Bank, len(snap.Banks))
	for _, b := range snap.Banks {
		bank := &types.Bank{Id: b.Id, Entry1: b.Entry1, Entry2: b.Entry2, Entry3: b.Entry3, Presets: types.IdList{}}
		banks[b.Id] = bank
		c.Banks = append(c.Banks, bank)
	}
	for _, p := range snap.Presets {
		preset := &types.Preset{
			Id:          p.Id,
			Name:        p.Name,
			Comment:     p.Comment,
			Vendor:      p.Vendor,
			ProductId:   p.ProductId,
			ProductName: p.ProductName,
			FileName:    p.FileName,
			Bank:        p.Bank,
			Categories:  types.NewKeySet(p.Categories...),
			Modes:       types.NewKeySet(p.Modes...),
		}
		if product, ok := products[p.ProductId]; ok {
			product.Presets.Add(p.Id)
		}
		if bank, ok := banks[p.Bank]; ok {
			bank.Presets.Add(p.Id)
		}
		for _, id := range p.Categories {
			if category, ok := categories[id]; ok {
				category.Presets.Add(p.Id)
			}
		}
		for _, id := range p.Modes {
			if mode, ok := modes[id]; ok {
				mode.Presets.Add(p.Id)
			}
		}
		c.Presets = append(c.Presets, preset)
	}
	return c
}
