// Package komplete reads the Komplete Kontrol browser database (komplete.db3)
// into the in-memory preset library.
package komplete

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/matst80/preset-finder/pkg/library"
	"github.com/matst80/preset-finder/pkg/types"
)

// Open opens the browser database read-only.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", url.PathEscape(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

type contentPath struct {
	path  string
	alias string
	upid  string
}

// Load reads all catalog tables and presets into a library content bundle.
// Independent tables are read concurrently, then presets are linked to their
// product, bank, categories and modes.
func Load(ctx context.Context, db *sql.DB) (*library.Content, error) {
	var (
		vendors      []string
		banks        []*types.Bank
		categories   []*types.Category
		modes        []*types.Mode
		contentPaths map[uint]contentPath
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vendors, err = loadVendors(gctx, db)
		return err
	})
	g.Go(func() (err error) {
		banks, err = loadBanks(gctx, db)
		return err
	})
	g.Go(func() (err error) {
		categories, err = loadCategories(gctx, db)
		return err
	})
	g.Go(func() (err error) {
		modes, err = loadModes(gctx, db)
		return err
	})
	g.Go(func() (err error) {
		contentPaths, err = loadContentPaths(gctx, db)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products, productById, err := loadProducts(ctx, db, contentPaths)
	if err != nil {
		return nil, err
	}
	presets, presetById, err := loadPresets(ctx, db, productById, banks)
	if err != nil {
		return nil, err
	}
	if err := linkCategories(ctx, db, categories, presetById); err != nil {
		return nil, err
	}
	if err := linkModes(ctx, db, modes, presetById); err != nil {
		return nil, err
	}

	return &library.Content{
		Vendors:    vendors,
		Products:   products,
		Categories: categories,
		Modes:      modes,
		Banks:      banks,
		Presets:    presets,
	}, nil
}

func loadVendors(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT vendor FROM k_sound_info")
	if err != nil {
		return nil, fmt.Errorf("load vendors: %w", err)
	}
	defer rows.Close()
	var vendors []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("load vendors: %w", err)
		}
		if v.String != "" {
			vendors = append(vendors, v.String)
		}
	}
	return vendors, rows.Err()
}

func loadBanks(ctx context.Context, db *sql.DB) ([]*types.Bank, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, entry1, entry2, entry3 FROM k_bank_chain")
	if err != nil {
		return nil, fmt.Errorf("load banks: %w", err)
	}
	defer rows.Close()
	var banks []*types.Bank
	for rows.Next() {
		var id uint
		var entry1, entry2, entry3 sql.NullString
		if err := rows.Scan(&id, &entry1, &entry2, &entry3); err != nil {
			return nil, fmt.Errorf("load banks: %w", err)
		}
		banks = append(banks, &types.Bank{
			Id:      id,
			Entry1:  entry1.String,
			Entry2:  entry2.String,
			Entry3:  entry3.String,
			Presets: types.IdList{},
		})
	}
	return banks, rows.Err()
}

func loadCategories(ctx context.Context, db *sql.DB) ([]*types.Category, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, category, subcategory, subsubcategory FROM k_category")
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()
	var categories []*types.Category
	for rows.Next() {
		var id uint
		var name, sub, subsub sql.NullString
		if err := rows.Scan(&id, &name, &sub, &subsub); err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		categories = append(categories, &types.Category{
			Id:             id,
			Name:           name.String,
			Subcategory:    sub.String,
			Subsubcategory: subsub.String,
			Presets:        types.IdList{},
		})
	}
	return categories, rows.Err()
}

func loadModes(ctx context.Context, db *sql.DB) ([]*types.Mode, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, name FROM k_mode")
	if err != nil {
		return nil, fmt.Errorf("load modes: %w", err)
	}
	defer rows.Close()
	var modes []*types.Mode
	for rows.Next() {
		var id uint
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("load modes: %w", err)
		}
		modes = append(modes, &types.Mode{Id: id, Name: name.String, Presets: types.IdList{}})
	}
	return modes, rows.Err()
}

func loadContentPaths(ctx context.Context, db *sql.DB) (map[uint]contentPath, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, path, alias, upid FROM k_content_path")
	if err != nil {
		return nil, fmt.Errorf("load content paths: %w", err)
	}
	defer rows.Close()
	paths := make(map[uint]contentPath)
	for rows.Next() {
		var id uint
		var path, alias, upid sql.NullString
		if err := rows.Scan(&id, &path, &alias, &upid); err != nil {
			return nil, fmt.Errorf("load content paths: %w", err)
		}
		paths[id] = contentPath{path: path.String, alias: alias.String, upid: upid.String}
	}
	return paths, rows.Err()
}

func loadProducts(ctx context.Context, db *sql.DB, paths map[uint]contentPath) ([]*types.Product, map[uint]*types.Product, error) {
	rows, err := db.QueryContext(ctx, "SELECT DISTINCT content_path_id, vendor FROM k_sound_info")
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	defer rows.Close()
	var products []*types.Product
	byId := make(map[uint]*types.Product)
	for rows.Next() {
		var id uint
		var vendor sql.NullString
		if err := rows.Scan(&id, &vendor); err != nil {
			return nil, nil, fmt.Errorf("load products: %w", err)
		}
		cp, known := paths[id]
		if !known {
			continue
		}
		if _, exists := byId[id]; exists {
			continue
		}
		p := &types.Product{
			Id:         id,
			Name:       cp.alias,
			Vendor:     vendor.String,
			ContentDir: cp.path,
			Upid:       cp.upid,
			Presets:    types.IdList{},
		}
		byId[id] = p
		products = append(products, p)
	}
	return products, byId, rows.Err()
}

func loadPresets(ctx context.Context, db *sql.DB, products map[uint]*types.Product, banks []*types.Bank) ([]*types.Preset, map[uint]*types.Preset, error) {
	banksById := make(map[uint]*types.Bank, len(banks))
	for _, b := range banks {
		banksById[b.Id] = b
	}
	rows, err := db.QueryContext(ctx,
		"SELECT id, name, vendor, comment, content_path_id, file_name, bank_chain_id FROM k_sound_info")
	if err != nil {
		return nil, nil, fmt.Errorf("load presets: %w", err)
	}
	defer rows.Close()
	var presets []*types.Preset
	byId := make(map[uint]*types.Preset)
	for rows.Next() {
		var id, productId uint
		var bankId sql.NullInt64
		var name, vendor, comment, fileName sql.NullString
		if err := rows.Scan(&id, &name, &vendor, &comment, &productId, &fileName, &bankId); err != nil {
			return nil, nil, fmt.Errorf("load presets: %w", err)
		}
		p := &types.Preset{
			Id:         id,
			Name:       name.String,
			Comment:    comment.String,
			Vendor:     vendor.String,
			ProductId:  productId,
			FileName:   fileName.String,
			Bank:       uint(bankId.Int64),
			Categories: types.IdList{},
			Modes:      types.IdList{},
		}
		if product, ok := products[productId]; ok {
			p.ProductName = product.Name
			product.Presets.Add(id)
		}
		if p.Bank != types.NoBank {
			if bank, ok := banksById[p.Bank]; ok {
				bank.Presets.Add(id)
			}
		}
		byId[id] = p
		presets = append(presets, p)
	}
	return presets, byId, rows.Err()
}

func linkCategories(ctx context.Context, db *sql.DB, categories []*types.Category, presets map[uint]*types.Preset) error {
	byId := make(map[uint]*types.Category, len(categories))
	for _, c := range categories {
		byId[c.Id] = c
	}
	rows, err := db.QueryContext(ctx, "SELECT sound_info_id, category_id FROM k_sound_info_category")
	if err != nil {
		return fmt.Errorf("link categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var presetId, categoryId uint
		if err := rows.Scan(&presetId, &categoryId); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}
		category, ok := byId[categoryId]
		preset, knownPreset := presets[presetId]
		if !ok || !knownPreset {
			continue
		}
		category.Presets.Add(presetId)
		preset.Categories.Add(categoryId)
	}
	return rows.Err()
}

func linkModes(ctx context.Context, db *sql.DB, modes []*types.Mode, presets map[uint]*types.Preset) error {
	byId := make(map[uint]*types.Mode, len(modes))
	for _, m := range modes {
		byId[m.Id] = m
	}
	rows, err := db.QueryContext(ctx, "SELECT sound_info_id, mode_id FROM k_sound_info_mode")
	if err != nil {
		return fmt.Errorf("link modes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var presetId, modeId uint
		if err := rows.Scan(&presetId, &modeId); err != nil {
			return fmt.Errorf("link modes: %w", err)
		}
		mode, ok := byId[modeId]
		preset, knownPreset := presets[presetId]
		if !ok || !knownPreset {
			continue
		}
		mode.Presets.Add(presetId)
		preset.Modes.Add(modeId)
	}
	return rows.Err()
}
