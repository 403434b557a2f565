package komplete

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
	"github.com/matst80/preset-finder/pkg/types"
)

const browserDatabase = "komplete.db3"

// DefaultDatabasePath resolves the Komplete Kontrol browser database in the
// platform's local application data directory.
func DefaultDatabasePath() string {
	var base string
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, "Library", "Application Support")
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, "Native Instruments", "Komplete Kontrol", "Browser Data", browserDatabase)
}

// previewLibraryIndex is the shared json pointing at the installed preview
// sample library.
func previewLibraryIndex() string {
	switch runtime.GOOS {
	case "darwin":
		return "/Users/Shared/Native Instruments/installed_products/Native Browser Preview Library.json"
	case "windows":
		return "C:/Users/Public/Documents/Native Instruments/installed_products/Native Browser Preview Library.json"
	}
	return ""
}

// PreviewPath finds the playable preview audio for a preset: the preset file
// itself when it is a wav, the sibling .previews ogg next to it, or the ogg
// inside the shared preview library addressed by the product's upid.
func PreviewPath(p *types.Preset, product *types.Product) (string, bool) {
	if strings.EqualFold(filepath.Ext(p.FileName), ".wav") && fileExists(p.FileName) {
		return p.FileName, true
	}
	sibling := filepath.Join(filepath.Dir(p.FileName), ".previews", filepath.Base(p.FileName)+".ogg")
	if fileExists(sibling) {
		return sibling, true
	}
	if product == nil || product.Upid == "" {
		return "", false
	}
	contentDir, ok := previewContentDir()
	if !ok {
		return "", false
	}
	rel, err := filepath.Rel(product.ContentDir, p.FileName)
	if err != nil {
		return "", false
	}
	shared := filepath.Join(contentDir, "Samples", product.Upid, filepath.Dir(rel),
		".previews", filepath.Base(p.FileName)+".ogg")
	if fileExists(shared) {
		return shared, true
	}
	return "", false
}

func previewContentDir() (string, bool) {
	index := previewLibraryIndex()
	if index == "" || !fileExists(index) {
		return "", false
	}
	data, err := os.ReadFile(index)
	if err != nil {
		return "", false
	}
	var library struct {
		ContentDir string `json:"ContentDir"`
	}
	if err := jsoncompat.Unmarshal(data, &library); err != nil || library.ContentDir == "" {
		return "", false
	}
	return library.ContentDir, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
