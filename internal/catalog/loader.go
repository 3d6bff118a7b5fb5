package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Parse decodes one catalog file. The format is picked by extension:
// .toml, or .yaml/.yml.
func Parse(name string, data []byte) (Document, error) {
	var d Document
	switch strings.ToLower(path.Ext(name)) {
	case ".toml":
		if err := toml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("parsing %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return d, fmt.Errorf("parsing %s: %w", name, err)
		}
	default:
		return d, fmt.Errorf("parsing %s: unsupported catalog format", name)
	}
	return d, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// readFS parses every catalog file directly under dir, in name order.
func readFS(fsys fs.FS, dir string) ([]Document, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !isCatalogFile(entry.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		d, err := Parse(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// LoadFromFS loads the catalog files in dir of fsys, typically the
// embedded default catalog.
func LoadFromFS(fsys fs.FS, dir string) (*Source, error) {
	docs, err := readFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	return New(docs...)
}

// LoadFile loads a single catalog file or every catalog file in a directory.
func LoadFile(p string) (*Source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadFromFS(os.DirFS(p), ".")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	d, err := Parse(filepath.Base(p), data)
	if err != nil {
		return nil, err
	}
	return New(d)
}

// LoadAll merges the embedded catalog with overlay files from overlayDir.
// Overlay entries replace embedded entries with the same id. A missing
// overlay directory is fine; unreadable overlay files are logged and skipped.
func LoadAll(fsys fs.FS, dir, overlayDir string, log *zap.Logger) (*Source, error) {
	if log == nil {
		log = zap.NewNop()
	}
	docs, err := readFS(fsys, dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(overlayDir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !isCatalogFile(entry.Name()) {
				continue
			}
			full := filepath.Join(overlayDir, entry.Name())
			data, err := os.ReadFile(full)
			if err != nil {
				log.Warn("skipping catalog overlay", zap.String("file", full), zap.Error(err))
				continue
			}
			d, err := Parse(entry.Name(), data)
			if err != nil {
				log.Warn("skipping catalog overlay", zap.String("file", full), zap.Error(err))
				continue
			}
			log.Debug("catalog overlay loaded", zap.String("file", full))
			docs = append(docs, d)
		}
	}

	return New(docs...)
}
