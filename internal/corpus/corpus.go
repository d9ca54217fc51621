// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus loads the book catalog from a directory of YAML or JSON
// files and watches it for changes. Each file holds one book, or a list of
// books under a top-level "books" key. Files are read in lexical filename
// order, which fixes corpus order for ranking tie-breaks.
package corpus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/bookshelf-qa/pkg/types"
)

// ErrNoBooks is returned when a corpus directory yields no books at all.
var ErrNoBooks = errors.New("corpus: no books found")

type bookFile struct {
	types.Book `yaml:",inline"`
	Books      []types.Book `json:"books" yaml:"books"`
}

// IsCorpusFile reports whether name has a corpus file extension.
func IsCorpusFile(name string) bool {
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// LoadDir reads every corpus file in dir. Files that fail to parse are
// logged and skipped; validation of book contents is left to the index
// builder, which reports it as diagnostics.
func LoadDir(dir string, logger *zap.Logger) ([]types.Book, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	var books []types.Book
	for _, entry := range entries {
		if entry.IsDir() || !IsCorpusFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		loaded, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping corpus file", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Debug("loaded corpus file", zap.String("path", path), zap.Int("books", len(loaded)))
		books = append(books, loaded...)
	}

	if len(books) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBooks, dir)
	}
	return books, nil
}

// LoadFile parses one corpus file.
func LoadFile(path string) ([]types.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var f bookFile
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(f.Books) > 0 {
		return f.Books, nil
	}
	if f.ID == "" && f.Title == "" && len(f.Sections) == 0 {
		return nil, nil
	}
	return []types.Book{f.Book}, nil
}
