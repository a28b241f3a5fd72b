// Package loader turns corpus sources (text, JSON, CSV, PDF, XLSX files
// or directories of them) into ordered raw text records. Loaders are
// external collaborators of the pipeline: they read sources, they never
// annotate.
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrLoad is the kind every loader failure wraps: the source is missing,
// unreadable, or malformed.
var ErrLoad = errors.New("loader: corpus source unreadable")

// Record is one raw text document produced by a loader, before NLP
// annotation. ID is stable for a given source and record position.
type Record struct {
	ID   string
	Text string
}

// CorpusLoader produces an ordered sequence of raw text records from
// some source.
type CorpusLoader interface {
	Load(ctx context.Context) ([]Record, error)
}

// Registry dispatches file extensions to loader constructors, so a
// directory of mixed formats can be loaded uniformly.
type Registry struct {
	constructors map[string]func(path string) CorpusLoader
}

// NewRegistry returns a registry with the built-in loaders registered.
// JSON and CSV loaders registered here use the default field selectors
// ("text" and column "text"); register custom constructors to override.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]func(string) CorpusLoader)}
	r.Register("txt", func(p string) CorpusLoader { return &TextCorpusLoader{Path: p} })
	r.Register("json", func(p string) CorpusLoader { return &JSONCorpusLoader{Path: p, Field: "text"} })
	r.Register("csv", func(p string) CorpusLoader { return &CSVCorpusLoader{Path: p, Column: "text"} })
	r.Register("pdf", func(p string) CorpusLoader { return &PDFCorpusLoader{Path: p} })
	r.Register("xlsx", func(p string) CorpusLoader { return &XLSXCorpusLoader{Path: p, Column: "text"} })
	return r
}

// Register installs a constructor for a file extension (without dot).
func (r *Registry) Register(ext string, ctor func(path string) CorpusLoader) {
	r.constructors[strings.ToLower(ext)] = ctor
}

// For returns a loader for the given path, dispatched on extension.
// Directories get the text loader, which reads every file inside.
func (r *Registry) For(path string) (CorpusLoader, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return &TextCorpusLoader{Path: path}, nil
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	ctor, ok := r.constructors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no loader for format %q", ErrLoad, ext)
	}
	return ctor(path), nil
}

// sourceFiles expands a path into the ordered list of files to read:
// the file itself, or every regular file in the directory (sorted by
// name). A missing path fails with ErrLoad.
func sourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrLoad, path)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// recordID builds a stable record identifier from a file path and the
// record's position within it.
func recordID(path string, i int) string {
	return fmt.Sprintf("%s#%d", filepath.Base(path), i)
}
