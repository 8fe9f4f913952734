// Package scanner enumerates extraction sources: corpus files found under a
// root directory, and the per-row message streams inside CSV corpus dumps.
package scanner

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is one extraction work unit: a stable identifier plus the raw
// message text it contributes.
type Source struct {
	ID      string
	Content string
}

// Extensions that are clearly not corpus messages.
var skipExts = map[string]bool{
	".py":   true,
	".md":   true,
	".txt":  true,
	".json": true,
	".db":   true,
}

// Scanner scans a directory tree for corpus files
type Scanner struct {
	rootPath string
}

// New creates a scanner for the given root path
func New(rootPath string) *Scanner {
	return &Scanner{rootPath: rootPath}
}

// RootPath returns the root path for resolving relative paths
func (s *Scanner) RootPath() string {
	return s.rootPath
}

// Scan recursively finds corpus files and returns paths relative to rootPath.
// Relative slash-normalized paths keep source identifiers portable across
// systems and drive mappings.
func (s *Scanner) Scan() ([]string, error) {
	var files []string

	// Get absolute path of root for reliable relative path calculation
	absRoot, err := filepath.Abs(s.rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute root path: %w", err)
	}

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			return nil
		}

		if skipExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	return files, nil
}

// EachSource invokes fn for every source one file contributes. A .csv file
// must carry "file" and "message" columns and streams one source per row;
// any other file is a single source identified by its path.
func (s *Scanner) EachSource(relPath string, fn func(Source) error) error {
	path := relPath
	if s.rootPath != "" && !filepath.IsAbs(relPath) {
		path = filepath.Join(s.rootPath, filepath.FromSlash(relPath))
	}

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return eachCSVSource(path, fn)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source %s: %w", relPath, err)
	}
	return fn(Source{ID: relPath, Content: string(data)})
}

// eachCSVSource streams the rows of a corpus CSV without holding the whole
// file in memory.
func eachCSVSource(path string, fn func(Source) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("failed to read csv header of %s: %w", path, err)
	}

	fileCol, msgCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "file":
			fileCol = i
		case "message":
			msgCol = i
		}
	}
	if fileCol < 0 || msgCol < 0 {
		return fmt.Errorf("csv %s must contain 'file' and 'message' columns", path)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv row of %s: %w", path, err)
		}
		if fileCol >= len(row) || msgCol >= len(row) {
			continue
		}
		if err := fn(Source{ID: row[fileCol], Content: row[msgCol]}); err != nil {
			return err
		}
	}
}
