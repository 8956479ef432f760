package io

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// extensions maps render formats to file suffixes.
var extensions = map[string]string{
	"html":    ".html",
	"svg":     ".svg",
	"json":    layoutSuffix,
	"dot":     ".dot",
	"dot-svg": ".dot.svg",
}

// Extension returns the file suffix for a render format.
func Extension(format string) string {
	if ext, ok := extensions[format]; ok {
		return ext
	}
	return "." + format
}

// layoutSuffix marks a saved layout document rather than a chart.
const layoutSuffix = ".layout.json"

// BaseName strips the document extension from path, so that
// "pages/e2.yaml" and "pages/e2.layout.json" both become "pages/e2".
func BaseName(path string) string {
	if IsLayoutPath(path) {
		return path[:len(path)-len(layoutSuffix)]
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// IsLayoutPath reports whether path names a layout document written by the
// json format.
func IsLayoutPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), layoutSuffix)
}

// WriteArtifacts writes each artifact to base+Extension(format) and returns
// the written paths in format order. Parent directories are created.
func WriteArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + Extension(f)
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteArtifact writes a single artifact to path, creating parent
// directories.
func WriteArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
