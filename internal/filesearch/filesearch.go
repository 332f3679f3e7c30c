// Package filesearch discovers JSON documents under a directory tree,
// honoring .gitignore, for the open-document picker.
package filesearch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Discover walks root and returns relative paths of JSON documents, at most
// limit (0 = unlimited). The .git directory and gitignored paths are
// skipped.
func Discover(ctx context.Context, root string, limit int) ([]string, error) {
	matcher, err := newIgnoreMatcher(filepath.Join(root, ".gitignore"))
	if err != nil {
		// A broken .gitignore just means nothing gets filtered.
		matcher = &ignoreMatcher{}
	}

	var docs []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" || matcher.Matches(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Matches(rel, false) || !isDocument(path) {
			return nil
		}

		docs = append(docs, rel)
		if limit > 0 && len(docs) >= limit {
			return filepath.SkipAll
		}
		return nil
	})

	if err != nil && err != filepath.SkipAll {
		return nil, err
	}
	return docs, nil
}

func isDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".geojson":
		return true
	}
	return false
}
