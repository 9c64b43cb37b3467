// Package discovery finds mapping context files on disk and loads them
// into live contexts.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/pleimann/rebinder/internal/mapping"
)

var ErrNoContexts = errors.New("no mapping contexts found")

// Discover loads every file under root whose base name matches pattern.
// Files are visited in lexical path order so context order is stable
// between runs.
func Discover(root, pattern string) (mapping.Contexts, error) {
	paths, err := Find(root, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s matching %s", ErrNoContexts, root, pattern)
	}

	contexts := make(mapping.Contexts, 0, len(paths))
	for _, path := range paths {
		c, err := mapping.Load(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		contexts = append(contexts, c)
	}

	return contexts, nil
}

// Find returns the paths of context files under root
func Find(root, pattern string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}
