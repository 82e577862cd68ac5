package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ListFiles enumerates files under root whose base name matches pattern
// (filepath.Match syntax). The result is sorted so that any id assignment
// that depends on processing order is reproducible across runs.
func ListFiles(root, pattern string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input root %s is not a directory", root)
	}

	var paths []string
	if recursive {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ok, merr := filepath.Match(pattern, d.Name())
			if merr != nil {
				return fmt.Errorf("bad pattern %q: %w", pattern, merr)
			}
			if ok {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("read input root %s: %w", root, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ok, merr := filepath.Match(pattern, e.Name())
			if merr != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, merr)
			}
			if ok {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}
