package watch

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter reports whether a changed path should trigger a rerun.
type Filter func(path string) bool

// PatternFilter matches paths, taken relative to root, against doublestar
// patterns such as "**/*.tqa.json".
func PatternFilter(root string, patterns []string) Filter {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	return func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil {
			return false
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true
			}
		}
		return false
	}
}

// FileFilter matches exactly the given files.
func FileFilter(files []string) Filter {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil {
			set[abs] = true
		}
	}
	return func(path string) bool {
		abs, err := filepath.Abs(path)
		return err == nil && set[abs]
	}
}
