// Package project locates the configuration that governs a review project.
package project

import (
	"os"
	"path/filepath"
)

// ConfigFiles are the configuration file names, in priority order.
var ConfigFiles = []string{".tqarc.json", ".tqarc.yaml", ".tqarc.yml"}

// FindConfig searches startPath and its parents for a configuration file and
// returns its path. The climb stops at a repository root (a directory holding
// .git) or at the filesystem root. Returns "" when nothing is found.
func FindConfig(startPath string) (string, error) {
	currentDir, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	for {
		if path, ok := configIn(currentDir); ok {
			return path, nil
		}
		if isRepoRoot(currentDir) {
			return "", nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return "", nil
		}
		currentDir = parent
	}
}

func configIn(dir string) (string, bool) {
	for _, name := range ConfigFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func isRepoRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
