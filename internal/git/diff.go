// Package git lists the review sessions a working tree has changed, so a
// pre-commit hook only scores what is about to be committed.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StagedSessions returns absolute paths of staged files under rootPath that
// match patterns. Returns an empty slice outside a git repository.
func StagedSessions(rootPath string, patterns []string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "--staged")
	if err != nil {
		return nil, err
	}
	return filterSessions(output, rootPath, patterns), nil
}

// ChangedSessions returns absolute paths of every uncommitted change (staged
// and unstaged) under rootPath that matches patterns. In a repository with no
// commits yet every tracked file counts as changed.
func ChangedSessions(rootPath string, patterns []string) ([]string, error) {
	if !IsGitRepo(rootPath) {
		return []string{}, nil
	}

	if _, err := run(rootPath, "rev-parse", "HEAD"); err != nil {
		output, err := run(rootPath, "ls-files")
		if err != nil {
			return nil, err
		}
		return filterSessions(output, rootPath, patterns), nil
	}

	output, err := run(rootPath, "diff", "--name-only", "--relative", "HEAD")
	if err != nil {
		return nil, err
	}
	return filterSessions(output, rootPath, patterns), nil
}

// IsGitRepo checks if the given directory is within a git repository.
func IsGitRepo(rootPath string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = rootPath
	return cmd.Run() == nil
}

func run(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}

// filterSessions keeps the listed paths that still exist and match one of
// patterns. Paths in gitOutput are relative to rootPath.
func filterSessions(gitOutput, rootPath string, patterns []string) []string {
	files := []string{}
	for _, line := range strings.Split(gitOutput, "\n") {
		rel := strings.TrimSpace(line)
		if rel == "" || !isSessionPath(rel, patterns) {
			continue
		}

		absPath := filepath.Join(rootPath, filepath.FromSlash(rel))
		// git reports deletions too
		if _, err := os.Stat(absPath); err != nil {
			continue
		}
		files = append(files, absPath)
	}
	return files
}

func isSessionPath(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
