package discovery

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are the glob patterns used to find session files when none
// are configured.
var DefaultPatterns = []string{"**/*.tqa.json", "**/*.tqa.yaml", "**/*.tqa.yml"}

// Format is the on-disk encoding of a session file.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
)

// String returns the human-readable name of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// DetectFormat determines the session encoding from a file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case "":
		return FormatUnknown, fmt.Errorf(
			"unsupported file: %s has no extension. tqa reads .json, .yaml and .yml sessions", filepath.Base(path))
	default:
		return FormatUnknown, fmt.Errorf(
			"unsupported file type: %s. tqa reads .json, .yaml and .yml sessions", ext)
	}
}

// ValidateFilePath performs comprehensive validation of a session file path.
//
// This function checks all preconditions required before scoring a file:
//   - File exists
//   - Path is a file (not directory)
//   - File is readable
//   - File is not empty
//   - File is not binary
//
// Returns descriptive errors for each failure mode to guide user action.
func ValidateFilePath(path string) (absPath string, err error) {
	absPath, err = filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	info, err := os.Lstat(absPath) // Lstat to detect symlinks
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", absPath)
		}
		if os.IsPermission(err) {
			return "", fmt.Errorf("permission denied: %s", absPath)
		}
		return "", fmt.Errorf("cannot access file: %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		realPath, evalErr := filepath.EvalSymlinks(absPath)
		if evalErr != nil {
			return "", fmt.Errorf("cannot resolve symlink %s: %w", absPath, evalErr)
		}
		absPath = realPath
		info, err = os.Stat(absPath)
		if err != nil {
			return "", fmt.Errorf("symlink target inaccessible: %s: %w", absPath, err)
		}
	}

	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	if info.Size() == 0 {
		return "", fmt.Errorf("file is empty: %s", absPath)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil {
		return "", fmt.Errorf("cannot read file: %s: %w", absPath, err)
	}

	if bytes.Contains(buf[:n], []byte{0}) {
		return "", fmt.Errorf("file appears to be binary, not text: %s", absPath)
	}

	return absPath, nil
}

// File represents a discovered session file
type File struct {
	Path    string
	RelPath string
	Size    int64
	Format  Format
}

// FileDiscovery manages file discovery operations
type FileDiscovery struct {
	rootPath       string
	followSymlinks bool
}

// NewFileDiscovery creates a new FileDiscovery instance
func NewFileDiscovery(rootPath string, followSymlinks bool) *FileDiscovery {
	return &FileDiscovery{
		rootPath:       rootPath,
		followSymlinks: followSymlinks,
	}
}

// DiscoverSessions finds session files matching patterns under the root,
// sorted by relative path. A file matched by several patterns is listed once.
// Empty patterns fall back to DefaultPatterns.
func (fd *FileDiscovery) DiscoverSessions(patterns []string) ([]File, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := make(map[string]bool)
	var files []File
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(os.DirFS(fd.rootPath), pattern)
		if err != nil {
			return nil, fmt.Errorf("error evaluating pattern %s: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			f, ok := fd.processMatch(match)
			if !ok {
				continue
			}
			seen[match] = true
			files = append(files, f)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// processMatch converts a glob match into a File, returning false if the match should be skipped.
func (fd *FileDiscovery) processMatch(match string) (File, bool) {
	fullPath := filepath.Join(fd.rootPath, match)

	linfo, err := os.Lstat(fullPath)
	if err != nil {
		return File{}, false
	}
	if linfo.Mode()&os.ModeSymlink != 0 {
		resolved, ok := fd.resolveSymlink(fullPath)
		if !ok {
			return File{}, false
		}
		fullPath = resolved
	}

	info, err := os.Stat(fullPath)
	if err != nil || info.IsDir() {
		return File{}, false
	}

	format, err := DetectFormat(match)
	if err != nil {
		return File{}, false
	}

	return File{
		Path:    fullPath,
		RelPath: filepath.ToSlash(match),
		Size:    info.Size(),
		Format:  format,
	}, true
}

// resolveSymlink follows a symlink if configured. Targets outside the root
// are skipped.
func (fd *FileDiscovery) resolveSymlink(fullPath string) (string, bool) {
	if !fd.followSymlinks {
		return "", false
	}

	realPath, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		return "", false
	}

	root, err := filepath.EvalSymlinks(fd.rootPath)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(realPath, root+string(filepath.Separator)) {
		return "", false
	}

	return realPath, true
}

// FindSessions returns the paths of session files under root matching
// patterns, sorted and deduplicated.
func FindSessions(root string, patterns []string) ([]string, error) {
	files, err := NewFileDiscovery(root, false).DiscoverSessions(patterns)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}
