// Package format rewrites review session files in canonical form: two-space
// indentation, one assessment per segment and the current file version.
package format

import (
	"fmt"
	"os"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/dotcommander/tqa/internal/discovery"
	"github.com/dotcommander/tqa/internal/session"
)

// Result is the outcome of formatting one file.
type Result struct {
	Path      string
	Original  []byte
	Formatted []byte
}

// Changed reports whether formatting would rewrite the file.
func (r Result) Changed() bool {
	return string(r.Original) != string(r.Formatted)
}

// Session returns the canonical encoding of session content. The content is
// decoded and re-encoded, so invalid sessions are an error.
func Session(content []byte, f discovery.Format) ([]byte, error) {
	asYAML := f == discovery.FormatYAML
	s, err := session.Decode(content, asYAML)
	if err != nil {
		return nil, err
	}
	return s.Encode(asYAML)
}

// File formats the session at path without writing it.
func File(path string) (Result, error) {
	f, err := discovery.DetectFormat(path)
	if err != nil {
		return Result{}, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("error reading %s: %w", path, err)
	}
	formatted, err := Session(content, f)
	if err != nil {
		return Result{}, fmt.Errorf("error formatting %s: %w", path, err)
	}
	return Result{Path: path, Original: content, Formatted: formatted}, nil
}

// Write saves the formatted content over the original file.
func (r Result) Write() error {
	if err := os.WriteFile(r.Path, r.Formatted, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", r.Path, err)
	}
	return nil
}

// Diff returns a unified diff between original and formatted content, or ""
// when they are equal.
func Diff(original, formatted, filename string) string {
	if original == formatted {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: filename,
		ToFile:   filename + " (formatted)",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}
