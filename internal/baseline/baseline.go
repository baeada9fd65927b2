// Package baseline snapshots the scores of a batch of review sessions so a
// later run can report which documents regressed.
package baseline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dotcommander/tqa/internal/report"
)

// DefaultPath is where the score command keeps its baseline.
const DefaultPath = ".tqa-baseline.json"

// Entry is the recorded outcome of one document.
type Entry struct {
	File        string  `json:"file"`
	Fingerprint string  `json:"fingerprint"`
	ErrorScore  float64 `json:"error_score"`
	Rating      int     `json:"rating"`
	Pass        bool    `json:"pass"`
}

// Baseline represents a snapshot of document scores.
type Baseline struct {
	Version   string  `json:"version"`
	CreatedAt string  `json:"created_at"`
	Entries   []Entry `json:"entries"`
	index     map[string]Entry
}

// ChangeKind classifies a document against the baseline.
type ChangeKind string

// Change kinds.
const (
	Unchanged ChangeKind = "unchanged" // same fingerprint and outcome
	Edited    ChangeKind = "edited"    // annotations changed, same outcome
	Improved  ChangeKind = "improved"
	Regressed ChangeKind = "regressed"
	Added     ChangeKind = "new"
)

// Change compares one scored document to its baseline entry.
type Change struct {
	Kind   ChangeKind
	Before *Entry
	After  Entry
}

// Create records every report in the summary.
func Create(summary *report.Summary) *Baseline {
	b := &Baseline{
		Version:   "1.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:   make([]Entry, 0, len(summary.Reports)),
	}
	for _, r := range summary.Reports {
		b.Entries = append(b.Entries, entryFor(r))
	}
	sort.Slice(b.Entries, func(i, j int) bool { return b.Entries[i].File < b.Entries[j].File })
	b.buildIndex()
	return b
}

// Load loads a baseline from a JSON file
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}
	b.buildIndex()
	return &b, nil
}

// Save writes the baseline as indented JSON.
func (b *Baseline) Save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}
	return nil
}

// Lookup returns the entry recorded for file.
func (b *Baseline) Lookup(file string) (Entry, bool) {
	if b.index == nil {
		return Entry{}, false
	}
	e, ok := b.index[key(file)]
	return e, ok
}

// Compare classifies every report in the summary, in summary order. A
// document regresses when its verdict flips to fail or its error score rises.
func (b *Baseline) Compare(summary *report.Summary) []Change {
	changes := make([]Change, 0, len(summary.Reports))
	for _, r := range summary.Reports {
		after := entryFor(r)
		before, ok := b.Lookup(after.File)
		if !ok {
			changes = append(changes, Change{Kind: Added, After: after})
			continue
		}
		changes = append(changes, Change{Kind: classify(before, after), Before: &before, After: after})
	}
	return changes
}

// Count returns how many changes are of kind k.
func Count(changes []Change, k ChangeKind) int {
	n := 0
	for _, c := range changes {
		if c.Kind == k {
			n++
		}
	}
	return n
}

// classify checks the outcome before the fingerprint: an unchanged session
// can still move when the scoring policy it falls back on changes.
func classify(before, after Entry) ChangeKind {
	switch {
	case before.Pass && !after.Pass, after.ErrorScore > before.ErrorScore:
		return Regressed
	case !before.Pass && after.Pass, after.ErrorScore < before.ErrorScore:
		return Improved
	case before.Fingerprint == after.Fingerprint:
		return Unchanged
	default:
		return Edited
	}
}

func entryFor(r *report.Report) Entry {
	return Entry{
		File:        key(r.File),
		Fingerprint: r.Fingerprint,
		ErrorScore:  r.Document.ErrorScore,
		Rating:      r.Document.Rating.Value,
		Pass:        r.Document.OverallPass,
	}
}

func (b *Baseline) buildIndex() {
	b.index = make(map[string]Entry, len(b.Entries))
	for _, e := range b.Entries {
		b.index[key(e.File)] = e
	}
}

// key normalizes a path so the same file matches across platforms.
func key(file string) string {
	return filepath.ToSlash(filepath.Clean(file))
}
