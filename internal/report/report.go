// Package report projects scoring results into display rows shared by every
// output format. It reads scores and session data and never changes them.
package report

import (
	"time"

	"github.com/dotcommander/tqa/internal/highlight"
	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/scoring"
	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

// Report is the display model of one scored session.
type Report struct {
	File        string
	Fingerprint string
	SourceLang  string
	TargetLang  string

	Document scoring.DocumentScore

	Overall    string
	ErrorScore string
	Critical   string
	Rating     i18n.RatingText

	Scorecard  []ScorecardRow
	BySeverity []SeverityRow
	Segments   []SegmentRow

	Catalog *i18n.Catalog
}

// ScorecardRow is one category line of the error scorecard.
type ScorecardRow struct {
	Number   int
	Category taxonomy.Category
	Label    string
	Count    int
	Minor    int
	Major    int
	Critical int
	Penalty  int
}

// SeverityRow is an observed severity with its count.
type SeverityRow struct {
	Severity taxonomy.Severity
	Label    string
	Count    int
}

// SegmentRow is the per-segment detail line.
type SegmentRow struct {
	ID          int
	SourceText  string
	TargetText  string
	SourceLang  string
	TargetLang  string
	Words       int
	Errors      int
	Penalty     int
	Comment     string
	Annotations []types.Annotation
	Highlight   highlight.Result
}

// Build assembles the report for a session and its scores. A nil catalog
// means English.
func Build(file string, s *session.Session, res session.Result, cat *i18n.Catalog) *Report {
	if cat == nil {
		cat = i18n.English()
	}
	doc := res.Document

	r := &Report{
		File:        file,
		Fingerprint: s.Fingerprint(),
		SourceLang:  s.SourceLang,
		TargetLang:  s.TargetLang,
		Document:    doc,
		Overall:     cat.Verdict(doc.OverallPass),
		ErrorScore:  cat.Verdict(doc.ErrorScorePass),
		Critical:    cat.Verdict(doc.CriticalPass),
		Rating:      cat.Rating(doc.Rating.Value),
		Catalog:     cat,
	}

	for _, c := range taxonomy.Categories() {
		cells := doc.Matrix[c]
		r.Scorecard = append(r.Scorecard, ScorecardRow{
			Number:   c.Number(),
			Category: c,
			Label:    cat.Category(c),
			Count:    doc.CategoryCounts[c],
			Minor:    cells[taxonomy.Minor],
			Major:    cells[taxonomy.Major],
			Critical: cells[taxonomy.Critical],
			Penalty:  doc.CategoryPenalties[c],
		})
	}

	for _, sev := range taxonomy.Severities() {
		if n, ok := doc.SeverityCounts[sev]; ok {
			r.BySeverity = append(r.BySeverity, SeverityRow{Severity: sev, Label: cat.SeverityName(sev), Count: n})
		}
	}

	for i, score := range res.Segments {
		row := SegmentRow{
			ID:          score.SegmentID,
			Words:       score.WordCount,
			Errors:      len(score.Annotations),
			Penalty:     score.TotalPenalty,
			Annotations: score.Annotations,
		}
		if i < len(s.Segments) {
			seg := s.Segments[i]
			row.SourceText = seg.SourceText
			row.TargetText = seg.TargetText
			row.SourceLang = seg.SourceLang
			row.TargetLang = seg.TargetLang
			row.Highlight = highlight.Runs(seg.TargetText, score.Annotations)
		}
		if i < len(s.Assessments) {
			row.Comment = s.Assessments[i].OverallComment
		}
		r.Segments = append(r.Segments, row)
	}

	return r
}

// Observed returns the scorecard rows with at least one error.
func (r *Report) Observed() []ScorecardRow {
	var rows []ScorecardRow
	for _, row := range r.Scorecard {
		if n, ok := r.Document.CategoryCounts[row.Category]; ok && n > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// MissingSpans counts annotation spans not found in their target text.
func (r *Report) MissingSpans() int {
	n := 0
	for _, seg := range r.Segments {
		n += seg.Highlight.Missing
	}
	return n
}

// Summary collects the reports of one run.
type Summary struct {
	Reports   []*Report
	Root      string
	StartTime time.Time
}

// Add appends a report.
func (s *Summary) Add(r *Report) {
	s.Reports = append(s.Reports, r)
}

// Passed counts documents whose overall verdict is pass.
func (s *Summary) Passed() int {
	n := 0
	for _, r := range s.Reports {
		if r.Document.OverallPass {
			n++
		}
	}
	return n
}

// Failed counts documents whose overall verdict is fail.
func (s *Summary) Failed() int {
	return len(s.Reports) - s.Passed()
}
