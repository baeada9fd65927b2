package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	quiet      bool
	verbose    bool
	outputFile string
	out        io.Writer
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
		out:        os.Stdout,
	}
}

// Format formats the scoring summary as Markdown
func (f *MarkdownFormatter) Format(summary *report.Summary) error {
	var b strings.Builder

	b.WriteString("# Translation Quality Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	if summary.Root != "" {
		fmt.Fprintf(&b, "**Root:** %s\n\n", summary.Root)
	}

	if len(summary.Reports) > 1 {
		b.WriteString("## Documents\n\n")
		for _, r := range summary.Reports {
			name := strings.TrimPrefix(r.File, "./")
			fmt.Fprintf(&b, "- %s [%s](#%s)\n", getStatusEmoji(r.Document.OverallPass), name, createAnchor(name))
		}
		b.WriteString("\n")
	}

	if len(summary.Reports) == 0 {
		b.WriteString("*No sessions found to score.*\n\n")
	}

	for _, r := range summary.Reports {
		f.writeReport(&b, r)
	}

	b.WriteString("## Conclusion\n\n")
	if failed := summary.Failed(); failed == 0 {
		fmt.Fprintf(&b, "✓ %d/%d documents passed\n", summary.Passed(), len(summary.Reports))
	} else {
		fmt.Fprintf(&b, "✗ %d %s failed\n", failed, pluralizeCount("document", failed))
	}

	return writeOutput(f.outputFile, f.out, []byte(b.String()))
}

func (f *MarkdownFormatter) writeReport(b *strings.Builder, r *report.Report) {
	c := r.Catalog
	doc := r.Document

	fmt.Fprintf(b, "## %s\n\n", strings.TrimPrefix(r.File, "./"))
	fmt.Fprintf(b, "%s **%s:** %s\n\n", getStatusEmoji(doc.OverallPass), c.Overall, r.Overall)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| %s | %.2f (≤ %s: %s) |\n", c.ErrorScorePer1000, doc.ErrorScore,
		formatNumber(doc.Settings.PassFailThreshold), r.ErrorScore)
	fmt.Fprintf(b, "| %s | %d (≤ %d: %s) |\n", c.CriticalCount, doc.CriticalErrorCount,
		doc.Settings.CriticalErrorMax, r.Critical)
	fmt.Fprintf(b, "| %s | %d/5 %s |\n", c.QualityRating, doc.Rating.Value, escapeCell(r.Rating.Description))
	fmt.Fprintf(b, "| %s | %d |\n", c.TotalSegments, doc.TotalSegments)
	fmt.Fprintf(b, "| %s | %d |\n", c.WordCount, doc.TotalWordCount)
	fmt.Fprintf(b, "| %s | %d |\n", c.TotalErrors, doc.TotalAnnotations)
	fmt.Fprintf(b, "| %s | %d |\n", c.TotalPenaltyPoints, doc.TotalPenalty)
	if doc.Unclassified.Any() {
		fmt.Fprintf(b, "| %s | %s %d, %s %d |\n", c.Unclassified,
			c.ErrorType, doc.Unclassified.Categories, c.Severity, doc.Unclassified.Severities)
	}
	fmt.Fprintf(b, "| %s | `%s` |\n", c.Fingerprint, shortFingerprint(r.Fingerprint))
	b.WriteString("\n")
	fmt.Fprintf(b, "> %s\n\n", escapeCell(r.Rating.Action))

	fmt.Fprintf(b, "### %s\n\n", c.Scorecard)
	fmt.Fprintf(b, "| # | %s | %s | %s | %s | %s | %s |\n", c.ErrorType, c.Count,
		severityHeader(c, taxonomy.Minor), severityHeader(c, taxonomy.Major), severityHeader(c, taxonomy.Critical),
		c.Penalty)
	b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
	for _, row := range r.Scorecard {
		fmt.Fprintf(b, "| %d | %s | %d | %s | %s | %s | %s |\n",
			row.Number, row.Label, row.Count,
			blankZero(row.Minor), blankZero(row.Major), blankZero(row.Critical), blankZero(row.Penalty))
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "### %s\n\n", c.PerSegmentDetails)
	fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", c.Segment, c.Words, c.Errors, c.Penalty, c.OverallComment)
	b.WriteString("|---:|---:|---:|---:|---|\n")
	for _, seg := range r.Segments {
		fmt.Fprintf(b, "| %d | %d | %d | %d | %s |\n", seg.ID, seg.Words, seg.Errors, seg.Penalty, escapeCell(seg.Comment))
	}
	b.WriteString("\n")

	if f.verbose {
		f.writeAnnotations(b, r)
	}
	b.WriteString("---\n\n")
}

func (f *MarkdownFormatter) writeAnnotations(b *strings.Builder, r *report.Report) {
	c := r.Catalog
	for _, seg := range r.Segments {
		if len(seg.Annotations) == 0 {
			continue
		}
		fmt.Fprintf(b, "#### %s %d\n\n", c.Segment, seg.ID)
		var target strings.Builder
		for _, run := range seg.Highlight.Runs {
			if run.Marked() {
				fmt.Fprintf(&target, "**%s**", run.Text)
			} else {
				target.WriteString(run.Text)
			}
		}
		fmt.Fprintf(b, "%s\n\n", target.String())
		for _, a := range seg.Annotations {
			fmt.Fprintf(b, "- **%s** / %s: `%s` %s\n",
				c.CategoryLabel(a.ErrorType), c.SeverityLabel(a.Severity), a.Span, a.Explanation)
		}
		b.WriteString("\n")
	}
}

// getStatusEmoji returns an emoji for the status
func getStatusEmoji(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}

// escapeCell keeps free text from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
