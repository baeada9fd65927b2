package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet     bool
	verbose   bool
	styles    *Styles
	out       io.Writer
	startTime time.Time
}

// NewConsoleFormatter creates a new ConsoleFormatter writing to stdout.
// Color is used only when stdout is a terminal.
func NewConsoleFormatter(quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		quiet:     quiet,
		verbose:   verbose,
		styles:    NewStyles(isTerminal(os.Stdout)),
		out:       os.Stdout,
		startTime: time.Now(),
	}
}

// Format formats the scoring summary for console output
func (f *ConsoleFormatter) Format(summary *report.Summary) error {
	if f.quiet {
		return nil
	}

	for i, r := range summary.Reports {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.printReport(r)
	}

	if len(summary.Reports) > 1 {
		f.printSummaryLine(summary)
	}
	return nil
}

func (f *ConsoleFormatter) printReport(r *report.Report) {
	c := r.Catalog
	doc := r.Document
	s := f.styles

	fmt.Fprintf(f.out, "%s  %s\n", s.Header.Render(r.File), s.Verdict(doc.OverallPass, r.Overall))

	fmt.Fprintf(f.out, "  %s: %.2f  (≤ %s: %s)\n",
		c.ErrorScorePer1000, doc.ErrorScore, formatNumber(doc.Settings.PassFailThreshold),
		s.Verdict(doc.ErrorScorePass, r.ErrorScore))
	fmt.Fprintf(f.out, "  %s: %d  (≤ %d: %s)\n",
		c.CriticalCount, doc.CriticalErrorCount, doc.Settings.CriticalErrorMax,
		s.Verdict(doc.CriticalPass, r.Critical))
	fmt.Fprintf(f.out, "  %s: %s\n",
		c.QualityRating, s.Bold.Render(fmt.Sprintf("%d/5 %s", doc.Rating.Value, r.Rating.Description)))
	fmt.Fprintf(f.out, "  %s\n", s.Dim.Render(r.Rating.Action))
	fmt.Fprintf(f.out, "  %s: %d  %s: %d  %s: %d\n",
		c.WordCount, doc.TotalWordCount,
		c.TotalErrors, doc.TotalAnnotations,
		c.TotalPenaltyPoints, doc.TotalPenalty)

	if doc.TotalAnnotations == 0 {
		fmt.Fprintf(f.out, "  %s\n", s.Pass.Render(c.NoErrorsFound))
	} else {
		fmt.Fprintln(f.out)
		fmt.Fprintln(f.out, indent(f.scorecardTable(r), "  "))
	}

	if u := doc.Unclassified; u.Any() {
		fmt.Fprintf(f.out, "  %s\n", s.Dim.Render(fmt.Sprintf("%s: %s %d, %s %d",
			c.Unclassified, c.ErrorType, u.Categories, c.Severity, u.Severities)))
	}

	if f.verbose {
		f.printSegments(r)
	}
}

// scorecardTable renders the category rows with severity columns. Zero cells
// are left blank.
func (f *ConsoleFormatter) scorecardTable(r *report.Report) string {
	c := r.Catalog
	rows := make([][]string, 0, len(r.Scorecard))
	for _, row := range r.Scorecard {
		rows = append(rows, []string{
			strconv.Itoa(row.Number),
			row.Label,
			blankZero(row.Count),
			blankZero(row.Minor),
			blankZero(row.Major),
			blankZero(row.Critical),
			blankZero(row.Penalty),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.styles.Dim).
		Headers("#", c.ErrorType, c.Count,
			severityHeader(c, taxonomy.Minor), severityHeader(c, taxonomy.Major), severityHeader(c, taxonomy.Critical),
			c.Penalty).
		Rows(rows...)
	return t.String()
}

func (f *ConsoleFormatter) printSegments(r *report.Report) {
	c := r.Catalog
	fmt.Fprintf(f.out, "\n  %s\n", f.styles.Bold.Render(c.PerSegmentDetails))
	for _, seg := range r.Segments {
		fmt.Fprintf(f.out, "  %s %d  %s: %d  %s: %d  %s: %d\n",
			c.Segment, seg.ID, c.Words, seg.Words, c.Errors, seg.Errors, c.Penalty, seg.Penalty)

		var b strings.Builder
		for _, run := range seg.Highlight.Runs {
			if run.Marked() {
				b.WriteString(f.styles.Mark(run.Text, run.Severity))
			} else {
				b.WriteString(run.Text)
			}
		}
		if b.Len() > 0 {
			fmt.Fprintf(f.out, "    %s\n", b.String())
		}

		for _, a := range seg.Annotations {
			fmt.Fprintf(f.out, "    - %s / %s: %q %s\n",
				c.CategoryLabel(a.ErrorType), c.SeverityLabel(a.Severity), a.Span, f.styles.Dim.Render(a.Explanation))
		}
		if seg.Comment != "" {
			fmt.Fprintf(f.out, "    %s: %s\n", c.OverallComment, seg.Comment)
		}
	}
}

// printSummaryLine prints the batch result with celebration for perfect success.
func (f *ConsoleFormatter) printSummaryLine(summary *report.Summary) {
	fmt.Fprintln(f.out)

	passed := summary.Passed()
	total := len(summary.Reports)
	text := fmt.Sprintf("%d/%d passed", passed, total)
	if failed := summary.Failed(); failed > 0 {
		text += fmt.Sprintf(", %d %s", failed, pluralizeCount("failure", failed))
	}
	text += fmt.Sprintf(" (%s)", formatDuration(time.Since(f.startTime)))

	switch {
	case passed == total && f.styles.Enabled() && isTerminal(f.out):
		printCelebration(f.out, text)
	case passed == total:
		fmt.Fprintln(f.out, f.styles.Pass.Render(text))
	default:
		fmt.Fprintln(f.out, f.styles.Fail.Render(text))
	}
}

func severityHeader(c *i18n.Catalog, sev taxonomy.Severity) string {
	return fmt.Sprintf("%s (x%d)", c.SeverityName(sev), sev.Penalty())
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// formatNumber prints thresholds without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// pluralizeCount returns singular or plural form based on count.
func pluralizeCount(s string, count int) string {
	if count == 1 {
		return s
	}
	return s + "s"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
