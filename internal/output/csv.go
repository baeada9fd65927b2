package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

// CSVFormatter writes the spreadsheet export: one row per annotation, then
// the totals block and the breakdowns by type and severity.
type CSVFormatter struct {
	outputFile string
	out        io.Writer
}

// NewCSVFormatter creates a new CSVFormatter
func NewCSVFormatter(outputFile string) *CSVFormatter {
	return &CSVFormatter{outputFile: outputFile, out: os.Stdout}
}

// Format writes every report in the summary. With more than one report each
// block starts with a row naming its file.
func (f *CSVFormatter) Format(summary *report.Summary) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	for i, r := range summary.Reports {
		if len(summary.Reports) > 1 {
			if i > 0 {
				_ = w.Write([]string{})
			}
			_ = w.Write([]string{r.File})
		}
		writeAnnotationRows(w, r)
		writeTotals(w, r)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return writeOutput(f.outputFile, f.out, buf.Bytes())
}

func writeAnnotationRows(w *csv.Writer, r *report.Report) {
	c := r.Catalog
	_ = w.Write([]string{
		c.Segment, c.SourceText, c.TargetText, c.SourceLang, c.TargetLang,
		c.ErrorType, c.Severity, c.Span, c.Explanation, c.Penalty,
		c.SegmentWords, c.SegmentTotal, c.OverallComment,
	})

	for _, seg := range r.Segments {
		lead := []string{strconv.Itoa(seg.ID), seg.SourceText, seg.TargetText, seg.SourceLang, seg.TargetLang}
		tail := func(comment string) []string {
			return []string{strconv.Itoa(seg.Words), strconv.Itoa(seg.Penalty), comment}
		}

		if len(seg.Annotations) == 0 {
			row := append(append([]string{}, lead...), "", "", "", "", "0")
			_ = w.Write(append(row, tail(seg.Comment)...))
			continue
		}

		for i, a := range seg.Annotations {
			comment := ""
			if i == 0 {
				comment = seg.Comment
			}
			row := append(append([]string{}, lead...),
				a.ErrorType, a.Severity, a.Span, a.Explanation, strconv.Itoa(taxonomy.Penalty(a.Severity)))
			_ = w.Write(append(row, tail(comment)...))
		}
	}
}

func writeTotals(w *csv.Writer, r *report.Report) {
	c := r.Catalog
	doc := r.Document

	_ = w.Write([]string{})
	_ = w.Write([]string{c.Totals})
	_ = w.Write([]string{})

	_ = w.Write([]string{c.TotalSegments, strconv.Itoa(doc.TotalSegments)})
	_ = w.Write([]string{c.WordCount, strconv.Itoa(doc.TotalWordCount)})
	_ = w.Write([]string{c.TotalPenaltyPoints, strconv.Itoa(doc.TotalPenalty)})
	_ = w.Write([]string{})
	_ = w.Write([]string{c.ErrorScorePer1000, fmt.Sprintf("%.2f", doc.ErrorScore)})
	_ = w.Write([]string{c.ErrorScoreLimit, "≤ " + formatNumber(doc.Settings.PassFailThreshold)})
	_ = w.Write([]string{c.ErrorScore, r.ErrorScore})
	_ = w.Write([]string{})
	_ = w.Write([]string{c.CriticalCount, strconv.Itoa(doc.CriticalErrorCount)})
	_ = w.Write([]string{c.CriticalLimit, "≤ " + strconv.Itoa(doc.Settings.CriticalErrorMax)})
	_ = w.Write([]string{c.CriticalCount, r.Critical})
	_ = w.Write([]string{})
	_ = w.Write([]string{c.Overall, r.Overall})
	_ = w.Write([]string{c.QualityRating, fmt.Sprintf("%d/5 - %s", doc.Rating.Value, r.Rating.Description)})
	_ = w.Write([]string{c.Description, r.Rating.Action})

	_ = w.Write([]string{})
	_ = w.Write([]string{c.ErrorsByType})
	_ = w.Write([]string{c.ErrorType, c.Count, c.TotalPenaltyPoints})
	for _, row := range r.Observed() {
		_ = w.Write([]string{row.Label, strconv.Itoa(doc.CategoryCounts[row.Category]), strconv.Itoa(row.Penalty)})
	}
	if n := doc.Unclassified.Categories; n > 0 {
		_ = w.Write([]string{c.Unclassified, strconv.Itoa(n), ""})
	}

	_ = w.Write([]string{})
	_ = w.Write([]string{c.ErrorsBySeverity})
	_ = w.Write([]string{c.Severity, c.Count})
	for _, row := range r.BySeverity {
		_ = w.Write([]string{row.Label, strconv.Itoa(row.Count)})
	}
	if n := doc.Unclassified.Severities; n > 0 {
		_ = w.Write([]string{c.Unclassified, strconv.Itoa(n)})
	}
}
