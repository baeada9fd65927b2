package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/scoring"
	"github.com/dotcommander/tqa/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	quiet      bool
	indent     bool
	outputFile string
	version    string
	out        io.Writer
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(quiet bool, indent bool, outputFile, version string) *JSONFormatter {
	return &JSONFormatter{
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
		version:    version,
		out:        os.Stdout,
	}
}

// Format formats the scoring summary as JSON
func (f *JSONFormatter) Format(summary *report.Summary) error {
	rep := JSONReport{
		Header: JSONHeader{
			Tool:      "tqa",
			Version:   f.version,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Summary: JSONSummary{
			TotalDocuments: len(summary.Reports),
			Passed:         summary.Passed(),
			Failed:         summary.Failed(),
			Duration:       time.Since(summary.StartTime).Round(time.Millisecond).String(),
		},
		Documents: make([]JSONDocument, len(summary.Reports)),
	}

	for i, r := range summary.Reports {
		doc := JSONDocument{
			File:        r.File,
			Fingerprint: r.Fingerprint,
			SourceLang:  r.SourceLang,
			TargetLang:  r.TargetLang,
			Score:       r.Document,
			Segments:    make([]JSONSegment, len(r.Segments)),
		}
		for j, seg := range r.Segments {
			doc.Segments[j] = JSONSegment{
				SegmentID:      seg.ID,
				WordCount:      seg.Words,
				TotalPenalty:   seg.Penalty,
				Annotations:    seg.Annotations,
				OverallComment: seg.Comment,
				MissingSpans:   seg.Highlight.Missing,
			}
			if doc.Segments[j].Annotations == nil {
				doc.Segments[j].Annotations = []types.Annotation{}
			}
		}
		rep.Documents[i] = doc
	}

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(rep, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(rep)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.outputFile, f.out, append(jsonBytes, '\n'))
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header    JSONHeader     `json:"header"`
	Summary   JSONSummary    `json:"summary"`
	Documents []JSONDocument `json:"documents"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONSummary contains batch statistics
type JSONSummary struct {
	TotalDocuments int    `json:"total_documents"`
	Passed         int    `json:"passed"`
	Failed         int    `json:"failed"`
	Duration       string `json:"duration"`
}

// JSONDocument is one scored session.
type JSONDocument struct {
	File        string                `json:"file"`
	Fingerprint string                `json:"fingerprint"`
	SourceLang  string                `json:"source_lang"`
	TargetLang  string                `json:"target_lang"`
	Score       scoring.DocumentScore `json:"score"`
	Segments    []JSONSegment         `json:"segments"`
}

// JSONSegment is the score of one segment.
type JSONSegment struct {
	SegmentID      int                `json:"segment_id"`
	WordCount      int                `json:"word_count"`
	TotalPenalty   int                `json:"total_penalty"`
	Annotations    []types.Annotation `json:"annotations"`
	OverallComment string             `json:"overall_comment,omitempty"`
	MissingSpans   int                `json:"missing_spans,omitempty"`
}

// writeOutput writes data to outputFile, or to w when no file is set.
func writeOutput(outputFile string, w io.Writer, data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}
