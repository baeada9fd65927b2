// Package highlight splits a target text into runs marked by the severity
// of the annotations whose spans cover them.
package highlight

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dotcommander/tqa/internal/types"
)

// Run is a maximal stretch of text with a single marking. Severity is the
// raw label of the annotation covering the run, empty when unmarked.
type Run struct {
	Text     string
	Severity string
}

// Marked reports whether an annotation covers the run.
func (r Run) Marked() bool { return r.Severity != "" }

// Result is a highlighted target text.
type Result struct {
	Runs []Run
	// Missing counts annotations with a non-empty span that does not occur
	// in the target.
	Missing int
}

// Runs marks the first occurrence of each annotation span in target. Text and
// spans are compared in NFC so composed and decomposed input match. Later
// annotations overwrite earlier ones where they overlap.
func Runs(target string, annotations []types.Annotation) Result {
	text := []rune(norm.NFC.String(target))
	marks := make([]string, len(text))

	var res Result
	for _, a := range annotations {
		if a.Span == "" {
			continue
		}
		span := []rune(norm.NFC.String(a.Span))
		idx := indexRunes(text, span)
		if idx < 0 {
			res.Missing++
			continue
		}
		// An annotation with an empty severity still needs a visible mark.
		label := a.Severity
		if label == "" {
			label = "?"
		}
		for i := idx; i < idx+len(span); i++ {
			marks[i] = label
		}
	}

	for i := 0; i < len(text); {
		j := i + 1
		for j < len(text) && marks[j] == marks[i] {
			j++
		}
		res.Runs = append(res.Runs, Run{Text: string(text[i:j]), Severity: marks[i]})
		i = j
	}
	return res
}

func indexRunes(text, sub []rune) int {
	idx := strings.Index(string(text), string(sub))
	if idx < 0 {
		return -1
	}
	return len([]rune(string(text)[:idx]))
}
