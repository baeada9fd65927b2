package scoring

import (
	"strings"

	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ScoreSegment computes the word count and penalty total of one segment.
//
// The word count is clamped to 1 so an empty target cannot zero the document
// denominator. An annotation with an unknown severity adds no penalty.
func ScoreSegment(segmentID int, targetText string, annotations []types.Annotation) SegmentScore {
	words := CountWords(targetText)
	if words < 1 {
		words = 1
	}

	penalty := 0
	for _, a := range annotations {
		penalty += taxonomy.Penalty(a.Severity)
	}

	return SegmentScore{
		SegmentID:    segmentID,
		WordCount:    words,
		TotalPenalty: penalty,
		Annotations:  annotations,
	}
}
