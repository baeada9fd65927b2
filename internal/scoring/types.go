package scoring

import (
	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

// SegmentScore is the derived score of one segment. It is created fresh on
// every scoring pass and never mutated afterwards.
type SegmentScore struct {
	SegmentID    int                `json:"segment_id"`
	WordCount    int                `json:"word_count"`    // >= 1
	TotalPenalty int                `json:"total_penalty"` // sum of severity weights
	Annotations  []types.Annotation `json:"annotations"`
}

// Unclassified counts annotations whose labels fall outside the taxonomy.
// They weigh nothing and are left out of the breakdown maps.
type Unclassified struct {
	Categories int `json:"categories"`
	Severities int `json:"severities"`
}

// Any reports whether any out-of-taxonomy label was seen.
func (u Unclassified) Any() bool {
	return u.Categories > 0 || u.Severities > 0
}

// DocumentScore is the aggregated score of a whole document.
type DocumentScore struct {
	TotalSegments    int     `json:"total_segments"`
	TotalWordCount   int     `json:"total_word_count"`
	TotalPenalty     int     `json:"total_penalty"`
	TotalAnnotations int     `json:"total_annotations"`
	ErrorScore       float64 `json:"error_score"`     // penalty points per 1000 words, 2 decimals
	RawErrorScore    float64 `json:"raw_error_score"` // unrounded, used for all comparisons

	CriticalErrorCount int  `json:"critical_error_count"`
	ErrorScorePass     bool `json:"error_score_pass"`
	CriticalPass       bool `json:"critical_count_pass"`
	OverallPass        bool `json:"overall_pass"`

	Rating   taxonomy.Rating   `json:"quality_rating"`
	Settings taxonomy.Settings `json:"settings"`

	CategoryCounts    map[taxonomy.Category]int                       `json:"error_type_counts"`
	SeverityCounts    map[taxonomy.Severity]int                       `json:"severity_counts"`
	Matrix            map[taxonomy.Category]map[taxonomy.Severity]int `json:"error_type_severity_counts"`
	CategoryPenalties map[taxonomy.Category]int                       `json:"error_type_penalties"`
	Unclassified      Unclassified                                    `json:"unclassified"`
}
