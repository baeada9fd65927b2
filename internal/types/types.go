// Package types provides the shared review data used across the tqa codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

// Segment is one source/target translation unit under review.
// SourceLang and TargetLang are carried for display and export only.
type Segment struct {
	ID         int    `json:"id" yaml:"id"`
	SourceText string `json:"source_text" yaml:"source_text"`
	TargetText string `json:"target_text" yaml:"target_text"`
	SourceLang string `json:"source_lang" yaml:"source_lang"`
	TargetLang string `json:"target_lang" yaml:"target_lang"`
}

// Annotation is a single recorded translation error on a segment's target text.
// ErrorType and Severity are kept as raw labels; the scoring engine decides
// whether they belong to the taxonomy.
type Annotation struct {
	ErrorType   string `json:"error_type" yaml:"error_type"`
	Severity    string `json:"severity" yaml:"severity"`
	Span        string `json:"span" yaml:"span"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// Assessment holds the annotations recorded for one segment, in creation order,
// plus a free-text overall comment.
type Assessment struct {
	Annotations    []Annotation `json:"annotations" yaml:"annotations"`
	OverallComment string       `json:"overall_comment" yaml:"overall_comment"`
}

// Pass/fail labels used in reports and exports.
const (
	VerdictPass = "Pass"
	VerdictFail = "Fail"
)

// Verdict converts a gate result to its label.
func Verdict(pass bool) string {
	if pass {
		return VerdictPass
	}
	return VerdictFail
}
