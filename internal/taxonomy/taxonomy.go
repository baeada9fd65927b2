// Package taxonomy defines the fixed error catalog of the scorecard: the eleven
// error categories, the three severity levels with their penalty weights, and
// the quality rating bands.
//
// Categories carry a display number used only for report layout. The scorecard
// numbers them 1-3 and 5-12; there is no category 4.
package taxonomy

import "fmt"

// Category is one of the scorecard's error categories.
type Category int

// Error categories in scorecard order.
const (
	Punctuation Category = iota
	Grammar
	Spelling
	Terminology
	Style
	Unidiomatic
	Untranslated
	MajorMistranslation
	CriticalMistranslation
	Omission
	NumericalError
)

// Severity is the seriousness of an error.
type Severity int

// Severity levels, least to most serious.
const (
	Minor Severity = iota
	Major
	Critical
)

type categoryInfo struct {
	label           string
	number          int
	defaultSeverity Severity
}

var categoryTable = [...]categoryInfo{
	Punctuation:            {"Punctuation", 1, Minor},
	Grammar:                {"Grammar", 2, Minor},
	Spelling:               {"Spelling", 3, Minor},
	Terminology:            {"Terminology", 5, Major},
	Style:                  {"Style", 6, Major},
	Unidiomatic:            {"Unidiomatic", 7, Major},
	Untranslated:           {"Untranslated", 8, Major},
	MajorMistranslation:    {"Major Mistranslation", 9, Major},
	CriticalMistranslation: {"Critical Mistranslation", 10, Critical},
	Omission:               {"Omission", 11, Critical},
	NumericalError:         {"Numerical Error", 12, Critical},
}

type severityInfo struct {
	label   string
	penalty int
}

var severityTable = [...]severityInfo{
	Minor:    {"Minor", 1},
	Major:    {"Major", 5},
	Critical: {"Critical", 10},
}

// Categories returns every category in scorecard order.
func Categories() []Category {
	out := make([]Category, len(categoryTable))
	for i := range categoryTable {
		out[i] = Category(i)
	}
	return out
}

// Severities returns every severity level, least serious first.
func Severities() []Severity {
	out := make([]Severity, len(severityTable))
	for i := range severityTable {
		out[i] = Severity(i)
	}
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryTable)
}

// String returns the canonical label, e.g. "Major Mistranslation".
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryTable[c].label
}

// Number returns the scorecard display number.
func (c Category) Number() int {
	if !c.Valid() {
		return 0
	}
	return categoryTable[c].number
}

// DefaultSeverity returns the severity suggested when a new annotation of this
// category is created. It does not constrain what may be recorded.
func (c Category) DefaultSeverity() Severity {
	if !c.Valid() {
		return Minor
	}
	return categoryTable[c].defaultSeverity
}

// MarshalText implements encoding.TextMarshaler so category-keyed maps
// serialize with their labels.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s >= 0 && int(s) < len(severityTable)
}

// String returns the canonical label, e.g. "Critical".
func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityTable[s].label
}

// Penalty returns the penalty weight of the severity.
func (s Severity) Penalty() int {
	if !s.Valid() {
		return 0
	}
	return severityTable[s].penalty
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", string(text))
	}
	*s = parsed
	return nil
}

// ParseCategory looks up a category by its exact label.
func ParseCategory(label string) (Category, bool) {
	for i, info := range categoryTable {
		if info.label == label {
			return Category(i), true
		}
	}
	return 0, false
}

// ParseSeverity looks up a severity by its exact label. Matching is
// case-sensitive: "critical" is not Critical.
func ParseSeverity(label string) (Severity, bool) {
	for i, info := range severityTable {
		if info.label == label {
			return Severity(i), true
		}
	}
	return 0, false
}

// Penalty returns the weight of a raw severity label, 0 when unknown.
func Penalty(severityLabel string) int {
	s, ok := ParseSeverity(severityLabel)
	if !ok {
		return 0
	}
	return s.Penalty()
}

// CategoryLabels returns the canonical category labels in scorecard order.
func CategoryLabels() []string {
	out := make([]string, 0, len(categoryTable))
	for _, info := range categoryTable {
		out = append(out, info.label)
	}
	return out
}

// SeverityLabels returns the canonical severity labels, least serious first.
func SeverityLabels() []string {
	out := make([]string, 0, len(severityTable))
	for _, info := range severityTable {
		out = append(out, info.label)
	}
	return out
}
