// Package i18n holds the report label catalogs. Taxonomy labels stay
// English in session files; catalogs only change what reports display.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/dotcommander/tqa/internal/taxonomy"
)

// RatingText is the localized description and recommended action of a rating band.
type RatingText struct {
	Description string
	Action      string
}

// Catalog is one language's report vocabulary.
type Catalog struct {
	Tag language.Tag

	categories map[taxonomy.Category]string
	severities map[taxonomy.Severity]string
	ratings    map[int]RatingText

	Pass string
	Fail string

	Scorecard          string
	ErrorScore         string
	ErrorScorePer1000  string
	ErrorScoreLimit    string
	QualityRating      string
	Overall            string
	WordCount          string
	TotalSegments      string
	TotalErrors        string
	TotalPenaltyPoints string
	CriticalCount      string
	CriticalLimit      string
	Description        string
	ErrorType          string
	Severity           string
	Count              string
	Penalty            string
	ErrorsByType       string
	ErrorsBySeverity   string
	PerSegmentDetails  string
	Segment            string
	Words              string
	Errors             string
	OverallComment     string
	NoErrorsFound      string
	Totals             string
	Unclassified       string
	Fingerprint        string

	// Column headings of the per-annotation export rows.
	SourceText   string
	TargetText   string
	SourceLang   string
	TargetLang   string
	Span         string
	Explanation  string
	SegmentWords string
	SegmentTotal string
}

// Category returns the localized name of a category.
func (c *Catalog) Category(cat taxonomy.Category) string {
	if name, ok := c.categories[cat]; ok {
		return name
	}
	return cat.String()
}

// CategoryLabel localizes a raw error_type label, returning it unchanged
// when it is not in the taxonomy.
func (c *Catalog) CategoryLabel(label string) string {
	if cat, ok := taxonomy.ParseCategory(label); ok {
		return c.Category(cat)
	}
	return label
}

// SeverityName returns the localized name of a severity.
func (c *Catalog) SeverityName(sev taxonomy.Severity) string {
	if name, ok := c.severities[sev]; ok {
		return name
	}
	return sev.String()
}

// SeverityLabel localizes a raw severity label, returning it unchanged
// when it is not in the taxonomy.
func (c *Catalog) SeverityLabel(label string) string {
	if sev, ok := taxonomy.ParseSeverity(label); ok {
		return c.SeverityName(sev)
	}
	return label
}

// Rating returns the localized text of a rating band. Values outside 1-5
// fall back to rating 1.
func (c *Catalog) Rating(value int) RatingText {
	if rt, ok := c.ratings[value]; ok {
		return rt
	}
	return c.ratings[1]
}

// Verdict returns the localized pass or fail label.
func (c *Catalog) Verdict(pass bool) string {
	if pass {
		return c.Pass
	}
	return c.Fail
}

var (
	supported = []language.Tag{language.English, language.Finnish}
	matcher   = language.NewMatcher(supported)
	catalogs  = map[language.Tag]*Catalog{
		language.English: english,
		language.Finnish: finnish,
	}
)

// Supported returns the tags of the available catalogs.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// Match returns the catalog best matching a BCP 47 tag or Accept-Language
// style list such as "fi-FI" or "sv,fi;q=0.8". Unparseable or unsupported
// input yields English.
func Match(tag string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(tag)
	if err != nil || len(tags) == 0 {
		return english
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return english
	}
	return catalogs[supported[index]]
}

// English returns the English catalog.
func English() *Catalog { return english }
