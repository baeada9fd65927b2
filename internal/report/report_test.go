package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

func testSession() *session.Session {
	s := session.New([]types.Segment{
		{ID: 1, SourceText: "The cat sat on the mat.", TargetText: "Kissa istui matolla.", SourceLang: "englanti", TargetLang: "suomi"},
		{ID: 2, SourceText: "Three dogs.", TargetText: "Neljä koiraa.", SourceLang: "englanti", TargetLang: "suomi"},
	}, "englanti", "suomi")
	s.Assessments[0].Annotations = []types.Annotation{
		{ErrorType: "Grammar", Severity: "Minor", Span: "istui", Explanation: "tense"},
		{ErrorType: "Accuracy", Severity: "Major", Span: "kissa", Explanation: "case mismatch"},
	}
	s.Assessments[1].Annotations = []types.Annotation{
		{ErrorType: "Numerical Error", Severity: "Critical", Span: "Neljä", Explanation: "3 not 4"},
	}
	s.Assessments[1].OverallComment = "Numero väärin"
	return s
}

func TestBuild(t *testing.T) {
	s := testSession()
	r := Build("review.tqa.json", s, s.Score(nil, false), i18n.Match("fi"))

	assert.Equal(t, "review.tqa.json", r.File)
	assert.Equal(t, s.Fingerprint(), r.Fingerprint)
	assert.Equal(t, "englanti", r.SourceLang)

	// 16 penalty points over 5 words.
	assert.Equal(t, 3200.0, r.Document.ErrorScore)
	assert.Equal(t, "Hylätty", r.Overall)
	assert.Equal(t, "Hylätty", r.ErrorScore)
	assert.Equal(t, "Hyväksytty", r.Critical)
	assert.Equal(t, "Erittäin vakavia puutteita", r.Rating.Description)

	require.Len(t, r.Scorecard, 11)
	var numbers []int
	for _, row := range r.Scorecard {
		numbers = append(numbers, row.Number)
	}
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7, 8, 9, 10, 11, 12}, numbers)

	grammar := r.Scorecard[1]
	assert.Equal(t, "Kielioppi", grammar.Label)
	assert.Equal(t, 1, grammar.Count)
	assert.Equal(t, 1, grammar.Minor)
	assert.Equal(t, 1, grammar.Penalty)

	numerical := r.Scorecard[10]
	assert.Equal(t, taxonomy.NumericalError, numerical.Category)
	assert.Equal(t, 1, numerical.Critical)
	assert.Equal(t, 10, numerical.Penalty)

	assert.Equal(t, []SeverityRow{
		{Severity: taxonomy.Minor, Label: "Vähäinen", Count: 1},
		{Severity: taxonomy.Major, Label: "Merkittävä", Count: 1},
		{Severity: taxonomy.Critical, Label: "Kriittinen", Count: 1},
	}, r.BySeverity)

	require.Len(t, r.Segments, 2)
	assert.Equal(t, 3, r.Segments[0].Words)
	assert.Equal(t, 2, r.Segments[0].Errors)
	assert.Equal(t, 6, r.Segments[0].Penalty)
	assert.Equal(t, "Numero väärin", r.Segments[1].Comment)
	assert.Equal(t, "Neljä koiraa.", r.Segments[1].TargetText)
	assert.Equal(t, 1, r.MissingSpans(), "lowercase kissa is not in the target")
}

func TestBuildDefaultsToEnglish(t *testing.T) {
	s := testSession()
	r := Build("x.json", s, s.Score(nil, false), nil)

	assert.Equal(t, "Fail", r.Overall)
	assert.Equal(t, "Grammar", r.Scorecard[1].Label)
	assert.Same(t, i18n.English(), r.Catalog)
}

func TestObserved(t *testing.T) {
	s := testSession()
	r := Build("x.json", s, s.Score(nil, false), nil)

	var got []taxonomy.Category
	for _, row := range r.Observed() {
		got = append(got, row.Category)
	}
	assert.Equal(t, []taxonomy.Category{taxonomy.Grammar, taxonomy.NumericalError}, got)
}

func TestScorecardCountsUnknownSeverity(t *testing.T) {
	s := session.New([]types.Segment{{ID: 1, SourceText: "Cat", TargetText: "Kissa istui"}}, "en", "fi")
	s.Assessments[0].Annotations = []types.Annotation{
		{ErrorType: "Grammar", Severity: "Minor"},
		{ErrorType: "Grammar", Severity: "Trivial"},
	}
	r := Build("odd.tqa.json", s, s.Score(nil, false), nil)

	var grammar ScorecardRow
	for _, row := range r.Scorecard {
		if row.Category == taxonomy.Grammar {
			grammar = row
		}
	}
	assert.Equal(t, 2, grammar.Count, "row count matches the type breakdown")
	assert.Equal(t, 1, grammar.Minor)
	assert.Equal(t, 1, grammar.Penalty)
	assert.Equal(t, r.Document.CategoryCounts[taxonomy.Grammar], grammar.Count)

	observed := r.Observed()
	require.Len(t, observed, 1)
	assert.Equal(t, grammar.Count, observed[0].Count)
}

func TestSummary(t *testing.T) {
	failing := testSession()
	passing := session.New([]types.Segment{{ID: 1, TargetText: "Hei maailma"}}, "en", "fi")

	var sum Summary
	sum.Add(Build("a.json", failing, failing.Score(nil, false), nil))
	sum.Add(Build("b.json", passing, passing.Score(nil, false), nil))

	assert.Len(t, sum.Reports, 2)
	assert.Equal(t, 1, sum.Passed())
	assert.Equal(t, 1, sum.Failed())
}
