package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/types"
)

func failingSession() *session.Session {
	s := session.New([]types.Segment{
		{ID: 1, SourceText: "The cat sat on the mat.", TargetText: "Kissa istui matolla.", SourceLang: "englanti", TargetLang: "suomi"},
		{ID: 2, SourceText: "Three dogs.", TargetText: "Neljä koiraa.", SourceLang: "englanti", TargetLang: "suomi"},
	}, "englanti", "suomi")
	s.Assessments[0].Annotations = []types.Annotation{
		{ErrorType: "Grammar", Severity: "Minor", Span: "istui", Explanation: "tense"},
		{ErrorType: "Accuracy", Severity: "Major", Span: "matolla", Explanation: "not in taxonomy"},
	}
	s.Assessments[1].Annotations = []types.Annotation{
		{ErrorType: "Numerical Error", Severity: "Critical", Span: "Neljä", Explanation: "3 not 4"},
	}
	s.Assessments[1].OverallComment = "Numero väärin"
	return s
}

func passingSession() *session.Session {
	return session.New([]types.Segment{
		{ID: 1, SourceText: "Hello world", TargetText: "Hei maailma"},
	}, "en", "fi")
}

func summaryOf(lang string, sessions map[string]*session.Session, order ...string) *report.Summary {
	sum := &report.Summary{StartTime: time.Now()}
	for _, name := range order {
		s := sessions[name]
		sum.Add(report.Build(name, s, s.Score(nil, false), i18n.Match(lang)))
	}
	return sum
}

func singleFailing(lang string) *report.Summary {
	return summaryOf(lang, map[string]*session.Session{"review.tqa.json": failingSession()}, "review.tqa.json")
}

func TestConsoleFormatter_Format(t *testing.T) {
	tests := []struct {
		name            string
		summary         *report.Summary
		quiet           bool
		verbose         bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:            "quiet mode - no output",
			summary:         singleFailing("en"),
			quiet:           true,
			wantNotContains: []string{"review.tqa.json"},
		},
		{
			name:    "failing document",
			summary: singleFailing("en"),
			wantContains: []string{
				"review.tqa.json  ✗ Fail",
				"Error score / 1000 words: 3200.00  (≤ 40: ✗ Fail)",
				"Critical errors: 1  (≤ 1: ✓ Pass)",
				"Quality rating: 1/5 Very serious deficiencies",
				"Rejected. Retranslation required.",
				"Word count: 5  Total errors: 3  Total penalty points: 16",
				"Numerical Error",
				"Minor (x1)",
				"Unclassified: Error type 1, Severity 0",
			},
			wantNotContains: []string{"Per-segment details", "passed ("},
		},
		{
			name:    "verbose shows highlighted segments",
			summary: singleFailing("en"),
			verbose: true,
			wantContains: []string{
				"Per-segment details",
				"Segment 1  Words: 3  Errors: 2  Penalty: 6",
				"Kissa [istui] [matolla].",
				`- Grammar / Minor: "istui" tense`,
				"Overall comment: Numero väärin",
			},
		},
		{
			name:    "finnish labels",
			summary: singleFailing("fi"),
			wantContains: []string{
				"✗ Hylätty",
				"Kriittiset virheet: 1",
				"Numerovirhe",
				"Vähäinen (x1)",
			},
		},
		{
			name: "batch summary line",
			summary: summaryOf("en", map[string]*session.Session{
				"a.tqa.json": passingSession(),
				"b.tqa.json": failingSession(),
			}, "a.tqa.json", "b.tqa.json"),
			wantContains: []string{
				"a.tqa.json  ✓ Pass",
				"No errors found!",
				"1/2 passed, 1 failure (",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewConsoleFormatter(tt.quiet, tt.verbose)
			f.styles = NewStyles(false)
			f.out = &buf

			require.NoError(t, f.Format(tt.summary))
			got := buf.String()
			if tt.quiet {
				assert.Empty(t, got)
			}
			for _, want := range tt.wantContains {
				assert.Contains(t, got, want)
			}
			for _, not := range tt.wantNotContains {
				assert.NotContains(t, got, not)
			}
		})
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(false, true, "", "1.2.3")
	f.out = &buf

	sum := summaryOf("en", map[string]*session.Session{
		"a.tqa.json": passingSession(),
		"b.tqa.json": failingSession(),
	}, "a.tqa.json", "b.tqa.json")
	require.NoError(t, f.Format(sum))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	header := got["header"].(map[string]any)
	assert.Equal(t, "tqa", header["tool"])
	assert.Equal(t, "1.2.3", header["version"])
	_, err := time.Parse(time.RFC3339, header["timestamp"].(string))
	assert.NoError(t, err)

	summary := got["summary"].(map[string]any)
	assert.Equal(t, 2.0, summary["total_documents"])
	assert.Equal(t, 1.0, summary["passed"])

	docs := got["documents"].([]any)
	require.Len(t, docs, 2)
	first := docs[0].(map[string]any)
	assert.Equal(t, "a.tqa.json", first["file"])
	assert.Len(t, first["fingerprint"], 64)
	segs := first["segments"].([]any)
	assert.Equal(t, []any{}, segs[0].(map[string]any)["annotations"])

	score := docs[1].(map[string]any)["score"].(map[string]any)
	assert.Equal(t, 3200.0, score["error_score"])
	assert.Equal(t, false, score["overall_pass"])
	assert.Equal(t, 1.0, score["error_type_counts"].(map[string]any)["Numerical Error"])
	assert.Equal(t, 1.0, score["error_type_severity_counts"].(map[string]any)["Grammar"].(map[string]any)["Minor"])
	assert.Equal(t, 1.0, score["unclassified"].(map[string]any)["categories"])
	rating := score["quality_rating"].(map[string]any)
	assert.Equal(t, 1.0, rating["value"])
}

func TestJSONFormatter_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	f := NewJSONFormatter(false, false, path, "dev")

	require.NoError(t, f.Format(singleFailing("en")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
	assert.Equal(t, 1, strings.Count(string(data), "\n"), "compact output is one line")
}

func TestJSONFormatter_BadOutputPath(t *testing.T) {
	f := NewJSONFormatter(false, false, filepath.Join(t.TempDir(), "missing", "report.json"), "dev")
	assert.ErrorContains(t, f.Format(singleFailing("en")), "error writing to file")
}

func TestMarkdownFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(false, true, "")
	f.out = &buf

	sum := summaryOf("en", map[string]*session.Session{
		"a.tqa.json": passingSession(),
		"b.tqa.json": failingSession(),
	}, "a.tqa.json", "b.tqa.json")
	sum.Root = "reviews"
	require.NoError(t, f.Format(sum))
	got := buf.String()

	for _, want := range []string{
		"# Translation Quality Report",
		"**Root:** reviews",
		"- ✅ [a.tqa.json](#atqajson)",
		"- ❌ [b.tqa.json](#btqajson)",
		"## b.tqa.json",
		"| Error score / 1000 words | 3200.00 (≤ 40: Fail) |",
		"| Unclassified | Error type 1, Severity 0 |",
		"| 12 | Numerical Error | 1 |  |  | 1 | 10 |",
		"| 1 | 3 | 2 | 6 |  |",
		"| 2 | 2 | 1 | 10 | Numero väärin |",
		"Kissa **istui** **matolla**.",
		"✗ 1 document failed",
	} {
		assert.Contains(t, got, want)
	}
}

func TestMarkdownFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(false, false, "")
	f.out = &buf

	require.NoError(t, f.Format(&report.Summary{}))
	assert.Contains(t, buf.String(), "*No sessions found to score.*")
	assert.Contains(t, buf.String(), "✓ 0/0 documents passed")
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter("")
	f.out = &buf

	require.NoError(t, f.Format(singleFailing("fi")))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Segmentti", "Lähdeteksti", "Kohdeteksti", "Lähdekieli", "Kohdekieli",
		"Virhetyyppi", "Vakavuusaste", "Virhejakso", "Selitys", "Pisteet",
		"Segmentin sanamäärä", "Segmentin virhepistesumma", "Yleiskommentti",
	}, records[0])
	assert.Equal(t, []string{
		"1", "The cat sat on the mat.", "Kissa istui matolla.", "englanti", "suomi",
		"Grammar", "Minor", "istui", "tense", "1", "3", "6", "",
	}, records[1])
	assert.Equal(t, "Accuracy", records[2][5])
	assert.Equal(t, "5", records[2][9])
	assert.Equal(t, "Numero väärin", records[3][12])

	rows := map[string][]string{}
	for _, rec := range records[4:] {
		if len(rec) > 1 {
			rows[rec[0]] = rec
		}
	}
	assert.Equal(t, []string{"Segmenttejä yhteensä", "2"}, rows["Segmenttejä yhteensä"])
	assert.Equal(t, []string{"Virhepisteet / 1000 sanaa", "3200.00"}, rows["Virhepisteet / 1000 sanaa"])
	assert.Equal(t, []string{"Virhepisteiden raja-arvo", "≤ 40"}, rows["Virhepisteiden raja-arvo"])
	assert.Equal(t, []string{"Kokonaistulos", "Hylätty"}, rows["Kokonaistulos"])
	assert.Equal(t, []string{"Laatuarvosana", "1/5 - Erittäin vakavia puutteita"}, rows["Laatuarvosana"])
	assert.Equal(t, []string{"Numerovirhe", "1", "10"}, rows["Numerovirhe"])
	assert.Equal(t, []string{"Kielioppi", "1", "1"}, rows["Kielioppi"])
	assert.Equal(t, []string{"Luokittelematon", "1", ""}, rows["Luokittelematon"])
	assert.Equal(t, []string{"Merkittävä", "1"}, rows["Merkittävä"])
}

func TestCSVFormatter_NoAnnotations(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter("")
	f.out = &buf

	sum := summaryOf("en", map[string]*session.Session{"a.json": passingSession()}, "a.json")
	require.NoError(t, f.Format(sum))

	records, err := func() ([][]string, error) {
		r := csv.NewReader(strings.NewReader(buf.String()))
		r.FieldsPerRecord = -1
		return r.ReadAll()
	}()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "Hello world", "Hei maailma", "", "", "", "", "", "", "0", "2", "0", ""}, records[1])
}

func TestStyles(t *testing.T) {
	plain := NewStyles(false)
	assert.False(t, plain.Enabled())
	assert.Equal(t, "[x]", plain.Mark("x", "Minor"))
	assert.Equal(t, "✓ ok", plain.Verdict(true, "ok"))
	assert.Equal(t, "✗ no", plain.Verdict(false, "no"))

	colored := NewStyles(true)
	assert.True(t, colored.Enabled())
	assert.Contains(t, colored.Mark("x", "Minor"), "x")
	assert.Contains(t, colored.Mark("x", "Blocker"), "x")
}

func TestPrintCelebration(t *testing.T) {
	old := frameDelay
	frameDelay = 0
	defer func() { frameDelay = old }()

	var buf bytes.Buffer
	printCelebration(&buf, "2/2 passed")
	assert.Contains(t, buf.String(), "2/2 passed")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}
