package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

const sheetCSV = `Segment,Source,Target
1,The cat sat on the mat.,Kissa istui matolla.
2,The dog ran.,Koira juoksi.
,Missing target,
`

func TestImport_CSV(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.csv"), []byte(sheetCSV), 0644))

	res := runCLI(t, "import", "review.csv", "--source-lang", "en", "--target-lang", "fi")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Imported 2 segments from review.csv into review.tqa.json")

	s, err := session.Load(filepath.Join(dir, "review.tqa.json"))
	require.NoError(t, err)
	assert.Equal(t, session.CurrentVersion, s.Version)
	assert.NotEmpty(t, s.SessionID)
	assert.Equal(t, "en", s.SourceLang)
	assert.Equal(t, "fi", s.TargetLang)
	require.Len(t, s.Segments, 2)
	assert.Equal(t, "Koira juoksi.", s.Segments[1].TargetText)
	assert.Len(t, s.Assessments, 2)
	assert.Nil(t, s.ScoringSettings)
}

func TestImport_OutputPathAndConfigDefaults(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "review.csv"), []byte(sheetCSV), 0644))

	res := runCLI(t, "import", "review.csv", "-o", "out/session.tqa.yaml", "--quiet")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Empty(t, res.stdout)

	s, err := session.Load(filepath.Join(dir, "out", "session.tqa.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "en", s.SourceLang)
	assert.Equal(t, "fi", s.TargetLang)
}

func TestImport_TooFewColumns(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "narrow.csv"), []byte("a,b\n1,2\n"), 0644))

	res := runCLI(t, "import", "narrow.csv")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "at least 3 columns")
}

func TestDefaultSessionPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"review.xlsx", "review.tqa.json"},
		{"dir/Review.XLSX", "dir/Review.tqa.json"},
		{"sheet.csv", "sheet.tqa.json"},
		{"noext", "noext.tqa.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultSessionPath(tt.in), tt.in)
	}
}

func TestAnnotate_AddRemoveComment(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "s.tqa.json")
	writeSession(t, path, "Kissa istui matolla.", "Koira juoksi.")

	res := runCLI(t, "annotate", path, "--segment", "1", "--type", "Grammar", "--span", "istui", "--explanation", "Wrong tense")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Added Grammar / Minor to segment 1 (-1 points)")

	res = runCLI(t, "annotate", path, "-s", "1", "-t", "Terminology", "--severity", "Critical", "--span", "matolla")
	require.Equal(t, 0, res.exitCode, res.stderr)

	res = runCLI(t, "annotate", path, "--segment", "2", "--comment", "Sujuva")
	require.Equal(t, 0, res.exitCode, res.stderr)

	s, err := session.Load(path)
	require.NoError(t, err)
	anns := s.Assessments[0].Annotations
	require.Len(t, anns, 2)
	assert.Equal(t, "Minor", anns[0].Severity)
	assert.Equal(t, "Wrong tense", anns[0].Explanation)
	assert.Equal(t, "Critical", anns[1].Severity)
	assert.Equal(t, "Sujuva", s.Assessments[1].OverallComment)

	res = runCLI(t, "annotate", path, "--segment", "1", "--remove", "0")
	require.Equal(t, 0, res.exitCode, res.stderr)

	s, err = session.Load(path)
	require.NoError(t, err)
	require.Len(t, s.Assessments[0].Annotations, 1)
	assert.Equal(t, "Terminology", s.Assessments[0].Annotations[0].ErrorType)
}

func TestAnnotate_WarnsOnMissingSpan(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "s.tqa.json")
	writeSession(t, path, "Kissa istui.")

	res := runCLI(t, "annotate", path, "--segment", "1", "--type", "Spelling", "--span", "koira")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stderr, `Warning: span "koira" not found`)
}

func TestAnnotate_Errors(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "s.tqa.json")
	writeSession(t, path, "Kissa istui.")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"nothing to do", []string{"--segment", "1"}, "nothing to do"},
		{"unknown type", []string{"--segment", "1", "--type", "Formatting"}, `unknown error type "Formatting"`},
		{"lowercase severity", []string{"--segment", "1", "--type", "Style", "--severity", "critical"}, `unknown severity "critical"`},
		{"unknown segment", []string{"--segment", "9", "--type", "Style"}, "segment 9 not found"},
		{"bad index", []string{"--segment", "1", "--remove", "3"}, "no annotation at index 3"},
		{"type and remove", []string{"--segment", "1", "--type", "Style", "--remove", "0"}, "cannot be combined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, append([]string{"annotate", path}, tt.args...)...)
			assert.Equal(t, 1, res.exitCode)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}

	s, err := session.Load(path)
	require.NoError(t, err)
	assert.Empty(t, s.Assessments[0].Annotations)
}

func TestValidate(t *testing.T) {
	dir := chdirTemp(t)
	good := filepath.Join(dir, "good.tqa.json")
	writeSession(t, good, "Kissa istui.")

	odd := filepath.Join(dir, "odd.tqa.json")
	require.NoError(t, os.WriteFile(odd, []byte(`{
  "segments": [{"id": 1, "source_text": "Cat", "target_text": "Kissa"}],
  "assessments": [{"annotations": [{"error_type": "Formatting", "severity": "Minor", "span": "Kissa", "explanation": ""}]}]
}`), 0644))

	bad := filepath.Join(dir, "bad.tqa.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"segments": "none"}`), 0644))

	res := runCLI(t, "validate", good)
	assert.Equal(t, 0, res.exitCode, res.stdout)
	assert.Contains(t, res.stdout, "1 file checked, 0 errors, 0 warnings")

	res = runCLI(t, "validate", odd)
	assert.Equal(t, 0, res.exitCode, res.stdout)
	assert.Contains(t, res.stdout, "warning")
	assert.Contains(t, res.stdout, `unknown error type "Formatting"`)

	res = runCLI(t, "validate", odd, "--strict")
	assert.Equal(t, 1, res.exitCode)

	res = runCLI(t, "validate", bad)
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stdout, "error "+bad)
}

func TestTaxonomyCmd(t *testing.T) {
	chdirTemp(t)

	res := runCLI(t, "taxonomy")
	require.Equal(t, 0, res.exitCode, res.stderr)
	for _, label := range taxonomy.CategoryLabels() {
		assert.Contains(t, res.stdout, label)
	}
	assert.Contains(t, res.stdout, "Penalty")

	res = runCLI(t, "taxonomy", "--lang", "fi")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Virhetyyppi")
	assert.Contains(t, res.stdout, "Pisteet")
}

func TestSettingsCmd(t *testing.T) {
	dir := chdirTemp(t)

	res := runCLI(t, "settings")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Scoring settings (from defaults)")
	assert.Contains(t, res.stdout, "Error score threshold: 40")
	assert.Contains(t, res.stdout, "Critical error limit: 1")
	assert.Contains(t, res.stdout, "1  > 40")

	path := filepath.Join(dir, "own.tqa.json")
	s := writeSession(t, path, "Yksi.")
	cm := 0
	s.ScoringSettings = &taxonomy.SettingsOverride{CriticalErrorMax: &cm, RatingThresholds: []float64{1, 2, 3, 4}}
	require.NoError(t, s.Save(path))

	res = runCLI(t, "settings", path, "--format", "json")
	require.Equal(t, 0, res.exitCode, res.stderr)
	var got taxonomy.Settings
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &got))
	assert.Equal(t, 0, got.CriticalErrorMax)
	assert.Equal(t, [4]float64{1, 2, 3, 4}, got.RatingThresholds)
	assert.Equal(t, taxonomy.DefaultPassFailThreshold, got.PassFailThreshold)

	res = runCLI(t, "settings", path, "--force-settings")
	require.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "(from defaults)")
}

func TestSettingsCmd_Write(t *testing.T) {
	dir := chdirTemp(t)
	target := filepath.Join(dir, "saved", ".tqarc.json")

	res := runCLI(t, "settings", "--write", target, "--lang", "fi")
	require.Equal(t, 0, res.exitCode, res.stderr)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, "fi", saved["lang"])
	assert.Equal(t, "console", saved["format"])
}

func TestFmtCmd(t *testing.T) {
	dir := chdirTemp(t)
	writeSession(t, filepath.Join(dir, "tidy.tqa.json"), "Kissa istui.")
	messy := filepath.Join(dir, "messy.tqa.json")
	require.NoError(t, os.WriteFile(messy,
		[]byte(`{"segments":[{"id":1,"source_text":"Cat","target_text":"Kissa"}]}`), 0644))

	res := runCLI(t, "fmt", "--check")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stdout, "messy.tqa.json needs formatting")
	assert.NotContains(t, res.stdout, "tidy.tqa.json needs formatting")
	assert.Contains(t, res.stdout, "1 of 2 files need formatting")

	res = runCLI(t, "fmt", "--diff", "messy.tqa.json")
	assert.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "+++ messy.tqa.json (formatted)")

	res = runCLI(t, "fmt", "messy.tqa.json")
	assert.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, `"annotations": []`)

	res = runCLI(t, "fmt", "--write")
	assert.Equal(t, 0, res.exitCode, res.stderr)
	assert.Contains(t, res.stdout, "Formatted 1 of 2 files")

	res = runCLI(t, "fmt", "--check")
	assert.Equal(t, 0, res.exitCode, res.stdout)
	assert.Contains(t, res.stdout, "All 2 files already formatted")
}

func TestFmtCmd_Errors(t *testing.T) {
	dir := chdirTemp(t)

	res := runCLI(t, "fmt")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "no session files to format")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tqa.json"), []byte(`{"segments": [`), 0644))
	res = runCLI(t, "fmt", "bad.tqa.json")
	assert.Equal(t, 1, res.exitCode)
	assert.Contains(t, res.stderr, "error formatting bad.tqa.json")
}
