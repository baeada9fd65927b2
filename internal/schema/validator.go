// Package schema checks review session files before they reach the scoring
// engine. Structure is checked against embedded CUE schemas; taxonomy labels
// and threshold shapes are checked in Go and reported as warnings only, since
// the engine itself tolerates them.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one validation finding.
type Issue struct {
	File     string
	Path     string // dotted location inside the document, empty for whole-file issues
	Message  string
	Severity string
}

// Validator handles CUE validation
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{
		ctx:     cuecontext.New(),
		schemas: make(map[string]cue.Value),
	}
}

// LoadSchemas compiles every embedded .cue file, keyed by base name.
func (v *Validator) LoadSchemas() error {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return fmt.Errorf("could not read embedded schemas: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".cue" {
			continue
		}
		content, err := schemaFS.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return fmt.Errorf("could not read schema %s: %w", entry.Name(), err)
		}
		inst := v.ctx.CompileBytes(content, cue.Filename(entry.Name()))
		if err := inst.Err(); err != nil {
			return fmt.Errorf("could not compile schema %s: %w", entry.Name(), err)
		}
		v.schemas[strings.TrimSuffix(entry.Name(), ".cue")] = inst.Value()
	}

	if len(v.schemas) == 0 {
		return fmt.Errorf("no CUE schemas loaded")
	}
	return nil
}

// ValidateSessionBytes validates raw session content. The file extension
// selects YAML (.yaml, .yml) or JSON decoding.
func (v *Validator) ValidateSessionBytes(file string, data []byte) []Issue {
	asYAML := isYAML(file)
	doc, err := decodeDocument(data, asYAML)
	if err != nil {
		return []Issue{{File: file, Message: fmt.Sprintf("error parsing session: %v", err), Severity: SeverityError}}
	}
	if doc == nil {
		return []Issue{{File: file, Message: "session file is empty", Severity: SeverityError}}
	}

	issues := v.ValidateSession(file, doc)
	if HasErrors(issues) {
		return issues
	}

	s, err := session.Decode(data, asYAML)
	if err != nil {
		return append(issues, Issue{File: file, Message: err.Error(), Severity: SeverityError})
	}
	return append(issues, TaxonomyWarnings(file, s)...)
}

func isYAML(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// decodeDocument decodes into generic maps. JSON numbers are kept as integers
// when they have no fractional part so that `int` constraints can match.
func decodeDocument(data []byte, asYAML bool) (map[string]any, error) {
	var doc map[string]any
	if asYAML {
		if err := yamlv3.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	converted, _ := convertNumbers(doc).(map[string]any)
	return converted, nil
}

func convertNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = convertNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = convertNumbers(val)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// ValidateSession validates decoded session data against #Session.
func (v *Validator) ValidateSession(file string, data map[string]any) []Issue {
	return v.validateAgainst("session", "#Session", file, data)
}

// ValidateSettings validates a scoring_settings object against #Settings.
func (v *Validator) ValidateSettings(file string, data map[string]any) []Issue {
	return v.validateAgainst("session", "#Settings", file, data)
}

// ValidateOverride validates a typed settings override against #Settings.
func (v *Validator) ValidateOverride(file string, o *taxonomy.SettingsOverride) []Issue {
	if o == nil {
		return nil
	}
	data := make(map[string]any)
	if o.RatingThresholds != nil {
		data["rating_thresholds"] = o.RatingThresholds
	}
	if o.PassFailThreshold != nil {
		data["pass_fail_threshold"] = *o.PassFailThreshold
	}
	if o.CriticalErrorMax != nil {
		data["critical_error_max"] = *o.CriticalErrorMax
	}
	return v.ValidateSettings(file, data)
}

func (v *Validator) validateAgainst(schemaName, def, file string, data map[string]any) []Issue {
	schema, ok := v.schemas[schemaName]
	if !ok {
		return []Issue{{File: file, Message: fmt.Sprintf("schema %q not loaded", schemaName), Severity: SeverityError}}
	}

	dataValue := v.ctx.Encode(data)
	if err := dataValue.Err(); err != nil {
		return []Issue{{File: file, Message: fmt.Sprintf("error encoding data: %v", err), Severity: SeverityError}}
	}

	definition := schema.LookupPath(cue.ParsePath(def))
	if !definition.Exists() {
		return []Issue{{File: file, Message: fmt.Sprintf("schema definition %s not found", def), Severity: SeverityError}}
	}

	unified := definition.Unify(dataValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return extractErrors(file, err)
	}
	return nil
}

// extractErrors flattens a CUE error tree into one issue per failure.
func extractErrors(file string, err error) []Issue {
	var issues []Issue
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		path := strings.Join(e.Path(), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		key := path + "|" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		issues = append(issues, Issue{File: file, Path: path, Message: msg, Severity: SeverityError})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{File: file, Message: fmt.Sprintf("schema validation failed: %v", err), Severity: SeverityError})
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// TaxonomyWarnings reports labels and settings the engine will tolerate but
// probably were not intended: out-of-taxonomy labels (scored as zero and left
// out of breakdowns), rating thresholds that will be ignored, descending
// thresholds and duplicate segment ids.
func TaxonomyWarnings(file string, s *session.Session) []Issue {
	var issues []Issue
	warn := func(path, format string, args ...any) {
		issues = append(issues, Issue{File: file, Path: path, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
	}

	seenIDs := make(map[int]bool)
	for i, seg := range s.Segments {
		if seenIDs[seg.ID] {
			warn(fmt.Sprintf("segments.%d.id", i), "duplicate segment id %d", seg.ID)
		}
		seenIDs[seg.ID] = true
	}

	for i, asmt := range s.Assessments {
		for j, a := range asmt.Annotations {
			base := fmt.Sprintf("assessments.%d.annotations.%d", i, j)
			if _, ok := taxonomy.ParseCategory(a.ErrorType); !ok {
				warn(base+".error_type", "unknown error type %q is left out of the breakdown", a.ErrorType)
			}
			if _, ok := taxonomy.ParseSeverity(a.Severity); !ok {
				warn(base+".severity", "unknown severity %q adds no penalty", a.Severity)
			}
			if a.Span != "" && i < len(s.Segments) && !strings.Contains(s.Segments[i].TargetText, a.Span) {
				warn(base+".span", "span %q not found in target text", a.Span)
			}
		}
	}

	if o := s.ScoringSettings; o != nil && len(o.RatingThresholds) > 0 {
		if len(o.RatingThresholds) != 4 {
			warn("scoring_settings.rating_thresholds", "expected 4 rating thresholds, got %d; defaults are used", len(o.RatingThresholds))
		} else if !sort.Float64sAreSorted(o.RatingThresholds) {
			warn("scoring_settings.rating_thresholds", "rating thresholds are not ascending")
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
