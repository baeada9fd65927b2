// Package session persists a review session: the segments under review, the
// annotations recorded for each, and the scoring policy the reviewer chose.
package session

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/tqa/internal/scoring"
	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

// CurrentVersion is the session file format version written by Save.
const CurrentVersion = 2

// Session is one review of a translated document.
type Session struct {
	Version         int                        `json:"version" yaml:"version"`
	SessionID       string                     `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	SourceLang      string                     `json:"source_lang" yaml:"source_lang"`
	TargetLang      string                     `json:"target_lang" yaml:"target_lang"`
	Segments        []types.Segment            `json:"segments" yaml:"segments"`
	Assessments     []types.Assessment         `json:"assessments" yaml:"assessments"`
	ScoringSettings *taxonomy.SettingsOverride `json:"scoring_settings,omitempty" yaml:"scoring_settings,omitempty"`
}

// New starts a session with an empty assessment for every segment.
func New(segments []types.Segment, sourceLang, targetLang string) *Session {
	assessments := make([]types.Assessment, len(segments))
	for i := range assessments {
		assessments[i] = types.Assessment{Annotations: []types.Annotation{}}
	}
	return &Session{
		Version:     CurrentVersion,
		SessionID:   uuid.NewString(),
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		Segments:    segments,
		Assessments: assessments,
	}
}

// isYAML reports whether the path should be encoded as YAML.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a session from a JSON or YAML file, chosen by extension.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	s, err := Decode(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse session file %s: %w", path, err)
	}
	return s, nil
}

// Decode parses session bytes and normalizes the assessment list.
func Decode(data []byte, asYAML bool) (*Session, error) {
	var s Session
	if asYAML {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&s); err != nil {
			return nil, err
		}
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &s, nil
}

// normalize pads missing assessments so every segment has one.
func (s *Session) normalize() error {
	if len(s.Assessments) > len(s.Segments) {
		return fmt.Errorf("session has %d assessments for %d segments", len(s.Assessments), len(s.Segments))
	}
	for len(s.Assessments) < len(s.Segments) {
		s.Assessments = append(s.Assessments, types.Assessment{Annotations: []types.Annotation{}})
	}
	for i := range s.Assessments {
		if s.Assessments[i].Annotations == nil {
			s.Assessments[i].Annotations = []types.Annotation{}
		}
	}
	if s.Version == 0 {
		s.Version = CurrentVersion
	}
	return nil
}

// Encode serializes the session as indented JSON or YAML.
func (s *Session) Encode(asYAML bool) ([]byte, error) {
	if asYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the session to path, as YAML for .yaml/.yml and JSON otherwise.
func (s *Session) Save(path string) error {
	data, err := s.Encode(isYAML(path))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Fingerprint returns a stable hash of the session content: segments,
// assessments and stored settings. Sessions with the same fingerprint score
// identically under the same fallback policy; a session without stored
// settings can still score differently when the fallback changes.
func (s *Session) Fingerprint() string {
	canonical := struct {
		Segments    []types.Segment            `json:"segments"`
		Assessments []types.Assessment         `json:"assessments"`
		Settings    *taxonomy.SettingsOverride `json:"scoring_settings"`
	}{s.Segments, s.Assessments, s.ScoringSettings}

	data, err := json.Marshal(canonical)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}

// Result bundles the scores of one session.
type Result struct {
	Segments []scoring.SegmentScore
	Document scoring.DocumentScore
}

// Score runs the scoring engine over a snapshot of the session. Settings
// stored in the session take precedence over fallback; pass force to apply
// fallback regardless. Stored settings that set no field count as absent.
func (s *Session) Score(fallback *taxonomy.SettingsOverride, force bool) Result {
	override := s.ScoringSettings
	if override.IsEmpty() || force {
		override = fallback
	}

	segs := make([]scoring.SegmentScore, 0, len(s.Segments))
	for i, seg := range s.Segments {
		var anns []types.Annotation
		if i < len(s.Assessments) {
			anns = append(anns, s.Assessments[i].Annotations...)
		}
		segs = append(segs, scoring.ScoreSegment(seg.ID, seg.TargetText, anns))
	}

	return Result{
		Segments: segs,
		Document: scoring.ScoreDocument(segs, override),
	}
}
