package session

import (
	"fmt"

	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

// indexOf returns the position of the first segment with the given id.
func (s *Session) indexOf(segmentID int) (int, error) {
	for i, seg := range s.Segments {
		if seg.ID == segmentID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("segment %d not found", segmentID)
}

// Assessment returns the assessment of the first segment with the given id.
func (s *Session) Assessment(segmentID int) (*types.Assessment, error) {
	i, err := s.indexOf(segmentID)
	if err != nil {
		return nil, err
	}
	return &s.Assessments[i], nil
}

// AddAnnotation appends an annotation to a segment. An empty severity is
// filled with the category's suggested default when the category is known.
func (s *Session) AddAnnotation(segmentID int, a types.Annotation) error {
	asmt, err := s.Assessment(segmentID)
	if err != nil {
		return err
	}
	if a.Severity == "" {
		if c, ok := taxonomy.ParseCategory(a.ErrorType); ok {
			a.Severity = c.DefaultSeverity().String()
		}
	}
	asmt.Annotations = append(asmt.Annotations, a)
	return nil
}

// RemoveAnnotation deletes the annotation at index from a segment, keeping
// the order of the rest.
func (s *Session) RemoveAnnotation(segmentID, index int) error {
	asmt, err := s.Assessment(segmentID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(asmt.Annotations) {
		return fmt.Errorf("segment %d has no annotation at index %d", segmentID, index)
	}
	asmt.Annotations = append(asmt.Annotations[:index], asmt.Annotations[index+1:]...)
	return nil
}

// SetComment replaces a segment's overall comment.
func (s *Session) SetComment(segmentID int, comment string) error {
	asmt, err := s.Assessment(segmentID)
	if err != nil {
		return err
	}
	asmt.OverallComment = comment
	return nil
}
