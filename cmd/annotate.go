package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
	"github.com/dotcommander/tqa/internal/types"
)

var (
	annSegment     int
	annType        string
	annSeverity    string
	annSpan        string
	annExplanation string
	annRemove      int
	annComment     string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <session>",
	Short: "Add or remove an error annotation, or set a segment comment",
	Long: `Edit the assessment of one segment in a review session.

  Add an annotation:     --segment N --type "Grammar" [--severity Major] --span "..." --explanation "..."
  Remove an annotation:  --segment N --remove INDEX   (0-based, in creation order)
  Set the comment:       --segment N --comment "..."

When --severity is omitted the error type's suggested severity is used.
Error types and severities must be taxonomy labels; see "tqa taxonomy".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAnnotate(cmd, args[0]); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().IntVarP(&annSegment, "segment", "s", 0, "Segment id")
	annotateCmd.Flags().StringVarP(&annType, "type", "t", "", "Error type label")
	annotateCmd.Flags().StringVar(&annSeverity, "severity", "", "Severity label (Minor|Major|Critical)")
	annotateCmd.Flags().StringVar(&annSpan, "span", "", "Erroneous text as it appears in the target")
	annotateCmd.Flags().StringVarP(&annExplanation, "explanation", "e", "", "Why this is an error")
	annotateCmd.Flags().IntVar(&annRemove, "remove", -1, "Remove the annotation at this index")
	annotateCmd.Flags().StringVarP(&annComment, "comment", "c", "", "Overall comment for the segment")
	_ = annotateCmd.MarkFlagRequired("segment")
}

func runAnnotate(cmd *cobra.Command, path string) error {
	setComment := cmd.Flags().Changed("comment")
	if annType == "" && annRemove < 0 && !setComment {
		return errors.New("nothing to do: pass --type, --remove or --comment")
	}
	if annType != "" && annRemove >= 0 {
		return errors.New("--type and --remove cannot be combined")
	}

	s, err := session.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case annRemove >= 0:
		if err := s.RemoveAnnotation(annSegment, annRemove); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed annotation %d from segment %d\n", annRemove, annSegment)
	case annType != "":
		a, err := newAnnotation()
		if err != nil {
			return err
		}
		if err := s.AddAnnotation(annSegment, a); err != nil {
			return err
		}
		warnMissingSpan(s, annSegment, a.Span)
		asmt, _ := s.Assessment(annSegment)
		added := asmt.Annotations[len(asmt.Annotations)-1]
		fmt.Fprintf(out, "Added %s / %s to segment %d (-%d points)\n",
			added.ErrorType, added.Severity, annSegment, taxonomy.Penalty(added.Severity))
	}

	if setComment {
		if err := s.SetComment(annSegment, annComment); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated comment on segment %d\n", annSegment)
	}

	return s.Save(path)
}

// newAnnotation builds an annotation from the flags, rejecting labels
// outside the taxonomy.
func newAnnotation() (types.Annotation, error) {
	if _, ok := taxonomy.ParseCategory(annType); !ok {
		return types.Annotation{}, fmt.Errorf("unknown error type %q; valid types: %s",
			annType, strings.Join(taxonomy.CategoryLabels(), ", "))
	}
	if annSeverity != "" {
		if _, ok := taxonomy.ParseSeverity(annSeverity); !ok {
			return types.Annotation{}, fmt.Errorf("unknown severity %q; valid severities: %s",
				annSeverity, strings.Join(taxonomy.SeverityLabels(), ", "))
		}
	}
	return types.Annotation{
		ErrorType:   annType,
		Severity:    annSeverity,
		Span:        annSpan,
		Explanation: annExplanation,
	}, nil
}

func warnMissingSpan(s *session.Session, segmentID int, span string) {
	if span == "" {
		return
	}
	for _, seg := range s.Segments {
		if seg.ID == segmentID {
			if !strings.Contains(seg.TargetText, span) {
				fmt.Fprintf(errWriter, "Warning: span %q not found in the target text of segment %d\n", span, segmentID)
			}
			return
		}
	}
}
