package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/format"
)

var (
	fmtCheck bool
	fmtWrite bool
	fmtDiff  bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files or directories...]",
	Short: "Rewrite session files in canonical form",
	Long: `Rewrite review session files in canonical form.

Sessions are decoded and re-encoded: two-space indentation, one assessment
per segment and the current file version. Files are found the same way as
for score.

USAGE MODES:

  tqa fmt                   # Print formatted sessions to stdout
  tqa fmt --write           # Rewrite files in place
  tqa fmt --diff a.tqa.json # Show what would change
  tqa fmt --check           # Exit 1 if any file needs formatting (CI)`,
	Run: func(cmd *cobra.Command, args []string) {
		ok, err := runFmt(cmd, args)
		if err != nil {
			fail(err)
			return
		}
		if !ok {
			exitFunc(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Exit 1 if files would change (for CI)")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write changes in place")
	fmtCmd.Flags().BoolVar(&fmtDiff, "diff", false, "Show diff of what would change")
}

// runFmt returns false when --check finds files that need formatting.
func runFmt(cmd *cobra.Command, args []string) (bool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return false, err
	}

	files, err := sessionFiles(cfg, args)
	if err != nil {
		return false, err
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no session files to format")
	}

	out := cmd.OutOrStdout()
	changed := 0
	for _, path := range files {
		res, err := format.File(path)
		if err != nil {
			return false, err
		}

		if !res.Changed() {
			if cfg.Verbose {
				fmt.Fprintf(out, "%s already formatted\n", path)
			}
			if !fmtCheck && !fmtWrite && !fmtDiff {
				_, _ = out.Write(res.Formatted)
			}
			continue
		}
		changed++

		switch {
		case fmtCheck:
			if !cfg.Quiet {
				fmt.Fprintf(out, "%s needs formatting\n", path)
			}
		case fmtDiff:
			fmt.Fprint(out, format.Diff(string(res.Original), string(res.Formatted), path))
		case fmtWrite:
			if err := res.Write(); err != nil {
				return false, err
			}
			if !cfg.Quiet {
				fmt.Fprintf(out, "Formatted %s\n", path)
			}
		default:
			_, _ = out.Write(res.Formatted)
		}
	}

	if !cfg.Quiet && len(files) > 1 && (fmtCheck || fmtWrite) {
		if changed == 0 {
			fmt.Fprintf(out, "\nAll %d files already formatted\n", len(files))
		} else if fmtWrite {
			fmt.Fprintf(out, "\nFormatted %d of %d files\n", changed, len(files))
		} else {
			fmt.Fprintf(out, "\n%d of %d files need formatting\n", changed, len(files))
		}
	}

	return !fmtCheck || changed == 0, nil
}
