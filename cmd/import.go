package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/sheet"
)

var (
	sourceLang string
	targetLang string
)

var importCmd = &cobra.Command{
	Use:   "import <sheet>",
	Short: "Create a review session from a spreadsheet",
	Long: `Create a review session from an .xlsx or .csv sheet.

The first row is a header. The first three columns are read by position:
segment number, source text and target text. Rows missing either text are
skipped. A blank or non-numeric segment number is replaced by the row's
position among the imported segments.

The session is written to --output, or next to the sheet as <name>.tqa.json.
Use a .yaml or .yml output path for a YAML session.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd, args[0]); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&sourceLang, "source-lang", "", "Source language code (default from config)")
	importCmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language code (default from config)")
}

func runImport(cmd *cobra.Command, sheetPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := firstNonEmpty(sourceLang, cfg.SourceLang)
	tgt := firstNonEmpty(targetLang, cfg.TargetLang)

	segments, err := sheet.Parse(sheetPath, src, tgt)
	if err != nil {
		return err
	}

	dest := outputFile
	if dest == "" {
		dest = defaultSessionPath(sheetPath)
	}

	s := session.New(segments, src, tgt)
	if o := cfg.ScoringOverride(); o != nil {
		s.ScoringSettings = o
	}
	if err := s.Save(dest); err != nil {
		return err
	}

	slog.Debug("imported sheet", "sheet", sheetPath, "session", dest, "segments", len(segments))
	if !cfg.Quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d segments from %s into %s\n", len(segments), sheetPath, dest)
	}
	return nil
}

// defaultSessionPath swaps the sheet extension for .tqa.json.
func defaultSessionPath(sheetPath string) string {
	lower := strings.ToLower(sheetPath)
	for _, ext := range []string{".xlsx", ".csv"} {
		if strings.HasSuffix(lower, ext) {
			return sheetPath[:len(sheetPath)-len(ext)] + ".tqa.json"
		}
	}
	return sheetPath + ".tqa.json"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
