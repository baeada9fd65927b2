package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/schema"
)

var strictValidate bool

var validateCmd = &cobra.Command{
	Use:   "validate [files or directories...]",
	Short: "Check session files against the session schema",
	Long: `Check review session files before scoring.

Errors are structural problems (missing segments, wrong types, malformed
JSON/YAML) that stop a session from being scored. Warnings flag content the
scorer tolerates but probably did not intend: error types or severities outside
the taxonomy, spans missing from the target text, duplicate segment ids and
rating thresholds that will be ignored.

Exits with status 1 when any file has errors, or warnings with --strict.`,
	Run: func(cmd *cobra.Command, args []string) {
		ok, err := runValidate(cmd, args)
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
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strictValidate, "strict", false, "Treat warnings as errors")
}

// runValidate reports whether every file passed.
func runValidate(cmd *cobra.Command, args []string) (bool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return false, err
	}

	files, err := sessionFiles(cfg, args)
	if err != nil {
		return false, err
	}

	v := schema.NewValidator()
	if err := v.LoadSchemas(); err != nil {
		return false, err
	}

	out := cmd.OutOrStdout()
	ok := true
	var errCount, warnCount int
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return false, fmt.Errorf("failed to read session file: %w", err)
		}

		issues := v.ValidateSessionBytes(file, data)
		for _, issue := range issues {
			loc := issue.File
			if issue.Path != "" {
				loc += ": " + issue.Path
			}
			fmt.Fprintf(out, "%s %s: %s\n", issue.Severity, loc, issue.Message)
			if issue.Severity == schema.SeverityError {
				errCount++
			} else {
				warnCount++
			}
		}
		if schema.HasErrors(issues) || (strictValidate && len(issues) > 0) {
			ok = false
		}
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "%d %s checked, %d %s, %d %s\n",
			len(files), plural("file", len(files)),
			errCount, plural("error", errCount),
			warnCount, plural("warning", warnCount))
	}
	return ok, nil
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
