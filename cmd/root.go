package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/tqa/internal/config"
	"github.com/dotcommander/tqa/internal/logging"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

// exitFunc and errWriter are swapped out by tests.
var (
	exitFunc            = os.Exit
	errWriter io.Writer = os.Stderr
)

var (
	rootPath     string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	langFlag     string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "tqa",
	Short: "Translation quality assessment scorecard",
	Long: `tqa scores reviewed translations on the ISO 5060 scorecard.

A review session holds the segments of a translated document and the errors a
reviewer annotated on each. tqa turns those annotations into penalty points, an
error score per 1000 words, a pass/fail verdict and a 1-5 quality rating.

EXAMPLES:
  tqa import review.xlsx -o review.tqa.json --source-lang en --target-lang fi
  tqa annotate review.tqa.json --segment 3 --type Grammar --span "istui"
  tqa score review.tqa.json --verbose
  tqa score --root reviews --format csv --output scores.csv --lang fi
  tqa score --staged --fail-on-fail --baseline .tqa-baseline.json
  tqa fmt --check`,
}

// Execute runs the root command.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		exitFunc(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootPath, "root", "r", "", "Directory searched for session files (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show per-segment details")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Report format (console|json|markdown|csv)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "en", "Report language (en|fi)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Diagnostic log level (debug|info|warn|error)")

	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("lang", rootCmd.PersistentFlags().Lookup("lang"))
	_ = viper.BindPFlag("logLevel", rootCmd.PersistentFlags().Lookup("log-level"))
}

// loadConfig resolves the configuration and installs the logger for it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	logging.Init(cfg.Format == "json" && cfg.Output == "", logging.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// fail reports err on stderr and exits non-zero.
func fail(err error) {
	fmt.Fprintf(errWriter, "Error: %v\n", err)
	exitFunc(1)
}
