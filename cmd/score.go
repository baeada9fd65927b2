package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/tqa/internal/baseline"
	"github.com/dotcommander/tqa/internal/config"
	"github.com/dotcommander/tqa/internal/discovery"
	"github.com/dotcommander/tqa/internal/git"
	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/outputters"
	"github.com/dotcommander/tqa/internal/report"
	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/watch"
)

var (
	scoreGlobs     []string
	watchMode      bool
	forceSettings  bool
	failOnFail     bool
	followSymlinks bool
	baselinePath   string
	baselineCreate bool
	stagedOnly     bool
	changedOnly    bool
)

// errQualityGate signals that at least one document failed with --fail-on-fail.
var errQualityGate = errors.New("quality gate failed")

var scoreCmd = &cobra.Command{
	Use:   "score [files or directories...]",
	Short: "Score review sessions and print the scorecard",
	Long: `Score one or more review session files.

Without arguments every file under --root matching --glob is scored
(default patterns: **/*.tqa.json, **/*.tqa.yaml, **/*.tqa.yml). Directory
arguments are searched the same way. With --staged or --changed only the
sessions git reports as staged or uncommitted under --root are scored.

Scoring settings stored in a session win over the "scoring" section of the
configuration. Use --force-settings to apply the configured settings anyway.

With --baseline the scores are compared to a snapshot taken earlier with
--baseline-create, and --fail-on-fail only fails on regressions and on new
documents that fail.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := runScore(cmd.Context(), args)
		if errors.Is(err, errQualityGate) {
			exitFunc(1)
			return
		}
		if err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringSliceVarP(&scoreGlobs, "glob", "g", nil, "Session file patterns, relative to --root")
	scoreCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Re-score whenever a session file changes")
	scoreCmd.Flags().BoolVar(&forceSettings, "force-settings", false, "Apply configured scoring settings over settings stored in sessions")
	scoreCmd.Flags().BoolVar(&failOnFail, "fail-on-fail", false, "Exit with status 1 when any document fails")
	scoreCmd.Flags().BoolVar(&followSymlinks, "follow-symlinks", false, "Follow symlinks that stay inside --root")
	scoreCmd.Flags().BoolVar(&stagedOnly, "staged", false, "Score only sessions staged in git")
	scoreCmd.Flags().BoolVar(&changedOnly, "changed", false, "Score only sessions with uncommitted git changes")
	scoreCmd.Flags().StringVar(&baselinePath, "baseline", "", "Compare scores to this baseline file")
	scoreCmd.Flags().BoolVar(&baselineCreate, "baseline-create", false, "Record the scores as a baseline (default path "+baseline.DefaultPath+")")

	_ = viper.BindPFlag("patterns", scoreCmd.Flags().Lookup("glob"))
	_ = viper.BindPFlag("followSymlinks", scoreCmd.Flags().Lookup("follow-symlinks"))
}

func runScore(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := sessionFiles(cfg, args)
	if err != nil {
		return err
	}
	if len(files) == 0 && !cfg.Quiet {
		fmt.Fprintf(errWriter, "Warning: no session files found under %s\n", cfg.Root)
	}

	summary, err := scoreAndReport(cfg, files)
	if err != nil {
		return err
	}

	if watchMode {
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return watchSessions(ctx, cfg, args, files)
	}

	if baselineCreate {
		return writeBaseline(cfg, summary)
	}
	if baselinePath != "" {
		return compareBaseline(cfg, summary)
	}

	if failOnFail && summary.Failed() > 0 {
		return errQualityGate
	}
	return nil
}

func writeBaseline(cfg *config.Config, summary *report.Summary) error {
	path := baselinePath
	if path == "" {
		path = baseline.DefaultPath
	}
	if err := baseline.Create(summary).Save(path); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(errWriter, "Baseline written to %s (%d %s)\n", path, len(summary.Reports), plural("document", len(summary.Reports)))
	}
	return nil
}

// compareBaseline reports how the summary moved against the baseline. Only
// regressions and failing new documents trip --fail-on-fail.
func compareBaseline(cfg *config.Config, summary *report.Summary) error {
	b, err := baseline.Load(baselinePath)
	if err != nil {
		return err
	}
	changes := b.Compare(summary)

	gate := false
	for _, c := range changes {
		switch {
		case c.Kind == baseline.Regressed:
			gate = true
			if !cfg.Quiet {
				fmt.Fprintf(errWriter, "  regressed: %s (%.2f -> %.2f)\n", c.After.File, c.Before.ErrorScore, c.After.ErrorScore)
			}
		case c.Kind == baseline.Added && !c.After.Pass:
			gate = true
		}
	}
	slog.Debug("compared against baseline", "baseline", baselinePath, "documents", len(changes))

	if !cfg.Quiet {
		fmt.Fprintf(errWriter, "Baseline: %d regressed, %d improved, %d new\n",
			baseline.Count(changes, baseline.Regressed),
			baseline.Count(changes, baseline.Improved),
			baseline.Count(changes, baseline.Added))
	}

	if failOnFail && gate {
		return errQualityGate
	}
	return nil
}

// sessionFiles expands arguments into session file paths. Files are taken as
// given, directories are searched with the configured patterns, and no
// arguments means searching the configured root.
func sessionFiles(cfg *config.Config, args []string) ([]string, error) {
	if stagedOnly || changedOnly {
		return gitSessionFiles(cfg, args)
	}

	if len(args) == 0 {
		found, err := discovery.NewFileDiscovery(cfg.Root, cfg.FollowSymlinks).DiscoverSessions(cfg.Patterns)
		if err != nil {
			return nil, fmt.Errorf("error discovering sessions: %w", err)
		}
		files := make([]string, 0, len(found))
		for _, f := range found {
			files = append(files, filepath.Join(cfg.Root, filepath.FromSlash(f.RelPath)))
		}
		return files, nil
	}

	var files []string
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			found, err := discovery.FindSessions(arg, cfg.Patterns)
			if err != nil {
				return nil, fmt.Errorf("error discovering sessions: %w", err)
			}
			files = append(files, found...)
			continue
		}
		if _, err := discovery.ValidateFilePath(arg); err != nil {
			return nil, err
		}
		if _, err := discovery.DetectFormat(arg); err != nil {
			return nil, err
		}
		files = append(files, arg)
	}
	return files, nil
}

func gitSessionFiles(cfg *config.Config, args []string) ([]string, error) {
	switch {
	case stagedOnly && changedOnly:
		return nil, errors.New("--staged and --changed cannot be combined")
	case len(args) > 0:
		return nil, errors.New("--staged and --changed do not take file arguments")
	case !git.IsGitRepo(cfg.Root):
		return nil, fmt.Errorf("%s is not inside a git repository", cfg.Root)
	case stagedOnly:
		return git.StagedSessions(cfg.Root, cfg.Patterns)
	default:
		return git.ChangedSessions(cfg.Root, cfg.Patterns)
	}
}

// scoreFiles loads and scores each session in order.
func scoreFiles(cfg *config.Config, files []string) (*report.Summary, error) {
	catalog := i18n.Match(cfg.Lang)
	override := cfg.ScoringOverride()

	summary := &report.Summary{StartTime: time.Now()}
	for _, path := range files {
		s, err := session.Load(path)
		if err != nil {
			return nil, err
		}

		res := s.Score(override, forceSettings)
		doc := res.Document
		if doc.Unclassified.Any() {
			slog.Warn("annotations outside the taxonomy were not scored",
				"file", path,
				"unknown_error_types", doc.Unclassified.Categories,
				"unknown_severities", doc.Unclassified.Severities)
		}
		slog.Debug("scored session",
			"file", path,
			"error_score", doc.ErrorScore,
			"critical_errors", doc.CriticalErrorCount,
			"pass", doc.OverallPass)

		summary.Add(report.Build(path, s, res, catalog))
	}
	return summary, nil
}

func scoreAndReport(cfg *config.Config, files []string) (*report.Summary, error) {
	summary, err := scoreFiles(cfg, files)
	if err != nil {
		return nil, err
	}
	if err := outputters.NewOutputter(cfg, Version).Format(summary, cfg.Format); err != nil {
		return nil, fmt.Errorf("error formatting output: %w", err)
	}
	return summary, nil
}

// watchSessions re-scores whenever a watched session changes, until ctx ends.
func watchSessions(ctx context.Context, cfg *config.Config, args []string, files []string) error {
	var filter watch.Filter
	if len(args) == 0 {
		filter = watch.PatternFilter(cfg.Root, cfg.Patterns)
	} else {
		filter = watch.FileFilter(files)
	}

	w, err := watch.New(0, filter, func(changed []string) {
		slog.Info("re-scoring", "changed", changed)
		current, err := sessionFiles(cfg, args)
		if err != nil {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
			return
		}
		if _, err := scoreAndReport(cfg, current); err != nil {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}

	if len(args) == 0 {
		err = w.WatchRecursive(cfg.Root)
	} else {
		err = w.WatchFiles(files)
	}
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintln(errWriter, "Watching for changes. Press Ctrl+C to stop.")
	}
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
