package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/config"
	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/session"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

var writeConfigPath string

var settingsCmd = &cobra.Command{
	Use:   "settings [session]",
	Short: "Show the effective scoring settings",
	Long: `Show the scoring settings that apply: built-in defaults overlaid with the
"scoring" section of the configuration. Given a session file, show the
settings that file is scored with, which are its stored settings unless
--force-settings is set.

--write saves the resolved configuration to a file, for example .tqarc.json.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSettings(cmd, args); err != nil {
			fail(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().BoolVar(&forceSettings, "force-settings", false, "Ignore settings stored in the session")
	settingsCmd.Flags().StringVar(&writeConfigPath, "write", "", "Save the resolved configuration to this file")
}

func runSettings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if writeConfigPath != "" {
		if err := config.SaveConfig(cfg, writeConfigPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", writeConfigPath)
		return nil
	}

	override := cfg.ScoringOverride()
	source := "configuration"
	if override == nil {
		source = "defaults"
	}
	if len(args) == 1 {
		s, err := session.Load(args[0])
		if err != nil {
			return err
		}
		if !s.ScoringSettings.IsEmpty() && !forceSettings {
			override = s.ScoringSettings
			source = args[0]
		}
	}
	settings := taxonomy.Merge(override)

	if cfg.Format == "json" {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling settings: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	printSettings(cmd.OutOrStdout(), settings, source, i18n.Match(cfg.Lang))
	return nil
}

func printSettings(w io.Writer, s taxonomy.Settings, source string, c *i18n.Catalog) {
	fmt.Fprintf(w, "Scoring settings (from %s)\n\n", source)
	fmt.Fprintf(w, "  %s: %s\n", c.ErrorScoreLimit, strconv.FormatFloat(s.PassFailThreshold, 'f', -1, 64))
	fmt.Fprintf(w, "  %s: %d\n", c.CriticalLimit, s.CriticalErrorMax)
	fmt.Fprintf(w, "  %s:\n", c.QualityRating)

	lower := 0.0
	for i, cut := range s.RatingThresholds {
		value := 5 - i
		fmt.Fprintf(w, "    %d  %s - %s  %s\n", value,
			strconv.FormatFloat(lower, 'f', -1, 64), strconv.FormatFloat(cut, 'f', -1, 64),
			c.Rating(value).Description)
		lower = cut
	}
	fmt.Fprintf(w, "    1  > %s  %s\n", strconv.FormatFloat(lower, 'f', -1, 64), c.Rating(1).Description)
}
