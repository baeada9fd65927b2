package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/dotcommander/tqa/internal/discovery"
	"github.com/dotcommander/tqa/internal/logging"
	"github.com/dotcommander/tqa/internal/project"
	"github.com/dotcommander/tqa/internal/schema"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

// Config represents the tqa configuration
type Config struct {
	Root           string                    `mapstructure:"root" json:"root"`
	Patterns       []string                  `mapstructure:"patterns" json:"patterns"`
	FollowSymlinks bool                      `mapstructure:"followSymlinks" json:"followSymlinks"`
	Format         string                    `mapstructure:"format" json:"format"`
	Output         string                    `mapstructure:"output" json:"output,omitempty"`
	Lang           string                    `mapstructure:"lang" json:"lang"`
	LogLevel       string                    `mapstructure:"logLevel" json:"logLevel"`
	Quiet          bool                      `mapstructure:"quiet" json:"quiet"`
	Verbose        bool                      `mapstructure:"verbose" json:"verbose"`
	SourceLang     string                    `mapstructure:"sourceLang" json:"sourceLang"`
	TargetLang     string                    `mapstructure:"targetLang" json:"targetLang"`
	Scoring        taxonomy.SettingsOverride `mapstructure:"scoring" json:"scoring"`
}

// Formats lists the accepted report formats.
var Formats = []string{"console", "json", "markdown", "csv"}

// LoadConfig loads configuration from defaults, the nearest .tqarc file at or
// above the working directory, TQA_* environment variables and bound flags.
func LoadConfig(rootPath string) (*Config, error) {
	viper.SetDefault("root", ".")
	viper.SetDefault("patterns", discovery.DefaultPatterns)
	viper.SetDefault("followSymlinks", false)
	viper.SetDefault("format", "console")
	viper.SetDefault("lang", "en")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("sourceLang", "en")
	viper.SetDefault("targetLang", "fi")

	path, err := project.FindConfig(".")
	if err != nil {
		return nil, fmt.Errorf("error locating config file: %w", err)
	}
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	viper.SetEnvPrefix("TQA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	// Nested keys without defaults are invisible to AutomaticEnv.
	_ = viper.BindEnv("scoring.pass_fail_threshold")
	_ = viper.BindEnv("scoring.critical_error_max")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ScoringOverride returns the configured scoring policy, or nil when the
// configuration sets none of its fields.
func (c *Config) ScoringOverride() *taxonomy.SettingsOverride {
	s := c.Scoring
	if s.IsEmpty() {
		return nil
	}
	return &s
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	valid := false
	for _, f := range Formats {
		if config.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format: %s. Must be one of: %s", config.Format, strings.Join(Formats, ", "))
	}

	if _, ok := logging.LookupLevel(config.LogLevel); !ok {
		return fmt.Errorf("invalid log level: %s. Must be 'debug', 'info', 'warn', or 'error'", config.LogLevel)
	}

	if o := config.ScoringOverride(); o != nil {
		v := schema.NewValidator()
		if err := v.LoadSchemas(); err != nil {
			return err
		}
		for _, issue := range v.ValidateOverride("scoring", o) {
			if issue.Severity == schema.SeverityError {
				return fmt.Errorf("invalid scoring settings at %s: %s", issue.Path, issue.Message)
			}
		}
	}

	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
