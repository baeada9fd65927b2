// Package outputters selects a report formatter by name and runs it over a
// scoring summary.
package outputters

import (
	"fmt"
	"time"

	"github.com/dotcommander/tqa/internal/config"
	"github.com/dotcommander/tqa/internal/output"
	"github.com/dotcommander/tqa/internal/report"
)

// Formatter renders a scoring summary.
type Formatter interface {
	Format(summary *report.Summary) error
}

// FormatterFactory creates formatters by format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters from the output package.
type DefaultFormatterFactory struct {
	cfg     *config.Config
	version string
}

// NewDefaultFormatterFactory creates a factory configured from cfg. version is
// stamped into JSON report headers.
func NewDefaultFormatterFactory(cfg *config.Config, version string) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{cfg: cfg, version: version}
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.cfg.Quiet, f.cfg.Verbose), nil
	case "json":
		return output.NewJSONFormatter(f.cfg.Quiet, true, f.cfg.Output, f.version), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.cfg.Quiet, f.cfg.Verbose, f.cfg.Output), nil
	case "csv":
		return output.NewCSVFormatter(f.cfg.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates an Outputter backed by the default formatters.
func NewOutputter(cfg *config.Config, version string) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg, version))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format renders the summary in the named format.
func (o *Outputter) Format(summary *report.Summary, format string) error {
	if summary.StartTime.IsZero() {
		summary.StartTime = time.Now()
	}

	summary.Root = o.config.Root

	formatter, err := o.factory.CreateFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(summary)
}
