package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dotcommander/tqa/internal/i18n"
	"github.com/dotcommander/tqa/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List error types, suggested severities and penalty points",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			fail(err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), renderTaxonomy(i18n.Match(cfg.Lang)))
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}

func renderTaxonomy(c *i18n.Catalog) string {
	categories := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", c.ErrorType, "Label", c.Severity)
	for _, cat := range taxonomy.Categories() {
		categories.Row(strconv.Itoa(cat.Number()), c.Category(cat), cat.String(), c.SeverityName(cat.DefaultSeverity()))
	}

	severities := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(c.Severity, "Label", c.Penalty)
	for _, sev := range taxonomy.Severities() {
		severities.Row(c.SeverityName(sev), sev.String(), strconv.Itoa(sev.Penalty()))
	}

	return categories.String() + "\n\n" + severities.String() + "\n"
}
