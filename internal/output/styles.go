package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dotcommander/tqa/internal/taxonomy"
)

// Styles contains the lipgloss styles for console reports
type Styles struct {
	enabled bool

	Pass   lipgloss.Style
	Fail   lipgloss.Style
	Header lipgloss.Style
	Dim    lipgloss.Style
	Bold   lipgloss.Style

	severity map[string]lipgloss.Style
	unknown  lipgloss.Style

	IconPass string
	IconFail string
}

// NewStyles creates a new Styles instance.
// When enabled is false, styles return text unchanged (for non-TTY output).
func NewStyles(enabled bool) *Styles {
	s := &Styles{enabled: enabled, IconPass: "✓", IconFail: "✗"}

	if !enabled {
		plain := lipgloss.NewStyle()
		s.Pass, s.Fail, s.Header, s.Dim, s.Bold, s.unknown = plain, plain, plain, plain, plain, plain
		s.severity = map[string]lipgloss.Style{}
		return s
	}

	s.Pass = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	s.Fail = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	s.Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	s.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	s.Bold = lipgloss.NewStyle().Bold(true)

	// Marks match the scorecard colors: minor blue, major orange, critical red.
	s.severity = map[string]lipgloss.Style{
		taxonomy.Minor.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#a3d5ff")),
		taxonomy.Major.String():    lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#ffd699")),
		taxonomy.Critical.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#ff9999")),
	}
	s.unknown = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#cccccc"))
	return s
}

// Enabled reports whether the styles emit color.
func (s *Styles) Enabled() bool { return s.enabled }

// Verdict renders a pass or fail label with its icon.
func (s *Styles) Verdict(pass bool, label string) string {
	if pass {
		return s.Pass.Render(s.IconPass + " " + label)
	}
	return s.Fail.Render(s.IconFail + " " + label)
}

// Mark renders a highlighted run. Without color the run is bracketed so
// marks survive in plain text.
func (s *Styles) Mark(text, severity string) string {
	if !s.enabled {
		return "[" + text + "]"
	}
	if st, ok := s.severity[severity]; ok {
		return st.Render(text)
	}
	return s.unknown.Render(text)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
