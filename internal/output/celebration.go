package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// frameDelay scales the celebration animation. Tests set it to zero.
var frameDelay = 100 * time.Millisecond

// printCelebration shows a sparkle animation when every document passes.
// Only used on terminals since frames are redrawn with carriage returns.
func printCelebration(w io.Writer, msg string) {
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	bold := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	frames := []struct {
		text  string
		delay int
	}{
		{green.Render(msg), 2},
		{yellow.Render("✨ " + msg + " ✨"), 3},
		{bold.Render("🎉 " + msg + " 🎉"), 4},
		{yellow.Render("✨ " + msg + " ✨"), 3},
		{green.Render(msg), 0},
	}

	for i, frame := range frames {
		if i > 0 {
			fmt.Fprint(w, "\r\033[K")
		}
		fmt.Fprint(w, frame.text)
		time.Sleep(time.Duration(frame.delay) * frameDelay)
	}
	fmt.Fprintln(w)
}
