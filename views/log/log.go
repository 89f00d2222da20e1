package log

import (
	"fmt"

	"charm-feedback-tui/helpers"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

const (
	// rows taken by the header, nav, panel title and borders
	reservedRows = 10
	maxRows      = 10
)

// Panel is what the debug log panel shows
type Panel struct {
	Width        int
	ScreenHeight int
	Ready        bool
	Spinner      string
	Viewport     viewport.Model
}

// Height is the number of viewport rows the panel gets on a screen of the
// given height: at most a third of it, and never more than 10.
func Height(screenHeight int) int {
	rows := helpers.Max(5, screenHeight-reservedRows)
	return helpers.Min(rows, helpers.Min(screenHeight/3, maxRows))
}

// Render draws the panel with its line count and scroll position
func Render(p Panel) string {
	rows := Height(p.ScreenHeight)
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, p.Width-2)).
		Height(rows + 2)

	head := lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("Log")
	if !p.Ready {
		return box.Render(head + "\n\n" + "initializing...\n" + p.Spinner)
	}

	vp := p.Viewport
	vp.Height = rows
	return box.Render(head + styles.MutedStyle.Render(status(vp.TotalLineCount(), rows, vp.ScrollPercent())) + "\n\n" + vp.View())
}

// status is the " N lines [P%]" suffix; the percentage only shows when the
// log does not fit
func status(lines, rows int, scrolled float64) string {
	if lines == 0 {
		return ""
	}
	s := " " + helpers.Plural(lines, "line", "lines")
	if lines > rows {
		s += fmt.Sprintf(" [%d%%]", int(scrolled*100))
	}
	return s
}
