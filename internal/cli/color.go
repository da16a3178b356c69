package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nawsaafa/talents-acting-sub000/internal/cli/ui"
)

// colorEnabled returns true if stderr is a terminal and color should be used.
// Respects the NO_COLOR environment variable (https://no-color.org/).
func colorEnabled() bool {
	return ui.ColorEnabled()
}

// paint renders text with style when color is on. The forced renderer keeps
// escape codes even when stderr is not a TTY; the caller already decided.
func paint(text string, color bool, style func(lipgloss.Style) lipgloss.Style) string {
	if !color {
		return text
	}
	return style(ui.ForcedRenderer().NewStyle()).Render(text)
}

func bold(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style { return s.Bold(true) })
}

func dim(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style { return s.Faint(true) })
}

func cyan(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style { return s.Foreground(ui.ColorCyan) })
}

func green(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style { return s.Foreground(ui.ColorGreen) })
}

func yellow(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style { return s.Foreground(ui.ColorYellow) })
}

func boldCyan(text string, color bool) string {
	return paint(text, color, func(s lipgloss.Style) lipgloss.Style {
		return s.Bold(true).Foreground(ui.ColorCyan)
	})
}
