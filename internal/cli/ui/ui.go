// Package ui holds the terminal styles and symbols used by talentmigrate
// output, plus the helpers that decide whether colour is appropriate.
package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// BrandEmoji prefixes the banner and version line.
const BrandEmoji = "\U0001F3AD" // 🎭

// ANSI 4-bit colours; lipgloss degrades them for dumb terminals.
var (
	ColorCyan   = lipgloss.Color("6")
	ColorGreen  = lipgloss.Color("2")
	ColorYellow = lipgloss.Color("3")
	ColorRed    = lipgloss.Color("1")
)

var (
	StyleBoldRed = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleError   = lipgloss.NewStyle().Foreground(ColorRed)
	StyleHint    = lipgloss.NewStyle().Faint(true)
)

const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
	SymbolArrow = "→"
)

var (
	forcedRenderer     *lipgloss.Renderer
	forcedRendererOnce sync.Once
)

// ForcedRenderer returns a renderer that always emits ANSI codes. Callers
// use it once they have already decided colour is wanted.
func ForcedRenderer() *lipgloss.Renderer {
	forcedRendererOnce.Do(func() {
		forcedRenderer = lipgloss.NewRenderer(os.Stderr)
		forcedRenderer.SetColorProfile(termenv.ANSI)
	})
	return forcedRenderer
}

// ColorEnabled reports whether stderr is a terminal that should get colour.
// NO_COLOR disables it.
func ColorEnabled() bool {
	return ColorEnabledFd(os.Stderr.Fd())
}

// ColorEnabledFd is ColorEnabled for an arbitrary file descriptor.
func ColorEnabledFd(fd uintptr) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
