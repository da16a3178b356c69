package ui

import (
	"fmt"
	"strings"
)

// FormatError returns a styled error message followed by optional fix
// suggestions.
func FormatError(msg string, suggestions ...string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", StyleBoldRed.Render("Error:"), msg)

	if len(suggestions) > 0 {
		b.WriteString("\n")
		b.WriteString(StyleHint.Render("  Try:") + "\n")
		for _, s := range suggestions {
			fmt.Fprintf(&b, "    %s %s\n", StyleHint.Render(SymbolArrow), s)
		}
	}

	return b.String()
}

// Hint pairs an error substring with the suggestions shown for it.
type Hint struct {
	Contains    string
	Suggestions []string
}

// FormatErrorHints formats err, attaching the suggestions of every hint whose
// substring occurs in the message.
func FormatErrorHints(err error, hints []Hint) string {
	msg := err.Error()
	var suggestions []string
	for _, h := range hints {
		if strings.Contains(msg, h.Contains) {
			suggestions = append(suggestions, h.Suggestions...)
		}
	}
	return FormatError(msg, suggestions...)
}
