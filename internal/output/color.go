// Package output provides styled terminal rendering helpers for delaywatch.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for ended rentals and improvements.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for cancellations and regressions.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for hidden rentals and owner losses.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style

	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

// noColor tracks whether color output is disabled.
var noColor bool

func init() {
	applyStyles(false)
}

func applyStyles(plain bool) {
	base := lipgloss.NewStyle()
	if plain {
		StyleHeader = base
		StyleSuccess = base
		StyleError = base
		StyleWarning = base
		StyleMuted = base
		StyleBold = base
		StyleLabel = base.Width(28)
		StyleValue = base.Width(12)
		return
	}
	StyleHeader = base.Foreground(ColorPrimary).Bold(true)
	StyleSuccess = base.Foreground(ColorSuccess)
	StyleError = base.Foreground(ColorError)
	StyleWarning = base.Foreground(ColorWarning)
	StyleMuted = base.Foreground(ColorMuted)
	StyleBold = base.Bold(true)
	StyleLabel = base.Width(28)
	StyleValue = base.Bold(true).Width(12)
}

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// ShouldDisableColor reports whether f is not a terminal or NO_COLOR is set.
func ShouldDisableColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}
