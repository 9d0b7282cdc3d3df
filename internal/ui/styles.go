package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleTitle    = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleHeader   = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSelected = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleRow      = lipgloss.NewStyle().Padding(0, 1)

	IconSuccess = "✔"
	IconError   = "✘"
	IconWarning = "⚠"
)

// StyleSlide frames the page card in windowed mode.
var StyleSlide = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorPrimary).
	Padding(1, 4).
	Align(lipgloss.Center)

func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleSuccess.Render(IconSuccess+" "+fmt.Sprintf(format, args...)))
}

func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleWarning.Render(IconWarning+" "+fmt.Sprintf(format, args...)))
}

func Error(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, StyleError.Render(IconError+" "+fmt.Sprintf(format, args...)))
}
