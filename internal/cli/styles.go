// Package cli provides styled terminal output and the display-unit
// money conventions shared by every command.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. PrimaryColor carries the theme; the rest follow terminal
// convention (green good, red bad).
var (
	PrimaryColor = lipgloss.Color("#FF8C42") // highway orange
	SuccessColor = lipgloss.Color("#2EC27E")
	WarningColor = lipgloss.Color("#F5C211")
	ErrorColor   = lipgloss.Color("#E01B24")
	InfoColor    = lipgloss.Color("#62A0EA")
	SubtleColor  = lipgloss.Color("#77767B")
)

var (
	// TitleStyle renders section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// One rendering style per message severity.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle emphasizes inline fragments without recoloring them.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames card output such as the stats summary.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(1, 2)

	// TableHeaderStyle and TableCellStyle dress column-oriented views.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(SubtleColor)
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons prefixing user-facing messages.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	TruckIcon   = "🚚"
	ChartIcon   = "📊"
	FuelIcon    = "⛽"
)

// FormatSuccess renders message behind a green check mark.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError renders message behind a red cross.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning renders message behind the warning sign.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo renders message behind the info sign.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle renders a section title behind the truck icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(TruckIcon + " " + title)
}

// RenderBox draws a bordered card with a title line above the content.
func RenderBox(title, content string) string {
	head := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, content))
}
