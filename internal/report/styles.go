package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cargonote/cargonote/internal/cli"
)

// Styles contains all styling definitions for settlement sheet formatting.
type Styles struct {
	// Base styles from CLI package
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Subtle  lipgloss.Style
	Normal  lipgloss.Style

	// Sheet-specific styles
	Box         lipgloss.Style
	SectionHead lipgloss.Style
	TotalLabel  lipgloss.Style
	Profit      lipgloss.Style
	Loss        lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:   cli.TitleStyle,
		Success: cli.SuccessStyle,
		Warning: cli.WarningStyle,
		Error:   cli.ErrorStyle,
		Info:    cli.InfoStyle,
		Subtle:  cli.SubtleStyle,
		Normal:  lipgloss.NewStyle(),
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.PrimaryColor).
		Padding(0, 2)

	s.SectionHead = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.InfoColor)

	s.TotalLabel = lipgloss.NewStyle().
		Bold(true)

	s.Profit = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.SuccessColor)

	s.Loss = lipgloss.NewStyle().
		Bold(true).
		Foreground(cli.ErrorColor)

	return s
}

// ForAmount returns the profit style for non-negative values and the
// loss style otherwise.
func (s *Styles) ForAmount(v int64) lipgloss.Style {
	if v < 0 {
		return s.Loss
	}
	return s.Profit
}
