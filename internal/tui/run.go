package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Config holds the entry form dependencies.
type Config struct {
	Store        Store
	Now          func() time.Time
	BoundaryHour int
}

// Run starts the interactive entry form and blocks until the driver
// quits it.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Store == nil {
		return fmt.Errorf("store is required")
	}
	if cfg.BoundaryHour < 0 || cfg.BoundaryHour > 23 {
		return fmt.Errorf("boundary hour %d out of range", cfg.BoundaryHour)
	}

	p := tea.NewProgram(newModel(cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("entry form failed: %w", err)
	}
	return nil
}
