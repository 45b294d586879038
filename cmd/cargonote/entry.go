package main

import (
	"github.com/cargonote/cargonote/internal/config"
	"github.com/cargonote/cargonote/internal/tui"

	"github.com/spf13/cobra"
)

func entryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entry",
		Short: "Open the interactive entry form",
		Long: `Open the full-screen entry form. Pick a record type with ←/→, fill
the fields, and save with Ctrl+S. Known routes prefill their fare and
distance as soon as both endpoints are set.`,
		RunE: runEntry,
	}
}

func runEntry(cmd *cobra.Command, _ []string) error {
	s := openStore()

	return tui.Run(cmd.Context(), tui.Config{
		Store:        s,
		BoundaryHour: config.BoundaryHour(),
	})
}
