package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cargonote/cargonote/internal/cli"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List learned routes",
		Long: `List every route the logbook has learned, with the last fare, cost,
and distance recorded for it. These values prefill the entry form.`,
		RunE: runRoutes,
	}
}

func runRoutes(_ *cobra.Command, _ []string) error {
	s := openStore()

	routes := s.LearnedRoutes()
	if len(routes) == 0 {
		fmt.Println(cli.InfoStyle.Render("아직 학습된 경로가 없습니다. 운행을 기록하면 자동으로 학습됩니다.")) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatTitle("학습된 경로")) //nolint:forbidigo // User-facing output
	fmt.Println()                          //nolint:forbidigo // User-facing output

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("경로"),
		headerStyle.Render("운임"),
		headerStyle.Render("비용"),
		headerStyle.Render("거리")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 14),
		strings.Repeat("─", 10),
		strings.Repeat("─", 10),
		strings.Repeat("─", 8)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, route := range routes {
		distance := "-"
		if route.Distance != 0 {
			distance = fmt.Sprintf("%.1f km", route.Distance)
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			route.Key,
			amountCell(route.Fare),
			amountCell(route.Cost),
			distance); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}

	fmt.Printf("\n%s\n", cli.SubtleStyle.Render(fmt.Sprintf("%d개 경로", len(routes)))) //nolint:forbidigo // User-facing output
	return nil
}
