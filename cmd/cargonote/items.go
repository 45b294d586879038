package main

import (
	"fmt"

	"github.com/cargonote/cargonote/internal/cli"

	"github.com/spf13/cobra"
)

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List learned expense items",
		Long: `List the expense descriptions the logbook has learned. They are
offered as suggestions when a new expense is entered.`,
		RunE: runItems,
	}
}

func runItems(_ *cobra.Command, _ []string) error {
	s := openStore()

	items := s.ExpenseItems()
	if len(items) == 0 {
		fmt.Println(cli.InfoStyle.Render("아직 학습된 지출 내역이 없습니다.")) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatTitle("지출 내역 목록")) //nolint:forbidigo // User-facing output
	fmt.Println()                            //nolint:forbidigo // User-facing output

	for _, item := range items {
		fmt.Printf("  • %s\n", item) //nolint:forbidigo // User-facing output
	}

	fmt.Printf("\n%s\n", cli.SubtleStyle.Render(fmt.Sprintf("%d개 항목", len(items)))) //nolint:forbidigo // User-facing output
	return nil
}
