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

func centersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "centers",
		Short: "Manage known logistics centers",
		Long: `Manage the logbook's center vocabulary. Centers are learned
automatically from the runs you record; 'centers set' attaches an
address and memo to one, adding it to the vocabulary if needed.`,
	}

	cmd.AddCommand(centersListCmd())
	cmd.AddCommand(centersSetCmd())

	return cmd
}

func centersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known centers",
		RunE:  runCentersList,
	}
}

func runCentersList(_ *cobra.Command, _ []string) error {
	s := openStore()

	centers := s.Centers()
	if len(centers) == 0 {
		fmt.Println(cli.InfoStyle.Render("등록된 센터가 없습니다.")) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatTitle("센터 목록")) //nolint:forbidigo // User-facing output
	fmt.Println()                         //nolint:forbidigo // User-facing output

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
		headerStyle.Render("센터"),
		headerStyle.Render("주소"),
		headerStyle.Render("메모")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n",
		strings.Repeat("─", 8),
		strings.Repeat("─", 20),
		strings.Repeat("─", 16)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, name := range centers {
		info, _ := s.Location(name)
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", name, orDash(info.Address), orDash(info.Memo)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}
	return nil
}

func centersSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Set a center's address and memo",
		Args:  cobra.ExactArgs(1),
		RunE:  runCentersSet,
	}

	cmd.Flags().String("address", "", "center address")
	cmd.Flags().String("memo", "", "free-form note (gate numbers, contacts, ...)")

	return cmd
}

func runCentersSet(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	s := openStore()

	// Only overwrite the fields that were actually given.
	info, _ := s.Location(name)
	if cmd.Flags().Changed("address") {
		info.Address, _ = cmd.Flags().GetString("address")
	}
	if cmd.Flags().Changed("memo") {
		info.Memo, _ = cmd.Flags().GetString("memo")
	}

	if err := s.UpsertLocation(name, info); err != nil {
		return fmt.Errorf("failed to save center: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("센터 정보를 저장했습니다: %s", name))) //nolint:forbidigo // User-facing output
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
