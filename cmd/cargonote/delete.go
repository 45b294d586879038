package main

import (
	"fmt"
	"strconv"

	"github.com/cargonote/cargonote/internal/cli"

	"github.com/spf13/cobra"
)

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record by id",
		Long: `Delete one record. Values the record taught the learning tables stay
learned; run 'cargonote relearn' to rebuild them from the remaining
records.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
}

func runDelete(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	s := openStore()

	// Look the record up first so the confirmation can say what went.
	r, found := s.Record(id)
	if err := s.Delete(id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	if !found {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("#%d 기록이 없습니다. 삭제할 것이 없습니다.", id))) //nolint:forbidigo // User-facing output
		return nil
	}

	fmt.Println(cli.FormatSuccess("삭제되었습니다: " + describeRecord(r))) //nolint:forbidigo // User-facing output
	return nil
}
