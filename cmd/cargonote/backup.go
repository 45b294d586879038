package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/model"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import a logbook snapshot",
	}

	cmd.AddCommand(backupExportCmd())
	cmd.AddCommand(backupImportCmd())

	return cmd
}

func backupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the logbook snapshot to a file",
		Long: `Write the full logbook snapshot to a JSON file. Without an argument
the file is named cargo_backup_YYYYMMDD.json in the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBackupExport,
	}
}

// defaultBackupName stamps the export file with the wall-clock date.
func defaultBackupName(now time.Time) string {
	return fmt.Sprintf("cargo_backup_%s.json", now.Format("20060102"))
}

func runBackupExport(_ *cobra.Command, args []string) error {
	path := defaultBackupName(time.Now())
	if len(args) == 1 {
		path = args[0]
	}

	s := openStore()
	data, err := s.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("백업 완료: %s (레코드 %d건)", path, len(s.Records())))) //nolint:forbidigo // User-facing output
	return nil
}

func backupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the logbook from a backup file",
		Long: `Restore the logbook from a backup file, replacing the current state.

The backup must carry a records list. Learned tables and settings are
taken from the backup when present and kept as they are when absent.`,
		Args: cobra.ExactArgs(1),
		RunE: runBackupImport,
	}
}

func runBackupImport(_ *cobra.Command, args []string) error {
	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	s := openStore()
	result, err := s.Restore(payload)
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	if result.CentersHealed {
		fmt.Println(cli.FormatWarning("백업의 센터 목록이 손상되어 기본 센터로 복구했습니다.")) //nolint:forbidigo // User-facing output
	}

	summary := scanRestored(s.Records())
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("복원 완료: 레코드 %d건", result.Records))) //nolint:forbidigo // User-facing output
	if summary != "" {
		fmt.Println(cli.SubtleStyle.Render(summary)) //nolint:forbidigo // User-facing output
	}
	return nil
}

// scanRestored walks the restored records once, with progress feedback
// for big backups, and renders the per-type count line.
func scanRestored(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}

	bar := progressbar.NewOptions(len(records),
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]레코드 확인 중...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(os.Stdout); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	counts := map[model.Type]int{}
	for _, r := range records {
		counts[r.Type]++
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	return countLine(counts)
}

// countLine renders per-type counts in the display order of the types.
func countLine(counts map[model.Type]int) string {
	parts := make([]string, 0, len(counts))
	for _, typ := range model.AllTypes() {
		if n := counts[typ]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d건", typ.Label(), n))
		}
	}
	return strings.Join(parts, " · ")
}
