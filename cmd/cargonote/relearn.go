package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cargonote/cargonote/internal/cli"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func relearnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relearn",
		Short: "Rebuild the learned tables from the records",
		Long: `Rebuild centers, fares, distances, costs, and expense items by
replaying every record through the learning pass.

Deleting a record never unlearns what it taught, so the tables drift
after cleanups. Relearn resets them to exactly what the current
records say.`,
		RunE: runRelearn,
	}
}

func runRelearn(_ *cobra.Command, _ []string) error {
	s := openStore()
	total := len(s.Records())

	var bar *progressbar.ProgressBar
	if total > 0 {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stdout),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]학습 테이블 재구성 중...[reset]"),
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
	}

	result, err := s.Relearn(func(done, _ int) {
		if bar == nil {
			return
		}
		if err := bar.Set(done); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to persist relearned tables: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("재학습 완료: 레코드 %d건 → 센터 %d · 경로 %d · 지출 항목 %d",
		result.Records, result.Centers, result.Routes, result.Items))) //nolint:forbidigo // User-facing output
	return nil
}
