package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/config"
	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/rollup"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records for a statistical month",
		Long: `List logbook records, newest first.

Without flags the current statistical month is shown; records written
before the boundary hour count toward the previous day.`,
		RunE: runList,
	}

	cmd.Flags().IntP("year", "y", 0, "year to list (default: current statistical month)")
	cmd.Flags().IntP("month", "m", 0, "month to list, 1-12 (default: current statistical month)")
	cmd.Flags().String("day", "", "narrow to one statistical day (YYYY-MM-DD)")

	_ = viper.BindPFlag("list.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("list.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("list.day", cmd.Flags().Lookup("day"))

	return cmd
}

func runList(_ *cobra.Command, _ []string) error {
	s := openStore()
	boundary := config.BoundaryHour()

	var (
		records []model.Record
		title   string
	)
	if day := viper.GetString("list.day"); day != "" {
		if _, err := time.Parse(model.DateLayout, day); err != nil {
			return fmt.Errorf("invalid --day value %q: expected YYYY-MM-DD", day)
		}
		records = rollup.FilterByStatisticalDay(s.Records(), day, boundary)
		title = day + " 기록"
	} else {
		year, month, err := resolveStatMonth(viper.GetInt("list.year"), viper.GetInt("list.month"), time.Now(), boundary)
		if err != nil {
			return err
		}
		records = rollup.FilterByStatisticalMonth(s.Records(), year, month, boundary)
		title = fmt.Sprintf("%d년 %d월 기록", year, int(month))
	}

	if len(records) == 0 {
		fmt.Println(cli.InfoStyle.Render("기록이 없습니다. 'cargonote entry' 또는 'cargonote add'로 기록을 시작하세요.")) //nolint:forbidigo // User-facing output
		return nil
	}

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		if records[i].Time != records[j].Time {
			return records[i].Time > records[j].Time
		}
		return records[i].ID > records[j].ID
	})

	fmt.Println(cli.FormatTitle(title)) //nolint:forbidigo // User-facing output
	fmt.Println()                       //nolint:forbidigo // User-facing output

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("ID"),
		headerStyle.Render("날짜"),
		headerStyle.Render("시간"),
		headerStyle.Render("유형"),
		headerStyle.Render("내역"),
		headerStyle.Render("수입"),
		headerStyle.Render("지출")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 4),
		strings.Repeat("─", 10),
		strings.Repeat("─", 5),
		strings.Repeat("─", 8),
		strings.Repeat("─", 16),
		strings.Repeat("─", 10),
		strings.Repeat("─", 10)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.Date,
			r.Time,
			r.Type.Label(),
			recordDetail(r),
			amountCell(r.Income),
			amountCell(r.Cost)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}

	sum := rollup.Summarize(records)
	fmt.Println() //nolint:forbidigo // User-facing output
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("%d건 · 수입 %s · 지출 %s",
		len(records), cli.FormatKRW(sum.TotalIncome), cli.FormatKRW(sum.TotalExpense)))) //nolint:forbidigo // User-facing output

	return nil
}

// amountCell keeps zero amounts out of the table so the money columns
// stay scannable.
func amountCell(v int64) string {
	if v == 0 {
		return "-"
	}
	return cli.FormatKRW(v)
}
