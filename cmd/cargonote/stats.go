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

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistical-month aggregates",
		Long: `Show the aggregate card for a statistical month: income, expense,
profit, trips, distance, fuel, and the subsidy quota.

--by day or --by week adds a per-bucket breakdown under the card.
--year without --month switches to the monthly table for that
wall-clock year.`,
		RunE: runStats,
	}

	cmd.Flags().IntP("year", "y", 0, "year to aggregate (default: current statistical month)")
	cmd.Flags().IntP("month", "m", 0, "month to aggregate, 1-12 (default: current statistical month)")
	cmd.Flags().String("by", "", "breakdown buckets (day, week)")

	_ = viper.BindPFlag("stats.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("stats.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("stats.by", cmd.Flags().Lookup("by"))

	return cmd
}

func runStats(_ *cobra.Command, _ []string) error {
	s := openStore()
	boundary := config.BoundaryHour()

	yearFlag := viper.GetInt("stats.year")
	monthFlag := viper.GetInt("stats.month")
	by := viper.GetString("stats.by")

	// A bare --year asks for the whole-year monthly table.
	if yearFlag != 0 && monthFlag == 0 {
		return renderYearTable(s.Records(), yearFlag, boundary)
	}

	year, month, err := resolveStatMonth(yearFlag, monthFlag, time.Now(), boundary)
	if err != nil {
		return err
	}

	records := rollup.FilterByStatisticalMonth(s.Records(), year, month, boundary)
	sum := rollup.Summarize(records)
	settings := s.Settings()

	title := fmt.Sprintf("%s %d년 %d월 통계", cli.ChartIcon, year, int(month))
	fmt.Println(cli.RenderBox(title, statsCard(sum, settings))) //nolint:forbidigo // User-facing output

	switch by {
	case "":
	case "day":
		fmt.Println() //nolint:forbidigo // User-facing output
		return renderDayBreakdown(records, boundary)
	case "week":
		fmt.Println() //nolint:forbidigo // User-facing output
		return renderWeekBreakdown(records, boundary)
	default:
		return fmt.Errorf("invalid --by value %q: expected day or week", by)
	}
	return nil
}

// statsCard builds the text body of the monthly summary box.
func statsCard(sum rollup.Summary, settings model.Settings) string {
	lines := []string{
		"총 수입: " + cli.FormatKRW(sum.TotalIncome),
		"총 지출: " + cli.FormatKRW(sum.TotalExpense),
		"순수익: " + cli.FormatKRW(sum.NetProfit()),
		"",
		fmt.Sprintf("운행 건수: %d건", sum.TripCount),
		fmt.Sprintf("운행 거리: %.1f km", sum.TotalDistance),
	}
	if settings.MileageCorrection != 0 {
		lines = append(lines, fmt.Sprintf("보정 거리: %.1f km", sum.CorrectedDistance(settings.MileageCorrection)))
	}

	if sum.TotalFuelLiters > 0 || sum.FuelCost > 0 {
		lines = append(lines,
			"",
			fmt.Sprintf("총 주유량: %.1f L", sum.TotalFuelLiters),
			"실 주유비: "+cli.FormatKRW(sum.RealFuelCost()),
		)
		if eff := sum.FuelEfficiency(); eff > 0 {
			lines = append(lines, fmt.Sprintf("추정 연비: %.1f km/L", eff))
		}
	}

	if settings.SubsidyLimit > 0 {
		quota := fmt.Sprintf("유가보조금 한도: %.1f L / %.1f L", sum.TotalFuelLiters, settings.SubsidyLimit)
		if sum.TotalFuelLiters > settings.SubsidyLimit {
			quota += " " + cli.WarningStyle.Render("(한도 초과)")
		}
		lines = append(lines, "", quota)
	}

	return strings.Join(lines, "\n")
}

// bucketRow is one line of a breakdown table.
type bucketRow struct {
	label string
	sum   rollup.Summary
}

func renderDayBreakdown(records []model.Record, boundary int) error {
	grouped := rollup.GroupByDay(records, boundary)

	days := make([]string, 0, len(grouped))
	for day := range grouped {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]bucketRow, 0, len(days))
	for _, day := range days {
		rows = append(rows, bucketRow{label: day, sum: grouped[day]})
	}
	return writeBucketTable("날짜", rows)
}

func renderWeekBreakdown(records []model.Record, boundary int) error {
	grouped := rollup.GroupByWeek(records, boundary)

	weeks := make([]int, 0, len(grouped))
	for week := range grouped {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	rows := make([]bucketRow, 0, len(weeks))
	for _, week := range weeks {
		rows = append(rows, bucketRow{label: rollup.WeekLabel(week), sum: grouped[week]})
	}
	return writeBucketTable("주차", rows)
}

func renderYearTable(records []model.Record, year, boundary int) error {
	grouped := rollup.GroupByMonth(records, year, boundary)
	if len(grouped) == 0 {
		fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("%d년 기록이 없습니다.", year))) //nolint:forbidigo // User-facing output
		return nil
	}

	months := make([]string, 0, len(grouped))
	for month := range grouped {
		months = append(months, month)
	}
	sort.Strings(months)

	rows := make([]bucketRow, 0, len(months))
	for _, month := range months {
		rows = append(rows, bucketRow{label: month, sum: grouped[month]})
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%s %d년 월별 통계", cli.ChartIcon, year))) //nolint:forbidigo // User-facing output
	return writeBucketTable("월", rows)
}

// writeBucketTable renders one breakdown table with a shared column
// set across the day, week, and month views.
func writeBucketTable(bucketHeader string, rows []bucketRow) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render(bucketHeader),
		headerStyle.Render("수입"),
		headerStyle.Render("지출"),
		headerStyle.Render("순수익"),
		headerStyle.Render("운행"),
		headerStyle.Render("거리")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 10),
		strings.Repeat("─", 10),
		strings.Repeat("─", 10),
		strings.Repeat("─", 10),
		strings.Repeat("─", 4),
		strings.Repeat("─", 8)); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d건\t%.1f km\n",
			row.label,
			cli.FormatKRW(row.sum.TotalIncome),
			cli.FormatKRW(row.sum.TotalExpense),
			cli.FormatKRW(row.sum.NetProfit()),
			row.sum.TripCount,
			row.sum.TotalDistance); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}
	return nil
}
