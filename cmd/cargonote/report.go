package main

import (
	"fmt"
	"time"

	"github.com/cargonote/cargonote/internal/config"
	"github.com/cargonote/cargonote/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the monthly settlement sheet",
		Long: `Render the settlement sheet for a statistical month: revenue and
spend totals, operations summary, and the subsidy quota.

--period narrows the sheet to the first half (statistical days 1-15)
or the second half (16 to month end). --detail appends the per-record
tables the settlement was built from.`,
		RunE: runReport,
	}

	cmd.Flags().IntP("year", "y", 0, "settlement year (default: current statistical month)")
	cmd.Flags().IntP("month", "m", 0, "settlement month, 1-12 (default: current statistical month)")
	cmd.Flags().StringP("period", "p", "", "settlement period (full, first, second)")
	cmd.Flags().Bool("detail", false, "include per-record detail tables")

	_ = viper.BindPFlag("report.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("report.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("report.period", cmd.Flags().Lookup("period"))
	_ = viper.BindPFlag("report.detail", cmd.Flags().Lookup("detail"))

	return cmd
}

func runReport(_ *cobra.Command, _ []string) error {
	s := openStore()
	boundary := config.BoundaryHour()

	year, month, err := resolveStatMonth(viper.GetInt("report.year"), viper.GetInt("report.month"), time.Now(), boundary)
	if err != nil {
		return err
	}

	period, err := report.ParsePeriod(viper.GetString("report.period"))
	if err != nil {
		return err
	}

	opts := report.Options{
		Year:         year,
		Month:        month,
		Period:       period,
		Detail:       viper.GetBool("report.detail"),
		BoundaryHour: boundary,
		Settings:     s.Settings(),
	}

	fmt.Println(report.NewFormatter().Render(s.Records(), opts)) //nolint:forbidigo // User-facing output
	return nil
}
