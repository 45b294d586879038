package main

import (
	"fmt"
	"strings"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/config"

	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change logbook settings",
	}

	cmd.AddCommand(settingsShowCmd())
	cmd.AddCommand(settingsSetCmd())

	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE:  runSettingsShow,
	}
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	s := openStore()
	settings := s.Settings()

	limit := "설정 안 됨"
	if settings.SubsidyLimit > 0 {
		limit = fmt.Sprintf("%.1f L", settings.SubsidyLimit)
	}

	lines := []string{
		"유가보조금 한도: " + limit,
		fmt.Sprintf("주행거리 보정: %+.1f km", settings.MileageCorrection),
		"",
		fmt.Sprintf("통계일 경계: %02d시", config.BoundaryHour()),
		"데이터 파일: " + s.Path(),
	}

	fmt.Println(cli.RenderBox("설정", strings.Join(lines, "\n"))) //nolint:forbidigo // User-facing output
	return nil
}

func settingsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Long: `Change the persisted settings. Only the flags you pass are updated.

The subsidy limit is the monthly subsidized-fuel quota in liters; the
mileage correction is a signed km adjustment applied to aggregated
distances.`,
		RunE: runSettingsSet,
	}

	cmd.Flags().Float64("subsidy-limit", 0, "monthly fuel subsidy quota in liters")
	cmd.Flags().Float64("mileage-correction", 0, "signed distance correction in km")

	return cmd
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if !cmd.Flags().Changed("subsidy-limit") && !cmd.Flags().Changed("mileage-correction") {
		return fmt.Errorf("nothing to change: pass --subsidy-limit or --mileage-correction")
	}

	s := openStore()
	settings := s.Settings()

	if cmd.Flags().Changed("subsidy-limit") {
		limit, _ := cmd.Flags().GetFloat64("subsidy-limit")
		if limit < 0 {
			return fmt.Errorf("subsidy limit must not be negative, got %.1f", limit)
		}
		settings.SubsidyLimit = limit
	}
	if cmd.Flags().Changed("mileage-correction") {
		settings.MileageCorrection, _ = cmd.Flags().GetFloat64("mileage-correction")
	}

	if err := s.UpdateSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println(cli.FormatSuccess("설정을 저장했습니다.")) //nolint:forbidigo // User-facing output
	return nil
}
