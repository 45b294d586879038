package main

import (
	"fmt"
	"math"
	"time"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/model"

	"github.com/spf13/cobra"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a logbook entry",
		Long: `Record a single logbook entry without the interactive form.

Each record type is a subcommand with its own flags. Money flags take
the display unit (만원): --fare 5.25 records 52,500원.`,
	}

	cmd.AddCommand(addTransportCmd())
	cmd.AddCommand(addWaitingCmd())
	cmd.AddCommand(addDeadheadCmd())
	cmd.AddCommand(addTripCancelledCmd())
	cmd.AddCommand(addTripEndCmd())
	cmd.AddCommand(addFuelCmd())
	cmd.AddCommand(addIncomeCmd())
	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(addSupplyCmd())

	return cmd
}

// addStampFlags registers the shared date/time flags. Empty means now.
func addStampFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "record date (YYYY-MM-DD, default: today)")
	cmd.Flags().String("time", "", "record time (HH:MM, default: now)")
}

func resolvedStamp(cmd *cobra.Command) (string, string) {
	date, _ := cmd.Flags().GetString("date")
	clock, _ := cmd.Flags().GetString("time")

	now := time.Now()
	if date == "" {
		date = now.Format(model.DateLayout)
	}
	if clock == "" {
		clock = now.Format(model.ClockLayout)
	}
	return date, clock
}

// moneyFlag parses a display-unit amount flag, tolerating the empty
// default as zero.
func moneyFlag(cmd *cobra.Command, name string) (int64, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return 0, nil
	}
	v, err := cli.ParseAmount(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s value %q: %w", name, raw, err)
	}
	return v, nil
}

// saveRecord adds the record and prints the confirmation line.
func saveRecord(r model.Record) error {
	s := openStore()
	saved, err := s.Add(r)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	fmt.Println(cli.FormatSuccess("저장되었습니다: " + describeRecord(saved))) //nolint:forbidigo // User-facing output
	return nil
}

// routeRecord assembles a run-type record from the shared route flags.
func routeRecord(cmd *cobra.Command, typ model.Type) model.Record {
	date, clock := resolvedStamp(cmd)
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	distance, _ := cmd.Flags().GetFloat64("distance")

	r := model.Record{Date: date, Time: clock, Type: typ}
	if from != "" || to != "" || distance != 0 {
		r.Route = &model.Route{From: from, To: to, Distance: distance}
	}
	return r
}

func addRouteFlags(cmd *cobra.Command) {
	addStampFlags(cmd)
	cmd.Flags().StringP("from", "f", "", "origin center")
	cmd.Flags().StringP("to", "t", "", "destination center")
	cmd.Flags().Float64P("distance", "d", 0, "run distance in km")
}

func addTransportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transport",
		Short: "Record a transport run (화물운송)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := routeRecord(cmd, model.TypeTransport)
			fare, err := moneyFlag(cmd, "fare")
			if err != nil {
				return err
			}
			r.Income = fare
			return saveRecord(r)
		},
	}

	addRouteFlags(cmd)
	cmd.Flags().String("fare", "", "fare in 만원 (e.g. 5.25 = 52,500원)")

	return cmd
}

func addWaitingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waiting",
		Short: "Record paid waiting time (대기)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := routeRecord(cmd, model.TypeWaiting)
			fare, err := moneyFlag(cmd, "fare")
			if err != nil {
				return err
			}
			r.Income = fare
			return saveRecord(r)
		},
	}

	addRouteFlags(cmd)
	cmd.Flags().String("fare", "", "waiting pay in 만원")

	return cmd
}

func addDeadheadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deadhead",
		Short: "Record an empty repositioning run (공차이동)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := routeRecord(cmd, model.TypeDeadhead)
			cost, err := moneyFlag(cmd, "cost")
			if err != nil {
				return err
			}
			r.Cost = cost
			return saveRecord(r)
		},
	}

	addRouteFlags(cmd)
	cmd.Flags().String("cost", "", "run cost in 만원")

	return cmd
}

func addTripCancelledCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip-cancelled",
		Short: "Record a cancelled trip (운행취소)",
		Long: `Record a cancelled trip. Cancellation fees received go in --fare,
costs already sunk into the run go in --cost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, clock := resolvedStamp(cmd)
			r := model.Record{Date: date, Time: clock, Type: model.TypeTripCancelled}

			var err error
			if r.Income, err = moneyFlag(cmd, "fare"); err != nil {
				return err
			}
			if r.Cost, err = moneyFlag(cmd, "cost"); err != nil {
				return err
			}
			return saveRecord(r)
		},
	}

	addStampFlags(cmd)
	cmd.Flags().String("fare", "", "cancellation fee received, in 만원")
	cmd.Flags().String("cost", "", "sunk cost, in 만원")

	return cmd
}

func addTripEndCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip-end",
		Short: "Mark the end of the working day (운행종료)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, clock := resolvedStamp(cmd)
			return saveRecord(model.Record{Date: date, Time: clock, Type: model.TypeTripEnd})
		},
	}

	addStampFlags(cmd)

	return cmd
}

func addFuelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fuel",
		Short: "Record a fuel stop (주유소)",
		Long: `Record a fuel stop. When --cost is omitted it is computed from
--unit-price × --liters.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, clock := resolvedStamp(cmd)
			brand, _ := cmd.Flags().GetString("brand")
			unitPrice, _ := cmd.Flags().GetInt64("unit-price")
			liters, _ := cmd.Flags().GetFloat64("liters")
			mileage, _ := cmd.Flags().GetInt64("mileage")

			subsidy, err := moneyFlag(cmd, "subsidy")
			if err != nil {
				return err
			}
			cost, err := moneyFlag(cmd, "cost")
			if err != nil {
				return err
			}
			if cost == 0 && unitPrice > 0 && liters > 0 {
				cost = int64(math.Round(float64(unitPrice) * liters))
			}

			r := model.Record{
				Date: date,
				Time: clock,
				Type: model.TypeFuel,
				Cost: cost,
			}
			if brand != "" || unitPrice != 0 || liters != 0 || subsidy != 0 || mileage != 0 {
				r.Fuel = &model.Fuel{
					Brand:     brand,
					UnitPrice: unitPrice,
					Liters:    liters,
					Subsidy:   subsidy,
					Mileage:   mileage,
				}
			}
			return saveRecord(r)
		},
	}

	addStampFlags(cmd)
	cmd.Flags().StringP("brand", "b", "", "station brand (e.g. S-OIL)")
	cmd.Flags().Int64P("unit-price", "u", 0, "price per liter in 원")
	cmd.Flags().Float64P("liters", "l", 0, "fuel volume in liters")
	cmd.Flags().String("subsidy", "", "fuel subsidy in 만원")
	cmd.Flags().String("cost", "", "total cost in 만원 (default: unit-price × liters)")
	cmd.Flags().Int64("mileage", 0, "odometer reading in km")

	return cmd
}

// itemRecord assembles an item-carrying record from the shared flags.
func itemRecord(cmd *cobra.Command, typ model.Type) (model.Record, error) {
	date, clock := resolvedStamp(cmd)
	item, _ := cmd.Flags().GetString("item")

	amount, err := moneyFlag(cmd, "amount")
	if err != nil {
		return model.Record{}, err
	}

	r := model.Record{Date: date, Time: clock, Type: typ, Item: item}
	if typ == model.TypeIncome {
		r.Income = amount
	} else {
		r.Cost = amount
	}
	return r, nil
}

func addItemFlags(cmd *cobra.Command, itemUsage, amountUsage string) {
	addStampFlags(cmd)
	cmd.Flags().StringP("item", "i", "", itemUsage)
	cmd.Flags().StringP("amount", "a", "", amountUsage)
}

func addIncomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Record non-transport income (수입)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := itemRecord(cmd, model.TypeIncome)
			if err != nil {
				return err
			}
			return saveRecord(r)
		},
	}

	addItemFlags(cmd, "income description", "amount in 만원")

	return cmd
}

func addExpenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record a general expense (지출)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := itemRecord(cmd, model.TypeExpense)
			if err != nil {
				return err
			}
			return saveRecord(r)
		},
	}

	addItemFlags(cmd, "expense description (learned for later suggestions)", "amount in 만원")

	return cmd
}

func addSupplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "supply",
		Short: "Record a consumable purchase (소모품)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := itemRecord(cmd, model.TypeSupply)
			if err != nil {
				return err
			}
			return saveRecord(r)
		},
	}

	addItemFlags(cmd, "supply description", "amount in 만원")

	return cmd
}
