// Package rollup computes income, expense, distance, and fuel
// aggregates over record sets, bucketed by statistical day, week of
// month, and month. Every function is pure: records in, numbers out.
package rollup

import (
	"fmt"
	"strings"
	"time"

	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/statdate"
)

// Summary is the aggregate over one record set. Totals follow the
// type-scoping rules of the logbook: income and cost sum over every
// record, distance and trip count over transport runs only, fuel
// volume and subsidy over fuel stops only.
type Summary struct {
	TotalIncome     int64
	TotalExpense    int64
	FuelCost        int64
	TotalSubsidy    int64
	TotalDistance   float64
	TotalFuelLiters float64
	TripCount       int
}

// Summarize folds a record set into a Summary.
func Summarize(records []model.Record) Summary {
	var sum Summary
	for _, r := range records {
		sum.TotalIncome += r.Income
		sum.TotalExpense += r.Cost

		switch r.Type {
		case model.TypeTransport:
			sum.TotalDistance += r.Distance()
			sum.TripCount++
		case model.TypeFuel:
			sum.TotalFuelLiters += r.Liters()
			sum.TotalSubsidy += r.Subsidy()
			sum.FuelCost += r.Cost
		}
	}
	return sum
}

// NetProfit is income minus expense, not subsidy-adjusted.
func (s Summary) NetProfit() int64 {
	return s.TotalIncome - s.TotalExpense
}

// RealFuelCost is gross fuel spend minus the subsidy offset.
func (s Summary) RealFuelCost() int64 {
	return s.FuelCost - s.TotalSubsidy
}

// FuelEfficiency is km per liter over the set, 0 when nothing was
// fueled.
func (s Summary) FuelEfficiency() float64 {
	if s.TotalFuelLiters <= 0 {
		return 0
	}
	return s.TotalDistance / s.TotalFuelLiters
}

// CorrectedDistance applies the signed odometer correction from
// settings to the aggregated distance.
func (s Summary) CorrectedDistance(correction float64) float64 {
	return s.TotalDistance + correction
}

func filter(records []model.Record, keep func(model.Record) bool) []model.Record {
	var out []model.Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByStatisticalMonth keeps records whose statistical day falls
// in the given month. Records with unparseable timestamps match on
// their raw date string, same as everywhere else.
func FilterByStatisticalMonth(records []model.Record, year int, month time.Month, boundaryHour int) []model.Record {
	prefix := fmt.Sprintf("%04d-%02d", year, int(month))
	return filter(records, func(r model.Record) bool {
		day, _ := statdate.ForRecord(r, boundaryHour)
		return strings.HasPrefix(day, prefix)
	})
}

// FilterByStatisticalDay keeps records whose statistical day matches
// exactly.
func FilterByStatisticalDay(records []model.Record, day string, boundaryHour int) []model.Record {
	return filter(records, func(r model.Record) bool {
		got, _ := statdate.ForRecord(r, boundaryHour)
		return got == day
	})
}

// FilterByWallClockYear keeps records whose literal date field starts
// with the given year. This deliberately ignores the statistical-day
// rule: a run logged at 01:00 on January 1st belongs to the new year
// here even though its statistical day is December 31st.
func FilterByWallClockYear(records []model.Record, year int) []model.Record {
	prefix := fmt.Sprintf("%04d-", year)
	return filter(records, func(r model.Record) bool {
		return strings.HasPrefix(r.Date, prefix)
	})
}

// GroupByDay buckets records by statistical day. Unparseable
// timestamps bucket under their raw date string.
func GroupByDay(records []model.Record, boundaryHour int) map[string]Summary {
	buckets := map[string][]model.Record{}
	for _, r := range records {
		day, _ := statdate.ForRecord(r, boundaryHour)
		buckets[day] = append(buckets[day], r)
	}
	return summarizeBuckets(buckets)
}

// WeekOfMonth maps a day of month to its week number, 1 through 4.
// Days 29-31 fold into week 4 rather than opening a fifth week.
func WeekOfMonth(day int) int {
	week := (day-1)/7 + 1
	if week > 4 {
		week = 4
	}
	return week
}

// WeekLabel renders a week number the way the logbook displays it.
func WeekLabel(week int) string {
	return fmt.Sprintf("%d주차", week)
}

// GroupByWeek buckets records by week of month of their statistical
// day. Records whose statistical day is a raw-date fallback that does
// not parse are dropped: they have no day-of-month to place.
func GroupByWeek(records []model.Record, boundaryHour int) map[int]Summary {
	buckets := map[int][]model.Record{}
	for _, r := range records {
		day, _ := statdate.ForRecord(r, boundaryHour)
		ts, err := time.Parse(model.DateLayout, day)
		if err != nil {
			continue
		}
		week := WeekOfMonth(ts.Day())
		buckets[week] = append(buckets[week], r)
	}

	out := make(map[int]Summary, len(buckets))
	for week, rs := range buckets {
		out[week] = Summarize(rs)
	}
	return out
}

// GroupByMonth scans a wall-clock year and buckets its records by
// statistical-day month, keyed "YYYY-MM". The year scan is literal on
// the date field, so an early-morning January 1st run lands in the
// previous year's December bucket.
func GroupByMonth(records []model.Record, year int, boundaryHour int) map[string]Summary {
	buckets := map[string][]model.Record{}
	for _, r := range FilterByWallClockYear(records, year) {
		day, _ := statdate.ForRecord(r, boundaryHour)
		key := day
		if len(day) >= 7 {
			key = day[:7]
		}
		buckets[key] = append(buckets[key], r)
	}
	return summarizeBuckets(buckets)
}

func summarizeBuckets(buckets map[string][]model.Record) map[string]Summary {
	out := make(map[string]Summary, len(buckets))
	for key, rs := range buckets {
		out[key] = Summarize(rs)
	}
	return out
}
