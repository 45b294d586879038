package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cargonote/cargonote/internal/config"
	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/statdate"
	"github.com/cargonote/cargonote/internal/store"
)

// openStore loads the logbook from the configured data path. Load
// problems are warnings, not failures: the store opens in a usable
// default state either way, matching how the logbook treats a missing
// or mangled snapshot.
func openStore() *store.Store {
	path := config.DataPath()
	s, err := store.Open(path)
	if err != nil {
		slog.Warn("could not load logbook, starting from an empty state", "path", path, "error", err)
	}
	return s
}

// currentStatDay is today's statistical day: before the boundary hour
// the shift still belongs to yesterday.
func currentStatDay(now time.Time, boundaryHour int) string {
	day, _ := statdate.ComputeOrDate(now.Format(model.DateLayout), now.Format(model.ClockLayout), boundaryHour)
	return day
}

// resolveStatMonth fills missing year/month flags from the current
// statistical day, so a 2 AM invocation still means last night's
// month.
func resolveStatMonth(yearFlag, monthFlag int, now time.Time, boundaryHour int) (int, time.Month, error) {
	if monthFlag < 0 || monthFlag > 12 {
		return 0, 0, fmt.Errorf("invalid month %d: must be 1-12", monthFlag)
	}

	day, err := time.Parse(model.DateLayout, currentStatDay(now, boundaryHour))
	if err != nil {
		day = now
	}

	year := yearFlag
	if year == 0 {
		year = day.Year()
	}
	month := time.Month(monthFlag)
	if monthFlag == 0 {
		month = day.Month()
	}
	return year, month, nil
}

// recordDetail renders the free-text column of a record row: the
// route for runs, the brand for fuel stops, the item for the rest.
func recordDetail(r model.Record) string {
	switch {
	case r.Route != nil:
		return fmt.Sprintf("%s → %s", r.Route.From, r.Route.To)
	case r.Fuel != nil:
		return r.Fuel.Brand
	default:
		return r.Item
	}
}

// describeRecord is the one-line confirmation shown after a write.
func describeRecord(r model.Record) string {
	detail := recordDetail(r)
	if detail == "" {
		return fmt.Sprintf("#%d %s %s %s", r.ID, r.Date, r.Time, r.Type.Label())
	}
	return fmt.Sprintf("#%d %s %s %s %s", r.ID, r.Date, r.Time, r.Type.Label(), detail)
}
