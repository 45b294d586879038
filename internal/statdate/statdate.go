// Package statdate attributes wall-clock timestamps to driver shift
// days. Work logged between midnight and the boundary hour belongs to
// the shift that started the previous evening, so a 03:59 delivery
// counts toward yesterday's statistics while an 04:00 one starts today.
package statdate

import (
	"fmt"
	"time"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
)

// DefaultBoundaryHour is the shift cutover used when no override is
// configured: hours 00–03 count toward the previous calendar day.
const DefaultBoundaryHour = 4

// Compute returns the statistical day for a wall-clock date ("2006-01-02")
// and clock ("15:04") pair. Timestamps whose hour is strictly below
// boundaryHour are attributed to the previous calendar day; exactly
// boundaryHour:00 starts the new day.
func Compute(date, clock string, boundaryHour int) (string, error) {
	ts, err := time.Parse(model.DateLayout+" "+model.ClockLayout, date+" "+clock)
	if err != nil {
		return "", fmt.Errorf("%w: %q %q", common.ErrMalformedTimestamp, date, clock)
	}
	if ts.Hour() < boundaryHour {
		ts = ts.AddDate(0, 0, -1)
	}
	return ts.Format(model.DateLayout), nil
}

// ComputeOrDate is the lenient form used when bucketing stored rows:
// on a malformed timestamp it falls back to the raw date string so
// legacy data still lands in some bucket. fellBack reports whether the
// fallback was taken.
func ComputeOrDate(date, clock string, boundaryHour int) (day string, fellBack bool) {
	day, err := Compute(date, clock, boundaryHour)
	if err != nil {
		return date, true
	}
	return day, false
}

// ForRecord buckets a record by its wall-clock timestamp, with the
// same raw-date fallback as ComputeOrDate.
func ForRecord(r model.Record, boundaryHour int) (day string, fellBack bool) {
	return ComputeOrDate(r.Date, r.Time, boundaryHour)
}
