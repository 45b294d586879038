package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cargonote/cargonote/internal/common"
)

// Wire layouts for the wall-clock timestamp pair carried on every record.
const (
	// DateLayout is the calendar-date layout used on the wire.
	DateLayout = "2006-01-02"
	// ClockLayout is the clock-time layout used on the wire.
	ClockLayout = "15:04"
)

// Type identifies what kind of logbook entry a record is.
type Type string

const (
	// TypeTransport represents a paid cargo run between two centers.
	TypeTransport Type = "transport"
	// TypeIncome represents income unrelated to a specific run.
	TypeIncome Type = "income"
	// TypeFuel represents a fuel station stop.
	TypeFuel Type = "fuel"
	// TypeSupply represents a consumable purchase (oil, tires, gloves).
	TypeSupply Type = "supply"
	// TypeExpense represents a general out-of-pocket expense.
	TypeExpense Type = "expense"
	// TypeWaiting represents paid waiting time at a center.
	TypeWaiting Type = "waiting"
	// TypeDeadhead represents an empty repositioning run.
	TypeDeadhead Type = "deadhead"
	// TypeTripCancelled represents a run cancelled after dispatch.
	TypeTripCancelled Type = "trip_cancelled"
	// TypeTripEnd marks the end of a driving shift.
	TypeTripEnd Type = "trip_end"
)

// AllTypes lists every valid record type in entry-form order.
func AllTypes() []Type {
	return []Type{
		TypeTransport,
		TypeIncome,
		TypeFuel,
		TypeSupply,
		TypeExpense,
		TypeWaiting,
		TypeDeadhead,
		TypeTripCancelled,
		TypeTripEnd,
	}
}

// typeLabels maps each type to its original Korean display name. The
// labels double as load-time aliases so snapshots written by the old
// Korean-keyed tool remain readable.
var typeLabels = map[Type]string{
	TypeTransport:     "화물운송",
	TypeIncome:        "수입",
	TypeFuel:          "주유소",
	TypeSupply:        "소모품",
	TypeExpense:       "지출",
	TypeWaiting:       "대기",
	TypeDeadhead:      "공차이동",
	TypeTripCancelled: "운행취소",
	TypeTripEnd:       "운행종료",
}

// Valid reports whether t is one of the known record types.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// IsRoute reports whether records of this type carry origin/destination
// endpoints that participate in center and fare learning.
func (t Type) IsRoute() bool {
	return t == TypeTransport || t == TypeWaiting || t == TypeDeadhead
}

// HasItem reports whether records of this type carry the free-text
// item label that feeds the learned expense vocabulary.
func (t Type) HasItem() bool {
	return t == TypeIncome || t == TypeExpense || t == TypeSupply
}

// Label returns the Korean display name for t, or the raw token when t
// is not a known type.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// ParseType resolves a wire token or Korean display name to a Type.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	if t.Valid() {
		return t, true
	}
	for typ, label := range typeLabels {
		if s == label {
			return typ, true
		}
	}
	return t, false
}

// Route is the payload carried by transport, waiting, and deadhead
// records: an ordered origin/destination pair plus the driven distance.
type Route struct {
	From     string
	To       string
	Distance float64 // km
}

// Fuel is the payload carried by fuel records.
type Fuel struct {
	Brand     string
	UnitPrice int64   // KRW per liter
	Liters    float64
	Subsidy   int64 // KRW, government fuel-cost offset
	Mileage   int64 // odometer km at fill-up, 0 when not recorded
}

// Record is a single logbook entry. The wall-clock Date and Time are
// what the driver entered; the statistical day a record counts toward
// is derived from them, never stored. Records are immutable once added:
// corrections are modeled as delete plus re-add.
type Record struct {
	ID     int64
	Date   string // DateLayout
	Time   string // ClockLayout
	Type   Type
	Income int64 // KRW
	Cost   int64 // KRW
	Route  *Route
	Fuel   *Fuel
	Item   string // free-text label for income/expense/supply records
}

// Clone returns a deep copy: payload pointers are duplicated so the
// copy cannot mutate the original's route or fuel data.
func (r Record) Clone() Record {
	if r.Route != nil {
		route := *r.Route
		r.Route = &route
	}
	if r.Fuel != nil {
		fuel := *r.Fuel
		r.Fuel = &fuel
	}
	return r
}

// RouteKey returns the "{from}-{to}" key used by the learned fare,
// distance, and cost tables. ok is false unless both endpoints are set.
func (r Record) RouteKey() (string, bool) {
	if r.Route == nil || r.Route.From == "" || r.Route.To == "" {
		return "", false
	}
	return r.Route.From + "-" + r.Route.To, true
}

// Distance returns the driven distance, or 0 for records without a
// route payload.
func (r Record) Distance() float64 {
	if r.Route == nil {
		return 0
	}
	return r.Route.Distance
}

// Liters returns the fueled volume, or 0 for non-fuel records.
func (r Record) Liters() float64 {
	if r.Fuel == nil {
		return 0
	}
	return r.Fuel.Liters
}

// Subsidy returns the fuel subsidy amount, or 0 for non-fuel records.
func (r Record) Subsidy() int64 {
	if r.Fuel == nil {
		return 0
	}
	return r.Fuel.Subsidy
}

// Validate checks a record before it enters the store: known type,
// payloads matching that type, parseable stamps, non-negative amounts.
// Loading is deliberately more lenient than this: legacy rows with odd
// timestamps stay readable and fall back to raw-date bucketing.
func (r Record) Validate() error {
	if r.ID < 0 {
		return fmt.Errorf("%w: id %d", common.ErrInvalidRecord, r.ID)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", common.ErrUnknownRecordType, r.Type)
	}
	if r.Route != nil && !r.Type.IsRoute() {
		return fmt.Errorf("%w: route fields on %s record", common.ErrInvalidRecord, r.Type)
	}
	if r.Fuel != nil && r.Type != TypeFuel {
		return fmt.Errorf("%w: fuel fields on %s record", common.ErrInvalidRecord, r.Type)
	}
	if r.Item != "" && !r.Type.HasItem() {
		return fmt.Errorf("%w: item label on %s record", common.ErrInvalidRecord, r.Type)
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return fmt.Errorf("%w: date %q", common.ErrMalformedTimestamp, r.Date)
	}
	if _, err := time.Parse(ClockLayout, r.Time); err != nil {
		return fmt.Errorf("%w: time %q", common.ErrMalformedTimestamp, r.Time)
	}
	if r.Income < 0 {
		return fmt.Errorf("%w: income %d", common.ErrNegativeAmount, r.Income)
	}
	if r.Cost < 0 {
		return fmt.Errorf("%w: cost %d", common.ErrNegativeAmount, r.Cost)
	}
	if r.Route != nil && r.Route.Distance < 0 {
		return fmt.Errorf("%w: distance %g", common.ErrNegativeAmount, r.Route.Distance)
	}
	if f := r.Fuel; f != nil {
		if f.UnitPrice < 0 {
			return fmt.Errorf("%w: unit price %d", common.ErrNegativeAmount, f.UnitPrice)
		}
		if f.Liters < 0 {
			return fmt.Errorf("%w: liters %g", common.ErrNegativeAmount, f.Liters)
		}
		if f.Subsidy < 0 {
			return fmt.Errorf("%w: subsidy %d", common.ErrNegativeAmount, f.Subsidy)
		}
		if f.Mileage < 0 {
			return fmt.Errorf("%w: mileage %d", common.ErrNegativeAmount, f.Mileage)
		}
	}
	return nil
}

// recordJSON is the flat wire shape shared with the original tool:
// every type-specific field lives at the top level of the object.
type recordJSON struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Type        string  `json:"type"`
	Income      int64   `json:"income"`
	Cost        int64   `json:"cost"`
	From        string  `json:"from,omitempty"`
	To          string  `json:"to,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	UnitPrice   int64   `json:"unitPrice,omitempty"`
	Liters      float64 `json:"liters,omitempty"`
	Subsidy     int64   `json:"subsidy,omitempty"`
	Mileage     int64   `json:"mileage,omitempty"`
	ExpenseItem string  `json:"expenseItem,omitempty"`
	SupplyItem  string  `json:"supplyItem,omitempty"`
}

// MarshalJSON flattens the typed payloads into the wire shape.
func (r Record) MarshalJSON() ([]byte, error) {
	w := recordJSON{
		ID:     r.ID,
		Date:   r.Date,
		Time:   r.Time,
		Type:   string(r.Type),
		Income: r.Income,
		Cost:   r.Cost,
	}
	if r.Route != nil {
		w.From = r.Route.From
		w.To = r.Route.To
		w.Distance = r.Route.Distance
	}
	if r.Fuel != nil {
		w.Brand = r.Fuel.Brand
		w.UnitPrice = r.Fuel.UnitPrice
		w.Liters = r.Fuel.Liters
		w.Subsidy = r.Fuel.Subsidy
		w.Mileage = r.Fuel.Mileage
	}
	switch {
	case r.Type == TypeSupply:
		w.SupplyItem = r.Item
	default:
		w.ExpenseItem = r.Item
	}
	return json.Marshal(w)
}

// UnmarshalJSON rebuilds the typed payloads from the flat wire shape.
// Payloads attach when the type calls for them or when the row actually
// carries values, so hand-edited rows keep their data.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	typ := Type(w.Type)
	if parsed, ok := ParseType(w.Type); ok {
		typ = parsed
	}
	rec := Record{
		ID:     w.ID,
		Date:   w.Date,
		Time:   w.Time,
		Type:   typ,
		Income: w.Income,
		Cost:   w.Cost,
	}
	if typ.IsRoute() || w.From != "" || w.To != "" || w.Distance != 0 {
		rec.Route = &Route{From: w.From, To: w.To, Distance: w.Distance}
	}
	if typ == TypeFuel || w.Brand != "" || w.UnitPrice != 0 || w.Liters != 0 || w.Subsidy != 0 || w.Mileage != 0 {
		rec.Fuel = &Fuel{
			Brand:     w.Brand,
			UnitPrice: w.UnitPrice,
			Liters:    w.Liters,
			Subsidy:   w.Subsidy,
			Mileage:   w.Mileage,
		}
	}
	rec.Item = w.ExpenseItem
	if rec.Item == "" {
		rec.Item = w.SupplyItem
	}
	*r = rec
	return nil
}
