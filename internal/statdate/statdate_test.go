package statdate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		clock    string
		boundary int
		want     string
	}{
		{
			name:     "just before boundary counts as previous day",
			date:     "2024-03-10",
			clock:    "03:59",
			boundary: 4,
			want:     "2024-03-09",
		},
		{
			name:     "exactly at boundary starts the new day",
			date:     "2024-03-10",
			clock:    "04:00",
			boundary: 4,
			want:     "2024-03-10",
		},
		{
			name:     "midnight belongs to the previous day",
			date:     "2024-03-10",
			clock:    "00:00",
			boundary: 4,
			want:     "2024-03-09",
		},
		{
			name:     "evening stays on its own day",
			date:     "2024-03-10",
			clock:    "23:45",
			boundary: 4,
			want:     "2024-03-10",
		},
		{
			name:     "month boundary rolls back through leap day",
			date:     "2024-03-01",
			clock:    "02:30",
			boundary: 4,
			want:     "2024-02-29",
		},
		{
			name:     "year boundary rolls back to december",
			date:     "2024-01-01",
			clock:    "01:00",
			boundary: 4,
			want:     "2023-12-31",
		},
		{
			name:     "boundary zero never rolls back",
			date:     "2024-03-10",
			clock:    "00:00",
			boundary: 0,
			want:     "2024-03-10",
		},
		{
			name:     "custom boundary of six",
			date:     "2024-03-10",
			clock:    "05:59",
			boundary: 6,
			want:     "2024-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.date, tt.clock, tt.boundary)
			if err != nil {
				t.Fatalf("Compute(%q, %q, %d) error: %v", tt.date, tt.clock, tt.boundary, err)
			}
			if got != tt.want {
				t.Errorf("Compute(%q, %q, %d) = %q, want %q", tt.date, tt.clock, tt.boundary, got, tt.want)
			}
		})
	}
}

func TestComputeAllHours(t *testing.T) {
	// Hours 0-3 roll back, hours 4-23 do not.
	for hour := 0; hour < 24; hour++ {
		clock := fmt.Sprintf("%02d:30", hour)
		got, err := Compute("2024-06-15", clock, DefaultBoundaryHour)
		if err != nil {
			t.Fatalf("Compute hour %d: %v", hour, err)
		}
		want := "2024-06-15"
		if hour < DefaultBoundaryHour {
			want = "2024-06-14"
		}
		if got != want {
			t.Errorf("Compute hour %d = %q, want %q", hour, got, want)
		}
	}
}

func TestComputeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
	}{
		{name: "garbage date", date: "notadate", clock: "12:00"},
		{name: "garbage time", date: "2024-03-10", clock: "xx:yy"},
		{name: "empty pair", date: "", clock: ""},
		{name: "wrong date layout", date: "10/03/2024", clock: "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.date, tt.clock, DefaultBoundaryHour)
			if err == nil {
				t.Fatalf("Compute(%q, %q) expected error", tt.date, tt.clock)
			}
			if !errors.Is(err, common.ErrMalformedTimestamp) {
				t.Errorf("Compute(%q, %q) error = %v, want ErrMalformedTimestamp", tt.date, tt.clock, err)
			}
		})
	}
}

func TestComputeOrDate(t *testing.T) {
	day, fellBack := ComputeOrDate("2024-03-10", "03:59", DefaultBoundaryHour)
	if day != "2024-03-09" || fellBack {
		t.Errorf("ComputeOrDate valid = (%q, %v), want (2024-03-09, false)", day, fellBack)
	}

	day, fellBack = ComputeOrDate("notadate", "99:99", DefaultBoundaryHour)
	if day != "notadate" || !fellBack {
		t.Errorf("ComputeOrDate fallback = (%q, %v), want (notadate, true)", day, fellBack)
	}
}

func TestForRecord(t *testing.T) {
	r := model.Record{Date: "2024-03-10", Time: "01:15", Type: model.TypeTransport}
	day, fellBack := ForRecord(r, DefaultBoundaryHour)
	if day != "2024-03-09" || fellBack {
		t.Errorf("ForRecord = (%q, %v), want (2024-03-09, false)", day, fellBack)
	}
}
