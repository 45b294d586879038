package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func mustUnmarshal(t *testing.T, data []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestSnapshotShape(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(transportRecord("안산", "용인", 150000, 42.5)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if !bytes.HasSuffix(snap, []byte("\n")) {
		t.Error("snapshot missing trailing newline")
	}
	if !strings.Contains(string(snap), "\n  \"records\"") {
		t.Error("snapshot not two-space indented")
	}
	if !bytes.Contains(snap, []byte("안산")) {
		t.Error("korean text must not be escaped in the snapshot")
	}

	var shape map[string]json.RawMessage
	mustUnmarshal(t, snap, &shape)
	for _, key := range []string{"records", "centers", "locations", "fares", "distances", "costs", "expense_items", "settings"} {
		if _, ok := shape[key]; !ok {
			t.Errorf("snapshot missing %q key", key)
		}
	}
}

func TestSnapshotEmptyStoreHasEmptyCollections(t *testing.T) {
	s := newTestStore(t)

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	var shape struct {
		Records      []json.RawMessage `json:"records"`
		ExpenseItems []string          `json:"expense_items"`
	}
	mustUnmarshal(t, snap, &shape)
	if shape.Records == nil {
		t.Error("records must serialize as [] on an empty store, not null")
	}
	if shape.ExpenseItems == nil {
		t.Error("expense_items must serialize as [], not null")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(transportRecord("A", "B", 50000, 120)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.UpsertLocation("반월공단", model.LocationInfo{Address: "안산", Memo: "후문"}); err != nil {
		t.Fatalf("UpsertLocation: %v", err)
	}
	if err := s.UpdateSettings(model.Settings{SubsidyLimit: 330, MileageCorrection: -5}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	result, err := s.Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Records != 1 || result.CentersHealed {
		t.Errorf("result = %+v, want 1 record without healing", result)
	}

	again, err := s.Snapshot()
	if err != nil {
		t.Fatalf("second Snapshot: %v", err)
	}
	if !bytes.Equal(snap, again) {
		t.Error("restore(snapshot()) changed the serialized state")
	}
}

func TestRestoreIntoFreshStore(t *testing.T) {
	donor := newTestStore(t)
	if _, err := donor.Add(transportRecord("A", "B", 50000, 120)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	snap, err := donor.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	s := newTestStore(t)
	if _, err := s.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got := len(s.Records()); got != 1 {
		t.Fatalf("restored records = %d, want 1", got)
	}
	learned, ok := s.LearnedRoute("A", "B")
	if !ok || learned.Fare != 50000 {
		t.Errorf("restored learned = %+v ok=%v", learned, ok)
	}

	// The restored state reached disk too.
	reopened, err := Open(s.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := len(reopened.Records()); got != 1 {
		t.Errorf("records after reopen = %d, want 1", got)
	}
}

func TestRestoreRejectsMissingRecordsKey(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(transportRecord("A", "B", 50000, 120)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := s.Restore([]byte(`{"centers": []}`))
	if !errors.Is(err, common.ErrInvalidBackupFormat) {
		t.Errorf("Restore error = %v, want ErrInvalidBackupFormat", err)
	}

	// Existing state untouched, including the centers list the payload
	// tried to empty.
	if got := len(s.Records()); got != 1 {
		t.Errorf("records after rejected restore = %d, want 1", got)
	}
	if got := len(s.Centers()); got == 0 {
		t.Error("centers emptied by rejected restore")
	}
}

func TestRestoreRejectsMalformedJSON(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(transportRecord("A", "B", 50000, 120)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	_, err := s.Restore([]byte("{broken"))
	if !errors.Is(err, common.ErrInvalidBackupFormat) {
		t.Errorf("Restore error = %v, want ErrInvalidBackupFormat", err)
	}
	if got := len(s.Records()); got != 1 {
		t.Errorf("records after rejected restore = %d, want 1", got)
	}
}

func TestRestoreRejectsNonArrayRecords(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Restore([]byte(`{"records": {"id": 1}}`))
	if !errors.Is(err, common.ErrInvalidBackupFormat) {
		t.Errorf("Restore error = %v, want ErrInvalidBackupFormat", err)
	}
}

func TestRestoreHealsBrokenCenters(t *testing.T) {
	tests := []struct {
		name    string
		centers string
	}{
		{name: "object instead of array", centers: `{"안산": 1}`},
		{name: "string instead of array", centers: `"안산"`},
		{name: "null", centers: `null`},
		{name: "mixed member types", centers: `["안산", 5]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)

			payload := []byte(`{"records": [], "centers": ` + tt.centers + `}`)
			result, err := s.Restore(payload)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			if !result.CentersHealed {
				t.Error("CentersHealed = false, want true")
			}

			centers := s.Centers()
			want := model.DefaultCenters()
			if len(centers) != len(want) {
				t.Fatalf("healed centers = %v, want defaults", centers)
			}
			for i := range want {
				if centers[i] != want[i] {
					t.Errorf("healed centers[%d] = %q, want %q", i, centers[i], want[i])
				}
			}
		})
	}
}

func TestRestoreEmptyCentersListIsKept(t *testing.T) {
	s := newTestStore(t)

	// An empty array is structurally fine: lists replace outright.
	result, err := s.Restore([]byte(`{"records": [], "centers": []}`))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.CentersHealed {
		t.Error("empty centers array must not count as healing")
	}
	if got := len(s.Centers()); got != 0 {
		t.Errorf("centers = %v, want empty", s.Centers())
	}
}

func TestRestoreMissingKeysKeepCurrentValues(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertLocation("반월공단", model.LocationInfo{Memo: "후문"}); err != nil {
		t.Fatalf("UpsertLocation: %v", err)
	}
	if err := s.UpdateSettings(model.Settings{SubsidyLimit: 330}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	// A records-only backup replaces the log and nothing else.
	if _, err := s.Restore([]byte(`{"records": []}`)); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if _, ok := s.Location("반월공단"); !ok {
		t.Error("locations lost by records-only restore")
	}
	if s.Settings().SubsidyLimit != 330 {
		t.Errorf("settings lost by records-only restore: %+v", s.Settings())
	}
}

func TestRestorePresentKeysReplaceWholesale(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(transportRecord("X", "Y", 10000, 5)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	payload := []byte(`{"records": [], "fares": {"A-B": 70000}}`)
	if _, err := s.Restore(payload); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	// The old X-Y fare is gone: present keys replace, they do not merge.
	if _, ok := s.LearnedRoute("X", "Y"); ok {
		t.Error("restore merged fares instead of replacing them")
	}
	learned, ok := s.LearnedRoute("A", "B")
	if !ok || learned.Fare != 70000 {
		t.Errorf("restored fare = %+v ok=%v, want 70000", learned, ok)
	}
}

func TestRestorePartialSettingsZeroesOmittedFields(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpdateSettings(model.Settings{SubsidyLimit: 330, MileageCorrection: -5}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	payload := []byte(`{"records": [], "settings": {"subsidy_limit": 200}}`)
	if _, err := s.Restore(payload); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	got := s.Settings()
	if got.SubsidyLimit != 200 || got.MileageCorrection != 0 {
		t.Errorf("settings = %+v, want subsidy 200 and zero correction", got)
	}
}

func TestRestoreBrokenSideTableKeepsCurrent(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(transportRecord("A", "B", 50000, 120)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// fares is not an object: the key is skipped, current values stay.
	payload := []byte(`{"records": [], "fares": "broken"}`)
	if _, err := s.Restore(payload); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	learned, ok := s.LearnedRoute("A", "B")
	if !ok || learned.Fare != 50000 {
		t.Errorf("fares dropped by broken key: %+v ok=%v", learned, ok)
	}
}

func TestRestoreRecordsWithKoreanTypes(t *testing.T) {
	s := newTestStore(t)

	payload := []byte(`{"records": [
		{"id": 1, "date": "2023-11-15", "time": "08:00", "type": "주유소", "income": 0, "cost": 80000, "liters": 50.5, "brand": "S-OIL"}
	]}`)
	if _, err := s.Restore(payload); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	records := s.Records()
	if len(records) != 1 || records[0].Type != model.TypeFuel {
		t.Fatalf("records = %+v, want one fuel record", records)
	}
	if records[0].Fuel == nil || records[0].Fuel.Liters != 50.5 {
		t.Errorf("fuel payload = %+v", records[0].Fuel)
	}
}

func TestPersistedFileMatchesSnapshot(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add(transportRecord("안산", "용인", 150000, 42.5)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	onDisk, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read data file: %v", err)
	}
	if !bytes.Equal(snap, onDisk) {
		t.Error("data file differs from Snapshot output")
	}
}
