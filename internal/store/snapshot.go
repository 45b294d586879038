package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
)

// state stages a full logbook shape so decoded snapshots can be
// validated before anything is installed.
type state struct {
	locations    map[string]model.LocationInfo
	fares        map[string]int64
	distances    map[string]float64
	costs        map[string]int64
	records      []model.Record
	centers      []string
	expenseItems []string
	settings     model.Settings
}

// snapshotJSON is the on-disk shape. The same file the original tool
// wrote stays loadable, and files written here stay loadable by it.
type snapshotJSON struct {
	Locations    map[string]model.LocationInfo `json:"locations"`
	Fares        map[string]int64              `json:"fares"`
	Distances    map[string]float64            `json:"distances"`
	Costs        map[string]int64              `json:"costs"`
	Records      []model.Record                `json:"records"`
	Centers      []string                      `json:"centers"`
	ExpenseItems []string                      `json:"expense_items"`
	Settings     model.Settings                `json:"settings"`
}

// decodeNotes reports what the lenient decode had to do besides
// decoding: healed centers, keys it refused, keys it didn't know.
type decodeNotes struct {
	skippedKeys   []string
	unknownKeys   []string
	hasRecords    bool
	centersHealed bool
}

var snapshotKeys = map[string]struct{}{
	"records": {}, "centers": {}, "locations": {}, "fares": {},
	"distances": {}, "costs": {}, "expense_items": {}, "settings": {},
}

// decodeSnapshot merges a snapshot payload over base, key by key. A
// present key wholesale-replaces the base value; a missing key keeps
// it. records must decode cleanly or the whole payload is rejected;
// a structurally broken centers list heals to the default set; any
// other broken key keeps the base value and is reported in the notes.
func decodeSnapshot(data []byte, base state) (state, decodeNotes, error) {
	var notes decodeNotes

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return base, notes, fmt.Errorf("parse snapshot: %w", err)
	}

	st := base

	if v, ok := raw["records"]; ok {
		notes.hasRecords = true
		var records []model.Record
		if err := json.Unmarshal(v, &records); err != nil {
			return base, notes, fmt.Errorf("decode records: %w", err)
		}
		if records == nil {
			records = []model.Record{}
		}
		st.records = records
	}

	if v, ok := raw["centers"]; ok {
		var centers []string
		if err := json.Unmarshal(v, &centers); err != nil || centers == nil {
			st.centers = model.DefaultCenters()
			notes.centersHealed = true
		} else {
			st.centers = centers
		}
	}

	if v, ok := raw["locations"]; ok {
		var locations map[string]model.LocationInfo
		if err := json.Unmarshal(v, &locations); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "locations")
		} else {
			if locations == nil {
				locations = map[string]model.LocationInfo{}
			}
			st.locations = locations
		}
	}

	if v, ok := raw["fares"]; ok {
		var fares map[string]int64
		if err := json.Unmarshal(v, &fares); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "fares")
		} else {
			if fares == nil {
				fares = map[string]int64{}
			}
			st.fares = fares
		}
	}

	if v, ok := raw["distances"]; ok {
		var distances map[string]float64
		if err := json.Unmarshal(v, &distances); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "distances")
		} else {
			if distances == nil {
				distances = map[string]float64{}
			}
			st.distances = distances
		}
	}

	if v, ok := raw["costs"]; ok {
		var costs map[string]int64
		if err := json.Unmarshal(v, &costs); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "costs")
		} else {
			if costs == nil {
				costs = map[string]int64{}
			}
			st.costs = costs
		}
	}

	if v, ok := raw["expense_items"]; ok {
		var items []string
		if err := json.Unmarshal(v, &items); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "expense_items")
		} else {
			if items == nil {
				items = []string{}
			}
			st.expenseItems = items
		}
	}

	if v, ok := raw["settings"]; ok {
		var settings model.Settings
		if err := json.Unmarshal(v, &settings); err != nil {
			notes.skippedKeys = append(notes.skippedKeys, "settings")
		} else {
			st.settings = settings
		}
	}

	for key := range raw {
		if _, known := snapshotKeys[key]; !known {
			notes.unknownKeys = append(notes.unknownKeys, key)
		}
	}

	return st, notes, nil
}

// Snapshot serializes the full store state as pretty-printed JSON,
// two-space indented with a trailing newline, Korean text unescaped.
// The output is exactly what Restore and the data file consume.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.encodeLocked()
}

func (s *Store) encodeLocked() ([]byte, error) {
	snap := snapshotJSON{
		Records:      s.records,
		Centers:      s.centers,
		Locations:    s.locations,
		Fares:        s.fares,
		Distances:    s.distances,
		Costs:        s.costs,
		ExpenseItems: s.expenseItems,
		Settings:     s.settings,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RestoreResult reports what a restore installed and whether the
// centers list had to be healed back to the default set.
type RestoreResult struct {
	Records       int
	CentersHealed bool
}

// Restore overwrites store state from a backup payload. The payload
// must carry a records key; everything else is optional and keeps its
// current value when absent. The previous state stays untouched when
// the payload is rejected. A persistence error after a successful
// merge leaves the new in-memory state authoritative.
func (s *Store) Restore(payload []byte) (RestoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := state{
		records:      s.records,
		centers:      s.centers,
		locations:    s.locations,
		fares:        s.fares,
		distances:    s.distances,
		costs:        s.costs,
		expenseItems: s.expenseItems,
		settings:     s.settings,
	}

	snap, notes, err := decodeSnapshot(payload, base)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("%w: %v", common.ErrInvalidBackupFormat, err)
	}
	if !notes.hasRecords {
		return RestoreResult{}, fmt.Errorf("%w: missing records key", common.ErrInvalidBackupFormat)
	}

	s.install(snap)
	for _, key := range notes.skippedKeys {
		slog.Warn("backup key ignored, kept current value", "key", key)
	}
	for _, key := range notes.unknownKeys {
		slog.Warn("backup key not part of the snapshot schema, dropped", "key", key)
	}

	result := RestoreResult{
		Records:       len(s.records),
		CentersHealed: notes.centersHealed,
	}
	return result, s.persistLocked()
}

// persistLocked rewrites the snapshot file atomically: full encode to
// a sibling temp file, then rename over the real one.
func (s *Store) persistLocked() error {
	data, err := s.encodeLocked()
	if err != nil {
		return &common.PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &common.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &common.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}
