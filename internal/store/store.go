// Package store owns the logbook state: the append-only record log,
// the lookup tables learned from it (centers, fares, distances, costs,
// expense labels), and the JSON snapshot file they all persist to.
// Every mutation rewrites the whole snapshot; the file is small enough
// that durability beats cleverness here.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
)

// Store is the single owner of a logbook snapshot file. It is safe for
// concurrent use, though the snapshot file itself assumes one process
// writing at a time.
type Store struct {
	locations    map[string]model.LocationInfo
	fares        map[string]int64
	distances    map[string]float64
	costs        map[string]int64
	path         string
	records      []model.Record
	centers      []string
	expenseItems []string
	settings     model.Settings
	lastID       int64
	mu           sync.RWMutex
}

// Learned bundles the remembered values for one ordered route pair.
// Zero fields mean that table has nothing for the pair yet.
type Learned struct {
	Key      string
	Fare     int64
	Cost     int64
	Distance float64
}

// Open loads the snapshot at path, creating parent directories as
// needed. A missing file is a fresh logbook, not an error. On an
// unreadable or unparseable file Open returns a usable default-state
// store together with the load error, so callers can keep working and
// decide how loudly to warn.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	s.reset()

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return s, &common.PersistenceError{Op: "load", Path: path, Err: err}
		}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, &common.PersistenceError{Op: "load", Path: path, Err: err}
	}

	snap, notes, err := decodeSnapshot(data, s.defaultState())
	if err != nil {
		return s, &common.PersistenceError{Op: "load", Path: path, Err: err}
	}
	s.install(snap)
	if notes.centersHealed {
		slog.Warn("centers list was not an array, reset to defaults", "path", path)
	}
	for _, key := range notes.skippedKeys {
		slog.Warn("snapshot key ignored, kept previous value", "key", key, "path", path)
	}
	return s, nil
}

// reset installs the initial shape: no records, the default center
// set, empty learned tables, zero settings.
func (s *Store) reset() {
	s.install(s.defaultState())
}

func (s *Store) defaultState() state {
	return state{
		records:      []model.Record{},
		centers:      model.DefaultCenters(),
		locations:    map[string]model.LocationInfo{},
		fares:        map[string]int64{},
		distances:    map[string]float64{},
		costs:        map[string]int64{},
		expenseItems: []string{},
	}
}

func (s *Store) install(st state) {
	s.records = st.records
	s.centers = st.centers
	s.locations = st.locations
	s.fares = st.fares
	s.distances = st.distances
	s.costs = st.costs
	s.expenseItems = st.expenseItems
	s.settings = st.settings

	s.lastID = 0
	for _, r := range s.records {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Add validates the record, assigns an id when none is supplied,
// appends it, runs the learning side effects, and persists. The
// returned record carries the assigned id. A persistence error does
// not roll back the in-memory append.
func (s *Store) Add(r model.Record) (model.Record, error) {
	if err := r.Validate(); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		r.ID = s.nextIDLocked()
	} else {
		if s.indexOfLocked(r.ID) >= 0 {
			return model.Record{}, fmt.Errorf("%w: %d", common.ErrDuplicateRecord, r.ID)
		}
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}

	r = r.Clone()
	s.records = append(s.records, r)
	s.learnLocked(r)

	return r.Clone(), s.persistLocked()
}

// nextIDLocked issues epoch-millisecond ids, bumping past the last
// issued id so rapid successive adds in the same millisecond never
// collide.
func (s *Store) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexOfLocked(id int64) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// learnLocked runs the auto-learning side effects for a newly stored
// record: grow the center set from route endpoints, remember positive
// fare/distance/cost values for the route pair, and grow the expense
// label vocabulary. Deletes never unlearn any of this.
func (s *Store) learnLocked(r model.Record) {
	if r.Type.IsRoute() && r.Route != nil {
		s.addCenterLocked(r.Route.From)
		s.addCenterLocked(r.Route.To)
	}

	if key, ok := r.RouteKey(); ok {
		if r.Income > 0 {
			s.fares[key] = r.Income
		}
		if d := r.Distance(); d > 0 {
			s.distances[key] = d
		}
		if r.Cost > 0 {
			s.costs[key] = r.Cost
		}
	}

	if r.Item != "" {
		s.addExpenseItemLocked(r.Item)
	}
}

func (s *Store) addCenterLocked(name string) {
	if name == "" || containsString(s.centers, name) {
		return
	}
	s.centers = append(s.centers, name)
	sort.Strings(s.centers)
}

func (s *Store) addExpenseItemLocked(item string) {
	if containsString(s.expenseItems, item) {
		return
	}
	s.expenseItems = append(s.expenseItems, item)
	sort.Strings(s.expenseItems)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Delete removes the record with the given id and persists. Deleting
// an absent id is a silent no-op, and learned tables keep whatever the
// record taught them.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOfLocked(id); i >= 0 {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	return s.persistLocked()
}

// UpsertLocation adds name to the center set if new and sets or
// overwrites its address/memo detail, then persists.
func (s *Store) UpsertLocation(name string, info model.LocationInfo) error {
	if name == "" {
		return fmt.Errorf("%w: empty location name", common.ErrInvalidRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.addCenterLocked(name)
	s.locations[name] = info
	return s.persistLocked()
}

// UpdateSettings replaces the report settings and persists.
func (s *Store) UpdateSettings(settings model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	return s.persistLocked()
}

// Records returns an insertion-ordered copy of the log.
func (s *Store) Records() []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Record returns the record with the given id.
func (s *Store) Record(id int64) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfLocked(id); i >= 0 {
		return s.records[i].Clone(), true
	}
	return model.Record{}, false
}

// Centers returns the sorted known-center list.
func (s *Store) Centers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.centers...)
}

// ExpenseItems returns the sorted expense label vocabulary.
func (s *Store) ExpenseItems() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.expenseItems...)
}

// Location returns the stored detail for a center name.
func (s *Store) Location(name string) (model.LocationInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.locations[name]
	return info, ok
}

// Locations returns a copy of the center detail map.
func (s *Store) Locations() map[string]model.LocationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.LocationInfo, len(s.locations))
	for k, v := range s.locations {
		out[k] = v
	}
	return out
}

// LearnedRoute returns the remembered fare/distance/cost for an
// ordered route pair. ok is false when no table knows the pair.
func (s *Store) LearnedRoute(from, to string) (Learned, bool) {
	if from == "" || to == "" {
		return Learned{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	key := from + "-" + to
	l := Learned{
		Key:      key,
		Fare:     s.fares[key],
		Cost:     s.costs[key],
		Distance: s.distances[key],
	}
	_, hasFare := s.fares[key]
	_, hasCost := s.costs[key]
	_, hasDist := s.distances[key]
	return l, hasFare || hasCost || hasDist
}

// LearnedRoutes returns every known route pair sorted by key.
func (s *Store) LearnedRoutes() []Learned {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := map[string]struct{}{}
	for k := range s.fares {
		keys[k] = struct{}{}
	}
	for k := range s.distances {
		keys[k] = struct{}{}
	}
	for k := range s.costs {
		keys[k] = struct{}{}
	}

	out := make([]Learned, 0, len(keys))
	for k := range keys {
		out = append(out, Learned{
			Key:      k,
			Fare:     s.fares[k],
			Cost:     s.costs[k],
			Distance: s.distances[k],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Settings returns the current report settings.
func (s *Store) Settings() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.settings
}

// RelearnResult summarizes a learned-table rebuild.
type RelearnResult struct {
	Records int
	Centers int
	Routes  int
	Items   int
}

// Relearn rebuilds every learned table from the record log alone:
// centers restart from the defaults plus any center with stored
// location detail, then the whole log replays through the usual
// learning pass. progress, if non-nil, is called after each record.
// Use it after hand-editing the snapshot or pruning bad rows.
func (s *Store) Relearn(progress func(done, total int)) (RelearnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.centers = model.DefaultCenters()
	for name := range s.locations {
		s.addCenterLocked(name)
	}
	s.fares = map[string]int64{}
	s.distances = map[string]float64{}
	s.costs = map[string]int64{}
	s.expenseItems = []string{}

	total := len(s.records)
	for i, r := range s.records {
		s.learnLocked(r)
		if progress != nil {
			progress(i+1, total)
		}
	}

	result := RelearnResult{
		Records: total,
		Centers: len(s.centers),
		Routes:  s.routeKeyCountLocked(),
		Items:   len(s.expenseItems),
	}
	return result, s.persistLocked()
}

func (s *Store) routeKeyCountLocked() int {
	keys := map[string]struct{}{}
	for k := range s.fares {
		keys[k] = struct{}{}
	}
	for k := range s.distances {
		keys[k] = struct{}{}
	}
	for k := range s.costs {
		keys[k] = struct{}{}
	}
	return len(keys)
}
