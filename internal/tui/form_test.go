package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/statdate"
	"github.com/cargonote/cargonote/internal/store"
)

type fakeStore struct {
	learned map[string]store.Learned
	addErr  error
	added   []model.Record
	centers []string
	items   []string
}

func (f *fakeStore) Add(r model.Record) (model.Record, error) {
	if f.addErr != nil {
		return model.Record{}, f.addErr
	}
	if r.ID == 0 {
		r.ID = int64(len(f.added) + 1)
	}
	f.added = append(f.added, r)
	return r, nil
}

func (f *fakeStore) LearnedRoute(from, to string) (store.Learned, bool) {
	l, ok := f.learned[from+"-"+to]
	return l, ok
}

func (f *fakeStore) Centers() []string      { return f.centers }
func (f *fakeStore) ExpenseItems() []string { return f.items }

func newTestModel(t *testing.T, s Store) Model {
	t.Helper()
	return newModel(Config{
		Store:        s,
		BoundaryHour: statdate.DefaultBoundaryHour,
		Now: func() time.Time {
			return time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
		},
	})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(m Model, keyType tea.KeyType) Model {
	return update(m, tea.KeyMsg{Type: keyType})
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// tabTo advances focus until the given field is active.
func tabTo(t *testing.T, m Model, key fieldKey) Model {
	t.Helper()
	for i := 0; i <= len(m.fields); i++ {
		if m.focus > 0 && m.fields[m.focus-1].key == key {
			return m
		}
		m = press(m, tea.KeyTab)
	}
	t.Fatalf("field %d not reachable for type %s", key, m.currentType())
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	assert.Equal(t, model.TypeTransport, m.currentType())
	assert.Equal(t, 0, m.focus)
	assert.Equal(t, "2024-03-10", m.valueOf(fieldDate))
	assert.Equal(t, "09:30", m.valueOf(fieldTime))

	keys := make([]fieldKey, 0, len(m.fields))
	for _, f := range m.fields {
		keys = append(keys, f.key)
	}
	assert.Equal(t, []fieldKey{fieldDate, fieldTime, fieldFrom, fieldTo, fieldDistance, fieldIncome}, keys)
}

func TestEntryTypesSkipTripEnd(t *testing.T) {
	types := entryTypes()
	assert.Len(t, types, len(model.AllTypes())-1)
	assert.NotContains(t, types, model.TypeTripEnd)
	assert.Contains(t, types, model.TypeTripCancelled)
}

func TestCycleTypeRebuildsFields(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	// Transport -> income -> fuel.
	m = press(m, tea.KeyRight)
	m = press(m, tea.KeyRight)
	require.Equal(t, model.TypeFuel, m.currentType())

	keys := make([]fieldKey, 0, len(m.fields))
	for _, f := range m.fields {
		keys = append(keys, f.key)
	}
	assert.Equal(t, []fieldKey{fieldDate, fieldTime, fieldBrand, fieldUnitPrice, fieldLiters, fieldSubsidy, fieldCost}, keys)

	// Timestamp survives the rebuild.
	assert.Equal(t, "2024-03-10", m.valueOf(fieldDate))

	// Wrapping left from transport lands on cancelled runs.
	m = newTestModel(t, &fakeStore{})
	m = press(m, tea.KeyLeft)
	assert.Equal(t, model.TypeTripCancelled, m.currentType())
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t, &fakeStore{})
	slots := len(m.fields) + 1

	for i := 1; i < slots; i++ {
		m = press(m, tea.KeyTab)
		assert.Equal(t, i, m.focus)
	}
	m = press(m, tea.KeyTab)
	assert.Equal(t, 0, m.focus, "tab past the last field wraps to the type row")

	m = press(m, tea.KeyShiftTab)
	assert.Equal(t, len(m.fields), m.focus, "shift+tab from the type row wraps to the last field")
}

func TestSaveTransportRecord(t *testing.T) {
	fake := &fakeStore{}
	m := newTestModel(t, fake)

	m = tabTo(t, m, fieldFrom)
	m = typeText(m, "안산")
	m = tabTo(t, m, fieldTo)
	m = typeText(m, "이천")
	m = tabTo(t, m, fieldDistance)
	m = typeText(m, "120")
	m = tabTo(t, m, fieldIncome)
	m = typeText(m, "5.25")
	m = press(m, tea.KeyCtrlS)

	require.Len(t, fake.added, 1)
	r := fake.added[0]
	assert.Equal(t, model.TypeTransport, r.Type)
	assert.Equal(t, "2024-03-10", r.Date)
	assert.Equal(t, "09:30", r.Time)
	require.NotNil(t, r.Route)
	assert.Equal(t, "안산", r.Route.From)
	assert.Equal(t, "이천", r.Route.To)
	assert.InDelta(t, 120.0, r.Route.Distance, 0.001)
	assert.Equal(t, int64(52_500), r.Income)
	assert.Equal(t, int64(0), r.Cost)

	assert.Contains(t, m.status, "저장되었습니다")
	assert.Empty(t, m.valueOf(fieldFrom), "form resets after a save")
}

func TestEnterOnLastFieldSaves(t *testing.T) {
	fake := &fakeStore{}
	m := newTestModel(t, fake)

	m = tabTo(t, m, fieldIncome)
	m = typeText(m, "3")
	m = press(m, tea.KeyEnter)

	require.Len(t, fake.added, 1)
	assert.Equal(t, int64(30_000), fake.added[0].Income)
}

func TestLearnedRoutePrefill(t *testing.T) {
	fake := &fakeStore{
		learned: map[string]store.Learned{
			"안산-이천": {Key: "안산-이천", Fare: 52_500, Cost: 10_000, Distance: 120},
		},
	}
	m := newTestModel(t, fake)

	m = tabTo(t, m, fieldFrom)
	m = typeText(m, "안산")
	m = tabTo(t, m, fieldTo)
	m = typeText(m, "이천")
	m = press(m, tea.KeyTab) // leaving the destination triggers the lookup

	assert.Equal(t, "120", m.valueOf(fieldDistance))
	assert.Equal(t, "5.25", m.valueOf(fieldIncome))
}

func TestPrefillKeepsTypedValues(t *testing.T) {
	fake := &fakeStore{
		learned: map[string]store.Learned{
			"안산-이천": {Key: "안산-이천", Fare: 52_500, Distance: 120},
		},
	}
	m := newTestModel(t, fake)

	// Distance entered up front: this run took a detour.
	m = tabTo(t, m, fieldDistance)
	m = typeText(m, "130")
	m = press(m, tea.KeyShiftTab)
	m = typeText(m, "이천")
	m = press(m, tea.KeyShiftTab)
	m = typeText(m, "안산")
	m = press(m, tea.KeyTab) // leaving the origin triggers the lookup

	assert.Equal(t, "130", m.valueOf(fieldDistance))
	assert.Equal(t, "5.25", m.valueOf(fieldIncome))
}

func TestFuelCostAutoFill(t *testing.T) {
	fake := &fakeStore{}
	m := newTestModel(t, fake)

	m = press(m, tea.KeyRight) // income
	m = press(m, tea.KeyRight) // fuel
	require.Equal(t, model.TypeFuel, m.currentType())

	m = tabTo(t, m, fieldUnitPrice)
	m = typeText(m, "2000")
	m = tabTo(t, m, fieldLiters)
	m = typeText(m, "40")
	m = press(m, tea.KeyTab)

	assert.Equal(t, "8", m.valueOf(fieldCost), "2,000원/L × 40L = 8만원")

	m = press(m, tea.KeyCtrlS)
	require.Len(t, fake.added, 1)
	r := fake.added[0]
	assert.Equal(t, int64(80_000), r.Cost)
	require.NotNil(t, r.Fuel)
	assert.Equal(t, int64(2_000), r.Fuel.UnitPrice)
	assert.InDelta(t, 40.0, r.Fuel.Liters, 0.001)
}

func TestTripEndShortcut(t *testing.T) {
	fake := &fakeStore{}
	m := newTestModel(t, fake)

	m = tabTo(t, m, fieldFrom)
	m = typeText(m, "안산")
	m = press(m, tea.KeyCtrlE)

	require.Len(t, fake.added, 1)
	r := fake.added[0]
	assert.Equal(t, model.TypeTripEnd, r.Type)
	assert.Equal(t, "2024-03-10", r.Date)
	assert.Equal(t, "09:30", r.Time)
	assert.Nil(t, r.Route)

	assert.Equal(t, "안산", m.valueOf(fieldFrom), "trip end leaves the form contents alone")
	assert.Contains(t, m.status, "운행 종료")
}

func TestSaveRejectsBadAmount(t *testing.T) {
	fake := &fakeStore{}
	m := newTestModel(t, fake)

	m = tabTo(t, m, fieldIncome)
	m = typeText(m, "abc")
	m = press(m, tea.KeyCtrlS)

	assert.Empty(t, fake.added)
	assert.Contains(t, m.status, "수입 금액")
}

func TestSaveSurfacesStoreError(t *testing.T) {
	fake := &fakeStore{addErr: errors.New("disk full")}
	m := newTestModel(t, fake)

	m = press(m, tea.KeyCtrlS)

	assert.Contains(t, m.status, "disk full")
}

func TestViewLayout(t *testing.T) {
	m := newTestModel(t, &fakeStore{centers: []string{"안산", "이천"}})

	view := m.View()
	assert.Contains(t, view, "화물 기록 입력")
	assert.Contains(t, view, "화물운송")
	assert.Contains(t, view, "날짜")
	assert.Contains(t, view, "통계일: 2024-03-10")
	assert.Contains(t, view, "저장")

	// Focusing an endpoint field surfaces the known centers.
	m = tabTo(t, m, fieldFrom)
	assert.Contains(t, m.View(), "알려진 센터: 안산, 이천")
}

func TestStatDayFollowsBoundary(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	m.fields[1].input.SetValue("03:59")
	assert.Contains(t, m.View(), "통계일: 2024-03-09")

	m.fields[1].input.SetValue("04:00")
	assert.Contains(t, m.View(), "통계일: 2024-03-10")

	m.fields[0].input.SetValue("notadate")
	assert.Contains(t, m.View(), "통계일: -")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	quit := next.(Model)
	assert.True(t, quit.quitting)
	assert.Empty(t, quit.View())
}
