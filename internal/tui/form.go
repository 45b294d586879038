// Package tui implements the interactive record entry form: one
// screen per record, with the field layout switching to match the
// selected record type and learned routes prefilling fare, cost, and
// distance.
package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/common"
	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/statdate"
	"github.com/cargonote/cargonote/internal/store"
)

// Store is the slice of the record store the entry form needs.
type Store interface {
	Add(r model.Record) (model.Record, error)
	LearnedRoute(from, to string) (store.Learned, bool)
	Centers() []string
	ExpenseItems() []string
}

// fuelBrands seeds the brand hint with the majors.
var fuelBrands = []string{"S-OIL", "SK에너지", "GS칼텍스", "현대오일뱅크", "기타"}

type fieldKey int

const (
	fieldDate fieldKey = iota
	fieldTime
	fieldFrom
	fieldTo
	fieldDistance
	fieldBrand
	fieldUnitPrice
	fieldLiters
	fieldSubsidy
	fieldItem
	fieldIncome
	fieldCost
)

var fieldLabels = map[fieldKey]string{
	fieldDate:      "날짜",
	fieldTime:      "시간",
	fieldFrom:      "상차지",
	fieldTo:        "하차지",
	fieldDistance:  "운행 거리 (km)",
	fieldBrand:     "주유소 브랜드",
	fieldUnitPrice: "단가 (원/L)",
	fieldLiters:    "주유량 (L)",
	fieldSubsidy:   "보조금 (만원)",
	fieldItem:      "내역 (적요)",
	fieldIncome:    "수입 금액 (만원)",
	fieldCost:      "지출 금액 (만원)",
}

var fieldPlaceholders = map[fieldKey]string{
	fieldDate:      "YYYY-MM-DD",
	fieldTime:      "HH:MM",
	fieldFrom:      "예: 안산",
	fieldTo:        "예: 이천",
	fieldDistance:  "0.0",
	fieldBrand:     "S-OIL",
	fieldUnitPrice: "0",
	fieldLiters:    "0.00",
	fieldSubsidy:   "0",
	fieldItem:      "예: 식대, 엔진오일, 기타수입",
	fieldIncome:    "0.0",
	fieldCost:      "0.0",
}

type field struct {
	label string
	input textinput.Model
	key   fieldKey
}

var (
	labelStyle        = lipgloss.NewStyle()
	focusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	typeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(cli.PrimaryColor)
	cursorStyle       = lipgloss.NewStyle().Foreground(cli.PrimaryColor)
)

// entryTypes lists the record types the form offers. Trip-end markers
// are logged through their own shortcut instead.
func entryTypes() []model.Type {
	types := make([]model.Type, 0, len(model.AllTypes())-1)
	for _, t := range model.AllTypes() {
		if t != model.TypeTripEnd {
			types = append(types, t)
		}
	}
	return types
}

// fieldsFor returns the input layout for a record type, mirroring the
// paper logbook: endpoints for runs, pump details for fuel stops, a
// free-text label for everything money-only.
func fieldsFor(typ model.Type) []fieldKey {
	keys := []fieldKey{fieldDate, fieldTime}

	switch typ {
	case model.TypeTransport, model.TypeWaiting, model.TypeDeadhead:
		keys = append(keys, fieldFrom, fieldTo, fieldDistance)
	case model.TypeFuel:
		keys = append(keys, fieldBrand, fieldUnitPrice, fieldLiters, fieldSubsidy)
	case model.TypeIncome, model.TypeExpense, model.TypeSupply:
		keys = append(keys, fieldItem)
	}

	switch typ {
	case model.TypeTransport, model.TypeIncome, model.TypeWaiting:
		keys = append(keys, fieldIncome)
	case model.TypeFuel, model.TypeExpense, model.TypeSupply, model.TypeDeadhead:
		keys = append(keys, fieldCost)
	case model.TypeTripCancelled:
		keys = append(keys, fieldIncome, fieldCost)
	}
	return keys
}

// Model holds the entry form state.
type Model struct {
	store     Store
	now       func() time.Time
	status    string
	fields    []field
	types     []model.Type
	keymap    KeyMap
	typeIndex int
	focus     int // 0 is the type row, 1..len(fields) are inputs
	boundary  int
	width     int
	height    int
	quitting  bool
}

// newModel creates a new entry form model.
func newModel(cfg Config) Model {
	m := Model{
		store:    cfg.Store,
		now:      cfg.Now,
		keymap:   DefaultKeyMap(),
		types:    entryTypes(),
		boundary: cfg.BoundaryHour,
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.rebuildFields("", "")
	return m
}

func (m Model) currentType() model.Type {
	return m.types[m.typeIndex]
}

// rebuildFields lays the inputs out for the current type. Empty date
// and clock values are filled from the wall clock.
func (m *Model) rebuildFields(date, clock string) {
	now := m.now()
	if date == "" {
		date = now.Format(model.DateLayout)
	}
	if clock == "" {
		clock = now.Format(model.ClockLayout)
	}

	keys := fieldsFor(m.currentType())
	fields := make([]field, 0, len(keys))
	for _, k := range keys {
		f := field{key: k, label: fieldLabels[k], input: textinput.New()}
		f.input.Placeholder = fieldPlaceholders[k]
		f.input.CharLimit = 64
		f.input.Width = 24
		switch k {
		case fieldDate:
			f.input.SetValue(date)
		case fieldTime:
			f.input.SetValue(clock)
		}
		fields = append(fields, f)
	}
	m.fields = fields
	m.setFocus(m.focus)
}

// setFocus moves focus to a slot, wrapping at both ends. Slot 0 is the
// type row.
func (m *Model) setFocus(slot int) tea.Cmd {
	if slot < 0 {
		slot = len(m.fields)
	}
	if slot > len(m.fields) {
		slot = 0
	}
	m.focus = slot

	var cmd tea.Cmd
	for i := range m.fields {
		if i == slot-1 {
			cmd = m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
	return cmd
}

func (m *Model) nextFocus() tea.Cmd {
	m.maybePrefillRoute()
	m.maybePrefillFuelCost()
	return m.setFocus(m.focus + 1)
}

func (m *Model) prevFocus() tea.Cmd {
	return m.setFocus(m.focus - 1)
}

func (m *Model) cycleType(delta int) {
	n := len(m.types)
	m.typeIndex = (m.typeIndex + delta + n) % n
	m.rebuildFields(m.valueOf(fieldDate), m.valueOf(fieldTime))
	m.status = ""
}

func (m *Model) valueOf(key fieldKey) string {
	for i := range m.fields {
		if m.fields[i].key == key {
			return m.fields[i].input.Value()
		}
	}
	return ""
}

func (m *Model) setIfEmpty(key fieldKey, value string) {
	for i := range m.fields {
		if m.fields[i].key == key && strings.TrimSpace(m.fields[i].input.Value()) == "" {
			m.fields[i].input.SetValue(value)
		}
	}
}

// maybePrefillRoute fills distance and money fields from the learned
// route table once both endpoints are known, leaving anything the
// driver already typed alone.
func (m *Model) maybePrefillRoute() {
	if !m.currentType().IsRoute() {
		return
	}
	from := strings.TrimSpace(m.valueOf(fieldFrom))
	to := strings.TrimSpace(m.valueOf(fieldTo))
	if from == "" || to == "" {
		return
	}
	learned, ok := m.store.LearnedRoute(from, to)
	if !ok {
		return
	}
	if learned.Distance > 0 {
		m.setIfEmpty(fieldDistance, strconv.FormatFloat(learned.Distance, 'f', -1, 64))
	}
	if learned.Fare > 0 {
		m.setIfEmpty(fieldIncome, manValue(learned.Fare))
	}
	if learned.Cost > 0 {
		m.setIfEmpty(fieldCost, manValue(learned.Cost))
	}
}

// maybePrefillFuelCost mirrors the pump display: price times liters,
// filled in only while the cost field is still empty.
func (m *Model) maybePrefillFuelCost() {
	if m.currentType() != model.TypeFuel {
		return
	}
	unitPrice, err := strconv.ParseInt(strings.TrimSpace(m.valueOf(fieldUnitPrice)), 10, 64)
	if err != nil || unitPrice <= 0 {
		return
	}
	liters, err := strconv.ParseFloat(strings.TrimSpace(m.valueOf(fieldLiters)), 64)
	if err != nil || liters <= 0 {
		return
	}
	total := int64(math.Round(float64(unitPrice) * liters))
	m.setIfEmpty(fieldCost, manValue(total))
}

// manValue renders won as a bare 만원 number for money inputs.
func manValue(v int64) string {
	return strings.TrimSuffix(cli.FormatMan(v), "만원")
}

func parseFloatField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
	}
	if v < 0 {
		return 0, common.ErrNegativeAmount
	}
	return v, nil
}

func parseIntField(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
	}
	if v < 0 {
		return 0, common.ErrNegativeAmount
	}
	return v, nil
}

// buildRecord assembles a record from the current inputs. Money fields
// are entered in 만원 and stored in won.
func (m *Model) buildRecord() (model.Record, error) {
	typ := m.currentType()
	r := model.Record{
		Date: strings.TrimSpace(m.valueOf(fieldDate)),
		Time: strings.TrimSpace(m.valueOf(fieldTime)),
		Type: typ,
	}

	var err error
	if r.Income, err = cli.ParseAmount(m.valueOf(fieldIncome)); err != nil {
		return model.Record{}, fmt.Errorf("수입 금액: %w", err)
	}
	if r.Cost, err = cli.ParseAmount(m.valueOf(fieldCost)); err != nil {
		return model.Record{}, fmt.Errorf("지출 금액: %w", err)
	}

	if typ.IsRoute() {
		distance, derr := parseFloatField(m.valueOf(fieldDistance))
		if derr != nil {
			return model.Record{}, fmt.Errorf("운행 거리: %w", derr)
		}
		from := strings.TrimSpace(m.valueOf(fieldFrom))
		to := strings.TrimSpace(m.valueOf(fieldTo))
		if from != "" || to != "" || distance != 0 {
			r.Route = &model.Route{From: from, To: to, Distance: distance}
		}
	}

	if typ == model.TypeFuel {
		unitPrice, perr := parseIntField(m.valueOf(fieldUnitPrice))
		if perr != nil {
			return model.Record{}, fmt.Errorf("단가: %w", perr)
		}
		liters, lerr := parseFloatField(m.valueOf(fieldLiters))
		if lerr != nil {
			return model.Record{}, fmt.Errorf("주유량: %w", lerr)
		}
		subsidy, serr := cli.ParseAmount(m.valueOf(fieldSubsidy))
		if serr != nil {
			return model.Record{}, fmt.Errorf("보조금: %w", serr)
		}
		if r.Cost == 0 && unitPrice > 0 && liters > 0 {
			r.Cost = int64(math.Round(float64(unitPrice) * liters))
		}
		brand := strings.TrimSpace(m.valueOf(fieldBrand))
		if brand != "" || unitPrice != 0 || liters != 0 || subsidy != 0 {
			r.Fuel = &model.Fuel{
				Brand:     brand,
				UnitPrice: unitPrice,
				Liters:    liters,
				Subsidy:   subsidy,
			}
		}
	}

	r.Item = strings.TrimSpace(m.valueOf(fieldItem))
	return r, nil
}

// save validates the form and hands the record to the store.
func (m *Model) save() {
	r, err := m.buildRecord()
	if err != nil {
		m.status = cli.FormatError(err.Error())
		return
	}
	saved, err := m.store.Add(r)
	if err != nil {
		m.status = cli.FormatError(err.Error())
		return
	}
	m.status = cli.FormatSuccess(fmt.Sprintf("저장되었습니다! %s %s %s", saved.Date, saved.Time, saved.Type.Label()))
	m.rebuildFields("", "")
}

// logTripEnd records an instant trip-end marker without touching the
// form contents.
func (m *Model) logTripEnd() {
	now := m.now()
	r := model.Record{
		Date: now.Format(model.DateLayout),
		Time: now.Format(model.ClockLayout),
		Type: model.TypeTripEnd,
	}
	if _, err := m.store.Add(r); err != nil {
		m.status = cli.FormatError(err.Error())
		return
	}
	m.status = cli.FormatSuccess("운행 종료가 기록되었습니다: " + r.Time)
}

// Init starts cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keymap.Save):
			m.save()
			return m, nil

		case key.Matches(msg, m.keymap.TripEnd):
			m.logTripEnd()
			return m, nil

		case key.Matches(msg, m.keymap.NextField):
			return m, m.nextFocus()

		case key.Matches(msg, m.keymap.PrevField):
			return m, m.prevFocus()

		case msg.Type == tea.KeyEnter:
			// Enter on the last field saves, anywhere else advances.
			if m.focus == len(m.fields) {
				m.save()
				return m, nil
			}
			return m, m.nextFocus()
		}

		if m.focus == 0 {
			switch {
			case key.Matches(msg, m.keymap.PrevType):
				m.cycleType(-1)
			case key.Matches(msg, m.keymap.NextType):
				m.cycleType(1)
			}
			return m, nil
		}
	}

	if m.focus > 0 && m.focus <= len(m.fields) {
		var cmd tea.Cmd
		m.fields[m.focus-1].input, cmd = m.fields[m.focus-1].input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the entry form.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		cli.FormatTitle("화물 기록 입력"),
		m.renderTypeRow(),
		m.renderFields(),
		m.renderStatDay(),
	}
	if m.status != "" {
		sections = append(sections, m.status)
	}
	sections = append(sections, m.renderHelp())
	return strings.Join(sections, "\n\n")
}

// renderTypeRow renders the horizontal type picker.
func (m Model) renderTypeRow() string {
	parts := make([]string, 0, len(m.types))
	for i, t := range m.types {
		if i == m.typeIndex {
			parts = append(parts, typeSelectedStyle.Render("["+t.Label()+"]"))
		} else {
			parts = append(parts, cli.SubtleStyle.Render(" "+t.Label()+" "))
		}
	}
	prefix := "  "
	if m.focus == 0 {
		prefix = cursorStyle.Render("> ")
	}
	return prefix + labelStyle.Render("기록 종류:") + " " + strings.Join(parts, " ")
}

// renderFields renders the input rows.
func (m Model) renderFields() string {
	lines := make([]string, 0, len(m.fields)+2)
	for i, f := range m.fields {
		prefix := "  "
		label := labelStyle.Render(fmt.Sprintf("%-14s", f.label))
		if m.focus == i+1 {
			prefix = cursorStyle.Render("> ")
			label = focusedLabelStyle.Render(fmt.Sprintf("%-14s", f.label))
		}
		lines = append(lines, prefix+label+" "+f.input.View())
	}
	if hint := m.renderFieldHint(); hint != "" {
		lines = append(lines, "", hint)
	}
	return strings.Join(lines, "\n")
}

// renderFieldHint shows known values for the focused field.
func (m Model) renderFieldHint() string {
	if m.focus == 0 || m.focus > len(m.fields) {
		return ""
	}
	var hint string
	switch m.fields[m.focus-1].key {
	case fieldFrom, fieldTo:
		hint = "알려진 센터: " + strings.Join(m.store.Centers(), ", ")
	case fieldBrand:
		hint = "브랜드: " + strings.Join(fuelBrands, ", ")
	case fieldItem:
		if items := m.store.ExpenseItems(); len(items) > 0 {
			hint = "기존 내역: " + strings.Join(items, ", ")
		}
	}
	if hint == "" {
		return ""
	}
	return cli.SubtleStyle.Render(hint)
}

// renderStatDay shows which statistical day the current timestamp
// lands on, so late-night entries are not a surprise.
func (m Model) renderStatDay() string {
	date := strings.TrimSpace(m.valueOf(fieldDate))
	clock := strings.TrimSpace(m.valueOf(fieldTime))
	day, err := statdate.Compute(date, clock, m.boundary)
	if err != nil {
		return cli.SubtleStyle.Render("통계일: -")
	}
	return cli.SubtleStyle.Render("통계일: " + day)
}

// renderHelp renders the shortcut footer.
func (m Model) renderHelp() string {
	bindings := m.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, fmt.Sprintf("[%s] %s", b.Help().Key, b.Help().Desc))
	}
	return cli.SubtleStyle.Render(strings.Join(hints, "  "))
}
