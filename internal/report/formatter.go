// Package report renders the monthly settlement sheet (정산서): route,
// fuel, expense, and income groups sliced to a statistical-month
// period, under the revenue/spend/profit header drivers reconcile
// their carrier statements against.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cargonote/cargonote/internal/cli"
	"github.com/cargonote/cargonote/internal/model"
	"github.com/cargonote/cargonote/internal/rollup"
	"github.com/cargonote/cargonote/internal/statdate"
)

// Period selects which slice of the statistical month a sheet covers.
// Carriers settle twice a month, so the halves follow the industry
// split: days 1-15 and 16 through month end.
type Period int

const (
	// FullMonth covers the whole statistical month.
	FullMonth Period = iota
	// FirstHalf covers statistical days 1-15.
	FirstHalf
	// SecondHalf covers statistical days 16 through month end.
	SecondHalf
)

// ParsePeriod maps a CLI token to a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full", "month":
		return FullMonth, nil
	case "first", "1":
		return FirstHalf, nil
	case "second", "2":
		return SecondHalf, nil
	}
	return FullMonth, fmt.Errorf("unknown period %q (want first, second, or full)", s)
}

func (p Period) String() string {
	switch p {
	case FirstHalf:
		return "first"
	case SecondHalf:
		return "second"
	default:
		return "full"
	}
}

// Label returns the Korean range label printed on the sheet.
func (p Period) Label() string {
	switch p {
	case FirstHalf:
		return "전반기 (1일~15일)"
	case SecondHalf:
		return "후반기 (16일~말일)"
	default:
		return "전체"
	}
}

func (p Period) contains(dayOfMonth int) bool {
	switch p {
	case FirstHalf:
		return dayOfMonth <= 15
	case SecondHalf:
		return dayOfMonth >= 16
	default:
		return true
	}
}

// Options configures one settlement sheet.
type Options struct {
	Year         int
	Month        time.Month
	Period       Period
	Detail       bool
	BoundaryHour int
	Settings     model.Settings
}

// groups holds the sheet's record groups. Trip-end markers land in
// none of them.
type groups struct {
	route   []model.Record // runs: transport, waiting, deadhead, cancelled
	fuel    []model.Record
	expense []model.Record // expenses and supplies
	income  []model.Record
}

func (g groups) all() []model.Record {
	out := make([]model.Record, 0, len(g.route)+len(g.fuel)+len(g.expense)+len(g.income))
	out = append(out, g.route...)
	out = append(out, g.fuel...)
	out = append(out, g.expense...)
	out = append(out, g.income...)
	return out
}

// breakdown carries the settlement header totals.
type breakdown struct {
	transportIncome int64
	transportCost   int64
	otherIncome     int64
	generalExpense  int64
	fuelCost        int64
	fuelSubsidy     int64
}

func (b breakdown) totalRevenue() int64 {
	return b.transportIncome + b.otherIncome
}

func (b breakdown) totalSpend() int64 {
	return b.transportCost + b.generalExpense + (b.fuelCost - b.fuelSubsidy)
}

func (b breakdown) profit() int64 {
	return b.totalRevenue() - b.totalSpend()
}

// split slices records to the sheet's statistical month and period and
// sorts each group chronologically. Records whose statistical day
// cannot be placed in the month are dropped.
func split(records []model.Record, opts Options) groups {
	prefix := fmt.Sprintf("%04d-%02d", opts.Year, opts.Month)

	var g groups
	for _, r := range records {
		day, _ := statdate.ForRecord(r, opts.BoundaryHour)
		if len(day) < 10 || day[:7] != prefix {
			continue
		}
		dayOfMonth, err := strconv.Atoi(day[8:10])
		if err != nil || !opts.Period.contains(dayOfMonth) {
			continue
		}

		switch r.Type {
		case model.TypeTransport, model.TypeWaiting, model.TypeDeadhead, model.TypeTripCancelled:
			g.route = append(g.route, r)
		case model.TypeFuel:
			g.fuel = append(g.fuel, r)
		case model.TypeExpense, model.TypeSupply:
			g.expense = append(g.expense, r)
		case model.TypeIncome:
			g.income = append(g.income, r)
		}
	}

	for _, group := range [][]model.Record{g.route, g.fuel, g.expense, g.income} {
		sortChronologically(group)
	}
	return g
}

func sortChronologically(records []model.Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date < records[j].Date
		}
		if records[i].Time != records[j].Time {
			return records[i].Time < records[j].Time
		}
		return records[i].ID < records[j].ID
	})
}

func (g groups) sums() breakdown {
	var b breakdown
	for _, r := range g.route {
		b.transportIncome += r.Income
		b.transportCost += r.Cost
	}
	for _, r := range g.fuel {
		b.fuelCost += r.Cost
		b.fuelSubsidy += r.Subsidy()
	}
	for _, r := range g.expense {
		b.generalExpense += r.Cost
	}
	for _, r := range g.income {
		b.otherIncome += r.Income
	}
	return b
}

// Formatter renders settlement sheets for terminal display.
type Formatter struct {
	styles *Styles
}

// NewFormatter creates a new formatter with default styles.
func NewFormatter() *Formatter {
	return &Formatter{styles: NewStyles()}
}

// Render produces the settlement sheet for the given records. Records
// outside the sheet's month are ignored, so callers may hand over the
// full store contents.
func (f *Formatter) Render(records []model.Record, opts Options) string {
	g := split(records, opts)
	b := g.sums()
	sum := rollup.Summarize(g.all())

	sections := []string{
		f.formatHeader(opts),
		f.formatTotals(b),
		f.formatOperations(sum, opts.Settings),
	}
	if quota := f.formatSubsidyQuota(sum, opts.Settings); quota != "" {
		sections = append(sections, quota)
	}

	if opts.Detail {
		for _, sec := range []string{
			f.formatRouteTable(g.route),
			f.formatFuelTable(g.fuel),
			f.formatExpenseTable(g.expense),
			f.formatIncomeTable(g.income),
		} {
			if sec != "" {
				sections = append(sections, sec)
			}
		}
	}

	return strings.Join(sections, "\n\n")
}

// formatHeader creates the sheet header.
func (f *Formatter) formatHeader(opts Options) string {
	title := f.styles.Title.Render(fmt.Sprintf("%s %d년 %d월 정산서", cli.ChartIcon, opts.Year, int(opts.Month)))
	period := f.styles.Subtle.Render("기간: " + opts.Period.Label())
	return title + "\n" + period
}

// formatTotals creates the boxed revenue/spend/profit header.
func (f *Formatter) formatTotals(b breakdown) string {
	profit := b.profit()

	lines := []string{
		fmt.Sprintf("%s  %s", f.styles.TotalLabel.Render("총 수입"), cli.FormatKRW(b.totalRevenue())),
		fmt.Sprintf("%s  %s", f.styles.TotalLabel.Render("총 지출"), cli.FormatKRW(b.totalSpend())),
		fmt.Sprintf("%s  %s", f.styles.TotalLabel.Render("순수익"), f.styles.ForAmount(profit).Render(cli.FormatKRW(profit))),
	}
	return f.styles.Box.Render(strings.Join(lines, "\n"))
}

// formatOperations creates the distance and fuel summary block.
func (f *Formatter) formatOperations(sum rollup.Summary, settings model.Settings) string {
	title := f.styles.SectionHead.Render(cli.TruckIcon + " 운행 요약")

	lines := []string{
		fmt.Sprintf("운행 건수: %d건", sum.TripCount),
		fmt.Sprintf("총 운행 거리: %.1f km", sum.TotalDistance),
	}
	if settings.MileageCorrection != 0 {
		lines = append(lines, fmt.Sprintf("보정 거리: %.1f km", sum.CorrectedDistance(settings.MileageCorrection)))
	}
	lines = append(lines, fmt.Sprintf("총 주유량: %.1f L", sum.TotalFuelLiters))
	if sum.TotalFuelLiters > 0 {
		lines = append(lines,
			fmt.Sprintf("추정 연비: %.2f km/L", sum.FuelEfficiency()),
			fmt.Sprintf("실 주유비: %s", cli.FormatKRW(sum.RealFuelCost())),
		)
	}
	return title + "\n" + strings.Join(lines, "\n")
}

// formatSubsidyQuota renders monthly fuel volume against the subsidy
// limit, empty when no limit is configured.
func (f *Formatter) formatSubsidyQuota(sum rollup.Summary, settings model.Settings) string {
	if settings.SubsidyLimit <= 0 {
		return ""
	}
	line := fmt.Sprintf("%s 유가보조금 한도: %.1f L / %.1f L", cli.FuelIcon, sum.TotalFuelLiters, settings.SubsidyLimit)
	if sum.TotalFuelLiters > settings.SubsidyLimit {
		return f.styles.Warning.Render(line + " (한도 초과)")
	}
	return f.styles.Info.Render(line)
}

// formatRouteTable creates the run detail table.
func (f *Formatter) formatRouteTable(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}
	title := f.styles.SectionHead.Render("운행 내역")

	header := fmt.Sprintf("%-10s %-5s %-6s %-8s %-8s %9s %11s %11s",
		"날짜", "시간", "구분", "출발", "도착", "거리(km)", "수입(원)", "지출(원)")

	rows := f.tableHead(header)
	for _, r := range records {
		from, to := "", ""
		if r.Route != nil {
			from, to = r.Route.From, r.Route.To
		}
		rows = append(rows, fmt.Sprintf("%-10s %-5s %-6s %-8s %-8s %9.1f %11s %11s",
			r.Date, r.Time, r.Type.Label(), from, to,
			r.Distance(), humanize.Comma(r.Income), humanize.Comma(r.Cost)))
	}
	return title + "\n" + strings.Join(rows, "\n")
}

// formatFuelTable creates the fuel stop detail table.
func (f *Formatter) formatFuelTable(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}
	title := f.styles.SectionHead.Render("주유 내역")

	header := fmt.Sprintf("%-10s %-5s %-10s %9s %8s %11s %11s",
		"날짜", "시간", "브랜드", "단가(원)", "주유량(L)", "보조금(원)", "지출(원)")

	rows := f.tableHead(header)
	for _, r := range records {
		brand := ""
		var unitPrice, subsidy int64
		if r.Fuel != nil {
			brand = r.Fuel.Brand
			unitPrice = r.Fuel.UnitPrice
			subsidy = r.Fuel.Subsidy
		}
		rows = append(rows, fmt.Sprintf("%-10s %-5s %-10s %9s %8.2f %11s %11s",
			r.Date, r.Time, brand,
			humanize.Comma(unitPrice), r.Liters(), humanize.Comma(subsidy), humanize.Comma(r.Cost)))
	}
	return title + "\n" + strings.Join(rows, "\n")
}

// formatExpenseTable creates the expense and supply detail table.
func (f *Formatter) formatExpenseTable(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}
	title := f.styles.SectionHead.Render("지출 내역")

	header := fmt.Sprintf("%-10s %-5s %-6s %-16s %11s",
		"날짜", "시간", "구분", "내역", "지출(원)")

	rows := f.tableHead(header)
	for _, r := range records {
		rows = append(rows, fmt.Sprintf("%-10s %-5s %-6s %-16s %11s",
			r.Date, r.Time, r.Type.Label(), r.Item, humanize.Comma(r.Cost)))
	}
	return title + "\n" + strings.Join(rows, "\n")
}

// formatIncomeTable creates the non-run income detail table.
func (f *Formatter) formatIncomeTable(records []model.Record) string {
	if len(records) == 0 {
		return ""
	}
	title := f.styles.SectionHead.Render("기타 수입 내역")

	header := fmt.Sprintf("%-10s %-5s %-16s %11s",
		"날짜", "시간", "내역", "수입(원)")

	rows := f.tableHead(header)
	for _, r := range records {
		rows = append(rows, fmt.Sprintf("%-10s %-5s %-16s %11s",
			r.Date, r.Time, r.Item, humanize.Comma(r.Income)))
	}
	return title + "\n" + strings.Join(rows, "\n")
}

// tableHead returns the styled header row and its rule line.
func (f *Formatter) tableHead(header string) []string {
	return []string{
		f.styles.Subtle.Bold(true).Render(header),
		f.styles.Subtle.Render(strings.Repeat("─", lipgloss.Width(header))),
	}
}
