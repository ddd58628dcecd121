// Package budget aggregates income and expense entries into the monthly
// series shown on the budget dashboards.
package budget

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"investcharts/internal/models"
)

// Aggregator computes budget statistics over a fixed set of entries
type Aggregator struct {
	entries []models.BudgetEntry
}

// NewAggregator creates an aggregator over entries.
func NewAggregator(entries []models.BudgetEntry) *Aggregator {
	return &Aggregator{entries: entries}
}

// Monthly holds income and expense totals aligned with Months
type Monthly struct {
	Months  []string          `json:"months"`
	Income  []decimal.Decimal `json:"income"`
	Expense []decimal.Decimal `json:"expense"`
}

// Trends holds expense totals per category aligned with Months
type Trends struct {
	Months     []string                     `json:"months"`
	Categories []string                     `json:"categories"`
	Values     map[string][]decimal.Decimal `json:"values"`
}

// CategoryTotal is the expense total of one category
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Summary is the totals and monthly averages of a period
type Summary struct {
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	NetSavings        decimal.Decimal `json:"netSavings"`
	AvgMonthlyIncome  decimal.Decimal `json:"avgMonthlyIncome"`
	AvgMonthlyExpense decimal.Decimal `json:"avgMonthlyExpense"`
}

// Span returns the dates of the earliest and latest entry. ok is false when
// there are no entries.
func (a *Aggregator) Span() (start, end time.Time, ok bool) {
	for _, e := range a.entries {
		if e.Date.IsZero() {
			continue
		}
		if !ok || e.Date.Before(start) {
			start = e.Date.Time
		}
		if !ok || e.Date.After(end) {
			end = e.Date.Time
		}
		ok = true
	}
	return start, end, ok
}

// MonthKeys lists every month from start to end inclusive as YYYY-MM.
func MonthKeys(start, end time.Time) []string {
	var keys []string
	ym := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !ym.After(last) {
		keys = append(keys, monthKey(ym))
		ym = ym.AddDate(0, 1, 0)
	}
	return keys
}

func monthKey(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), t.Month())
}

// between returns the entries dated within [start, end] by calendar day.
func (a *Aggregator) between(start, end time.Time) []models.BudgetEntry {
	from := day(start)
	to := day(end)

	var out []models.BudgetEntry
	for _, e := range a.entries {
		if e.Date.IsZero() {
			continue
		}
		d := day(e.Date.Time)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isIncome(e models.BudgetEntry) bool {
	return e.Type == models.EntryIncome
}

func isExpense(e models.BudgetEntry) bool {
	return e.Type == models.EntryExpense
}

// MonthlyIncomeExpense totals absolute income and expense values per month.
// Every month in the range is present, zero when empty. Any type other than
// Income counts as expense.
func (a *Aggregator) MonthlyIncomeExpense(start, end time.Time) Monthly {
	months := MonthKeys(start, end)
	index := make(map[string]int, len(months))
	m := Monthly{
		Months:  months,
		Income:  zeros(len(months)),
		Expense: zeros(len(months)),
	}
	for i, k := range months {
		index[k] = i
	}

	for _, e := range a.between(start, end) {
		i, ok := index[e.Date.YearMonth()]
		if !ok {
			continue
		}
		if isIncome(e) {
			m.Income[i] = m.Income[i].Add(e.Value.Abs())
		} else {
			m.Expense[i] = m.Expense[i].Add(e.Value.Abs())
		}
	}
	return m
}

// CategoryTrends totals absolute expense values per category and month.
// Every category seen in the range is listed, in alphabetical order.
func (a *Aggregator) CategoryTrends(start, end time.Time) Trends {
	entries := a.between(start, end)
	months := MonthKeys(start, end)
	index := make(map[string]int, len(months))
	for i, k := range months {
		index[k] = i
	}

	t := Trends{Months: months, Values: make(map[string][]decimal.Decimal)}
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		if _, seen := t.Values[e.Category]; !seen {
			t.Values[e.Category] = zeros(len(months))
			t.Categories = append(t.Categories, e.Category)
		}
	}
	sort.Strings(t.Categories)

	for _, e := range entries {
		if e.Category == "" || !isExpense(e) {
			continue
		}
		i, ok := index[e.Date.YearMonth()]
		if !ok {
			continue
		}
		values := t.Values[e.Category]
		values[i] = values[i].Add(e.Value.Abs())
	}
	return t
}

// MonthlyNetBalance is income minus expense per month.
func (a *Aggregator) MonthlyNetBalance(start, end time.Time) ([]string, []decimal.Decimal) {
	m := a.MonthlyIncomeExpense(start, end)
	net := make([]decimal.Decimal, len(m.Months))
	for i := range m.Months {
		net[i] = m.Income[i].Sub(m.Expense[i])
	}
	return m.Months, net
}

// TopExpenseCategories returns the categories with the highest expense
// totals, largest first, at most limit of them.
func (a *Aggregator) TopExpenseCategories(start, end time.Time, limit int) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range a.between(start, end) {
		if !isExpense(e) || e.Category == "" {
			continue
		}
		totals[e.Category] = totals[e.Category].Add(e.Value.Abs())
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, total := range totals {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp := out[i].Total.Cmp(out[j].Total); cmp != 0 {
			return cmp > 0
		}
		return out[i].Category < out[j].Category
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Summary totals the period and averages it per month, rounded half up to
// two decimal places.
func (a *Aggregator) Summary(start, end time.Time) Summary {
	m := a.MonthlyIncomeExpense(start, end)

	s := Summary{
		TotalIncome:       sum(m.Income),
		TotalExpense:      sum(m.Expense),
		AvgMonthlyIncome:  decimal.Zero,
		AvgMonthlyExpense: decimal.Zero,
	}
	s.NetSavings = s.TotalIncome.Sub(s.TotalExpense)

	if n := len(m.Months); n > 0 {
		months := decimal.NewFromInt(int64(n))
		s.AvgMonthlyIncome = s.TotalIncome.DivRound(months, 2)
		s.AvgMonthlyExpense = s.TotalExpense.DivRound(months, 2)
	}
	return s
}

func zeros(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.Zero
	}
	return out
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// ByCategory reshapes the trends into category -> month -> total.
func (t Trends) ByCategory() map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal, len(t.Categories))
	for _, c := range t.Categories {
		months := make(map[string]decimal.Decimal, len(t.Months))
		for i, m := range t.Months {
			months[m] = t.Values[c][i]
		}
		out[c] = months
	}
	return out
}
