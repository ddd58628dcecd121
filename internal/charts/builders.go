package charts

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"investcharts/internal/budget"
	"investcharts/internal/currency"
	"investcharts/internal/models"
	"investcharts/internal/performance"
	"investcharts/internal/projection"
	"investcharts/internal/scenario"
	"investcharts/internal/theme"
)

// Chart names, also used as file names
const (
	NamePortfolioBalance = "portfolio-balance"
	NameWalletBalance    = "wallet-balance"
	NameWalletEarnings   = "wallet-earnings"
	NameFireProjection   = "fire-projection"
	NameAllocation       = "allocation"
	NameIncomeExpense    = "income-expense"
	NameCategoryTrends   = "category-trends"
	NameStrategyHistory  = "strategy-history"
	NameMonthlyReturns   = "monthly-returns"
)

func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func newConfig(kind Kind, name, idPrefix, title string, th theme.Theme) *Config {
	return &Config{
		Kind:  kind,
		Name:  name,
		ID:    newID(idPrefix),
		Title: title,
		Style: Style{Theme: th, Width: DefaultWidth, Height: DefaultHeight},
	}
}

func floats(values []decimal.Decimal) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v.InexactFloat64()
	}
	return out
}

// walletName builds a per-wallet chart name such as wallet-balance-etf.
func walletName(base string, w *models.Wallet) string {
	key := w.ID
	if key == "" {
		key = w.Name
	}
	key = strings.ToLower(strings.Join(strings.Fields(key), "-"))
	if key == "" {
		return base
	}
	return base + "-" + key
}

// PortfolioBalance plots the balance of all wallets in PLN against the
// cumulative net deposits. It returns nil for an empty series.
func PortfolioBalance(s performance.BalanceSeries, rng performance.Range, th theme.Theme) *Config {
	if s.Len() == 0 {
		return nil
	}
	cfg := newConfig(KindLine, NamePortfolioBalance, "portfolioBalance", fmt.Sprintf("Portfolio balance and deposits (%s)", rng), th)
	cfg.Labels = s.Dates
	cfg.Series = []Series{
		{Label: "Total balance", Values: floats(s.Balances), Color: theme.Blue, Fill: theme.BlueFill},
		{Label: "Net deposits", Values: floats(s.Deposits), Color: theme.Orange},
	}
	return cfg
}

// WalletBalanceDeposits plots a wallet's balance against the running sum of
// its deposits.
func WalletBalanceDeposits(w *models.Wallet, th theme.Theme) *Config {
	s := w.Series()
	cfg := newConfig(KindLine, walletName(NameWalletBalance, w), "walletBalance", w.Name+": balance and deposits", th)
	cfg.Labels = s.Dates
	cfg.Series = []Series{
		{Label: "Wallet balance", Values: floats(s.Balances), Color: theme.Blue},
		{Label: "Sum of deposits", Values: floats(s.Deposits), Color: theme.Orange},
	}
	return cfg
}

// WalletEarnings plots balance minus deposits at every snapshot.
func WalletEarnings(name string, dates []string, balances, deposits []decimal.Decimal, th theme.Theme) (*Config, error) {
	if len(balances) != len(deposits) {
		return nil, fmt.Errorf("wallet balances and sum of deposits must have the same size: %d != %d", len(balances), len(deposits))
	}
	if len(dates) != len(balances) {
		return nil, fmt.Errorf("got %d dates for %d balances", len(dates), len(balances))
	}

	earnings := make([]decimal.Decimal, len(balances))
	for i := range balances {
		earnings[i] = balances[i].Sub(deposits[i])
	}

	cfg := newConfig(KindLine, name, "walletEarningsChart", "Wallet earnings", th)
	cfg.Labels = dates
	cfg.Series = []Series{
		{Label: "Wallet Earnings", Values: floats(earnings), Color: theme.Blue, Fill: theme.BlueFill},
	}
	return cfg, nil
}

// FireProjection plots the four savings strategies, labelled with the monthly
// split each one assumes.
func FireProjection(p projection.Projection, amounts scenario.Amounts, th theme.Theme) *Config {
	labels := amounts.Labels()

	cfg := newConfig(KindLine, NameFireProjection, "fireProjection", "FIRE projection", th)
	cfg.Style.Smooth = true
	cfg.Style.BeginAtZero = true
	cfg.Labels = make([]string, len(p.Years))
	for i, y := range p.Years {
		cfg.Labels[i] = strconv.Itoa(y)
	}
	cfg.Series = []Series{
		{Label: labels.Current, Values: p.Baseline, Color: theme.Blue, Fill: theme.BlueFill},
		{Label: labels.Plus20, Values: p.Plus20, Color: theme.Green},
		{Label: labels.Minus20, Values: p.Minus20, Color: theme.Red},
		{Label: labels.DepositsOnly, Values: p.OnlyDeposits, Color: theme.Gray, Dashed: true},
	}
	return cfg
}

// GroupBy selects how AssetAllocation buckets wallets
type GroupBy string

const (
	GroupByCurrency  GroupBy = "currency"
	GroupByRiskLevel GroupBy = "risk"
	GroupByWallet    GroupBy = "wallet"
)

func (g GroupBy) key(w *models.Wallet) string {
	switch g {
	case GroupByRiskLevel:
		if w.RiskLevel != "" {
			return w.RiskLevel
		}
		return "Unspecified"
	case GroupByWallet:
		if w.Name != "" {
			return w.Name
		}
		return "Unnamed"
	default:
		if w.Currency != "" {
			return currency.Normalize(w.Currency)
		}
		return "Unknown"
	}
}

// AssetAllocation sums the current PLN value of every wallet per group and
// draws the groups as doughnut slices, largest first.
func AssetAllocation(wallets []models.Wallet, conv *currency.Converter, groupBy GroupBy, th theme.Theme) (*Config, error) {
	totals := make(map[string]decimal.Decimal)
	for i := range wallets {
		w := &wallets[i]
		value, err := conv.ToBase(w.CurrentValue(), w.Currency)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		k := groupBy.key(w)
		totals[k] = totals[k].Add(value)
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := totals[keys[i]].Cmp(totals[keys[j]]); c != 0 {
			return c > 0
		}
		return keys[i] < keys[j]
	})

	values := make([]float64, len(keys))
	for i, k := range keys {
		values[i] = totals[k].Round(2).InexactFloat64()
	}

	cfg := newConfig(KindDoughnut, NameAllocation+"-by-"+string(groupBy), "allocationChart", "Asset allocation by "+string(groupBy), th)
	cfg.Labels = keys
	cfg.Series = []Series{{Label: "Value (PLN)", Values: values, Colors: PaletteColors(len(keys))}}
	return cfg, nil
}

// BudgetIncomeExpense stacks monthly income and expense bars.
func BudgetIncomeExpense(m budget.Monthly, th theme.Theme) *Config {
	cfg := newConfig(KindStackedBar, NameIncomeExpense, "budgetIncomeExpense", "Income vs expense", th)
	cfg.Style.BeginAtZero = true
	cfg.Labels = m.Months
	cfg.Series = []Series{
		{Label: "Income", Values: floats(m.Income), Color: theme.Green, Fill: theme.Green, Stack: "budget"},
		{Label: "Expense", Values: floats(m.Expense), Color: theme.Red, Fill: theme.Red, Stack: "budget"},
	}
	return cfg
}

// CategoryTrends draws one line per expense category over the sorted union
// of all months. Months missing for a category are zero. It returns nil when
// there is nothing to draw.
func CategoryTrends(trends map[string]map[string]decimal.Decimal, th theme.Theme) *Config {
	if len(trends) == 0 {
		return nil
	}

	monthSet := make(map[string]struct{})
	categories := make([]string, 0, len(trends))
	for c, byMonth := range trends {
		categories = append(categories, c)
		for m := range byMonth {
			monthSet[m] = struct{}{}
		}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Strings(months)
	sort.Strings(categories)

	colors := PaletteColors(len(categories))
	cfg := newConfig(KindLine, NameCategoryTrends, "categoryTrendChart", "Expenses by category", th)
	cfg.Style.BeginAtZero = true
	cfg.Labels = months
	for i, c := range categories {
		values := make([]float64, len(months))
		for j, m := range months {
			values[j] = trends[c][m].InexactFloat64()
		}
		cfg.Series = append(cfg.Series, Series{Label: c, Values: values, Color: colors[i]})
	}
	return cfg
}

// StrategyHistory plots the daily hit rate of a strategy's best, good and
// risky recommendation buckets in percent.
func StrategyHistory(h models.StrategyHistory, th theme.Theme) (*Config, error) {
	for name, values := range map[string][]float64{"best": h.Best, "good": h.Good, "risky": h.Risky} {
		if len(values) != len(h.Dates) {
			return nil, fmt.Errorf("strategy %s: %d %s values for %d dates", h.Strategy, len(values), name, len(h.Dates))
		}
	}

	name := NameStrategyHistory
	if h.Strategy != "" {
		name += "-" + strings.ToLower(strings.Join(strings.Fields(h.Strategy), "-"))
	}
	cfg := newConfig(KindLine, name, "StrategyBGRHistoryChart", h.Strategy+" recommendations", th)
	cfg.Style.ValueFormat = "%.0f%%"
	cfg.Style.BeginAtZero = true
	cfg.Labels = h.Dates
	cfg.Series = []Series{
		{Label: "Best", Values: h.Best, Color: theme.Green},
		{Label: "Good", Values: h.Good, Color: theme.Blue},
		{Label: "Risky", Values: h.Risky, Color: theme.Red},
	}
	return cfg, nil
}

// MonthNames label the heatmap columns
var MonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthlyReturns lays out monthly percentage returns keyed by YYYY-MM as a
// year by month grid. Months without a return are NaN. Malformed keys are
// skipped. It returns nil when there is nothing to draw.
func MonthlyReturns(returns map[string]decimal.Decimal, th theme.Theme) *Config {
	byYear := make(map[int][]float64)
	for key, pct := range returns {
		var year, month int
		if _, err := fmt.Sscanf(key, "%d-%d", &year, &month); err != nil || month < 1 || month > 12 {
			continue
		}
		row, ok := byYear[year]
		if !ok {
			row = make([]float64, 12)
			for i := range row {
				row[i] = math.NaN()
			}
			byYear[year] = row
		}
		row[month-1] = pct.InexactFloat64()
	}
	if len(byYear) == 0 {
		return nil
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	cfg := newConfig(KindHeatmap, NameMonthlyReturns, "monthlyReturns", "Monthly returns", th)
	cfg.Style.ValueFormat = "%.1f%%"
	cfg.Style.Height = 60 + 32*len(years)
	cfg.Labels = append([]string(nil), MonthNames...)
	for _, y := range years {
		cfg.Series = append(cfg.Series, Series{Label: strconv.Itoa(y), Values: byYear[y]})
	}
	return cfg
}
