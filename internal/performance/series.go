package performance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"investcharts/internal/currency"
	"investcharts/internal/models"
)

// Point is the portfolio on one date: the balance and the net deposit made
// on that date, both in PLN.
type Point struct {
	Date     models.Date     `json:"date"`
	Balance  decimal.Decimal `json:"balance"`
	CashFlow decimal.Decimal `json:"cashFlow"`
}

// WalletPoints converts the snapshots of w into PLN points in date order.
func WalletPoints(w *models.Wallet, conv *currency.Converter) ([]Point, error) {
	snaps := w.SortedSnapshots()
	points := make([]Point, 0, len(snaps))
	for _, s := range snaps {
		balance, err := conv.ToBase(s.PortfolioValue, w.Currency)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		flow, err := conv.ToBase(s.NetDeposit(), w.Currency)
		if err != nil {
			return nil, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		points = append(points, Point{Date: s.Date, Balance: balance, CashFlow: flow})
	}
	return points, nil
}

// Aggregate merges all wallets into one PLN series over the union of their
// snapshot dates. A wallet without a snapshot on a date contributes its
// last known balance and no cash flow; before its first snapshot it
// contributes nothing.
func Aggregate(wallets []models.Wallet, conv *currency.Converter) ([]Point, error) {
	perWallet := make([]map[string]Point, 0, len(wallets))
	dates := make(map[string]models.Date)
	for i := range wallets {
		points, err := WalletPoints(&wallets[i], conv)
		if err != nil {
			return nil, err
		}
		byDate := make(map[string]Point, len(points))
		for _, p := range points {
			key := p.Date.String()
			if prev, ok := byDate[key]; ok {
				p.CashFlow = p.CashFlow.Add(prev.CashFlow)
			}
			byDate[key] = p
			dates[key] = p.Date
		}
		perWallet = append(perWallet, byDate)
	}

	keys := make([]string, 0, len(dates))
	for k := range dates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	last := make([]decimal.Decimal, len(perWallet))
	out := make([]Point, 0, len(keys))
	for _, key := range keys {
		pt := Point{Date: dates[key], Balance: decimal.Zero, CashFlow: decimal.Zero}
		for i, byDate := range perWallet {
			if p, ok := byDate[key]; ok {
				last[i] = p.Balance
				pt.CashFlow = pt.CashFlow.Add(p.CashFlow)
			}
			pt.Balance = pt.Balance.Add(last[i])
		}
		out = append(out, pt)
	}
	return out, nil
}

// TWR is the time-weighted return of points as a ratio. Each period is
// measured against the previous balance plus the current cash flow;
// periods with a non-positive base are skipped.
func TWR(points []Point) decimal.Decimal {
	if len(points) < 2 {
		return decimal.Zero
	}
	product := one
	for i := 1; i < len(points); i++ {
		base := points[i-1].Balance.Add(points[i].CashFlow)
		if !base.IsPositive() {
			continue
		}
		r := points[i].Balance.Sub(base).DivRound(base, Scale)
		product = product.Mul(one.Add(r))
	}
	return product.Sub(one).Round(Scale)
}

// MonthlyReturns is the cash-flow adjusted return of each point against the
// previous one in percent, rounded to two decimals and keyed by YYYY-MM. A
// later point in the same month replaces an earlier one.
func MonthlyReturns(points []Point) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := 1; i < len(points); i++ {
		base := points[i-1].Balance.Add(points[i].CashFlow)
		if !base.IsPositive() {
			continue
		}
		out[points[i].Date.YearMonth()] = points[i].Balance.Sub(base).DivRound(base, 4).Mul(hundred)
	}
	return out
}

// CashFlows turns points into XIRR flows: every deposit is paid in on its
// date and the final balance is taken out on the last date.
func CashFlows(points []Point) []CashFlow {
	if len(points) == 0 {
		return nil
	}
	var flows []CashFlow
	for _, p := range points {
		if !p.CashFlow.IsZero() {
			flows = append(flows, CashFlow{Date: p.Date.Time, Amount: p.CashFlow.Neg()})
		}
	}
	last := points[len(points)-1]
	return append(flows, CashFlow{Date: last.Date.Time, Amount: last.Balance})
}
