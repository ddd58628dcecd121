package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Wallet is an investment account tracked through monthly snapshots
type Wallet struct {
	ID        string     `json:"id" toml:"id"`
	Name      string     `json:"name" toml:"name"`
	Currency  string     `json:"currency" toml:"currency"`    // ISO code, e.g. PLN/EUR/USD
	RiskLevel string     `json:"riskLevel" toml:"risk_level"` // free-form, e.g. Low/Medium/High
	Snapshots []Snapshot `json:"snapshots" toml:"snapshots"`
}

// Snapshot is the state of a wallet at the end of one month
type Snapshot struct {
	Date              Date            `json:"date" toml:"date"`
	PortfolioValue    decimal.Decimal `json:"portfolioValue" toml:"portfolio_value"`
	MonthlyDeposit    decimal.Decimal `json:"monthlyDeposit" toml:"monthly_deposit"`
	MonthlyWithdrawal decimal.Decimal `json:"monthlyWithdrawal" toml:"monthly_withdrawal"`
	MonthlyEarnings   decimal.Decimal `json:"monthlyEarnings" toml:"monthly_earnings"`
}

// NetDeposit is the money moved into the wallet during the snapshot's month.
func (s Snapshot) NetDeposit() decimal.Decimal {
	return s.MonthlyDeposit.Sub(s.MonthlyWithdrawal)
}

// WalletSeries holds the per-snapshot chart data for one wallet
type WalletSeries struct {
	Dates    []string          `json:"dates"`
	Balances []decimal.Decimal `json:"balances"`
	Deposits []decimal.Decimal `json:"deposits"` // cumulative net deposits
}

// SortedSnapshots returns the snapshots in chronological order without
// modifying the wallet.
func (w *Wallet) SortedSnapshots() []Snapshot {
	out := make([]Snapshot, len(w.Snapshots))
	copy(out, w.Snapshots)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// Series builds the balance and sum-of-deposits lines for the wallet.
func (w *Wallet) Series() WalletSeries {
	snaps := w.SortedSnapshots()
	series := WalletSeries{
		Dates:    make([]string, 0, len(snaps)),
		Balances: make([]decimal.Decimal, 0, len(snaps)),
		Deposits: make([]decimal.Decimal, 0, len(snaps)),
	}

	total := decimal.Zero
	for _, s := range snaps {
		total = total.Add(s.NetDeposit())
		series.Dates = append(series.Dates, s.Date.String())
		series.Balances = append(series.Balances, s.PortfolioValue)
		series.Deposits = append(series.Deposits, total)
	}
	return series
}

// CurrentValue is the portfolio value of the latest snapshot, or zero.
func (w *Wallet) CurrentValue() decimal.Decimal {
	snaps := w.SortedSnapshots()
	if len(snaps) == 0 {
		return decimal.Zero
	}
	return snaps[len(snaps)-1].PortfolioValue
}

// NetDeposits is the sum of deposits minus withdrawals over all snapshots.
func (w *Wallet) NetDeposits() decimal.Decimal {
	total := decimal.Zero
	for _, s := range w.Snapshots {
		total = total.Add(s.NetDeposit())
	}
	return total
}

// ReturnScale is the number of decimal places return ratios are rounded to.
const ReturnScale = 8

var hundred = decimal.NewFromInt(100)

// PeriodReturn is the cash-flow adjusted return between the first and last
// of snaps, which must be in chronological order:
//
//	(end - (start + flows)) / (start + flows)
//
// where flows are the net deposits of every snapshot after the first. The
// result is a ratio (0.1 = 10%); a non-positive adjusted start yields zero.
func PeriodReturn(snaps []Snapshot) decimal.Decimal {
	if len(snaps) < 2 {
		return decimal.Zero
	}
	flows := decimal.Zero
	for _, s := range snaps[1:] {
		flows = flows.Add(s.NetDeposit())
	}
	start := snaps[0].PortfolioValue.Add(flows)
	if !start.IsPositive() {
		return decimal.Zero
	}
	return snaps[len(snaps)-1].PortfolioValue.Sub(start).DivRound(start, ReturnScale)
}

// MonthlyReturns measures every snapshot against the one before it, with
// the current snapshot's net deposit added to the previous value:
//
//	(curr - (prev + flow)) / (prev + flow) * 100
//
// Results are percentages keyed by the YYYY-MM of the later snapshot. The
// first snapshot has no return, and periods whose previous value or adjusted
// base is not positive are skipped.
func (w *Wallet) MonthlyReturns() map[string]decimal.Decimal {
	snaps := w.SortedSnapshots()
	out := make(map[string]decimal.Decimal)
	for i := 1; i < len(snaps); i++ {
		prev, curr := snaps[i-1], snaps[i]
		if !prev.PortfolioValue.IsPositive() {
			continue
		}
		base := prev.PortfolioValue.Add(curr.NetDeposit())
		if !base.IsPositive() {
			continue
		}
		out[curr.Date.YearMonth()] = curr.PortfolioValue.Sub(base).DivRound(base, ReturnScale).Mul(hundred)
	}
	return out
}

// YearlyReturns is the PeriodReturn of each calendar year, in percent.
// Years with fewer than two snapshots are left out.
func (w *Wallet) YearlyReturns() map[int]decimal.Decimal {
	byYear := make(map[int][]Snapshot)
	for _, s := range w.SortedSnapshots() {
		byYear[s.Date.Year()] = append(byYear[s.Date.Year()], s)
	}
	out := make(map[int]decimal.Decimal)
	for year, snaps := range byYear {
		if len(snaps) >= 2 {
			out[year] = PeriodReturn(snaps).Mul(hundred)
		}
	}
	return out
}

// TWR is the time-weighted return of the wallet as a ratio: the product of
// (1 + period return) over consecutive snapshots, minus one. Periods with a
// non-positive base are skipped; fewer than two snapshots yield zero.
func (w *Wallet) TWR() decimal.Decimal {
	snaps := w.SortedSnapshots()
	if len(snaps) < 2 {
		return decimal.Zero
	}
	product := decimal.NewFromInt(1)
	for i := 1; i < len(snaps); i++ {
		base := snaps[i-1].PortfolioValue.Add(snaps[i].NetDeposit())
		if !base.IsPositive() {
			continue
		}
		r := snaps[i].PortfolioValue.Sub(base).DivRound(base, ReturnScale)
		product = product.Mul(decimal.NewFromInt(1).Add(r))
	}
	return product.Sub(decimal.NewFromInt(1)).Round(ReturnScale)
}
