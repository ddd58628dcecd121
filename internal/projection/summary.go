package projection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"investcharts/internal/currency"
	"investcharts/internal/models"
)

// Summary combines all wallets into the figures the projection starts from
type Summary struct {
	Balance           decimal.Decimal `json:"balance"`  // PLN
	Deposits          decimal.Decimal `json:"deposits"` // PLN
	Months            int             `json:"months"`
	AvgMonthlyDeposit float64         `json:"avgMonthlyDeposit"`
	First             models.Date     `json:"first"`
	Last              models.Date     `json:"last"`
}

// Summarize adds up the latest balance and cumulative deposits of every
// wallet in PLN and spans the months between the first and last snapshot.
// Wallets without snapshots are skipped. Without any snapshots the span is
// the year up to now.
func Summarize(wallets []models.Wallet, conv *currency.Converter, now time.Time) (Summary, error) {
	s := Summary{Balance: decimal.Zero, Deposits: decimal.Zero}
	var first, last time.Time

	for i := range wallets {
		w := &wallets[i]
		series := w.Series()
		if len(series.Balances) == 0 {
			continue
		}

		balance, err := conv.ToBase(series.Balances[len(series.Balances)-1], w.Currency)
		if err != nil {
			return Summary{}, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		deposits, err := conv.ToBase(series.Deposits[len(series.Deposits)-1], w.Currency)
		if err != nil {
			return Summary{}, fmt.Errorf("wallet %s: %w", w.Name, err)
		}
		s.Balance = s.Balance.Add(balance)
		s.Deposits = s.Deposits.Add(deposits)

		for _, snap := range w.Snapshots {
			if first.IsZero() || snap.Date.Before(first) {
				first = snap.Date.Time
			}
			if last.IsZero() || snap.Date.After(last) {
				last = snap.Date.Time
			}
		}
	}

	if first.IsZero() {
		last = now
		first = now.AddDate(-1, 0, 0)
	}
	s.First = models.NewDate(first.Year(), first.Month(), first.Day())
	s.Last = models.NewDate(last.Year(), last.Month(), last.Day())

	s.Months = (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
	if s.Months <= 0 {
		s.Months = 1
	}

	if s.Deposits.IsPositive() {
		s.AvgMonthlyDeposit = s.Deposits.DivRound(decimal.NewFromInt(int64(s.Months)), 18).InexactFloat64()
	}
	return s, nil
}

// MonthlyReturn is the real monthly return implied by the summary.
func (s Summary) MonthlyReturn(inflation float64) float64 {
	return MonthlyReturn(s.Months, s.Deposits.InexactFloat64(), s.Balance.InexactFloat64(), inflation)
}

// Outlook is the capital expected one year from now
type Outlook struct {
	NextYear       float64 `json:"nextYear"`
	NextYearPlus20 float64 `json:"nextYearPlus20"`
	MonthlyReturn  float64 `json:"monthlyReturn"`
}

// NextYear projects the summary twelve months ahead at the current and at
// a 20% higher monthly deposit.
func (s Summary) NextYear(inflation float64) Outlook {
	r := s.MonthlyReturn(inflation)
	current := s.Balance.InexactFloat64()
	return Outlook{
		NextYear:       FutureValue(current, s.AvgMonthlyDeposit, r, 12),
		NextYearPlus20: FutureValue(current, s.AvgMonthlyDeposit*1.2, r, 12),
		MonthlyReturn:  r,
	}
}
