// Package scenario splits a monthly savings budget into the invested and
// not-invested parts shown on the FIRE projection chart legend.
package scenario

import (
	"fmt"
	"math"
)

// Split is one scenario's monthly allocation, in whole currency units.
type Split struct {
	Invested    int64 `json:"invested"`
	NotInvested int64 `json:"notInvested"`
}

// Amounts holds the four comparison scenarios for one savings budget.
type Amounts struct {
	Current      Split `json:"current"`
	Plus20       Split `json:"plus20"`
	Minus20      Split `json:"minus20"`
	DepositsOnly int64 `json:"depositsOnly"`
}

// Calculate derives the scenario amounts from the average monthly investment
// and the total monthly savings. Every derived quantity is rounded on its own
// (half away from zero). The +20% investment is capped at total savings; the
// current and -20% scenarios are not, so their NotInvested may go negative
// when investment exceeds savings.
func Calculate(monthlyInvestment, monthlySavings float64) Amounts {
	baseInvested := round(monthlyInvestment)
	totalSavings := round(monthlySavings)

	minus20Invested := round(float64(baseInvested) * 0.8)

	plus20Invested := round(float64(baseInvested) * 1.2)
	var plus20Other int64
	if plus20Invested > totalSavings {
		plus20Invested = totalSavings
	} else {
		plus20Other = totalSavings - plus20Invested
	}

	return Amounts{
		Current:      Split{Invested: baseInvested, NotInvested: totalSavings - baseInvested},
		Plus20:       Split{Invested: plus20Invested, NotInvested: plus20Other},
		Minus20:      Split{Invested: minus20Invested, NotInvested: totalSavings - minus20Invested},
		DepositsOnly: totalSavings,
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

// Labels are the legend captions for the projection lines, in the order
// current, +20%, -20%, deposits only.
type Labels struct {
	Current      string
	Plus20       string
	Minus20      string
	DepositsOnly string
}

// Labels formats the amounts as chart legend captions.
func (a Amounts) Labels() Labels {
	return Labels{
		Current:      fmt.Sprintf("Currently (%d invested, %d not invested)", a.Current.Invested, a.Current.NotInvested),
		Plus20:       fmt.Sprintf("+20%% (%d invested, %d not invested)", a.Plus20.Invested, a.Plus20.NotInvested),
		Minus20:      fmt.Sprintf("-20%% (%d invested, %d not invested)", a.Minus20.Invested, a.Minus20.NotInvested),
		DepositsOnly: fmt.Sprintf("Only deposits (%d saved)", a.DepositsOnly),
	}
}
