// Package performance measures how the portfolio and its wallets did:
// growth rates, time- and money-weighted returns, and the PLN series the
// main dashboard charts are drawn from.
package performance

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places ratios are rounded to.
const Scale = 8

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

const (
	xirrGuess      = 0.1
	xirrIterations = 100
	xirrTolerance  = 1e-7
	xirrMinRate    = -0.999
	xirrMaxRate    = 10.0
)

// CAGR is the compound annual growth rate from start to end over years:
//
//	(end / start)^(1 / years) - 1
//
// It is zero when start or years is not positive.
func CAGR(start, end decimal.Decimal, years float64) decimal.Decimal {
	if !start.IsPositive() || years <= 0 {
		return decimal.Zero
	}
	ratio := end.DivRound(start, Scale).InexactFloat64()
	if ratio <= 0 {
		return one.Neg()
	}
	return finite(math.Pow(ratio, 1/years) - 1)
}

// RealCAGR removes inflation from a nominal growth rate, both as ratios.
func RealCAGR(cagr, inflation decimal.Decimal) decimal.Decimal {
	base := one.Add(inflation)
	if base.IsZero() {
		return decimal.Zero
	}
	return one.Add(cagr).DivRound(base, Scale).Sub(one)
}

// SimpleReturn is (value - deposits) / deposits, or zero without deposits.
func SimpleReturn(deposits, value decimal.Decimal) decimal.Decimal {
	if !deposits.IsPositive() {
		return decimal.Zero
	}
	return value.Sub(deposits).DivRound(deposits, Scale)
}

// CashFlow is money moving into (negative) or out of (positive) the
// portfolio from the investor's point of view.
type CashFlow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// XIRR is the annualised money-weighted return of flows, found with
// Newton-Raphson from a 10% guess. Years are counted as days/365 from the
// earliest flow and the rate is kept within [-99.9%, 1000%]. Fewer than
// two flows yield zero.
func XIRR(flows []CashFlow) decimal.Decimal {
	if len(flows) < 2 {
		return decimal.Zero
	}
	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	first := sorted[0].Date
	years := make([]float64, len(sorted))
	amounts := make([]float64, len(sorted))
	for i, f := range sorted {
		years[i] = f.Date.Sub(first).Hours() / 24 / 365
		amounts[i] = f.Amount.InexactFloat64()
	}

	rate := xirrGuess
	for i := 0; i < xirrIterations; i++ {
		var npv, dnpv float64
		for k := range amounts {
			factor := math.Pow(1+rate, years[k])
			npv += amounts[k] / factor
			dnpv -= years[k] * amounts[k] / (factor * (1 + rate))
		}
		if math.Abs(dnpv) < 1e-10 {
			break
		}
		next := rate - npv/dnpv
		next = math.Max(xirrMinRate, math.Min(xirrMaxRate, next))
		if math.Abs(next-rate) < xirrTolerance {
			rate = next
			break
		}
		rate = next
	}
	return finite(rate)
}

func finite(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(Scale)
}

// monthsBetween counts the whole months from a to b.
func monthsBetween(a, b time.Time) int {
	m := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		m--
	}
	return m
}

// spanYears is the number of years covered by first..last counting both
// end months, never less than 0.1.
func spanYears(first, last time.Time) float64 {
	years := float64(monthsBetween(first, last)+1) / 12
	return math.Max(years, 0.1)
}
