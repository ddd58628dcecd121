// Package projection implements the FIRE (financial independence, retire
// early) projection math used by the wealth dashboards.
package projection

import (
	"fmt"
	"math"
)

const (
	// HorizonMonths is the longest period EstimateMonths searches.
	HorizonMonths = 1200

	bisectIterations = 80
	zeroReturn       = 1e-12
)

// FutureValue returns the value after the given number of months of current
// compounding at monthlyReturn while monthly is added at the end of every
// month.
func FutureValue(current, monthly, monthlyReturn, months float64) float64 {
	factor := math.Pow(1+monthlyReturn, months)
	if math.Abs(monthlyReturn) < zeroReturn {
		return current*factor + monthly*months
	}
	return current*factor + monthly*((factor-1)/monthlyReturn)
}

// MonthlyReturn derives a real monthly return from the growth of balance
// over deposits across the given number of months: the annualised growth
// rate, deflated by inflation, converted to a monthly rate. Any
// non-positive input yields zero.
func MonthlyReturn(months int, deposits, balance, inflation float64) float64 {
	if deposits <= 0 || balance <= 0 || months <= 0 {
		return 0
	}

	years := float64(months) / 12
	annual := math.Pow(balance/deposits, 1/years) - 1
	realAnnual := (1+annual)/(1+inflation) - 1
	return math.Pow(1+realAnnual, 1.0/12) - 1
}

// EstimateMonths returns the (fractional) number of months until current
// grows to target, or +Inf when the target is out of reach within
// HorizonMonths.
func EstimateMonths(current, monthly, monthlyReturn, target float64) float64 {
	if current >= target {
		return 0
	}
	if math.Abs(monthlyReturn) < zeroReturn {
		if monthly <= 0 {
			return math.Inf(1)
		}
		return math.Max(0, (target-current)/monthly)
	}

	low, high := 0.0, float64(HorizonMonths)
	for i := 0; i < bisectIterations; i++ {
		mid := (low + high) / 2
		if FutureValue(current, monthly, monthlyReturn, mid) >= target {
			high = mid
		} else {
			low = mid
		}
	}
	if FutureValue(current, monthly, monthlyReturn, high) < target-0.5 {
		return math.Inf(1)
	}
	return high
}

// FormatMonths renders a month count as "N yr M mos".
func FormatMonths(months int) string {
	if months <= 0 {
		return "0 mos"
	}
	years, rem := months/12, months%12
	switch {
	case years > 0 && rem > 0:
		return fmt.Sprintf("%d yr %d mos", years, rem)
	case years > 0:
		return fmt.Sprintf("%d yr", years)
	default:
		return fmt.Sprintf("%d mos", rem)
	}
}

// Input parameterises Project.
type Input struct {
	CurrentBalance       float64
	AvgMonthlyInvestment float64
	MonthlySavings       float64
	MonthlyReturn        float64
	Years                int
}

// Projection holds one value per year for each scenario.
type Projection struct {
	Years        []int
	Baseline     []float64
	Plus20       []float64
	Minus20      []float64
	OnlyDeposits []float64
}

// Project computes the yearly capital of four strategies. Each invests an
// amount X per month at MonthlyReturn and keeps MonthlySavings-X uninvested:
// the average investment, 120% of it, 80% of it, and nothing at all. No
// strategy invests more than MonthlySavings.
func Project(in Input) Projection {
	savings := in.MonthlySavings
	base := math.Min(in.AvgMonthlyInvestment, savings)
	plus := math.Min(in.AvgMonthlyInvestment*1.2, savings)
	minus := math.Min(in.AvgMonthlyInvestment*0.8, savings)

	years := in.Years
	if years < 0 {
		years = 0
	}

	p := Projection{
		Years:        make([]int, 0, years+1),
		Baseline:     make([]float64, 0, years+1),
		Plus20:       make([]float64, 0, years+1),
		Minus20:      make([]float64, 0, years+1),
		OnlyDeposits: make([]float64, 0, years+1),
	}

	strategy := func(invest float64, months float64) float64 {
		return FutureValue(in.CurrentBalance, invest, in.MonthlyReturn, months) +
			FutureValue(0, savings-invest, 0, months)
	}

	for y := 0; y <= years; y++ {
		months := float64(y * 12)
		p.Years = append(p.Years, y)
		p.Baseline = append(p.Baseline, strategy(base, months))
		p.Plus20 = append(p.Plus20, strategy(plus, months))
		p.Minus20 = append(p.Minus20, strategy(minus, months))
		p.OnlyDeposits = append(p.OnlyDeposits, in.CurrentBalance+FutureValue(0, savings, 0, months))
	}
	return p
}
