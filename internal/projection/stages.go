package projection

import (
	"math"

	"github.com/shopspring/decimal"
)

// Stage labels used when no month estimate applies
const (
	LabelAchieved = "Achieved"
	LabelLongTerm = "Long term"
	LabelNone     = "-"
)

// StageDef names a milestone as a percentage of the FIRE target
type StageDef struct {
	Name    string
	Percent int64
}

// StageDefs are the milestones on the way to the FIRE target, in order.
var StageDefs = []StageDef{
	{"Initial Spark", 1},
	{"First Milestone", 2},
	{"Early Growth", 5},
	{"Momentum Phase", 10},
	{"Quarter Mark", 25},
	{"Steady Path", 35},
	{"Halfway There", 50},
	{"Comfort Zone", 60},
	{"Strong Position", 70},
	{"Three-Quarters Mark", 75},
	{"Lean FIRE", 80},
	{"Full FIRE", 100},
}

// Stage is one computed milestone
type Stage struct {
	Name        string          `json:"name"`
	Percent     int64           `json:"percent"`
	Amount      decimal.Decimal `json:"amount"`
	Left        decimal.Decimal `json:"left"` // zero or negative once achieved
	Achieved    bool            `json:"achieved"`
	Months      float64         `json:"-"` // +Inf when out of reach
	MonthsLabel string          `json:"monthsLabel"`
	Progress    float64         `json:"progress"` // 0-1
}

// LeftLabel is the amount still missing, or "Achieved".
func (s Stage) LeftLabel() string {
	if s.Achieved {
		return LabelAchieved
	}
	return s.Left.StringFixed(0)
}

// Stages evaluates every StageDef against the FIRE target given the current
// balance, the monthly investment and the monthly return.
func Stages(target, balance decimal.Decimal, monthly, monthlyReturn float64) []Stage {
	hundred := decimal.NewFromInt(100)
	current := balance.InexactFloat64()

	out := make([]Stage, 0, len(StageDefs))
	for _, def := range StageDefs {
		amount := target.Mul(decimal.NewFromInt(def.Percent)).DivRound(hundred, 18).Round(0)
		left := amount.Sub(balance)

		st := Stage{
			Name:     def.Name,
			Percent:  def.Percent,
			Amount:   amount,
			Left:     left,
			Achieved: !left.IsPositive(),
		}

		if !amount.IsZero() {
			st.Progress = math.Min(1, balance.DivRound(amount, 6).InexactFloat64())
		}

		if st.Achieved {
			st.MonthsLabel = LabelNone
		} else {
			st.Months = EstimateMonths(current, monthly, monthlyReturn, amount.InexactFloat64())
			if math.IsInf(st.Months, 0) || math.IsNaN(st.Months) || st.Months > HorizonMonths {
				st.MonthsLabel = LabelLongTerm
			} else {
				st.MonthsLabel = FormatMonths(int(math.Ceil(st.Months)))
			}
		}
		out = append(out, st)
	}
	return out
}
