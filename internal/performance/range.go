package performance

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"investcharts/internal/models"
)

// Range is a dashboard time filter ending today.
type Range string

const (
	RangeMTD        Range = "MTD"
	RangeYTD        Range = "YTD"
	RangeOneYear    Range = "1Y"
	RangeThreeYears Range = "3Y"
	RangeFiveYears  Range = "5Y"
	RangeAll        Range = "ALL"
)

// Ranges lists every supported range in display order.
var Ranges = []Range{RangeMTD, RangeYTD, RangeOneYear, RangeThreeYears, RangeFiveYears, RangeAll}

// ParseRange accepts a range name in any case. An empty name is RangeAll.
func ParseRange(s string) (Range, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return RangeAll, nil
	}
	for _, r := range Ranges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown range %q (want one of MTD, YTD, 1Y, 3Y, 5Y, ALL)", s)
}

// Window is the inclusive date span a range covers on now. RangeAll starts
// at earliest.
func (r Range) Window(now time.Time, earliest models.Date) (models.Date, models.Date) {
	end := models.NewDate(now.Year(), now.Month(), now.Day())
	var start models.Date
	switch r {
	case RangeMTD:
		start = models.NewDate(now.Year(), now.Month(), 1)
	case RangeYTD:
		start = models.NewDate(now.Year(), time.January, 1)
	case RangeOneYear:
		start = models.Date{Time: end.AddDate(-1, 0, 0)}
	case RangeThreeYears:
		start = models.Date{Time: end.AddDate(-3, 0, 0)}
	case RangeFiveYears:
		start = models.Date{Time: end.AddDate(-5, 0, 0)}
	default:
		start = earliest
	}
	return start, end
}

// Contains reports whether d lies within start..end.
func Contains(d, start, end models.Date) bool {
	return !d.Before(start.Time) && !d.After(end.Time)
}

// BalanceSeries is the portfolio balance next to cumulative net deposits.
type BalanceSeries struct {
	Dates    []string          `json:"dates"`
	Balances []decimal.Decimal `json:"balances"`
	Deposits []decimal.Decimal `json:"deposits"`
}

// Len is the number of points in the series.
func (s BalanceSeries) Len() int {
	return len(s.Dates)
}

// Balances keeps the points of r. Deposits made before the window still
// count towards the cumulative total of the first point shown.
func Balances(points []Point, r Range, now time.Time) BalanceSeries {
	var s BalanceSeries
	if len(points) == 0 {
		return s
	}
	start, end := r.Window(now, points[0].Date)
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(p.CashFlow)
		if !Contains(p.Date, start, end) {
			continue
		}
		s.Dates = append(s.Dates, p.Date.String())
		s.Balances = append(s.Balances, p.Balance)
		s.Deposits = append(s.Deposits, total)
	}
	return s
}
