package performance

import (
	"sort"

	"github.com/shopspring/decimal"

	"investcharts/internal/currency"
	"investcharts/internal/models"
)

// Overview holds the headline figures of the whole portfolio. Amounts are
// in PLN, rates in percent.
type Overview struct {
	Balance     decimal.Decimal `json:"balance"`
	Deposits    decimal.Decimal `json:"deposits"`
	TotalReturn decimal.Decimal `json:"totalReturn"`
	ReturnRate  decimal.Decimal `json:"returnRate"`
	CAGR        decimal.Decimal `json:"cagr"`
	RealCAGR    decimal.Decimal `json:"realCagr"`
	TWR         decimal.Decimal `json:"twr"`
	XIRR        decimal.Decimal `json:"xirr"`
}

// Summarize computes the overview of an aggregated series. inflation is a
// yearly ratio and only affects RealCAGR.
func Summarize(points []Point, inflation decimal.Decimal) Overview {
	o := Overview{
		Balance:     decimal.Zero,
		Deposits:    decimal.Zero,
		TotalReturn: decimal.Zero,
		ReturnRate:  decimal.Zero,
		CAGR:        decimal.Zero,
		RealCAGR:    decimal.Zero,
		TWR:         decimal.Zero,
		XIRR:        decimal.Zero,
	}
	if len(points) == 0 {
		return o
	}
	for _, p := range points {
		o.Deposits = o.Deposits.Add(p.CashFlow)
	}
	first, last := points[0], points[len(points)-1]
	o.Balance = last.Balance
	o.TotalReturn = o.Balance.Sub(o.Deposits)
	if o.Deposits.IsPositive() {
		o.ReturnRate = o.TotalReturn.DivRound(o.Deposits, 4).Mul(hundred)
	}
	cagr := CAGR(o.Deposits, o.Balance, spanYears(first.Date.Time, last.Date.Time))
	o.CAGR = cagr.Mul(hundred)
	o.RealCAGR = RealCAGR(cagr, inflation).Mul(hundred)
	o.TWR = TWR(points).Mul(hundred)
	o.XIRR = XIRR(CashFlows(points)).Mul(hundred)
	return o
}

// WalletMetrics is one row of the wallet comparison. Amounts are in PLN,
// rates in percent. Monthly and Yearly are measured in the wallet currency.
type WalletMetrics struct {
	Name       string                     `json:"name"`
	Currency   string                     `json:"currency"`
	RiskLevel  string                     `json:"riskLevel"`
	Balance    decimal.Decimal            `json:"balance"`
	Deposits   decimal.Decimal            `json:"deposits"`
	Return     decimal.Decimal            `json:"return"`
	ReturnRate decimal.Decimal            `json:"returnRate"`
	CAGR       decimal.Decimal            `json:"cagr"`
	TWR        decimal.Decimal            `json:"twr"`
	XIRR       decimal.Decimal            `json:"xirr"`
	Monthly    map[string]decimal.Decimal `json:"monthly"`
	Yearly     map[int]decimal.Decimal    `json:"yearly"`
}

// CompareWallets measures every wallet that has snapshots, largest balance
// first.
func CompareWallets(wallets []models.Wallet, conv *currency.Converter) ([]WalletMetrics, error) {
	var rows []WalletMetrics
	for i := range wallets {
		w := &wallets[i]
		points, err := WalletPoints(w, conv)
		if err != nil {
			return nil, err
		}
		if len(points) == 0 {
			continue
		}

		m := WalletMetrics{
			Name:      w.Name,
			Currency:  currency.Normalize(w.Currency),
			RiskLevel: w.RiskLevel,
			Balance:   points[len(points)-1].Balance,
			Deposits:  decimal.Zero,
		}
		for _, p := range points {
			m.Deposits = m.Deposits.Add(p.CashFlow)
		}
		m.Return = m.Balance.Sub(m.Deposits)
		m.ReturnRate = SimpleReturn(m.Deposits, m.Balance).Mul(hundred)
		years := spanYears(points[0].Date.Time, points[len(points)-1].Date.Time)
		m.CAGR = CAGR(m.Deposits, m.Balance, years).Mul(hundred)
		m.TWR = w.TWR().Mul(hundred)
		m.XIRR = XIRR(CashFlows(points)).Mul(hundred)
		m.Monthly = w.MonthlyReturns()
		m.Yearly = w.YearlyReturns()
		rows = append(rows, m)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Balance.GreaterThan(rows[j].Balance)
	})
	return rows, nil
}
