package reports

import (
	"fmt"
	"html/template"
	"math"

	"github.com/shopspring/decimal"

	"investcharts/internal/performance"
	"investcharts/internal/projection"
	"investcharts/internal/theme"
)

// TemplateData represents the data structure for the HTML template
type TemplateData struct {
	Title       string
	GeneratedAt string
	Version     string
	Colors      CSSColors
	Range       string
	Cards       []Card
	Wallets     []WalletRow
	Notes       template.HTML
	Stages      []StageRow
	Charts      template.HTML
}

// CSSColors are the theme colours written into the page stylesheet
type CSSColors struct {
	TextPrimary   template.CSS
	TextSecondary template.CSS
	Grid          template.CSS
	Surface       template.CSS
}

// Card is one headline figure
type Card struct {
	Title   string
	Value   string
	Caption string
}

// WalletRow is one formatted line of the wallet comparison
type WalletRow struct {
	Name       string
	Currency   string
	RiskLevel  string
	Balance    string
	Deposits   string
	Return     string
	ReturnRate string
	CAGR       string
	TWR        string
}

// StageRow is one formatted FIRE stage
type StageRow struct {
	Name     string
	Percent  int64
	Amount   string
	Left     string
	Months   string
	Progress int
	Achieved bool
}

// cssColor passes s into the stylesheet only when it parses as a colour.
func cssColor(s, fallback string) template.CSS {
	if _, err := theme.ParseColor(s); err != nil {
		return template.CSS(fallback)
	}
	return template.CSS(s)
}

func cssColors(th theme.Theme) CSSColors {
	def := theme.Default()
	return CSSColors{
		TextPrimary:   cssColor(th.TextPrimary, def.TextPrimary),
		TextSecondary: cssColor(th.TextSecondary, def.TextSecondary),
		Grid:          cssColor(th.Grid, def.Grid),
		Surface:       cssColor(th.Surface, def.Surface),
	}
}

func buildCards(p Page) []Card {
	var cards []Card
	if p.Summary != nil {
		s := p.Summary
		cards = append(cards,
			Card{Title: "Portfolio", Value: FormatAmount(s.Balance.InexactFloat64()) + " PLN", Caption: "Current balance"},
			Card{Title: "Deposits", Value: FormatAmount(s.Deposits.InexactFloat64()) + " PLN", Caption: fmt.Sprintf("Over %d months", s.Months)},
			Card{Title: "Monthly deposit", Value: FormatAmount(s.AvgMonthlyDeposit) + " PLN", Caption: "Average"},
		)
	}
	if p.Performance != nil {
		o := p.Performance
		cards = append(cards,
			Card{Title: "Total return", Value: FormatAmount(o.TotalReturn.InexactFloat64()) + " PLN", Caption: "Balance minus net deposits"},
			Card{Title: "Return rate", Value: percent(o.ReturnRate), Caption: "On net deposits"},
			Card{Title: "CAGR", Value: percent(o.CAGR), Caption: "Real, after inflation: " + percent(o.RealCAGR)},
			Card{Title: "TWR", Value: percent(o.TWR), Caption: "Time-weighted return"},
			Card{Title: "XIRR", Value: percent(o.XIRR), Caption: "Money-weighted, annualised"},
		)
	}
	if p.Outlook != nil {
		o := p.Outlook
		cards = append(cards,
			Card{Title: "Next year", Value: FormatAmount(o.NextYear) + " PLN", Caption: "+20% deposits: " + FormatAmount(o.NextYearPlus20) + " PLN"},
			Card{Title: "Monthly return", Value: fmt.Sprintf("%.2f%%", o.MonthlyReturn*100), Caption: "Real, after inflation"},
		)
	}
	if p.Budget != nil {
		b := p.Budget
		cards = append(cards, Card{
			Title:   "Net savings",
			Value:   FormatAmount(b.NetSavings.InexactFloat64()) + " PLN",
			Caption: "Income " + FormatAmount(b.AvgMonthlyIncome.InexactFloat64()) + " / expense " + FormatAmount(b.AvgMonthlyExpense.InexactFloat64()) + " monthly",
		})
	}
	return cards
}

func percent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

func buildWalletRows(wallets []performance.WalletMetrics) []WalletRow {
	rows := make([]WalletRow, 0, len(wallets))
	for _, w := range wallets {
		rows = append(rows, WalletRow{
			Name:       w.Name,
			Currency:   w.Currency,
			RiskLevel:  w.RiskLevel,
			Balance:    FormatAmount(w.Balance.InexactFloat64()),
			Deposits:   FormatAmount(w.Deposits.InexactFloat64()),
			Return:     FormatAmount(w.Return.InexactFloat64()),
			ReturnRate: percent(w.ReturnRate),
			CAGR:       percent(w.CAGR),
			TWR:        percent(w.TWR),
		})
	}
	return rows
}

func buildStageRows(stages []projection.Stage) []StageRow {
	rows := make([]StageRow, 0, len(stages))
	for _, s := range stages {
		left := s.LeftLabel()
		if !s.Achieved {
			left = FormatAmount(s.Left.InexactFloat64())
		}
		rows = append(rows, StageRow{
			Name:     s.Name,
			Percent:  s.Percent,
			Amount:   FormatAmount(s.Amount.InexactFloat64()),
			Left:     left,
			Months:   s.MonthsLabel,
			Progress: int(math.Round(s.Progress * 100)),
			Achieved: s.Achieved,
		})
	}
	return rows
}
