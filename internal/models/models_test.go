package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-03-15", "2024-03-15", false},
		{"15-03-2024", "2024-03-15", false},
		{"2024-03-15T23:10:00Z", "2024-03-15", false},
		{" 2024-01-01 ", "2024-01-01", false},
		{"2024/03/15", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDateYearMonth(t *testing.T) {
	if got := NewDate(2024, time.February, 9).YearMonth(); got != "2024-02" {
		t.Errorf("YearMonth = %s", got)
	}
}

func testWallet() Wallet {
	return Wallet{
		ID:       "w1",
		Name:     "Broker",
		Currency: "PLN",
		Snapshots: []Snapshot{
			{Date: NewDate(2024, time.March, 31), PortfolioValue: d("2300"), MonthlyDeposit: d("200")},
			{Date: NewDate(2024, time.January, 31), PortfolioValue: d("1000"), MonthlyDeposit: d("1000")},
			{Date: NewDate(2024, time.February, 29), PortfolioValue: d("2100"), MonthlyDeposit: d("1200"), MonthlyWithdrawal: d("100")},
		},
	}
}

func TestWalletSeries(t *testing.T) {
	w := testWallet()
	s := w.Series()

	wantDates := []string{"2024-01-31", "2024-02-29", "2024-03-31"}
	wantBalances := []string{"1000", "2100", "2300"}
	wantDeposits := []string{"1000", "2100", "2300"}

	if len(s.Dates) != 3 {
		t.Fatalf("expected 3 points, got %d", len(s.Dates))
	}
	for i := range wantDates {
		if s.Dates[i] != wantDates[i] {
			t.Errorf("date[%d] = %s, want %s", i, s.Dates[i], wantDates[i])
		}
		if !s.Balances[i].Equal(d(wantBalances[i])) {
			t.Errorf("balance[%d] = %s, want %s", i, s.Balances[i], wantBalances[i])
		}
		if !s.Deposits[i].Equal(d(wantDeposits[i])) {
			t.Errorf("deposit[%d] = %s, want %s", i, s.Deposits[i], wantDeposits[i])
		}
	}

	// source order untouched
	if w.Snapshots[0].Date.Month() != time.March {
		t.Error("Series must not reorder the wallet's snapshots")
	}
}

func TestWalletCurrentValue(t *testing.T) {
	w := testWallet()
	if got := w.CurrentValue(); !got.Equal(d("2300")) {
		t.Errorf("CurrentValue = %s, want 2300", got)
	}

	var empty Wallet
	if !empty.CurrentValue().IsZero() {
		t.Error("empty wallet should have zero value")
	}
}

func depositWallet() Wallet {
	return Wallet{Snapshots: []Snapshot{
		{Date: NewDate(2024, time.March, 31), PortfolioValue: d("2200")},
		{Date: NewDate(2024, time.January, 31), PortfolioValue: d("1000"), MonthlyDeposit: d("1000")},
		{Date: NewDate(2024, time.February, 29), PortfolioValue: d("2200"), MonthlyDeposit: d("1000")},
	}}
}

func TestWalletMonthlyReturns(t *testing.T) {
	w := depositWallet()
	monthly := w.MonthlyReturns()

	if len(monthly) != 2 {
		t.Fatalf("expected 2 months, got %v", monthly)
	}
	if _, ok := monthly["2024-01"]; ok {
		t.Error("first snapshot must not have a return")
	}
	// February: (2200 - (1000 + 1000)) / 2000
	if !monthly["2024-02"].Equal(d("10")) {
		t.Errorf("monthly[2024-02] = %s, want 10", monthly["2024-02"])
	}
	if !monthly["2024-03"].IsZero() {
		t.Errorf("monthly[2024-03] = %s, want 0", monthly["2024-03"])
	}
}

func TestWalletMonthlyReturnsSkipsNonPositiveBase(t *testing.T) {
	w := Wallet{Snapshots: []Snapshot{
		{Date: NewDate(2024, time.January, 31), PortfolioValue: d("0")},
		{Date: NewDate(2024, time.February, 29), PortfolioValue: d("100"), MonthlyDeposit: d("100")},
		{Date: NewDate(2024, time.March, 31), PortfolioValue: d("0"), MonthlyWithdrawal: d("150")},
		{Date: NewDate(2024, time.April, 30), PortfolioValue: d("0")},
	}}
	if got := w.MonthlyReturns(); len(got) != 0 {
		t.Errorf("expected no returns, got %v", got)
	}
}

func TestWalletMonthlyReturnsAcrossYears(t *testing.T) {
	w := Wallet{Snapshots: []Snapshot{
		{Date: NewDate(2023, time.December, 31), PortfolioValue: d("500"), MonthlyDeposit: d("500")},
		{Date: NewDate(2024, time.January, 31), PortfolioValue: d("1000"), MonthlyDeposit: d("1000")},
	}}
	// (1000 - 1500) / 1500 rounded to 8 places
	if got := w.MonthlyReturns()["2024-01"]; !got.Equal(d("-33.333333")) {
		t.Errorf("monthly[2024-01] = %s, want -33.333333", got)
	}
}

func TestWalletYearlyReturns(t *testing.T) {
	w := depositWallet()
	w.Snapshots = append(w.Snapshots, Snapshot{Date: NewDate(2023, time.December, 31), PortfolioValue: d("400"), MonthlyDeposit: d("400")})

	yearly := w.YearlyReturns()
	if _, ok := yearly[2023]; ok {
		t.Error("a year with a single snapshot must be left out")
	}
	// 2024: start 1000 plus later flows 1000, end 2200
	if !yearly[2024].Equal(d("10")) {
		t.Errorf("yearly[2024] = %s, want 10", yearly[2024])
	}
}

func TestPeriodReturn(t *testing.T) {
	if got := PeriodReturn(nil); !got.IsZero() {
		t.Errorf("empty period = %s", got)
	}
	snaps := []Snapshot{
		{PortfolioValue: d("100"), MonthlyWithdrawal: d("0")},
		{PortfolioValue: d("0"), MonthlyWithdrawal: d("200")},
	}
	if got := PeriodReturn(snaps); !got.IsZero() {
		t.Errorf("non-positive start = %s, want 0", got)
	}
}

func TestWalletTWR(t *testing.T) {
	w := depositWallet()
	if got := w.TWR(); !got.Equal(d("0.1")) {
		t.Errorf("TWR = %s, want 0.1", got)
	}

	w = Wallet{Snapshots: []Snapshot{
		{Date: NewDate(2024, time.January, 31), PortfolioValue: d("1000")},
		{Date: NewDate(2024, time.February, 29), PortfolioValue: d("1100")},
		{Date: NewDate(2024, time.March, 31), PortfolioValue: d("990")},
	}}
	// 1.1 * 0.9 - 1
	if got := w.TWR(); !got.Equal(d("-0.01")) {
		t.Errorf("TWR = %s, want -0.01", got)
	}

	single := Wallet{Snapshots: w.Snapshots[:1]}
	if !single.TWR().IsZero() {
		t.Error("single snapshot TWR should be zero")
	}
}

func TestWalletNetDeposits(t *testing.T) {
	w := testWallet()
	if got := w.NetDeposits(); !got.Equal(d("2300")) {
		t.Errorf("NetDeposits = %s, want 2300", got)
	}
}

const jsonDataset = `{
  "wallets": [{
    "id": "w1", "name": "ETF", "currency": "EUR", "riskLevel": "Medium",
    "snapshots": [
      {"date": "2024-01-31", "portfolioValue": "1000.50", "monthlyDeposit": 1000}
    ]
  }],
  "budgetEntries": [
    {"date": "2024-01-05", "category": "Food", "type": "Expense", "value": "-120.40"}
  ],
  "rates": {"EUR": "4.31"},
  "fireTarget": "1500000",
  "monthlySavings": 3000,
  "years": 10
}`

const tomlDataset = `
fire_target = "1500000"
monthly_savings = "3000"
years = 10

[rates]
EUR = "4.31"

[[wallets]]
id = "w1"
name = "ETF"
currency = "EUR"
risk_level = "Medium"

  [[wallets.snapshots]]
  date = "2024-01-31"
  portfolio_value = "1000.50"
  monthly_deposit = "1000"

[[budget_entries]]
date = "2024-01-05"
category = "Food"
type = "Expense"
value = "-120.40"
`

func checkDataset(t *testing.T, ds *Dataset) {
	t.Helper()

	if len(ds.Wallets) != 1 {
		t.Fatalf("expected 1 wallet, got %d", len(ds.Wallets))
	}
	w := ds.Wallets[0]
	if w.Currency != "EUR" || w.RiskLevel != "Medium" {
		t.Errorf("unexpected wallet: %+v", w)
	}
	if len(w.Snapshots) != 1 || !w.Snapshots[0].PortfolioValue.Equal(d("1000.50")) {
		t.Errorf("unexpected snapshots: %+v", w.Snapshots)
	}
	if w.Snapshots[0].Date.String() != "2024-01-31" {
		t.Errorf("unexpected snapshot date %s", w.Snapshots[0].Date)
	}
	if len(ds.BudgetEntries) != 1 || ds.BudgetEntries[0].Type != EntryExpense {
		t.Errorf("unexpected budget entries: %+v", ds.BudgetEntries)
	}
	if !ds.Rates["EUR"].Equal(d("4.31")) {
		t.Errorf("EUR rate = %s", ds.Rates["EUR"])
	}
	if !ds.FireTarget.Equal(d("1500000")) || !ds.MonthlySavings.Equal(d("3000")) || ds.Years != 10 {
		t.Errorf("unexpected FIRE settings: %s %s %d", ds.FireTarget, ds.MonthlySavings, ds.Years)
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(jsonPath, []byte(jsonDataset), 0644); err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "data.toml")
	if err := os.WriteFile(tomlPath, []byte(tomlDataset), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		ds, err := LoadDataset(jsonPath)
		if err != nil {
			t.Fatalf("LoadDataset failed: %v", err)
		}
		checkDataset(t, ds)
	})

	t.Run("toml", func(t *testing.T) {
		ds, err := LoadDataset(tomlPath)
		if err != nil {
			t.Fatalf("LoadDataset failed: %v", err)
		}
		checkDataset(t, ds)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		p := filepath.Join(dir, "data.yaml")
		if err := os.WriteFile(p, []byte("wallets: []"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadDataset(p); err == nil {
			t.Error("expected error for .yaml")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadDataset(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := ParseDatasetJSON([]byte(`{"budgetEntries":[{"date":"yesterday"}]}`))
		if err == nil {
			t.Error("expected error for invalid date")
		}
	})
}
