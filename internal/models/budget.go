package models

import "github.com/shopspring/decimal"

// Budget entry types
const (
	EntryIncome  = "Income"
	EntryExpense = "Expense"
)

// BudgetEntry is one income or expense booking
type BudgetEntry struct {
	Date     Date            `json:"date" toml:"date"`
	Category string          `json:"category" toml:"category"`
	Type     string          `json:"type" toml:"type"` // Income/Expense
	Value    decimal.Decimal `json:"value" toml:"value"`
	Name     string          `json:"name,omitempty" toml:"name"`
}

// StrategyHistory carries the daily hit rate of the best/good/risky
// recommendation buckets of one strategy.
type StrategyHistory struct {
	Strategy string    `json:"strategy" toml:"strategy"`
	Dates    []string  `json:"dates" toml:"dates"`
	Best     []float64 `json:"best" toml:"best"`
	Good     []float64 `json:"good" toml:"good"`
	Risky    []float64 `json:"risky" toml:"risky"`
}
