package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Dataset is everything a dashboard is rendered from
type Dataset struct {
	Wallets        []Wallet                   `json:"wallets" toml:"wallets"`
	BudgetEntries  []BudgetEntry              `json:"budgetEntries" toml:"budget_entries"`
	Strategies     []StrategyHistory          `json:"strategies,omitempty" toml:"strategies"`
	Rates          map[string]decimal.Decimal `json:"rates,omitempty" toml:"rates"` // PLN per unit
	FireTarget     decimal.Decimal            `json:"fireTarget" toml:"fire_target"`
	MonthlySavings decimal.Decimal            `json:"monthlySavings" toml:"monthly_savings"`
	Years          int                        `json:"years" toml:"years"`
	Inflation      *float64                   `json:"inflation,omitempty" toml:"inflation"`
	Notes          string                     `json:"notes,omitempty" toml:"notes"` // markdown
}

// LoadDataset reads a dataset from a .json or .toml file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ParseDatasetJSON(data)
	case ".toml":
		return ParseDatasetTOML(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
}

// ParseDatasetJSON decodes a JSON dataset.
func ParseDatasetJSON(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
	}
	return &ds, nil
}

// ParseDatasetTOML decodes a TOML dataset.
func ParseDatasetTOML(data []byte) (*Dataset, error) {
	var ds Dataset
	if _, err := toml.Decode(string(data), &ds); err != nil {
		return nil, fmt.Errorf("failed to parse TOML dataset: %w", err)
	}
	return &ds, nil
}
