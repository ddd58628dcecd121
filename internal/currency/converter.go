// Package currency converts amounts between the currencies wallets are kept
// in, using static PLN-per-unit rates.
package currency

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Base is the currency all rates are expressed in.
const Base = "PLN"

// DefaultScale is the number of decimal places results are rounded to.
const DefaultScale = 4

// Converter converts between currencies via PLN.
// It is safe for concurrent use.
type Converter struct {
	mu         sync.RWMutex
	plnPerUnit map[string]decimal.Decimal
	scale      int32
}

// DefaultRates returns the built-in PLN-per-unit rates.
func DefaultRates() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"PLN": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("4.30"),
		"USD": decimal.RequireFromString("3.70"),
	}
}

// NewConverter creates a converter seeded with DefaultRates and overridden by
// the given rates.
func NewConverter(overrides map[string]decimal.Decimal) *Converter {
	c := &Converter{
		plnPerUnit: DefaultRates(),
		scale:      DefaultScale,
	}
	for code, rate := range overrides {
		c.plnPerUnit[Normalize(code)] = rate
	}
	return c
}

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SetRate updates the PLN-per-unit rate of one currency.
func (c *Converter) SetRate(code string, plnPerUnit decimal.Decimal) error {
	code = Normalize(code)
	if code == "" {
		return fmt.Errorf("currency code must not be empty")
	}
	if !plnPerUnit.IsPositive() {
		return fmt.Errorf("rate for %s must be positive, got %s", code, plnPerUnit)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.plnPerUnit[code] = plnPerUnit
	return nil
}

// Rate returns the PLN-per-unit rate of a currency.
func (c *Converter) Rate(code string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.plnPerUnit[Normalize(code)]
	return r, ok
}

// Currencies lists the known currency codes in alphabetical order.
func (c *Converter) Currencies() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	codes := make([]string, 0, len(c.plnPerUnit))
	for code := range c.plnPerUnit {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Convert converts amount from one currency to another, rounding half up to
// four decimal places.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	rateFrom, ok := c.Rate(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("missing rate for currency %q", from)
	}
	rateTo, ok := c.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("missing rate for currency %q", to)
	}
	if rateTo.IsZero() {
		return decimal.Zero, fmt.Errorf("zero rate for currency %q", to)
	}

	return amount.Mul(rateFrom).DivRound(rateTo, c.scale), nil
}

// ToBase converts amount into PLN.
func (c *Converter) ToBase(amount decimal.Decimal, from string) (decimal.Decimal, error) {
	return c.Convert(amount, from, Base)
}
