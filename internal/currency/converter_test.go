package currency

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConvertDefaults(t *testing.T) {
	c := NewConverter(nil)

	tests := []struct {
		name     string
		amount   string
		from, to string
		want     string
	}{
		{"eur to pln", "100", "EUR", "PLN", "430"},
		{"usd to pln", "10", "usd", "PLN", "37"},
		{"pln to eur", "430", "PLN", "EUR", "100"},
		{"eur to usd", "1", "EUR", "USD", "1.1622"},
		{"same currency", "12.34", "PLN", "PLN", "12.34"},
		{"half up", "1", "PLN", "USD", "0.2703"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(dec(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	c := NewConverter(nil)

	_, err := c.Convert(dec("1"), "GBP", "PLN")
	assert.Error(t, err)

	_, err = c.Convert(dec("1"), "PLN", "CHF")
	assert.Error(t, err)
}

func TestOverridesAndSetRate(t *testing.T) {
	c := NewConverter(map[string]decimal.Decimal{" eur ": dec("4.50"), "GBP": dec("5")})

	got, err := c.ToBase(dec("2"), "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("9")))

	got, err = c.ToBase(dec("2"), "gbp")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("10")))

	require.NoError(t, c.SetRate("USD", dec("4")))
	rate, ok := c.Rate("usd")
	require.True(t, ok)
	assert.True(t, rate.Equal(dec("4")))

	assert.Error(t, c.SetRate("", dec("1")))
	assert.Error(t, c.SetRate("CHF", dec("0")))

	assert.Equal(t, []string{"EUR", "GBP", "PLN", "USD"}, c.Currencies())
}

func TestConcurrentAccess(t *testing.T) {
	c := NewConverter(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = c.SetRate("EUR", decimal.NewFromInt(int64(4+i%2)))
		}(i)
		go func() {
			defer wg.Done()
			_, _ = c.ToBase(dec("1"), "EUR")
		}()
	}
	wg.Wait()
}
