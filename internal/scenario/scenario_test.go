package scenario

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		investment float64
		savings    float64
		want       Amounts
	}{
		{
			name:       "investment below savings",
			investment: 1000,
			savings:    1500,
			want: Amounts{
				Current:      Split{Invested: 1000, NotInvested: 500},
				Plus20:       Split{Invested: 1200, NotInvested: 300},
				Minus20:      Split{Invested: 800, NotInvested: 700},
				DepositsOnly: 1500,
			},
		},
		{
			name:       "plus20 clamped to savings",
			investment: 1000,
			savings:    1100,
			want: Amounts{
				Current:      Split{Invested: 1000, NotInvested: 100},
				Plus20:       Split{Invested: 1100, NotInvested: 0},
				Minus20:      Split{Invested: 800, NotInvested: 300},
				DepositsOnly: 1100,
			},
		},
		{
			name:       "plus20 exactly at savings is not clamped",
			investment: 1000,
			savings:    1200,
			want: Amounts{
				Current:      Split{Invested: 1000, NotInvested: 200},
				Plus20:       Split{Invested: 1200, NotInvested: 0},
				Minus20:      Split{Invested: 800, NotInvested: 400},
				DepositsOnly: 1200,
			},
		},
		{
			name: "zeros",
			want: Amounts{},
		},
		{
			name:       "fractional investment rounds before scaling",
			investment: 833.33,
			savings:    2000,
			want: Amounts{
				Current:      Split{Invested: 833, NotInvested: 1167},
				Plus20:       Split{Invested: 1000, NotInvested: 1000},
				Minus20:      Split{Invested: 666, NotInvested: 1334},
				DepositsOnly: 2000,
			},
		},
		{
			name:       "halves round up",
			investment: 2.5,
			savings:    10.5,
			want: Amounts{
				Current:      Split{Invested: 3, NotInvested: 8},
				Plus20:       Split{Invested: 4, NotInvested: 7},
				Minus20:      Split{Invested: 2, NotInvested: 9},
				DepositsOnly: 11,
			},
		},
		{
			name:       "investment above savings leaves negative remainders",
			investment: 1500,
			savings:    1000,
			want: Amounts{
				Current:      Split{Invested: 1500, NotInvested: -500},
				Plus20:       Split{Invested: 1000, NotInvested: 0},
				Minus20:      Split{Invested: 1200, NotInvested: -200},
				DepositsOnly: 1000,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.investment, tt.savings))
		})
	}
}

func TestCalculateInvariants(t *testing.T) {
	for savings := 0.0; savings <= 5000; savings += 137.7 {
		for investment := 0.0; investment <= savings; investment += 91.3 {
			got := Calculate(investment, savings)

			assert.LessOrEqual(t, got.Plus20.Invested, int64(math.Round(savings)),
				"plus20 above savings for investment=%v savings=%v", investment, savings)
			assert.Equal(t, int64(math.Round(savings)), got.DepositsOnly)
			assert.GreaterOrEqual(t, got.Plus20.NotInvested, int64(0))
			assert.Equal(t, got, Calculate(investment, savings), "calculation must be repeatable")
		}
	}
}

func TestLabels(t *testing.T) {
	labels := Calculate(1000, 1500).Labels()

	require.NotEmpty(t, labels.Current)
	assert.Equal(t, "Currently (1000 invested, 500 not invested)", labels.Current)
	assert.Equal(t, "+20% (1200 invested, 300 not invested)", labels.Plus20)
	assert.Equal(t, "-20% (800 invested, 700 not invested)", labels.Minus20)
	assert.Equal(t, "Only deposits (1500 saved)", labels.DepositsOnly)
}
