package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSlabTaxCalculation tests the progressive slab walk on taxable income
func TestSlabTaxCalculation(t *testing.T) {
	regime := NewTaxRegimeFY2025()

	tests := []struct {
		name          string
		taxableIncome decimal.Decimal
		expectedTax   decimal.Decimal
		expectedSlabs int
		description   string
	}{
		{
			name:          "Zero income",
			taxableIncome: decimal.Zero,
			expectedTax:   decimal.Zero,
			expectedSlabs: 0,
			description:   "No slabs touched",
		},
		{
			name:          "Inside nil slab",
			taxableIncome: decimal.NewFromInt(350000),
			expectedTax:   decimal.Zero,
			expectedSlabs: 1,
			description:   "First 4L taxed at 0%",
		},
		{
			name:          "Exactly first ceiling",
			taxableIncome: decimal.NewFromInt(400000),
			expectedTax:   decimal.Zero,
			expectedSlabs: 1,
			description:   "Exhausted at the first boundary",
		},
		{
			name:          "Into third slab",
			taxableIncome: decimal.NewFromInt(925000),
			expectedTax:   decimal.NewFromInt(32500), // 400000*0.05 + 125000*0.10
			expectedSlabs: 3,
			description:   "Bracket boundary exactness",
		},
		{
			name:          "Into fourth slab",
			taxableIncome: decimal.NewFromInt(1500000),
			expectedTax:   decimal.NewFromInt(105000), // 20000 + 40000 + 45000
			expectedSlabs: 4,
			description:   "Pre-cess tax used by the cess example",
		},
		{
			name:          "Top of bounded slabs",
			taxableIncome: decimal.NewFromInt(2400000),
			expectedTax:   decimal.NewFromInt(300000), // 20000+40000+60000+80000+100000
			expectedSlabs: 6,
			description:   "All bounded slabs filled",
		},
		{
			name:          "Open-ended slab",
			taxableIncome: decimal.NewFromInt(5000000),
			expectedTax:   decimal.NewFromInt(1080000), // 300000 + 2600000*0.30
			expectedSlabs: 7,
			description:   "Income above 24L taxed at 30%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, slabs := regime.CalculateSlabTax(tt.taxableIncome)
			assert.True(t, tax.Equal(tt.expectedTax), "%s: expected %s, got %s",
				tt.description, tt.expectedTax.StringFixed(2), tax.StringFixed(2))
			assert.Len(t, slabs, tt.expectedSlabs)

			covered := decimal.Zero
			for _, s := range slabs {
				covered = covered.Add(s.Amount)
			}
			assert.True(t, covered.Equal(tt.taxableIncome), "slab amounts should sum to taxable income")
		})
	}
}

func TestSlabBoundaries(t *testing.T) {
	regime := NewTaxRegimeFY2025()
	_, slabs := regime.CalculateSlabTax(decimal.NewFromInt(3000000))
	require.Len(t, slabs, 7)

	assert.True(t, slabs[0].Lower.IsZero())
	assert.True(t, slabs[1].Lower.Equal(decimal.NewFromInt(400000)))
	assert.True(t, slabs[1].Upper.Valid)
	assert.True(t, slabs[1].Upper.Decimal.Equal(decimal.NewFromInt(800000)))
	assert.True(t, slabs[6].Lower.Equal(decimal.NewFromInt(2400000)))
	assert.False(t, slabs[6].Upper.Valid, "top slab is open-ended")
	assert.True(t, slabs[6].Amount.Equal(decimal.NewFromInt(600000)))
}

func TestApplyRebate(t *testing.T) {
	regime := NewTaxRegimeFY2025()
	tax := decimal.NewFromInt(60000)

	got, applied := regime.ApplyRebate(tax, decimal.NewFromInt(1200000))
	assert.True(t, applied)
	assert.True(t, got.IsZero())

	got, applied = regime.ApplyRebate(tax, decimal.NewFromInt(1200001))
	assert.False(t, applied)
	assert.True(t, got.Equal(tax))
}

func TestApplyCess(t *testing.T) {
	regime := NewTaxRegimeFY2025()
	total, cess := regime.ApplyCess(decimal.NewFromInt(105000))
	assert.True(t, total.Equal(decimal.NewFromInt(109200)), "got %s", total)
	assert.True(t, cess.Equal(decimal.NewFromInt(4200)), "got %s", cess)
}

func TestPensionDeductionCap(t *testing.T) {
	regime := NewTaxRegimeFY2025()

	capped := regime.PensionDeduction(decimal.NewFromInt(1000000), decimal.NewFromInt(2000000))
	assert.True(t, capped.Equal(decimal.NewFromInt(200000)), "got %s", capped)

	under := regime.PensionDeduction(decimal.NewFromInt(50000), decimal.NewFromInt(2000000))
	assert.True(t, under.Equal(decimal.NewFromInt(50000)), "got %s", under)
}
