package calculation

import (
	"github.com/shopspring/decimal"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// TAX REGIME ASSUMPTIONS:
//
// 1. A single fiscal regime (new regime, FY 2025-26) is applied to every package
//    - Standard deduction: 75,000
//    - Employer pension contribution deductible up to 10% of basic salary
//
// 2. Slab table is cumulative; the last slab is open-ended at 30%
//
// 3. Rebate: no tax at all when taxable income is at or below 12,00,000.
//    The cliff just above the threshold is intentional and is not smoothed.
//
// 4. Health & education cess: 4% on tax after rebate
//
// 5. Take-home deductions: employee provident fund at 12% of basic and a flat
//    professional tax of 2,400 a year regardless of state

// TaxBracket is one slab of the progressive table. Upper is the cumulative
// ceiling of the slab; an invalid Upper marks the open-ended top slab.
type TaxBracket struct {
	Upper decimal.NullDecimal
	Rate  decimal.Decimal
}

// TaxRegime holds the constants of one fiscal regime
type TaxRegime struct {
	Name                      string
	StandardDeduction         decimal.Decimal
	PensionDeductionCapRate   decimal.Decimal
	RebateThreshold           decimal.Decimal
	CessRate                  decimal.Decimal
	EmployeeProvidentFundRate decimal.Decimal
	ProfessionalTax           decimal.Decimal
	Brackets                  []TaxBracket
}

func upTo(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// NewTaxRegimeFY2025 creates the FY 2025-26 new-regime constants
func NewTaxRegimeFY2025() *TaxRegime {
	return &TaxRegime{
		Name:                      "New regime FY 2025-26",
		StandardDeduction:         decimal.NewFromInt(75000),
		PensionDeductionCapRate:   decimal.NewFromFloat(0.10),
		RebateThreshold:           decimal.NewFromInt(1200000),
		CessRate:                  decimal.NewFromFloat(0.04),
		EmployeeProvidentFundRate: decimal.NewFromFloat(0.12),
		ProfessionalTax:           decimal.NewFromInt(2400),
		Brackets: []TaxBracket{
			{upTo(400000), decimal.Zero},
			{upTo(800000), decimal.NewFromFloat(0.05)},
			{upTo(1200000), decimal.NewFromFloat(0.10)},
			{upTo(1600000), decimal.NewFromFloat(0.15)},
			{upTo(2000000), decimal.NewFromFloat(0.20)},
			{upTo(2400000), decimal.NewFromFloat(0.25)},
			{decimal.NullDecimal{}, decimal.NewFromFloat(0.30)},
		},
	}
}

// CalculateSlabTax walks the brackets in ascending order, taxing
// min(remaining, width) at each slab's rate until the income is exhausted.
func (r *TaxRegime) CalculateSlabTax(taxableIncome decimal.Decimal) (decimal.Decimal, []domain.SlabTax) {
	tax := decimal.Zero
	var slabs []domain.SlabTax
	remaining := taxableIncome
	lower := decimal.Zero

	for _, bracket := range r.Brackets {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}

		incomeInBracket := remaining
		if bracket.Upper.Valid {
			width := bracket.Upper.Decimal.Sub(lower)
			if width.LessThanOrEqual(decimal.Zero) {
				continue
			}
			incomeInBracket = decimal.Min(remaining, width)
		}

		slabTax := incomeInBracket.Mul(bracket.Rate)
		tax = tax.Add(slabTax)
		remaining = remaining.Sub(incomeInBracket)
		slabs = append(slabs, domain.SlabTax{
			Lower:  lower,
			Upper:  bracket.Upper,
			Rate:   bracket.Rate,
			Amount: incomeInBracket,
			Tax:    slabTax,
		})

		if bracket.Upper.Valid {
			lower = bracket.Upper.Decimal
		}
	}

	return tax, slabs
}

// ApplyRebate zeroes the tax when taxable income is at or below the rebate threshold
func (r *TaxRegime) ApplyRebate(tax, taxableIncome decimal.Decimal) (decimal.Decimal, bool) {
	if taxableIncome.LessThanOrEqual(r.RebateThreshold) {
		return decimal.Zero, true
	}
	return tax, false
}

// ApplyCess returns the tax inflated by the cess rate along with the cess itself
func (r *TaxRegime) ApplyCess(tax decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	cess := tax.Mul(r.CessRate)
	return tax.Add(cess), cess
}

// PensionDeduction caps the employer pension contribution at a share of basic salary
func (r *TaxRegime) PensionDeduction(employerPension, basicSalary decimal.Decimal) decimal.Decimal {
	return decimal.Min(employerPension, basicSalary.Mul(r.PensionDeductionCapRate))
}
