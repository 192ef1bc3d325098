package output

import (
	"fmt"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// DefaultAssumptions lists the regime constants rendered in detailed outputs
// when a report carries none of its own.
var DefaultAssumptions = GenerateAssumptions(*calculation.NewTaxRegimeFY2025())

// GenerateAssumptions describes the constants of regime in plain sentences
func GenerateAssumptions(regime calculation.TaxRegime) []string {
	out := []string{
		fmt.Sprintf("Tax regime: %s", regime.Name),
		fmt.Sprintf("Standard deduction: %s", FormatCurrency(regime.StandardDeduction)),
		fmt.Sprintf("Employer pension deductible up to %s of basic salary", FormatRate(regime.PensionDeductionCapRate)),
		fmt.Sprintf("No tax when taxable income is at or below %s", FormatCurrency(regime.RebateThreshold)),
		fmt.Sprintf("Health & education cess: %s of tax after rebate", FormatRate(regime.CessRate)),
		fmt.Sprintf("Employee provident fund: %s of basic salary", FormatRate(regime.EmployeeProvidentFundRate)),
		fmt.Sprintf("Professional tax: %s a year", FormatCurrency(regime.ProfessionalTax)),
	}
	return out
}

// reportAssumptions prefers the assumptions carried on report
func reportAssumptions(report *domain.CompensationReport) []string {
	if len(report.Assumptions) > 0 {
		return report.Assumptions
	}
	return DefaultAssumptions
}
