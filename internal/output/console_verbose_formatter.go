package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

var decimalTwelve = decimal.NewFromInt(12)

// ConsoleVerboseFormatter renders every package with its slab-by-slab tax breakdown.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.CompensationReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintln(&buf, "DETAILED COMPENSATION & TAX BREAKDOWN")
	fmt.Fprintln(&buf, "=================================================================================")
	fmt.Fprintf(&buf, "Fiscal Year: %s    Currency: %s\n", report.FiscalYear, report.Currency)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range reportAssumptions(report) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, p := range report.Packages {
		fmt.Fprintf(&buf, "PACKAGE %d: %s\n", i+1, p.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if p.Candidate != "" {
			fmt.Fprintf(&buf, "Candidate: %s\n", p.Candidate)
		}
		if p.Role != "" {
			fmt.Fprintf(&buf, "Role:      %s\n", p.Role)
		}
		writePackageDetail(&buf, p)
		fmt.Fprintln(&buf)
	}

	rec := AnalyzePackages(report)
	if rec.PackageName != "" && len(report.Packages) > 1 {
		fmt.Fprintln(&buf, "RECOMMENDATION")
		fmt.Fprintln(&buf, strings.Repeat("-", 50))
		fmt.Fprintf(&buf, "Highest take-home: %s at %s a year\n", rec.PackageName, FormatCurrency(rec.NetAnnualSalary))
		fmt.Fprintf(&buf, "Ahead of the lowest package by %s\n", FormatCurrency(rec.NetDeltaToLowest))
		fmt.Fprintf(&buf, "Effective tax rate %s, take-home %s of CTC\n",
			FormatPercentage(rec.EffectiveTaxRate), FormatPercentage(rec.TakeHomeShare))
	}
	return buf.Bytes(), nil
}

func writePackageDetail(buf *bytes.Buffer, p domain.PackageSummary) {
	r, b := p.Result, p.Breakdown

	fmt.Fprintln(buf, "COMPONENTS:")
	for _, a := range p.Input.Amounts() {
		if a.Amount.IsZero() {
			continue
		}
		fmt.Fprintf(buf, "  %-32s %15s\n", componentLabel(a.Field)+":", FormatCurrency(a.Amount))
	}
	fmt.Fprintf(buf, "  %-32s %15s\n", "Annual cost to company:", FormatCurrency(r.AnnualCostToCompany))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Gross salary:", FormatCurrency(r.GrossSalary))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "TAXABLE INCOME:")
	fmt.Fprintf(buf, "  %-32s %15s\n", "Standard deduction:", FormatCurrency(b.StandardDeduction.Neg()))
	if !b.PensionDeduction.IsZero() {
		fmt.Fprintf(buf, "  %-32s %15s\n", "Employer pension deduction:", FormatCurrency(b.PensionDeduction.Neg()))
	}
	fmt.Fprintf(buf, "  %-32s %15s\n", "Taxable income:", FormatCurrency(r.TaxableIncome))
	fmt.Fprintln(buf)

	if len(b.Slabs) > 0 {
		fmt.Fprintln(buf, "SLAB TAX:")
		fmt.Fprintf(buf, "  %-26s %6s %15s %12s\n", "Slab", "Rate", "Amount", "Tax")
		for _, s := range b.Slabs {
			fmt.Fprintf(buf, "  %-26s %6s %15s %12s\n", slabLabel(s), FormatRate(s.Rate), FormatCurrency(s.Amount), FormatCurrency(s.Tax))
		}
		fmt.Fprintf(buf, "  %-32s %15s\n", "Tax on slabs:", FormatCurrency(b.SlabTax))
	}
	if b.RebateApplied {
		fmt.Fprintf(buf, "  %-32s %15s\n", "Rebate (income at or below 12L):", FormatCurrency(b.SlabTax.Neg()))
	}
	fmt.Fprintf(buf, "  %-32s %15s\n", "Cess:", FormatCurrency(b.Cess))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Total tax liability:", FormatCurrency(r.TotalTaxLiability))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Monthly withholding:", FormatCurrency(r.MonthlyWithholding))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "TAKE-HOME:")
	fmt.Fprintf(buf, "  %-32s %15s\n", "Employee provident fund:", FormatCurrency(b.EmployeeContribution.Neg()))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Professional tax:", FormatCurrency(b.ProfessionalTax.Neg()))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Net annual salary:", FormatCurrency(r.NetAnnualSalary))
	fmt.Fprintf(buf, "  %-32s %15s\n", "Net monthly salary:", FormatCurrency(r.NetAnnualSalary.Div(decimalTwelve)))
}

var componentLabels = map[string]string{
	domain.FieldBasicSalary:                 "Basic salary",
	domain.FieldHRA:                         "House rent allowance",
	domain.FieldOtherAllowances:             "Other allowances",
	domain.FieldPerformanceBonus:            "Performance bonus",
	domain.FieldEmployerProvidentFund:       "Employer provident fund",
	domain.FieldGratuity:                    "Gratuity",
	domain.FieldEmployerMedicalInsurance:    "Employer medical insurance",
	domain.FieldEmployerPensionContribution: "Employer pension contribution",
}

func componentLabel(field string) string {
	if l, ok := componentLabels[field]; ok {
		return l
	}
	return field
}

func slabLabel(s domain.SlabTax) string {
	if !s.Upper.Valid {
		return "above " + FormatAmount(s.Lower)
	}
	return FormatAmount(s.Lower) + " - " + FormatAmount(s.Upper.Decimal)
}
