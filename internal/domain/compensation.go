package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Compensation field names, shared by the YAML, JSON and CSV surfaces.
const (
	FieldBasicSalary                 = "basic_salary"
	FieldHRA                         = "hra"
	FieldOtherAllowances             = "other_allowances"
	FieldPerformanceBonus            = "performance_bonus"
	FieldEmployerProvidentFund       = "employer_provident_fund"
	FieldGratuity                    = "gratuity"
	FieldEmployerMedicalInsurance    = "employer_medical_insurance"
	FieldEmployerPensionContribution = "employer_pension_contribution"
)

// CompensationFields lists every input field in display order.
var CompensationFields = []string{
	FieldBasicSalary,
	FieldHRA,
	FieldOtherAllowances,
	FieldPerformanceBonus,
	FieldEmployerProvidentFund,
	FieldGratuity,
	FieldEmployerMedicalInsurance,
	FieldEmployerPensionContribution,
}

// CompensationInput holds the annual salary components of an offer.
// The first four are paid to the employee; the employer_* fields and gratuity
// are cost-to-company only and never enter taxable gross.
type CompensationInput struct {
	BasicSalary                 decimal.Decimal `yaml:"basic_salary" json:"basic_salary"`
	HRA                         decimal.Decimal `yaml:"hra" json:"hra"`
	OtherAllowances             decimal.Decimal `yaml:"other_allowances" json:"other_allowances"`
	PerformanceBonus            decimal.Decimal `yaml:"performance_bonus" json:"performance_bonus"`
	EmployerProvidentFund       decimal.Decimal `yaml:"employer_provident_fund" json:"employer_provident_fund"`
	Gratuity                    decimal.Decimal `yaml:"gratuity" json:"gratuity"`
	EmployerMedicalInsurance    decimal.Decimal `yaml:"employer_medical_insurance" json:"employer_medical_insurance"`
	EmployerPensionContribution decimal.Decimal `yaml:"employer_pension_contribution" json:"employer_pension_contribution"`
}

// NamedAmount pairs a compensation field name with its value
type NamedAmount struct {
	Field  string
	Amount decimal.Decimal
}

// Amounts returns the input fields in CompensationFields order
func (c CompensationInput) Amounts() []NamedAmount {
	return []NamedAmount{
		{FieldBasicSalary, c.BasicSalary},
		{FieldHRA, c.HRA},
		{FieldOtherAllowances, c.OtherAllowances},
		{FieldPerformanceBonus, c.PerformanceBonus},
		{FieldEmployerProvidentFund, c.EmployerProvidentFund},
		{FieldGratuity, c.Gratuity},
		{FieldEmployerMedicalInsurance, c.EmployerMedicalInsurance},
		{FieldEmployerPensionContribution, c.EmployerPensionContribution},
	}
}

// SetAmount assigns a field by name. It reports false for unknown names.
func (c *CompensationInput) SetAmount(field string, v decimal.Decimal) bool {
	switch field {
	case FieldBasicSalary:
		c.BasicSalary = v
	case FieldHRA:
		c.HRA = v
	case FieldOtherAllowances:
		c.OtherAllowances = v
	case FieldPerformanceBonus:
		c.PerformanceBonus = v
	case FieldEmployerProvidentFund:
		c.EmployerProvidentFund = v
	case FieldGratuity:
		c.Gratuity = v
	case FieldEmployerMedicalInsurance:
		c.EmployerMedicalInsurance = v
	case FieldEmployerPensionContribution:
		c.EmployerPensionContribution = v
	default:
		return false
	}
	return true
}

// IsCompensationField reports whether name is one of CompensationFields
func IsCompensationField(name string) bool {
	for _, f := range CompensationFields {
		if f == name {
			return true
		}
	}
	return false
}

// CompensationResult is recomputed from a CompensationInput on every change; it
// has no identity of its own and is never persisted.
type CompensationResult struct {
	AnnualCostToCompany decimal.Decimal `json:"annual_cost_to_company"`
	GrossSalary         decimal.Decimal `json:"gross_salary"`
	TaxableIncome       decimal.Decimal `json:"taxable_income"`
	TotalTaxLiability   decimal.Decimal `json:"total_tax_liability"`
	MonthlyWithholding  decimal.Decimal `json:"monthly_withholding"`
	NetAnnualSalary     decimal.Decimal `json:"net_annual_salary"`
}

// SlabTax is the tax levied inside one bracket of the slab table
type SlabTax struct {
	Lower  decimal.Decimal     `json:"lower"`
	Upper  decimal.NullDecimal `json:"upper"` // null for the open-ended top slab
	Rate   decimal.Decimal     `json:"rate"`
	Amount decimal.Decimal     `json:"amount"`
	Tax    decimal.Decimal     `json:"tax"`
}

// TaxBreakdown exposes the intermediate values of a calculation for display.
type TaxBreakdown struct {
	StandardDeduction    decimal.Decimal `json:"standard_deduction"`
	PensionDeduction     decimal.Decimal `json:"pension_deduction"`
	Slabs                []SlabTax       `json:"slabs"`
	SlabTax              decimal.Decimal `json:"slab_tax"`
	RebateApplied        bool            `json:"rebate_applied"`
	TaxAfterRebate       decimal.Decimal `json:"tax_after_rebate"`
	Cess                 decimal.Decimal `json:"cess"`
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	ProfessionalTax      decimal.Decimal `json:"professional_tax"`
}

// CompensationPackage is a named input, as found in a packages file
type CompensationPackage struct {
	Name         string            `yaml:"name" json:"name"`
	Candidate    string            `yaml:"candidate,omitempty" json:"candidate,omitempty"`
	Role         string            `yaml:"role,omitempty" json:"role,omitempty"`
	Compensation CompensationInput `yaml:",inline" json:"compensation"`
}

// Configuration is the top level of a packages file
type Configuration struct {
	Currency   string                `yaml:"currency" json:"currency"`
	FiscalYear string                `yaml:"fiscal_year" json:"fiscal_year"`
	Packages   []CompensationPackage `yaml:"packages" json:"packages"`
}

// PackageSummary is the computed view of one package
type PackageSummary struct {
	Name      string             `json:"name"`
	Candidate string             `json:"candidate,omitempty"`
	Role      string             `json:"role,omitempty"`
	Input     CompensationInput  `json:"input"`
	Result    CompensationResult `json:"result"`
	Breakdown TaxBreakdown       `json:"breakdown"`
}

// CompensationReport is what the output formatters render
type CompensationReport struct {
	Currency    string           `json:"currency"`
	FiscalYear  string           `json:"fiscal_year"`
	GeneratedAt time.Time        `json:"generated_at"`
	Assumptions []string         `json:"assumptions,omitempty"`
	Packages    []PackageSummary `json:"packages"`
}
