package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/pkg/dateutil"
	money "github.com/talentdesk/ctc-calculator/pkg/decimal"
)

// DefaultCurrency is used when a packages file does not name one
const DefaultCurrency = "INR"

// CompensationEngine computes take-home pay and tax for compensation packages.
// It holds no per-call state and is safe for concurrent use.
type CompensationEngine struct {
	regime *TaxRegime
	Logger Logger
}

// NewCompensationEngine creates an engine for the FY 2025-26 regime
func NewCompensationEngine() *CompensationEngine {
	return &CompensationEngine{
		regime: NewTaxRegimeFY2025(),
		Logger: NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (ce *CompensationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Regime returns a copy of the regime constants in use
func (ce *CompensationEngine) Regime() TaxRegime {
	r := *ce.regime
	r.Brackets = append([]TaxBracket(nil), ce.regime.Brackets...)
	return r
}

// ValidateInput rejects negative amounts and amounts outside the range
// money.InRange accepts. It checks every field the same way.
func ValidateInput(in domain.CompensationInput) error {
	for _, a := range in.Amounts() {
		if !money.InRange(a.Amount) {
			return NewInputError(a.Field, "amount is out of range")
		}
		if a.Amount.IsNegative() {
			return NewInputError(a.Field, fmt.Sprintf("must not be negative, got %s", a.Amount.String()))
		}
	}
	return nil
}

// Calculate derives all result fields from in. Either every field is produced
// or an ErrInvalidInput error is returned.
func (ce *CompensationEngine) Calculate(in domain.CompensationInput) (domain.CompensationResult, error) {
	res, _, err := ce.CalculateWithBreakdown(in)
	return res, err
}

// CalculateWithBreakdown is Calculate plus the intermediate values behind the result.
func (ce *CompensationEngine) CalculateWithBreakdown(in domain.CompensationInput) (domain.CompensationResult, domain.TaxBreakdown, error) {
	if err := ValidateInput(in); err != nil {
		ce.Logger.Debugf("rejected compensation input: %v", err)
		return domain.CompensationResult{}, domain.TaxBreakdown{}, err
	}
	r := ce.regime

	ctc := money.Sum(
		in.BasicSalary, in.HRA, in.OtherAllowances, in.PerformanceBonus,
		in.EmployerProvidentFund, in.Gratuity, in.EmployerMedicalInsurance, in.EmployerPensionContribution,
	)
	gross := money.Sum(in.BasicSalary, in.HRA, in.OtherAllowances, in.PerformanceBonus)

	taxable := money.ClampZero(gross.Sub(r.StandardDeduction))
	pensionDeduction := r.PensionDeduction(in.EmployerPensionContribution, in.BasicSalary)
	taxable = money.ClampZero(taxable.Sub(pensionDeduction))

	slabTax, slabs := r.CalculateSlabTax(taxable)
	afterRebate, rebateApplied := r.ApplyRebate(slabTax, taxable)
	totalTax, cess := r.ApplyCess(afterRebate)

	employeeContribution := in.BasicSalary.Mul(r.EmployeeProvidentFundRate)
	net := gross.Sub(employeeContribution).Sub(r.ProfessionalTax).Sub(totalTax)

	result := domain.CompensationResult{
		AnnualCostToCompany: ctc,
		GrossSalary:         gross,
		TaxableIncome:       taxable,
		TotalTaxLiability:   totalTax,
		MonthlyWithholding:  money.Monthly(totalTax),
		NetAnnualSalary:     net,
	}
	breakdown := domain.TaxBreakdown{
		StandardDeduction:    decimal.Min(gross, r.StandardDeduction),
		PensionDeduction:     pensionDeduction,
		Slabs:                slabs,
		SlabTax:              slabTax,
		RebateApplied:        rebateApplied,
		TaxAfterRebate:       afterRebate,
		Cess:                 cess,
		EmployeeContribution: employeeContribution,
		ProfessionalTax:      r.ProfessionalTax,
	}

	ce.Logger.Debugf("gross=%s taxable=%s tax=%s rebate=%t", gross, taxable, totalTax, rebateApplied)
	return result, breakdown, nil
}

// RunPackages computes every package in cfg. A single invalid package fails the whole run.
func (ce *CompensationEngine) RunPackages(cfg *domain.Configuration) (*domain.CompensationReport, error) {
	now := nowFunc()
	report := &domain.CompensationReport{
		Currency:    cfg.Currency,
		FiscalYear:  cfg.FiscalYear,
		GeneratedAt: now,
		Packages:    make([]domain.PackageSummary, 0, len(cfg.Packages)),
	}
	if report.Currency == "" {
		report.Currency = DefaultCurrency
	}
	if report.FiscalYear == "" {
		report.FiscalYear = dateutil.FiscalYearLabel(now)
	}

	for _, pkg := range cfg.Packages {
		res, breakdown, err := ce.CalculateWithBreakdown(pkg.Compensation)
		if err != nil {
			return nil, fmt.Errorf("package %q: %w", pkg.Name, err)
		}
		report.Packages = append(report.Packages, domain.PackageSummary{
			Name:      pkg.Name,
			Candidate: pkg.Candidate,
			Role:      pkg.Role,
			Input:     pkg.Compensation,
			Result:    res,
			Breakdown: breakdown,
		})
	}

	ce.Logger.Infof("computed %d compensation packages for %s", len(report.Packages), report.FiscalYear)
	return report, nil
}

var defaultEngine = NewCompensationEngine()

// Calculate runs the default engine over in.
func Calculate(in domain.CompensationInput) (domain.CompensationResult, error) {
	return defaultEngine.Calculate(in)
}
