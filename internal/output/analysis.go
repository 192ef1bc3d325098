package output

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/talentdesk/ctc-calculator/internal/domain"
	money "github.com/talentdesk/ctc-calculator/pkg/decimal"
)

// Recommendation names the package that leaves the most take-home pay.
type Recommendation struct {
	PackageName      string
	NetAnnualSalary  decimal.Decimal
	EffectiveTaxRate decimal.Decimal // tax as a percentage of gross
	NetDeltaToLowest decimal.Decimal
	TakeHomeShare    decimal.Decimal // net as a percentage of CTC
}

// AnalyzePackages picks the package with the highest net annual salary. Ties go
// to the package listed first.
func AnalyzePackages(report *domain.CompensationReport) Recommendation {
	if report == nil || len(report.Packages) == 0 {
		return Recommendation{}
	}
	ranked := append([]domain.PackageSummary(nil), report.Packages...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Result.NetAnnualSalary.GreaterThan(ranked[j].Result.NetAnnualSalary)
	})
	best, lowest := ranked[0], ranked[len(ranked)-1]
	return Recommendation{
		PackageName:      best.Name,
		NetAnnualSalary:  best.Result.NetAnnualSalary,
		EffectiveTaxRate: EffectiveTaxRate(best.Result),
		NetDeltaToLowest: best.Result.NetAnnualSalary.Sub(lowest.Result.NetAnnualSalary),
		TakeHomeShare:    money.Percent(best.Result.NetAnnualSalary, best.Result.AnnualCostToCompany),
	}
}

// EffectiveTaxRate is total tax as a percentage of gross salary; zero when gross is zero.
func EffectiveTaxRate(r domain.CompensationResult) decimal.Decimal {
	return money.Percent(r.TotalTaxLiability, r.GrossSalary)
}
