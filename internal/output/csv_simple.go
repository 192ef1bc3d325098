package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per package).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.CompensationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Package", "Candidate", "AnnualCostToCompany", "GrossSalary", "TaxableIncome", "TotalTaxLiability", "MonthlyWithholding", "NetAnnualSalary", "RebateApplied", "EffectiveTaxRate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	packages := append([]domain.PackageSummary(nil), report.Packages...)
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	for _, p := range packages {
		r := p.Result
		row := []string{
			csvText(p.Name),
			csvText(p.Candidate),
			r.AnnualCostToCompany.StringFixed(2),
			r.GrossSalary.StringFixed(2),
			r.TaxableIncome.StringFixed(2),
			r.TotalTaxLiability.StringFixed(2),
			r.MonthlyWithholding.StringFixed(2),
			r.NetAnnualSalary.StringFixed(2),
			boolToString(p.Breakdown.RebateApplied),
			EffectiveTaxRate(r).StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
