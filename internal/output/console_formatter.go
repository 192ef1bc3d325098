package output

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.CompensationReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "COMPENSATION PACKAGE SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Fiscal Year: %s (%s)\n", report.FiscalYear, report.Currency)
	fmt.Fprintln(&buf)
	packages := append([]domain.PackageSummary(nil), report.Packages...)
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	for _, p := range packages {
		fmt.Fprintf(&buf, "%s: CTC=%s Gross=%s Tax=%s Net=%s\n",
			p.Name,
			FormatCurrency(p.Result.AnnualCostToCompany),
			FormatCurrency(p.Result.GrossSalary),
			FormatCurrency(p.Result.TotalTaxLiability),
			FormatCurrency(p.Result.NetAnnualSalary),
		)
		fmt.Fprintf(&buf, "  Monthly=%s Withholding=%s\n",
			FormatCurrency(p.Result.NetAnnualSalary.Div(decimalTwelve)),
			FormatCurrency(p.Result.MonthlyWithholding))
	}
	rec := AnalyzePackages(report)
	if rec.PackageName != "" && len(report.Packages) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Highest take-home: %s (Δ %s / effective tax %s)\n",
			rec.PackageName, FormatCurrency(rec.NetDeltaToLowest), FormatPercentage(rec.EffectiveTaxRate))
	}
	return buf.Bytes(), nil
}
