package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// LetterDetails is everything printed on one offer letter page.
type LetterDetails struct {
	Candidate  string
	Role       string
	Department string
	FiscalYear string
	Currency   string
	IssuedAt   time.Time
	Input      domain.CompensationInput
	Result     domain.CompensationResult
	Breakdown  domain.TaxBreakdown
}

// PDFFormatter renders one offer letter page per package.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.CompensationReport) ([]byte, error) {
	letters := make([]LetterDetails, 0, len(report.Packages))
	for _, pkg := range report.Packages {
		candidate := pkg.Candidate
		if candidate == "" {
			candidate = pkg.Name
		}
		role := pkg.Role
		if role == "" {
			role = pkg.Name
		}
		letters = append(letters, LetterDetails{
			Candidate:  candidate,
			Role:       role,
			FiscalYear: report.FiscalYear,
			Currency:   report.Currency,
			IssuedAt:   report.GeneratedAt,
			Input:      pkg.Input,
			Result:     pkg.Result,
			Breakdown:  pkg.Breakdown,
		})
	}
	return RenderOfferLetters(letters...)
}

// RenderOfferLetters lays out each letter on its own A4 page. The core PDF
// fonts have no rupee glyph, so amounts carry the currency code instead.
func RenderOfferLetters(letters ...LetterDetails) ([]byte, error) {
	if len(letters) == 0 {
		return nil, fmt.Errorf("no offer letters to render")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Offer of employment", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range letters {
		currency := l.Currency
		if currency == "" {
			currency = "INR"
		}
		money := func(label string, value string) {
			pdf.SetFont("Helvetica", "", 11)
			pdf.CellFormat(110, 7, tr(label), "", 0, "L", false, 0, "")
			pdf.CellFormat(60, 7, value, "", 1, "R", false, 0, "")
		}

		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(40, 10, "Offer of Employment")
		pdf.Ln(12)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, fmt.Sprintf("Date: %s", l.IssuedAt.Format("02 January 2006")))
		pdf.Ln(7)
		pdf.Cell(0, 7, tr(fmt.Sprintf("Dear %s,", l.Candidate)))
		pdf.Ln(10)
		position := l.Role
		if l.Department != "" {
			position = fmt.Sprintf("%s, %s", l.Role, l.Department)
		}
		pdf.MultiCell(0, 6, tr(fmt.Sprintf(
			"We are pleased to offer you the position of %s. Your annual compensation for %s is set out below.",
			position, l.FiscalYear)), "", "L", false)
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Compensation")
		pdf.Ln(8)
		for _, a := range l.Input.Amounts() {
			if a.Amount.IsZero() {
				continue
			}
			money(componentLabel(a.Field), currency+" "+FormatAmount(a.Amount))
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(110, 8, "Annual cost to company", "T", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, currency+" "+FormatAmount(l.Result.AnnualCostToCompany), "T", 1, "R", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Estimated take-home")
		pdf.Ln(8)
		money("Gross salary", currency+" "+FormatAmount(l.Result.GrossSalary))
		money("Taxable income", currency+" "+FormatAmount(l.Result.TaxableIncome))
		money("Income tax including cess", currency+" "+FormatAmount(l.Result.TotalTaxLiability))
		money("Monthly tax withholding", currency+" "+FormatAmount(l.Result.MonthlyWithholding))
		money("Employee provident fund", currency+" "+FormatAmount(l.Breakdown.EmployeeContribution))
		money("Professional tax", currency+" "+FormatAmount(l.Breakdown.ProfessionalTax))
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(110, 8, "Net annual salary", "T", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, currency+" "+FormatAmount(l.Result.NetAnnualSalary), "T", 1, "R", false, 0, "")
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "I", 9)
		note := "Tax figures are estimates under the new regime and may differ from actual withholding."
		if l.Breakdown.RebateApplied {
			note += " No income tax is payable at this income level."
		}
		pdf.MultiCell(0, 5, note, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render offer letter: %w", err)
	}
	return buf.Bytes(), nil
}
