package output

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// OfferRow pairs a stored offer with the result computed for it at export time.
type OfferRow struct {
	Offer  domain.Offer
	Result domain.CompensationResult
}

// WriteOffersCSV writes one row per offer, in the order given. Free-text
// cells that would start a spreadsheet formula are prefixed with a quote.
func WriteOffersCSV(w io.Writer, rows []OfferRow) error {
	cw := csv.NewWriter(w)
	header := []string{"ID", "Candidate", "Role", "Department", "Status", "FiscalYear", "AnnualCostToCompany", "TotalTaxLiability", "MonthlyWithholding", "NetAnnualSalary", "UpdatedAt"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		o := r.Offer
		row := []string{
			o.ID,
			csvText(o.Candidate),
			csvText(o.Role),
			csvText(o.Department),
			string(o.Status),
			o.FiscalYear,
			r.Result.AnnualCostToCompany.StringFixed(2),
			r.Result.TotalTaxLiability.StringFixed(2),
			r.Result.MonthlyWithholding.StringFixed(2),
			r.Result.NetAnnualSalary.StringFixed(2),
			o.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
