package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// CSVSlabExporter writes one row per package and slab touched by its taxable income.
type CSVSlabExporter struct{}

func (c CSVSlabExporter) Name() string { return "detailed-csv" }

func (c CSVSlabExporter) Format(report *domain.CompensationReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Package", "Slab", "Lower", "Upper", "Rate", "Amount", "Tax"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	packages := append([]domain.PackageSummary(nil), report.Packages...)
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	for _, p := range packages {
		for i, s := range p.Breakdown.Slabs {
			upper := ""
			if s.Upper.Valid {
				upper = s.Upper.Decimal.StringFixed(2)
			}
			row := []string{
				csvText(p.Name),
				intToString(i + 1),
				s.Lower.StringFixed(2),
				upper,
				s.Rate.String(),
				s.Amount.StringFixed(2),
				s.Tax.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
