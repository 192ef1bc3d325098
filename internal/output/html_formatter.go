package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// HTMLFormatter renders a self-contained HTML page with the summary table, each
// package's slab walk and the report itself as embedded JSON.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":    FormatCurrency,
	"pct":     FormatPercentage,
	"rate":    FormatRate,
	"slab":    slabLabel,
	"effrate": EffectiveTaxRate,
	"json": func(v any) template.JS {
		b, _ := json.Marshal(v)
		return template.JS(b)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *domain.CompensationReport) ([]byte, error) {
	var buf bytes.Buffer

	data := struct {
		*domain.CompensationReport
		Recommendation Recommendation
		Assumptions    []string
	}{report, AnalyzePackages(report), reportAssumptions(report)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
