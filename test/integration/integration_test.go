package integration

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

const packagesFile = "../testdata/packages.yaml"

func loadReport(t *testing.T) *domain.CompensationReport {
	t.Helper()
	cfg, err := config.NewInputParser().LoadFromFile(packagesFile)
	require.NoError(t, err)
	report, err := calculation.NewCompensationEngine().RunPackages(cfg)
	require.NoError(t, err)
	return report
}

func requireEqual(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: want %s, got %s", label, want, got)
}

func TestEndToEndCalculation(t *testing.T) {
	report := loadReport(t)
	require.Len(t, report.Packages, 3)
	assert.Equal(t, "FY 2025-26", report.FiscalYear)
	assert.Equal(t, "INR", report.Currency)

	tests := []struct {
		name    string
		ctc     string
		gross   string
		taxable string
		tax     string
		net     string
		rebate  bool
	}{
		// taxable 2010000 - 75000 - 120000; tax (20000+40000+60000+43000) * 1.04
		{"Senior Engineer", "2356720", "2010000", "1815000", "169520", "1694080", false},
		{"Associate", "730602", "648000", "573000", "0", "595200", true},
		// (300000 + 525000*0.30) * 1.04
		{"Staff Engineer", "3000000", "3000000", "2925000", "475800", "2161800", false},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := report.Packages[i]
			require.Equal(t, tt.name, p.Name)
			requireEqual(t, tt.ctc, p.Result.AnnualCostToCompany, "ctc")
			requireEqual(t, tt.gross, p.Result.GrossSalary, "gross")
			requireEqual(t, tt.taxable, p.Result.TaxableIncome, "taxable")
			requireEqual(t, tt.tax, p.Result.TotalTaxLiability, "tax")
			requireEqual(t, tt.net, p.Result.NetAnnualSalary, "net")
			assert.Equal(t, tt.rebate, p.Breakdown.RebateApplied)

			twelfth := p.Result.TotalTaxLiability.Div(decimal.NewFromInt(12))
			assert.True(t, p.Result.MonthlyWithholding.Sub(twelfth).Abs().LessThan(decimal.RequireFromString("0.01")))
		})
	}
}

func TestConfigurationValidation(t *testing.T) {
	parser := config.NewInputParser()

	tests := []struct {
		name    string
		doc     string
		invalid bool
		message string
	}{
		{"no packages", "packages: []\n", false, "no packages provided"},
		{"negative amount", "packages:\n  - name: a\n    hra: -5\n", true, "hra"},
		{"null amount", "packages:\n  - name: a\n    gratuity: null\n", true, "gratuity"},
		{"text amount", "packages:\n  - name: a\n    basic_salary: ten\n", true, "basic_salary"},
		{"foreign currency", "currency: USD\npackages:\n  - name: a\n", false, "unsupported currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, tt.invalid, errors.Is(err, calculation.ErrInvalidInput))
		})
	}
}
