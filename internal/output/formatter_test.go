package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

func buildTestReport(t *testing.T) *domain.CompensationReport {
	t.Helper()
	cfg := &domain.Configuration{
		FiscalYear: "FY 2025-26",
		Packages: []domain.CompensationPackage{
			{Name: "Engineer", Candidate: "Asha Rao", Role: "Software Engineer",
				Compensation: domain.CompensationInput{BasicSalary: decimal.NewFromInt(1575000)}},
			{Name: "Analyst",
				Compensation: domain.CompensationInput{BasicSalary: decimal.NewFromInt(900000)}},
		},
	}
	report, err := calculation.NewCompensationEngine().RunPackages(cfg)
	if err != nil {
		t.Fatalf("RunPackages: %v", err)
	}
	report.GeneratedAt = time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return report
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"Analyst: CTC=₹9,00,000 Gross=₹9,00,000 Tax=₹0 Net=₹7,89,600",
		"Engineer: CTC=₹15,75,000 Gross=₹15,75,000 Tax=₹1,09,200 Net=₹12,74,400",
		"Withholding=₹9,100",
		"Highest take-home: Engineer (Δ ₹4,84,800 / effective tax 6.93%)",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, content)
		}
	}
	if strings.Index(content, "Analyst:") > strings.Index(content, "Engineer:") {
		t.Fatalf("packages not sorted by name:\n%s", content)
	}
}

func TestConsoleVerboseFormatterShowsBreakdown(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"DETAILED COMPENSATION & TAX BREAKDOWN",
		"PACKAGE 1: Engineer",
		"Candidate: Asha Rao",
		"Rebate (income at or below 12L):",
		"Net annual salary:",
		"₹12,74,400",
		"Highest take-home: Engineer",
		"Health & education cess: 4% of tax after rebate",
		"12,00,000 - 16,00,000",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output:\n%s", want, content)
		}
	}
	if strings.Contains(content, "above 24,00,000") {
		t.Fatalf("open-ended slab should not appear below 24L taxable income")
	}
}

func TestCSVSummarizerDeterministicOrder(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header+2 rows), got %d", len(lines))
	}
	if lines[1] != "Analyst,,900000.00,900000.00,825000.00,0.00,0.00,789600.00,true,0.00" {
		t.Fatalf("unexpected analyst row: %s", lines[1])
	}
	if lines[2] != "Engineer,Asha Rao,1575000.00,1575000.00,1500000.00,109200.00,9100.00,1274400.00,false,6.93" {
		t.Fatalf("unexpected engineer row: %s", lines[2])
	}
}

func TestCSVSlabExporter(t *testing.T) {
	out, err := CSVSlabExporter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	// 3 slabs for 8.25L taxable, 4 for 15L
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if lines[1] != "Analyst,1,0.00,400000.00,0,400000.00,0.00" {
		t.Fatalf("unexpected first slab row: %s", lines[1])
	}
	if lines[3] != "Analyst,3,800000.00,1200000.00,0.1,25000.00,2500.00" {
		t.Fatalf("unexpected third slab row: %s", lines[3])
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		FiscalYear string `json:"fiscal_year"`
		Packages   []struct {
			Name   string                    `json:"name"`
			Result domain.CompensationResult `json:"result"`
		} `json:"packages"`
	}
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.FiscalYear != "FY 2025-26" || len(decoded.Packages) != 2 {
		t.Fatalf("unexpected decoded report: %+v", decoded)
	}
	if !decoded.Packages[0].Result.TotalTaxLiability.Equal(decimal.NewFromInt(109200)) {
		t.Fatalf("tax lost precision in JSON: %s", decoded.Packages[0].Result.TotalTaxLiability)
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console_verbose", "console_verbose.golden", ConsoleVerboseFormatter{}},
		{"console_lite", "console_lite.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_slabs", "csv_slabs.golden", CSVSlabExporter{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
	}
	report := buildTestReport(t)
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(report)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			if err := os.WriteFile(goldenPath, []byte(firstLine(string(out))+"\n"), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestHTMLFormatterSections(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Package Summary", "Slab Breakdown", "Key Assumptions", "₹1,09,200", "(rebate)", "FY 2025-26"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
	found := false
	for _, a := range DefaultAssumptions {
		if strings.Contains(content, a) {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected at least one default assumption to be rendered in HTML")
	}
}

func TestHTMLEscapesNames(t *testing.T) {
	report := buildTestReport(t)
	report.Packages[0].Name = "<script>alert(1)</script>"
	out, err := HTMLFormatter{}.Format(report)
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Fatalf("package name was not escaped")
	}
}

func TestPDFFormatter(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("pdf format error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestRenderOfferLettersRequiresALetter(t *testing.T) {
	if _, err := RenderOfferLetters(); err == nil {
		t.Fatalf("expected error for empty letter set")
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func TestFormatterAliasResolution(t *testing.T) {
	cases := map[string]string{
		"console-verbose": "console",
		"breakdown":       "console",
		"  Summary ":      "console-lite",
		"csv-slabs":       "detailed-csv",
		"letter":          "pdf",
		"JSON":            "json",
	}
	for alias, want := range cases {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %q did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %q resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("xml") != nil {
		t.Fatalf("unexpected formatter for xml")
	}
}

func TestAvailableFormatterNames(t *testing.T) {
	got := strings.Join(AvailableFormatterNames(), ",")
	want := "console,console-lite,csv,detailed-csv,html,json,pdf"
	if got != want {
		t.Fatalf("AvailableFormatterNames = %s, want %s", got, want)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{"console": "txt", "summary": "txt", "csv": "csv", "detailed-csv": "csv", "html": "html", "letter": "pdf"}
	for name, want := range cases {
		if got := ExtensionFor(name); got != want {
			t.Fatalf("ExtensionFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := Render(&domain.CompensationReport{}, "definitely-not-a-format")
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", err)
	}
}
