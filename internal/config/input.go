package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/pkg/dateutil"
	money "github.com/talentdesk/ctc-calculator/pkg/decimal"
)

// InputParser handles parsing of compensation package files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// packageDoc mirrors domain.CompensationPackage but keeps amounts as raw nodes
// so that absent, null and non-numeric values can be told apart.
type packageDoc struct {
	Name                        string    `yaml:"name"`
	Candidate                   string    `yaml:"candidate"`
	Role                        string    `yaml:"role"`
	BasicSalary                 yaml.Node `yaml:"basic_salary"`
	HRA                         yaml.Node `yaml:"hra"`
	OtherAllowances             yaml.Node `yaml:"other_allowances"`
	PerformanceBonus            yaml.Node `yaml:"performance_bonus"`
	EmployerProvidentFund       yaml.Node `yaml:"employer_provident_fund"`
	Gratuity                    yaml.Node `yaml:"gratuity"`
	EmployerMedicalInsurance    yaml.Node `yaml:"employer_medical_insurance"`
	EmployerPensionContribution yaml.Node `yaml:"employer_pension_contribution"`
}

type configDoc struct {
	Currency   string       `yaml:"currency"`
	FiscalYear string       `yaml:"fiscal_year"`
	Packages   []packageDoc `yaml:"packages"`
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a packages document
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var doc configDoc
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	config := &domain.Configuration{
		Currency:   strings.TrimSpace(doc.Currency),
		FiscalYear: strings.TrimSpace(doc.FiscalYear),
		Packages:   make([]domain.CompensationPackage, 0, len(doc.Packages)),
	}
	for i, p := range doc.Packages {
		pkg, err := p.toPackage()
		if err != nil {
			return nil, fmt.Errorf("package %d (%s): %w", i, p.Name, err)
		}
		config.Packages = append(config.Packages, pkg)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (p packageDoc) toPackage() (domain.CompensationPackage, error) {
	pkg := domain.CompensationPackage{
		Name:      strings.TrimSpace(p.Name),
		Candidate: strings.TrimSpace(p.Candidate),
		Role:      strings.TrimSpace(p.Role),
	}
	nodes := map[string]*yaml.Node{
		domain.FieldBasicSalary:                 &p.BasicSalary,
		domain.FieldHRA:                         &p.HRA,
		domain.FieldOtherAllowances:             &p.OtherAllowances,
		domain.FieldPerformanceBonus:            &p.PerformanceBonus,
		domain.FieldEmployerProvidentFund:       &p.EmployerProvidentFund,
		domain.FieldGratuity:                    &p.Gratuity,
		domain.FieldEmployerMedicalInsurance:    &p.EmployerMedicalInsurance,
		domain.FieldEmployerPensionContribution: &p.EmployerPensionContribution,
	}
	for _, field := range domain.CompensationFields {
		amount, err := decodeAmount(field, nodes[field])
		if err != nil {
			return pkg, err
		}
		pkg.Compensation.SetAmount(field, amount)
	}
	return pkg, nil
}

// decodeAmount treats an absent key as zero; an explicit null, a non-scalar or
// a non-numeric scalar is an invalid input.
func decodeAmount(field string, n *yaml.Node) (decimal.Decimal, error) {
	if n == nil || n.Kind == 0 {
		return decimal.Zero, nil
	}
	if n.Kind != yaml.ScalarNode {
		return decimal.Zero, calculation.NewInputError(field, "expected a number")
	}
	if n.ShortTag() == "!!null" {
		return decimal.Zero, calculation.NewInputError(field, "value is missing")
	}
	return ParseAmount(field, n.Value)
}

// ParseAmount parses a single named amount, reporting failures as calculation.ErrInvalidInput
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := money.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, calculation.NewInputError(field, err.Error())
	}
	return d, nil
}

// ParseInputValues builds an input from field name / raw value pairs, as given on a
// command line. Fields not present in values are zero.
func (ip *InputParser) ParseInputValues(values map[string]string) (domain.CompensationInput, error) {
	var in domain.CompensationInput
	for field, raw := range values {
		if !domain.IsCompensationField(field) {
			return domain.CompensationInput{}, calculation.NewInputError(field, "unknown compensation field")
		}
		amount, err := ParseAmount(field, raw)
		if err != nil {
			return domain.CompensationInput{}, err
		}
		in.SetAmount(field, amount)
	}
	if err := calculation.ValidateInput(in); err != nil {
		return domain.CompensationInput{}, err
	}
	return in, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if len(config.Packages) == 0 {
		return fmt.Errorf("no packages provided")
	}

	if config.Currency != "" && config.Currency != calculation.DefaultCurrency {
		return fmt.Errorf("unsupported currency %q: only %s is supported", config.Currency, calculation.DefaultCurrency)
	}

	if config.FiscalYear != "" {
		if _, err := dateutil.ParseFiscalYearLabel(config.FiscalYear); err != nil {
			return err
		}
	}

	seen := make(map[string]bool, len(config.Packages))
	for i, pkg := range config.Packages {
		if err := ip.validatePackage(&pkg); err != nil {
			return fmt.Errorf("package %d validation failed: %w", i, err)
		}
		if seen[pkg.Name] {
			return fmt.Errorf("duplicate package name %q", pkg.Name)
		}
		seen[pkg.Name] = true
	}

	return nil
}

// validatePackage validates a single package
func (ip *InputParser) validatePackage(pkg *domain.CompensationPackage) error {
	if pkg.Name == "" {
		return fmt.Errorf("package name is required")
	}
	return calculation.ValidateInput(pkg.Compensation)
}

// FindPackage returns the package called name
func FindPackage(config *domain.Configuration, name string) (domain.CompensationPackage, bool) {
	for _, p := range config.Packages {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.CompensationPackage{}, false
}

// CreateExampleConfiguration creates an example configuration
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Currency:   calculation.DefaultCurrency,
		FiscalYear: "FY 2025-26",
		Packages: []domain.CompensationPackage{
			{
				Name:      "Senior Engineer",
				Candidate: "Asha Rao",
				Role:      "Senior Software Engineer",
				Compensation: domain.CompensationInput{
					BasicSalary:                 decimal.NewFromInt(1200000),
					HRA:                         decimal.NewFromInt(480000),
					OtherAllowances:             decimal.NewFromInt(180000),
					PerformanceBonus:            decimal.NewFromInt(150000),
					EmployerProvidentFund:       decimal.NewFromInt(144000),
					Gratuity:                    decimal.NewFromInt(57720),
					EmployerMedicalInsurance:    decimal.NewFromInt(25000),
					EmployerPensionContribution: decimal.NewFromInt(120000),
				},
			},
			{
				Name:      "Associate",
				Candidate: "Vikram Shah",
				Role:      "Associate Analyst",
				Compensation: domain.CompensationInput{
					BasicSalary:              decimal.NewFromInt(420000),
					HRA:                      decimal.NewFromInt(168000),
					OtherAllowances:          decimal.NewFromInt(60000),
					EmployerProvidentFund:    decimal.NewFromInt(50400),
					Gratuity:                 decimal.NewFromInt(20202),
					EmployerMedicalInsurance: decimal.NewFromInt(12000),
				},
			},
		},
	}
}
