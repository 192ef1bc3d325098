package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/output"
)

type calcOptions struct {
	input      string
	pkg        string
	format     string
	outDir     string
	name       string
	fiscalYear string
	amounts    map[string]*string
}

func calcCmd(global *globalOptions) *cobra.Command {
	opts := &calcOptions{amounts: make(map[string]*string)}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate tax and take-home pay for one or more packages",
		Example: `  ctc calc --basic-salary 1575000
  ctc calc --basic-salary 1200000 --hra 480000 --employer-pension-contribution 120000 --format breakdown
  ctc calc --input packages.yaml --format html --out reports/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.configuration(cmd)
			if err != nil {
				return err
			}
			engine := calculation.NewCompensationEngine()
			engine.SetLogger(calculation.NewSlogLogger(newLogger(global.logLevel)))
			report, err := engine.RunPackages(cfg)
			if err != nil {
				return err
			}
			return emit(cmd, report, opts.format, opts.outDir)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "YAML packages file")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Only compute the named package from --input")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "console-lite", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write a timestamped report file into this directory instead of stdout")
	cmd.Flags().StringVar(&opts.name, "name", "Offer", "Package name when amounts are given as flags")
	cmd.Flags().StringVar(&opts.fiscalYear, "fiscal-year", "", `Fiscal year label, e.g. "FY 2025-26" (defaults to the current one)`)
	for _, field := range domain.CompensationFields {
		opts.amounts[field] = cmd.Flags().String(flagName(field), "", "Annual "+strings.ReplaceAll(field, "_", " "))
	}

	return cmd
}

// configuration builds the packages to compute from either --input or the amount flags.
func (o *calcOptions) configuration(cmd *cobra.Command) (*domain.Configuration, error) {
	parser := config.NewInputParser()

	if o.input != "" {
		for _, field := range domain.CompensationFields {
			if cmd.Flags().Changed(flagName(field)) {
				return nil, fmt.Errorf("--%s cannot be combined with --input", flagName(field))
			}
		}
		cfg, err := parser.LoadFromFile(o.input)
		if err != nil {
			return nil, err
		}
		if o.pkg != "" {
			p, ok := config.FindPackage(cfg, o.pkg)
			if !ok {
				return nil, fmt.Errorf("package %q not found in %s", o.pkg, o.input)
			}
			cfg.Packages = []domain.CompensationPackage{p}
		}
		return cfg, nil
	}

	if o.pkg != "" {
		return nil, fmt.Errorf("--package requires --input")
	}
	values := make(map[string]string)
	for _, field := range domain.CompensationFields {
		if cmd.Flags().Changed(flagName(field)) {
			values[field] = *o.amounts[field]
		}
	}
	in, err := parser.ParseInputValues(values)
	if err != nil {
		return nil, err
	}
	cfg := &domain.Configuration{
		FiscalYear: o.fiscalYear,
		Packages:   []domain.CompensationPackage{{Name: o.name, Compensation: in}},
	}
	if err := parser.ValidateConfiguration(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// emit renders report to stdout, or to a file in outDir when one is given.
func emit(cmd *cobra.Command, report *domain.CompensationReport, format, outDir string) error {
	if outDir != "" {
		paths, err := output.GenerateReport(report, format, outDir)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}
	if output.NormalizeFormatName(format) == "pdf" {
		return fmt.Errorf("pdf output requires --out")
	}
	data, err := output.Render(report, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}
