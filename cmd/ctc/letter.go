package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/output"
)

func letterCmd(global *globalOptions) *cobra.Command {
	var (
		input   string
		pkgName string
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Render offer letters for the packages in a file as a PDF",
		Example: `  ctc letter --input packages.yaml --out offers.pdf
  ctc letter --input packages.yaml --package "Senior Engineer" --out asha.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(input)
			if err != nil {
				return err
			}
			if pkgName != "" {
				p, ok := config.FindPackage(cfg, pkgName)
				if !ok {
					return fmt.Errorf("package %q not found in %s", pkgName, input)
				}
				cfg.Packages = []domain.CompensationPackage{p}
			}

			engine := calculation.NewCompensationEngine()
			engine.SetLogger(calculation.NewSlogLogger(newLogger(global.logLevel)))
			report, err := engine.RunPackages(cfg)
			if err != nil {
				return err
			}
			data, err := output.PDFFormatter{}.Format(report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", outFile, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d offer letter(s) to %s\n", len(report.Packages), outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML packages file")
	cmd.Flags().StringVarP(&pkgName, "package", "p", "", "Only render the named package")
	cmd.Flags().StringVarP(&outFile, "out", "o", "offer_letters.pdf", "PDF file to write")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
