package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/domain"
	"github.com/talentdesk/ctc-calculator/internal/output"
	"github.com/talentdesk/ctc-calculator/internal/watch"
)

func watchCmd(global *globalOptions) *cobra.Command {
	var (
		format   string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch <packages.yaml>",
		Short: "Recompute a packages file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output.GetFormatterByName(format) == nil || output.NormalizeFormatName(format) == "pdf" {
				return fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format)
			}
			logger := newLogger(global.logLevel)
			engine := calculation.NewCompensationEngine()
			engine.SetLogger(calculation.NewSlogLogger(logger))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(args[0], engine, logger, debounce)
			return w.Run(ctx, func(report *domain.CompensationReport, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[0], err)
					return
				}
				data, err := output.Render(report, format)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "render: %v\n", err)
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n", time.Now().Format(time.TimeOnly))
				cmd.OutOrStdout().Write(data)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "console-lite", "Output format")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long for writes to settle")
	return cmd
}
