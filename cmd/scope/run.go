package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/scope/internal/config"
	"github.com/wippyai/scope/internal/demo"
	"github.com/wippyai/scope/metrics"
	"github.com/wippyai/scope/resource"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [scenario...]",
		Short: "Run lifecycle scenarios and print a report",
		Long: fmt.Sprintf(`Run the given scenarios, or those listed in the config file.

Available scenarios: %v`, config.Scenarios),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				a.cfg.Scenarios = args
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var observers []resource.Observer
			reg := prometheus.NewRegistry()
			if a.cfg.Metrics.Enabled {
				observers = append(observers, metrics.New(reg))
			}

			runner := demo.NewRunner(a.cfg, a.log, observers...)
			reports := runner.RunAll(ctx)

			out := cmd.OutOrStdout()
			styled := !a.noColor && isTerminal(out)
			fmt.Fprint(out, renderReports(reports, styled))

			if a.cfg.Metrics.Enabled {
				summary, err := renderMetrics(reg, styled)
				if err != nil {
					return err
				}
				fmt.Fprint(out, summary)
			}

			for _, rep := range reports {
				if !rep.OK() {
					return fmt.Errorf("scenario %s failed", rep.Scenario)
				}
			}
			return nil
		},
	}
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range demo.Names() {
				marker := " "
				for _, s := range a.cfg.Scenarios {
					if s == name {
						marker = "*"
						break
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
