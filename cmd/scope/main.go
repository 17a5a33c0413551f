package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/scope/guest"
	"github.com/wippyai/scope/internal/config"
	"github.com/wippyai/scope/internal/logging"
	"github.com/wippyai/scope/resource"
)

var version = "dev"

// app carries state shared by subcommands after flag parsing.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	noColor bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configFile string
		debug      bool
	)
	a := &app{}

	root := &cobra.Command{
		Use:   "scope",
		Short: "Exercise exclusive-ownership guards over real resources",
		Long: `scope runs lifecycle scenarios for guarded resources (file descriptors,
locked secrets, pebble handles, guest memory) and reports every acquire,
transfer and release.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log, debug)
			if err != nil {
				return err
			}
			resource.SetLogger(log.Named("resource"))
			guest.SetLogger(log.Named("guest"))

			a.cfg = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "scope.yaml", "Config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newRunCommand(a),
		newListCommand(a),
		newInteractiveCommand(a),
	)
	return root
}
