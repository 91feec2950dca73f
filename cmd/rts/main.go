// Command rts drives the runtime core from the command line: the LEB128
// codecs, the UTF-8 gate, ic: URLs, and guest modules linked against the
// host module.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cPlayIt/motoko/closure"
	"github.com/cPlayIt/motoko/config"
	"github.com/cPlayIt/motoko/host"
	"github.com/cPlayIt/motoko/trap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	var (
		configPath string
		logLevel   string
	)

	root := &cobra.Command{
		Use:           "rts",
		Short:         "Inspect and exercise the Motoko runtime core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(configPath, logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return runInteractive(a)
			}
			return cmd.Usage()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")

	root.AddCommand(
		newLEB128Cmd(),
		newUTF8Cmd(),
		newICURLCmd(),
		newRunCmd(a),
		newGuestCmd(a),
		newInteractiveCmd(a),
	)
	return root
}

// setup loads the configuration and installs the logger in every package
// that logs.
func (a *app) setup(configPath, logLevel string) error {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if logLevel != "" {
		a.cfg.Log.Level = logLevel
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := a.cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	a.logger = logger

	trap.SetLogger(logger.Named("trap"))
	closure.SetLogger(logger.Named("closure"))
	host.SetLogger(logger.Named("host"))
	return nil
}

// hostModule builds the host module described by the configuration.
func (a *app) hostModule() *host.Module {
	return host.New(
		host.WithModuleName(a.cfg.Host.ModuleName),
		host.WithClosureOptions(a.cfg.ClosureOptions()...),
	)
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Explore the runtime core in a terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(a)
		},
	}
}
