package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// app carries state shared by every subcommand
type app struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cost-optimize",
		Short: "Cloud cost optimization recommendations",
		Long: `Estimate the monthly cost of a project profile and rank cost-saving
recommendations from built-in rules and an optional text-generation service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "Config file (YAML, JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text, json")

	rootCmd.AddCommand(newOptimizeCmd(a))
	rootCmd.AddCommand(newEstimateCmd(a))
	rootCmd.AddCommand(newPatternsCmd(a))

	return rootCmd
}

func (a *app) init(stderr io.Writer) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	if cfg.Logging.File == "" {
		logger.SetOutput(stderr)
	}

	a.cfg = cfg
	a.log = logger
	return nil
}

// printError writes err to w. Profile validation failures get one line
// per invalid field.
func printError(w io.Writer, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, "Error: invalid project profile")
		for _, e := range verr.Errors {
			fmt.Fprintf(w, "  %s\n", e.Error())
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
