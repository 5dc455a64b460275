package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opscart/cloud-cost-optimizer/pkg/metrics"
	"github.com/opscart/cloud-cost-optimizer/pkg/optimizer"
	"github.com/opscart/cloud-cost-optimizer/pkg/reporter"
	"github.com/opscart/cloud-cost-optimizer/pkg/textgen"
)

type optimizeOptions struct {
	profileFile     string
	count           int
	noLLM           bool
	llmEndpoint     string
	llmTimeout      time.Duration
	llmFile         string
	excludeHighRisk bool
	format          string
	outFile         string
	metricsFile     string
	pricingFile     string
}

func newOptimizeCmd(a *app) *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Generate ranked cost optimization recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptimize(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profileFile, "file", "f", "", "Project profile (YAML or JSON)")
	cmd.Flags().IntVarP(&opts.count, "num", "n", 0, "Number of recommendations (default from config)")
	cmd.Flags().BoolVar(&opts.noLLM, "no-llm", false, "Skip the external recommendation source")
	cmd.Flags().StringVar(&opts.llmEndpoint, "llm-endpoint", "", "Text-generation endpoint; enables the external source")
	cmd.Flags().DurationVar(&opts.llmTimeout, "llm-timeout", 0, "Timeout for the external source (e.g. 30s)")
	cmd.Flags().StringVar(&opts.llmFile, "llm-file", "", "Replay a recorded model response instead of calling an endpoint")
	cmd.Flags().BoolVar(&opts.excludeHighRisk, "exclude-high-risk", false, "Drop high-risk recommendations")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "", "Output format: text, json, yaml, csv, html")
	cmd.Flags().StringVar(&opts.outFile, "out", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	cmd.Flags().StringVar(&opts.pricingFile, "pricing-file", "", "Price catalog overriding the built-in one")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runOptimize(cmd *cobra.Command, a *app, opts *optimizeOptions) error {
	profile, err := loadProfile(opts.profileFile)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if opts.llmEndpoint != "" {
		cfg.External.Enabled = true
		cfg.External.Endpoint = opts.llmEndpoint
	}
	if opts.llmTimeout > 0 {
		cfg.External.Timeout = opts.llmTimeout
	}

	format := opts.format
	if format == "" {
		format = cfg.Report.Format
	}
	reportFormat, err := reporter.ParseFormat(format)
	if err != nil {
		return err
	}

	estimator, err := newEstimator(opts.pricingFile, a)
	if err != nil {
		return err
	}

	m := metrics.New()
	optOpts := []optimizer.Option{
		optimizer.WithLogger(a.log),
		optimizer.WithEstimator(estimator),
		optimizer.WithMetrics(m),
	}
	if opts.llmFile != "" {
		src, err := textgen.NewStaticSourceFromFile(opts.llmFile)
		if err != nil {
			return err
		}
		optOpts = append(optOpts, optimizer.WithSource(src))
	}

	opt, err := optimizer.New(cfg, optOpts...)
	if err != nil {
		return err
	}

	report, err := opt.Optimize(cmd.Context(), optimizer.Request{
		Profile:            profile,
		NumRecommendations: opts.count,
		ExcludeHighRisk:    opts.excludeHighRisk,
		DisableExternal:    opts.noLLM,
	})
	if err != nil {
		return err
	}

	if err := writeTo(cmd.OutOrStdout(), opts.outFile, func(w io.Writer) error {
		return reporter.New(reportFormat).Render(report, w)
	}); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if opts.outFile != "" {
		a.log.WithField("file", opts.outFile).Info("Report written")
	}

	if opts.metricsFile != "" {
		if err := writeTo(nil, opts.metricsFile, m.WriteText); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// writeTo runs render against path, or against stdout when path is empty
func writeTo(stdout io.Writer, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
