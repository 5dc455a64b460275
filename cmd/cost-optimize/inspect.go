package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
	"github.com/opscart/cloud-cost-optimizer/pkg/optimizer"
)

func newEstimateCmd(a *app) *cobra.Command {
	var profileFile, pricingFile string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the monthly cost breakdown of a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt, profile, err := a.prepare(profileFile, pricingFile)
			if err != nil {
				return err
			}
			est, err := opt.Estimate(cmd.Context(), profile)
			if err != nil {
				return err
			}
			printEstimate(cmd.OutOrStdout(), profile, est)
			return nil
		},
	}
	cmd.Flags().StringVarP(&profileFile, "file", "f", "", "Project profile (YAML or JSON)")
	cmd.Flags().StringVar(&pricingFile, "pricing-file", "", "Price catalog overriding the built-in one")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPatternsCmd(a *app) *cobra.Command {
	var profileFile string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Print the usage pattern derived from a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt, profile, err := a.prepare(profileFile, "")
			if err != nil {
				return err
			}
			pattern, err := opt.Patterns(profile)
			if err != nil {
				return err
			}
			printPattern(cmd.OutOrStdout(), profile, pattern)
			return nil
		},
	}
	cmd.Flags().StringVarP(&profileFile, "file", "f", "", "Project profile (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) prepare(profileFile, pricingFile string) (*optimizer.Optimizer, *models.ProjectProfile, error) {
	profile, err := loadProfile(profileFile)
	if err != nil {
		return nil, nil, err
	}
	estimator, err := newEstimator(pricingFile, a)
	if err != nil {
		return nil, nil, err
	}
	opt, err := optimizer.New(a.cfg, optimizer.WithLogger(a.log), optimizer.WithEstimator(estimator))
	if err != nil {
		return nil, nil, err
	}
	return opt, profile, nil
}

func printEstimate(w io.Writer, p *models.ProjectProfile, est *models.CostEstimate) {
	fmt.Fprintf(w, "Cost estimate for %s (%s)\n", p.ProjectName, est.Region)
	fmt.Fprintln(w, strings.Repeat("=", 40))

	services := make([]string, 0, len(est.Services))
	for s := range est.Services {
		services = append(services, s)
	}
	slices.Sort(services)
	for _, s := range services {
		fmt.Fprintf(w, "  %-14s %16s\n", s, models.FormatINR(est.Services[s]))
	}

	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "  %-14s %16s\n", "Total", models.FormatINR(est.Total))
	fmt.Fprintf(w, "  %-14s %16s\n", "Budget", models.FormatINR(est.Budget))
	fmt.Fprintf(w, "  %-14s %16s\n", "Remaining", models.FormatINR(est.RemainingBudget))
	fmt.Fprintf(w, "  %-14s %15.1f%%\n", "Utilization", est.UtilizationPercent)
}

func printPattern(w io.Writer, p *models.ProjectProfile, u models.UsagePattern) {
	hours := "none"
	if len(u.PeakHours) > 0 {
		parts := make([]string, len(u.PeakHours))
		for i, h := range u.PeakHours {
			parts[i] = fmt.Sprintf("%02d:00", h)
		}
		hours = strings.Join(parts, ", ")
	}

	fmt.Fprintf(w, "Usage patterns for %s\n", p.ProjectName)
	fmt.Fprintf(w, "  Traffic:         %s\n", u.Traffic)
	fmt.Fprintf(w, "  Database load:   %s\n", u.DatabaseLoad)
	fmt.Fprintf(w, "  Storage access:  %s\n", u.StorageAccess)
	fmt.Fprintf(w, "  Scaling need:    %s\n", u.Scaling)
	fmt.Fprintf(w, "  Compute:         %s\n", u.Compute)
	fmt.Fprintf(w, "  Peak hours:      %s\n", hours)
}
