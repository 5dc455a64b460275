package reporter

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

const (
	ruleWidth     = 80
	topQuickWins  = 3
	maxStepsShown = 5
)

// Summary renders the human-readable overview: budget, cost breakdown,
// savings potential and the top quick wins
func Summary(report *models.OptimizationReport) string {
	var b strings.Builder
	line := strings.Repeat("=", ruleWidth)

	fmt.Fprintln(&b, line)
	fmt.Fprintf(&b, "Cloud Cost Optimization Report: %s\n", report.Project)
	fmt.Fprintln(&b, line)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Budget Overview:")
	fmt.Fprintf(&b, "   Monthly Budget: %s\n", models.FormatINR(report.Budget))
	fmt.Fprintf(&b, "   Estimated Cost: %s\n", models.FormatINR(report.EstimatedCost))
	fmt.Fprintf(&b, "   Status: %s\n", report.Status)
	if report.EstimatedCost <= report.Budget {
		fmt.Fprintf(&b, "   Remaining: %s\n", models.FormatINR(report.Budget-report.EstimatedCost))
	} else {
		fmt.Fprintf(&b, "   Over Budget: %s\n", models.FormatINR(report.EstimatedCost-report.Budget))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Cost Breakdown:")
	for _, service := range sortedServices(report.CostBreakdown) {
		fmt.Fprintf(&b, "   %s: %s\n", service, models.FormatINR(report.CostBreakdown[service]))
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Optimization Potential:")
	fmt.Fprintf(&b, "   Total Potential Savings: %s/month\n", models.FormatINR(report.TotalPotentialSavings))
	fmt.Fprintf(&b, "   Optimized Cost: %s/month\n", models.FormatINR(report.OptimizedCost()))
	fmt.Fprintf(&b, "   Number of Recommendations: %d\n", len(report.Recommendations))

	if len(report.QuickWins) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "Top Quick Wins:")
		for i, rec := range report.QuickWins[:min(topQuickWins, len(report.QuickWins))] {
			fmt.Fprintf(&b, "   %d. %s\n", i+1, rec.Title)
			fmt.Fprintf(&b, "      Savings: %s | Risk: %s | Complexity: %s\n",
				models.FormatINR(rec.ExpectedSavings), rec.Risk, rec.Complexity)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprint(&b, line)
	return b.String()
}

// GenerateText writes the summary followed by every recommendation and
// the roadmap
func GenerateText(report *models.OptimizationReport, w io.Writer) error {
	var b strings.Builder
	b.WriteString(Summary(report))
	b.WriteString("\n\n")

	if len(report.Recommendations) == 0 {
		b.WriteString("No recommendations.\n")
	} else {
		b.WriteString("Recommendations:\n")
	}
	for i, rec := range report.Recommendations {
		fmt.Fprintf(&b, "\n%d. %s [%s]\n", i+1, rec.Title, rec.Service)
		fmt.Fprintf(&b, "   Savings: %s/month | Risk: %s | Complexity: %s | Score: %.2f\n",
			models.FormatINR(rec.ExpectedSavings), rec.Risk, rec.Complexity, rec.ScoreValue())
		if rec.Description != "" {
			fmt.Fprintf(&b, "   %s\n", rec.Description)
		}
		if rec.Impact != "" {
			fmt.Fprintf(&b, "   Impact: %s\n", rec.Impact)
		}
		for j, step := range rec.ImplementationSteps[:min(maxStepsShown, len(rec.ImplementationSteps))] {
			fmt.Fprintf(&b, "     %d) %s\n", j+1, step)
		}
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("\nImplementation Roadmap:\n")
		for _, phase := range report.Roadmap.Phases {
			fmt.Fprintf(&b, "   Phase %d - %s (%s): %d items, %s/month\n",
				phase.Phase, phase.Name, phase.Timeline, len(phase.RecommendationIDs), models.FormatINR(phase.Savings))
		}
	}

	if d := report.Diagnostics; d.ExternalSkipped() {
		fmt.Fprintf(&b, "\nNote: external recommendations unavailable (%s)\n", d.ExternalSource)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func sortedServices(costs map[string]float64) []string {
	services := make([]string, 0, len(costs))
	for s, c := range costs {
		if c > 0 {
			services = append(services, s)
		}
	}
	slices.Sort(services)
	return services
}
