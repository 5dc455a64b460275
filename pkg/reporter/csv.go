package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// GenerateCSV creates a CSV report
func GenerateCSV(report *models.OptimizationReport, writer io.Writer) error {
	w := csv.NewWriter(writer)

	// Write header
	header := []string{
		"Rank",
		"ID",
		"Title",
		"Service",
		"Monthly Savings (INR)",
		"Risk",
		"Complexity",
		"Score",
		"Source",
		"Impact",
		"Steps",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write recommendations
	for i, rec := range report.Recommendations {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rec.ID),
			rec.Title,
			rec.Service,
			fmt.Sprintf("%.2f", rec.ExpectedSavings),
			string(rec.Risk),
			string(rec.Complexity),
			fmt.Sprintf("%.4f", rec.ScoreValue()),
			string(rec.Source),
			rec.Impact,
			strings.Join(rec.ImplementationSteps, "; "),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	// Summary rows
	rows := [][]string{
		{},
		{"SUMMARY"},
		{"Project", report.Project},
		{"Status", string(report.Status)},
		{"Estimated Monthly Cost", fmt.Sprintf("%.2f", report.EstimatedCost)},
		{"Total Monthly Savings", fmt.Sprintf("%.2f", report.TotalPotentialSavings)},
		{},
		{"SERVICE BREAKDOWN"},
		{"Service", "Cost", "Recommendations", "Savings"},
	}
	for _, s := range ServiceBreakdown(report) {
		rows = append(rows, []string{
			s.Service,
			fmt.Sprintf("%.2f", s.Cost),
			strconv.Itoa(s.Recommendations),
			fmt.Sprintf("%.2f", s.TotalSavings),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV summary: %w", err)
	}
	return nil
}
