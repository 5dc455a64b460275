package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// ReportFormat represents the output format
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatJSON ReportFormat = "json"
	FormatYAML ReportFormat = "yaml"
	FormatCSV  ReportFormat = "csv"
	FormatHTML ReportFormat = "html"
)

// Formats lists every supported format
var Formats = []ReportFormat{FormatText, FormatJSON, FormatYAML, FormatCSV, FormatHTML}

// ParseFormat accepts a case-insensitive format name
func ParseFormat(s string) (ReportFormat, error) {
	f := ReportFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unsupported output format %q (supported: text, json, yaml, csv, html)", s)
	}
	return f, nil
}

// ServiceStats holds statistics per service
type ServiceStats struct {
	Service         string
	Cost            float64
	Recommendations int
	TotalSavings    float64
}

// Reporter renders optimization reports
type Reporter struct {
	format ReportFormat
}

// New creates a new reporter
func New(format ReportFormat) *Reporter {
	return &Reporter{
		format: format,
	}
}

// Render writes report in the reporter's format
func (r *Reporter) Render(report *models.OptimizationReport, w io.Writer) error {
	switch r.format {
	case FormatText, "":
		return GenerateText(report, w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return GenerateCSV(report, w)
	case FormatHTML:
		return GenerateHTML(report, w)
	default:
		return fmt.Errorf("unsupported output format: %s", r.format)
	}
}

// ServiceBreakdown combines each service's cost with the recommendations
// targeting it, sorted by service name
func ServiceBreakdown(report *models.OptimizationReport) []*ServiceStats {
	stats := make(map[string]*ServiceStats)
	get := func(service string) *ServiceStats {
		if _, exists := stats[service]; !exists {
			stats[service] = &ServiceStats{Service: service}
		}
		return stats[service]
	}

	for service, cost := range report.CostBreakdown {
		if cost > 0 {
			get(service).Cost = cost
		}
	}
	for _, rec := range report.Recommendations {
		s := get(rec.Service)
		s.Recommendations++
		s.TotalSavings += rec.ExpectedSavings
	}

	out := make([]*ServiceStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *ServiceStats) int {
		return strings.Compare(a.Service, b.Service)
	})
	return out
}
