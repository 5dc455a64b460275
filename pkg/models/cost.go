package models

import (
	"fmt"
	"strings"
)

// Service keys used in cost breakdowns
const (
	ServiceEC2          = "EC2"
	ServiceRDS          = "RDS"
	ServiceStorage      = "Storage"
	ServiceLoadBalancer = "LoadBalancer"
	ServiceCDN          = "CDN"
	ServiceMonitoring   = "Monitoring"
	ServiceDataTransfer = "DataTransfer"
)

// CostEstimate is the projected monthly cost of a profile, in INR
type CostEstimate struct {
	Services           map[string]float64 `json:"services" yaml:"services"`
	Total              float64            `json:"total" yaml:"total"`
	Budget             float64            `json:"budget" yaml:"budget"`
	RemainingBudget    float64            `json:"remaining_budget" yaml:"remaining_budget"`
	UtilizationPercent float64            `json:"utilization_percent" yaml:"utilization_percent"`
	Region             string             `json:"region" yaml:"region"`
}

// Cost returns the monthly cost of one service, zero when absent
func (c *CostEstimate) Cost(service string) float64 {
	if c == nil || c.Services == nil {
		return 0
	}
	return c.Services[service]
}

// TotalCost returns the estimate total, zero for a nil estimate
func (c *CostEstimate) TotalCost() float64 {
	if c == nil {
		return 0
	}
	return c.Total
}

// FormatINR renders an amount with a rupee sign and thousands separators
func FormatINR(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var out []byte
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}

	res := "₹" + string(out) + "." + frac
	if neg {
		res = "-" + res
	}
	return res
}
