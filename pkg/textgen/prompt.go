package textgen

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// serviceOrder fixes the order services appear in the prompt
var serviceOrder = []string{
	models.ServiceEC2,
	models.ServiceRDS,
	models.ServiceStorage,
	models.ServiceLoadBalancer,
	models.ServiceCDN,
	models.ServiceMonitoring,
	models.ServiceDataTransfer,
}

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"inr":     models.FormatINR,
	"orNone":  orDefault("None"),
	"join":    strings.Join,
	"service": func(c *models.CostEstimate, name string) float64 { return c.Cost(name) },
}).Parse(`You are a cloud cost optimization expert.

Project Details:
- Name: {{.Profile.ProjectName}}
- Monthly Budget: {{inr .Profile.Budget}}
- Expected Users: {{.Profile.ExpectedUsers}}
- Traffic Pattern: {{.Profile.TrafficPattern}}
- Region: {{.Profile.Region}}

Tech Stack:
- Backend: {{.Profile.TechStack.Backend}}
- Frontend: {{.Profile.TechStack.Frontend}}
- Database: {{.Profile.TechStack.Database}}
- Cache: {{orNone .Profile.TechStack.Cache}}
- Features: {{join .Profile.Features ", "}}

Current Infrastructure Costs:
{{- range .Services}}
- {{.}}: {{inr (service $.Costs .)}}
{{- end}}

Total Monthly Cost: {{inr .Costs.Total}}
Budget Status: {{.Status}}

Usage Patterns Detected:
- Traffic: {{.Pattern.Traffic}}
- Database Load: {{.Pattern.DatabaseLoad}}
- Storage Access: {{.Pattern.StorageAccess}}
- Scaling Need: {{.Pattern.Scaling}}
- Compute Utilization: {{.Pattern.Compute}}

Task: Generate exactly {{.Count}} cost optimization recommendations.

Format each recommendation as:
### <title>
Service: <affected cloud service>
Savings: <expected monthly savings in INR>
Risk: <Low|Medium|High>
Complexity: <Low|Medium|High>
Impact: <performance impact>
Steps:
- <implementation step>
{{- if .ExistingTitles}}

Avoid duplicating these existing recommendations:
{{- range .ExistingTitles}}
- {{.}}
{{- end}}
{{- end}}
`))

type promptData struct {
	Request
	Services []string
}

// BuildPrompt renders the instruction sent to a text-generation model.
// At most maxTitles existing titles are included.
func BuildPrompt(req Request, maxTitles int) (string, error) {
	if req.Profile == nil || req.Costs == nil {
		return "", fmt.Errorf("prompt needs a profile and a cost estimate")
	}
	if maxTitles >= 0 && len(req.ExistingTitles) > maxTitles {
		req.ExistingTitles = req.ExistingTitles[:maxTitles]
	}

	var b strings.Builder
	if err := promptTemplate.Execute(&b, promptData{Request: req, Services: serviceOrder}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return b.String(), nil
}

func orDefault(def string) func(string) string {
	return func(s string) string {
		if strings.TrimSpace(s) == "" {
			return def
		}
		return s
	}
}
