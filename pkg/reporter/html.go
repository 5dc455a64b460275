package reporter

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

const htmlTemplate = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Cloud Cost Optimization Report - {{.Report.Project}}</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
            background: #f5f7fa;
            color: #333;
            margin: 0;
            padding: 20px;
            line-height: 1.5;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 8px rgba(0, 0, 0, 0.1);
        }
        .header {
            background: linear-gradient(135deg, #ff9900 0%, #c45500 100%);
            color: white;
            padding: 40px;
            border-radius: 8px 8px 0 0;
        }
        .header h1 { margin: 0 0 10px; }
        .cards {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
            gap: 20px;
            padding: 30px 40px;
        }
        .card {
            padding: 20px;
            border-radius: 10px;
            border: 1px solid #e8eaed;
        }
        .card h3 {
            color: #5f6368;
            font-size: 0.8em;
            text-transform: uppercase;
            letter-spacing: 1px;
            margin: 0 0 10px;
        }
        .card .value { font-size: 1.8em; font-weight: 700; }
        .status-within-budget .value { color: #1e8e3e; }
        .status-at-risk .value { color: #f9ab00; }
        .status-over-budget .value { color: #d93025; }
        .section { padding: 30px 40px; }
        table { width: 100%; border-collapse: collapse; }
        th {
            background: #232f3e;
            color: white;
            padding: 12px;
            text-align: left;
            font-size: 0.85em;
            text-transform: uppercase;
        }
        td { padding: 12px; border-bottom: 1px solid #f0f2f4; vertical-align: top; }
        .badge {
            padding: 4px 10px;
            border-radius: 6px;
            font-size: 0.75em;
            font-weight: 700;
            text-transform: uppercase;
        }
        .level-low { background: #e6f4ea; color: #1e8e3e; }
        .level-medium { background: #fef7e0; color: #f9ab00; }
        .level-high { background: #fce8e6; color: #d93025; }
        .savings { color: #1e8e3e; font-weight: 700; }
        ol.steps { margin: 6px 0 0; padding-left: 18px; font-size: 0.9em; color: #5f6368; }
        .phase { margin-bottom: 16px; }
        .footer { background: #232f3e; color: #9aa0a6; padding: 20px 40px; border-radius: 0 0 8px 8px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Cloud Cost Optimization Report</h1>
            <p><strong>Project:</strong> {{.Report.Project}} | <strong>Region:</strong> {{.Report.Region}}</p>
            <p><strong>Generated:</strong> {{.Report.GeneratedAt.Format "January 2, 2006 15:04:05 MST"}}</p>
        </div>

        <div class="cards">
            <div class="card">
                <h3>Monthly Budget</h3>
                <div class="value">{{inr .Report.Budget}}</div>
            </div>
            <div class="card status-{{slug .Report.Status}}">
                <h3>Estimated Cost ({{.Report.Status}})</h3>
                <div class="value">{{inr .Report.EstimatedCost}}</div>
            </div>
            <div class="card">
                <h3>Potential Savings</h3>
                <div class="value savings">{{inr .Report.TotalPotentialSavings}}</div>
            </div>
            <div class="card">
                <h3>Recommendations</h3>
                <div class="value">{{len .Report.Recommendations}}</div>
            </div>
        </div>

        {{if .Services}}
        <div class="section">
            <h2>By Service</h2>
            <table>
                <thead>
                    <tr><th>Service</th><th>Monthly Cost</th><th>Recommendations</th><th>Savings</th></tr>
                </thead>
                <tbody>
                    {{range .Services}}
                    <tr>
                        <td>{{.Service}}</td>
                        <td>{{inr .Cost}}</td>
                        <td>{{.Recommendations}}</td>
                        <td class="savings">{{inr .TotalSavings}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>
        {{end}}

        <div class="section">
            <h2>Recommendations</h2>
            <table>
                <thead>
                    <tr><th>#</th><th>Recommendation</th><th>Service</th><th>Savings/Month</th><th>Risk</th><th>Complexity</th><th>Score</th></tr>
                </thead>
                <tbody>
                    {{range $i, $r := .Report.Recommendations}}
                    <tr>
                        <td>{{inc $i}}</td>
                        <td>
                            <strong>{{$r.Title}}</strong>
                            {{if $r.Impact}}<div>{{$r.Impact}}</div>{{end}}
                            <ol class="steps">{{range $r.ImplementationSteps}}<li>{{.}}</li>{{end}}</ol>
                        </td>
                        <td>{{$r.Service}}</td>
                        <td class="savings">{{inr $r.ExpectedSavings}}</td>
                        <td><span class="badge level-{{slug $r.Risk}}">{{$r.Risk}}</span></td>
                        <td><span class="badge level-{{slug $r.Complexity}}">{{$r.Complexity}}</span></td>
                        <td>{{printf "%.2f" $r.ScoreValue}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
        </div>

        <div class="section">
            <h2>Implementation Roadmap</h2>
            {{range .Report.Roadmap.Phases}}
            <div class="phase">
                <strong>Phase {{.Phase}}: {{.Name}}</strong> ({{.Timeline}}) - {{len .RecommendationIDs}} items, {{inr .Savings}}/month
            </div>
            {{end}}
        </div>

        <div class="footer">
            <p>Run {{.Report.RunID}} | external recommendations: {{.Report.Diagnostics.ExternalSource}}</p>
        </div>
    </div>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"slug": func(s interface{}) string {
		return strings.ReplaceAll(strings.ToLower(fmt.Sprintf("%v", s)), " ", "-")
	},
	"inr": models.FormatINR,
	"inc": func(i int) int { return i + 1 },
}).Parse(htmlTemplate))

type htmlView struct {
	Report   *models.OptimizationReport
	Services []*ServiceStats
}

// GenerateHTML creates an HTML report
func GenerateHTML(report *models.OptimizationReport, writer io.Writer) error {
	view := htmlView{
		Report:   report,
		Services: ServiceBreakdown(report),
	}
	if err := reportTemplate.Execute(writer, view); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
