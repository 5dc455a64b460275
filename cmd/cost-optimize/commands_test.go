package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

const profileYAML = `project_name: FoodieHub
budget: 50000
expected_users: 10000
traffic_pattern: peak-hours
region: ap-south-1
tech_stack:
  backend: Node.js
  frontend: React
  database: PostgreSQL
features:
  - Food delivery
  - Order tracking
current_infra:
  instance_count: 2
  instance_type: t3.medium
  database_class: db.t3.medium
  load_balancer: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestOptimizeJSON(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "optimize", "-f", profile, "--no-llm", "-o", "json", "-n", "3")
	require.NoError(t, err)

	var report models.OptimizationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "FoodieHub", report.Project)
	assert.Equal(t, models.TrafficPeakHours, report.UsagePatterns.Traffic)
	assert.Len(t, report.Recommendations, 3)
	assert.Equal(t, models.ExternalDisabled, report.Diagnostics.ExternalSource)
}

func TestOptimizeWritesFiles(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.html")
	metricsPath := filepath.Join(dir, "metrics.prom")

	out, _, err := run(t, "optimize", "-f", profile, "--no-llm", "-o", "html",
		"--out", reportPath, "--metrics-file", metricsPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	html, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "FoodieHub")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "cost_optimizer_runs_total")
}

func TestOptimizeReplaysRecordedResponse(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)
	recorded := writeFile(t, "response.md", `### Use Graviton for the API fleet
Savings: ₹9,000
Risk: Low
- Benchmark the Node.js service on ARM
- Switch the launch template to t4g.medium
`)

	out, _, err := run(t, "optimize", "-f", profile, "--llm-file", recorded, "-o", "json")
	require.NoError(t, err)

	var report models.OptimizationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, models.ExternalOK, report.Diagnostics.ExternalSource)
	assert.Equal(t, 1, report.Diagnostics.ExternalRawBlocks)
}

func TestOptimizeValidationError(t *testing.T) {
	profile := writeFile(t, "profile.json", `{"project_name": "", "budget": -5, "expected_users": 100,
"traffic_pattern": "STEADY", "region": "ap-south-1",
"tech_stack": {"backend": "Go", "frontend": "Vue", "database": "MySQL"}}`)

	_, _, err := run(t, "optimize", "-f", profile, "--no-llm")
	require.Error(t, err)
	require.True(t, models.IsValidationError(err))

	var buf bytes.Buffer
	printError(&buf, err)
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "project_name")
	assert.Contains(t, string(lines[2]), "budget")
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)

	_, _, err := run(t, "optimize", "-f", profile, "-o", "pdf")
	assert.Error(t, err)

	_, _, err = run(t, "optimize", "-f", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	unknown := writeFile(t, "profile.yaml", profileYAML+"colour: blue\n")
	_, _, err = run(t, "optimize", "-f", unknown, "--no-llm")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "estimate", "-f", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "Cost estimate for FoodieHub (ap-south-1)")
	assert.Contains(t, out, "EC2")
	assert.Contains(t, out, "₹56,000.00")
	assert.Contains(t, out, "Total")
}

func TestPatterns(t *testing.T) {
	profile := writeFile(t, "profile.yaml", profileYAML)

	out, _, err := run(t, "patterns", "-f", profile)
	require.NoError(t, err)
	assert.Contains(t, out, "PEAK_HOURS")
	assert.Contains(t, out, "12:00")
}

func TestPrintErrorPlain(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, assert.AnError)
	assert.Equal(t, "Error: "+assert.AnError.Error()+"\n", buf.String())
}
