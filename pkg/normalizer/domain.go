package normalizer

import (
	"regexp"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

type domainRule struct {
	domain  models.Domain
	service string
	pattern *regexp.Regexp
}

// domainRules is checked in order; earlier entries win ties
var domainRules = []domainRule{
	{models.DomainCompute, models.ServiceEC2, regexp.MustCompile(
		`(?i)\b(ec2|instance|compute|cpu|vcpu|memory|server|auto ?scal|spot|graviton|arm\b|reserved|savings plan|lambda|serverless|container|fargate|kubernetes|right-?siz)`)},
	{models.DomainDatabase, models.ServiceRDS, regexp.MustCompile(
		`(?i)\b(rds|database|db\b|sql|postgres|mysql|aurora|dynamo|replica|query|queries|connection pool)`)},
	{models.DomainStorage, models.ServiceStorage, regexp.MustCompile(
		`(?i)\b(s3|storage|bucket|ebs|volume|glacier|lifecycle|tiering|archiv|snapshot|backup|compress)`)},
	{models.DomainNetwork, "Network", regexp.MustCompile(
		`(?i)\b(cdn|cloudfront|network|data transfer|bandwidth|egress|load balancer|alb\b|elb\b|nat gateway|vpc)`)},
	{models.DomainMonitoring, models.ServiceMonitoring, regexp.MustCompile(
		`(?i)\b(cloudwatch|monitoring|logs?\b|logging|metric|alarm|tracing|observability)`)},
}

// inferDomain scores text against each domain's keywords and returns the
// best match, or general when nothing matches
func inferDomain(text string) (models.Domain, string, bool) {
	best, bestScore := -1, 0
	for i, r := range domainRules {
		if score := len(r.pattern.FindAllStringIndex(text, -1)); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return models.DomainGeneral, "General", false
	}
	return domainRules[best].domain, domainRules[best].service, true
}

// classify prefers an explicit service field, then the title, then the
// whole block
func classify(service, title, body string) (models.Domain, string) {
	if service != "" {
		if d, s, ok := inferDomain(service); ok {
			return d, s
		}
	}
	if d, s, ok := inferDomain(title); ok {
		return d, s
	}
	d, s, _ := inferDomain(body)
	return d, s
}
