package normalizer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

var (
	// fieldLine matches "Label: value" with optional list and bold markers,
	// e.g. "- **Risk:** High" or "**Savings**: ₹4,000"
	fieldLine = regexp.MustCompile(`(?i)^\s*(?:[-*•]\s+)?\*{0,2}\s*` +
		`(title|service|(?:expected |estimated |monthly )?savings|risk(?: level)?|complexity|effort|impact|description|(?:implementation )?steps)` +
		`\s*(?::\*{0,2}|\*{0,2}\s*:)\s*(.*)$`)
	listItem    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+(.+)$`)
	headingMark = regexp.MustCompile(`^\s*(?:#{1,6}\s*)?(?:\d+[.)]\s*)?`)
	labelMark   = regexp.MustCompile(`(?i)^\**\s*recommendation\s*#?\d+\s*\**\s*[:.)-]?\s*\**\s*`)
	boldSpan    = regexp.MustCompile(`\*\*([^*]+)\*\*`)

	numberPattern  = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(k\b|%)?`)
	savingsPattern = []*regexp.Regexp{
		regexp.MustCompile(`(?i)₹\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b)?`),
		regexp.MustCompile(`(?i)\b(?:inr|rs\.?)\s*(\d[\d,]*(?:\.\d+)?)\s*(k\b)?`),
		regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(k\b)?\s*(?:inr|rupees?)\b`),
		regexp.MustCompile(`(?i)\bsav(?:e|es|ing|ings)\b\D{0,40}?(\d[\d,]*(?:\.\d+)?)\s*(k\b|%)?`),
	}
	riskPhrase       = regexp.MustCompile(`(?i)\b(low|medium|moderate|high)[ -]risk\b`)
	complexityPhrase = regexp.MustCompile(`(?i)\b(low|medium|moderate|high)[ -]complexity\b`)
	impactWords      = regexp.MustCompile(`(?i)\b(impact|performance|benefit|improv)`)
)

// field is a recognised "Label: value" line
type field struct {
	name  string
	value string
}

func parseField(line string) (field, bool) {
	m := fieldLine.FindStringSubmatch(line)
	if m == nil {
		return field{}, false
	}
	name := strings.ToLower(m[1])
	switch {
	case strings.HasSuffix(name, "savings"):
		name = "savings"
	case strings.HasPrefix(name, "risk"):
		name = "risk"
	case name == "effort":
		name = "complexity"
	case strings.HasSuffix(name, "steps"):
		name = "steps"
	}
	return field{name: name, value: cleanText(m[2])}, true
}

// cleanText strips markdown emphasis and surrounding whitespace
func cleanText(s string) string {
	s = boldSpan.ReplaceAllString(s, "$1")
	s = strings.Trim(strings.TrimSpace(s), "*_`")
	return strings.TrimSpace(s)
}

// headingTitle extracts the title from a block's heading line
func headingTitle(line string) string {
	t := headingMark.ReplaceAllString(line, "")
	t = labelMark.ReplaceAllString(t, "")
	if m := boldSpan.FindStringSubmatch(t); m != nil {
		t = headingMark.ReplaceAllString(m[1], "")
	}
	t = cleanText(t)
	return strings.TrimSpace(strings.TrimSuffix(t, ":"))
}

// parseAmount reads the first number in s. Percentages are not amounts.
func parseAmount(s string) (float64, bool) {
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return toAmount(m[1], m[2])
}

func toAmount(num, suffix string) (float64, bool) {
	if suffix == "%" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(num, ",", ""), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	if strings.EqualFold(suffix, "k") {
		v *= 1000
	}
	return v, true
}

// findSavings scans free text for a currency amount
func findSavings(text string) (float64, bool) {
	for _, re := range savingsPattern {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := toAmount(m[1], m[2]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func findRisk(text string) (models.RiskLevel, bool) {
	if m := riskPhrase.FindStringSubmatch(text); m != nil {
		return models.ParseRiskLevel(m[1])
	}
	return "", false
}

func findComplexity(text string) (models.ComplexityLevel, bool) {
	if m := complexityPhrase.FindStringSubmatch(text); m != nil {
		return models.ParseComplexityLevel(m[1])
	}
	return "", false
}

// findImpact returns the first sentence that talks about impact
func findImpact(prose []string) string {
	for _, line := range prose {
		for _, sentence := range strings.Split(line, ".") {
			if impactWords.MatchString(sentence) {
				return strings.TrimSpace(sentence)
			}
		}
	}
	return ""
}
