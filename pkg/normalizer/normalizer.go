package normalizer

import (
	"iter"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/opscart/cloud-cost-optimizer/pkg/config"
	"github.com/opscart/cloud-cost-optimizer/pkg/logging"
	"github.com/opscart/cloud-cost-optimizer/pkg/models"
)

// Reasons a raw block is dropped
const (
	DropEmpty   = "empty"
	DropNoTitle = "no_title"
	DropNoSteps = "no_steps"
)

const maxDescriptionLength = 200

// Stats counts what happened to the raw blocks of one run
type Stats struct {
	Seen     int
	Accepted int
	Dropped  map[string]int
}

// Normalizer turns loosely formatted generated text into recommendation
// candidates. It never fails: blocks it cannot use are dropped and counted.
type Normalizer struct {
	cfg config.NormalizerConfig
	log logrus.FieldLogger
}

func New(cfg config.NormalizerConfig, log logrus.FieldLogger) *Normalizer {
	return &Normalizer{
		cfg: cfg,
		log: logging.OrDiscard(log),
	}
}

// Normalize consumes blocks and returns the usable candidates in input
// order. A nil sequence yields no candidates.
func (n *Normalizer) Normalize(blocks iter.Seq[string]) ([]*models.Recommendation, Stats) {
	stats := Stats{Dropped: map[string]int{}}
	if blocks == nil {
		return nil, stats
	}

	var out []*models.Recommendation
	for block := range blocks {
		stats.Seen++
		rec, reason := n.Parse(block)
		if rec == nil {
			stats.Dropped[reason]++
			n.log.WithFields(logrus.Fields{
				"reason": reason,
				"block":  stats.Seen,
			}).Debug("Dropped generated recommendation")
			continue
		}
		stats.Accepted++
		out = append(out, rec)
	}

	n.log.WithFields(logrus.Fields{
		"seen":     stats.Seen,
		"accepted": stats.Accepted,
	}).Debug("Normalized generated recommendations")
	return out, stats
}

// Parse extracts one candidate from a raw block. When the block is
// unusable it returns nil and the drop reason.
func (n *Normalizer) Parse(block string) (*models.Recommendation, string) {
	lines := nonBlankLines(block)
	if len(lines) == 0 {
		return nil, DropEmpty
	}

	var (
		title, service, description, impact string
		savingsText, riskText, complexText  string
		steps, prose                        []string
	)

	title = headingTitle(lines[0])
	if _, isField := parseField(lines[0]); isField {
		title = ""
	}

	for i, line := range lines {
		if f, ok := parseField(line); ok {
			switch f.name {
			case "title":
				title = f.value
			case "service":
				service = f.value
			case "savings":
				savingsText = f.value
			case "risk":
				riskText = f.value
			case "complexity":
				complexText = f.value
			case "impact":
				impact = f.value
			case "description":
				description = f.value
			case "steps":
				if m := listItem.FindStringSubmatch(f.value); m != nil {
					steps = n.addStep(steps, m[1])
				} else if f.value != "" {
					steps = n.addStep(steps, f.value)
				}
			}
			continue
		}
		if i == 0 {
			continue
		}
		if m := listItem.FindStringSubmatch(line); m != nil {
			steps = n.addStep(steps, m[1])
			continue
		}
		prose = append(prose, cleanText(line))
	}

	title = truncate(title, n.cfg.MaxTitleLength)
	if title == "" {
		return nil, DropNoTitle
	}
	if len(steps) == 0 {
		return nil, DropNoSteps
	}

	body := strings.Join(lines, "\n")
	rec := &models.Recommendation{
		Title:               title,
		ExpectedSavings:     n.savings(savingsText, body),
		Risk:                models.RiskMedium,
		Complexity:          models.ComplexityMedium,
		ImplementationSteps: steps,
		WorkloadMatch:       n.cfg.WorkloadMatch,
		Source:              models.SourceExternal,
	}
	rec.Domain, rec.Service = classify(service, title, body)

	if r, ok := models.ParseRiskLevel(firstWord(riskText)); ok {
		rec.Risk = r
	} else if r, ok := findRisk(body); ok {
		rec.Risk = r
	}
	if c, ok := models.ParseComplexityLevel(firstWord(complexText)); ok {
		rec.Complexity = c
	} else if c, ok := findComplexity(body); ok {
		rec.Complexity = c
	}

	if description == "" {
		description = strings.Join(prose, " ")
	}
	rec.Description = truncate(description, maxDescriptionLength)

	if impact == "" {
		impact = findImpact(prose)
	}
	if impact == "" {
		impact = "Reduces monthly cost"
	}
	rec.Impact = impact

	return rec, ""
}

// savings reads the savings field first and falls back to any currency
// amount in the block. Unknown savings are zero. Amounts are rounded to
// whole paise.
func (n *Normalizer) savings(fieldValue, body string) float64 {
	return math.Round(n.rawSavings(fieldValue, body)*100) / 100
}

func (n *Normalizer) rawSavings(fieldValue, body string) float64 {
	if fieldValue != "" {
		if v, ok := findSavings(fieldValue); ok {
			return v
		}
		if v, ok := parseAmount(fieldValue); ok {
			return v
		}
		return 0
	}
	if v, ok := findSavings(body); ok {
		return v
	}
	return 0
}

func (n *Normalizer) addStep(steps []string, raw string) []string {
	if len(steps) >= n.cfg.MaxSteps {
		return steps
	}
	step := cleanText(raw)
	if utf8.RuneCountInString(step) < n.cfg.MinStepLength {
		return steps
	}
	return append(steps, step)
}

func nonBlankLines(block string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func firstWord(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "*_.,;()")
	if i := strings.IndexAny(s, " \t,/(-"); i > 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}
