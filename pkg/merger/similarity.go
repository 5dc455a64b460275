package merger

import (
	"strings"
	"unicode"

	"k8s.io/apimachinery/pkg/util/sets"
)

// stopWords carry no meaning for telling two optimizations apart. The
// leading verbs are included so "Enable X" and "Use X" compare equal.
// Service names are dropped too: titles are only compared within one
// domain, where "RDS" or "EC2" adds nothing.
var stopWords = sets.New(
	"a", "an", "the", "and", "or", "for", "to", "of", "on", "in", "with",
	"by", "via", "from", "your", "all", "more",
	"enable", "implement", "use", "add", "configure", "adopt", "setup", "set",
	"aws", "amazon", "ec2", "rds", "s3",
)

// tokenize lowercases the title, strips punctuation and stop words and
// trims plurals. A title made only of stop words keeps its tokens.
func tokenize(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var kept []string
	for _, f := range fields {
		if !stopWords.Has(f) {
			kept = append(kept, singular(f))
		}
	}
	if len(kept) == 0 {
		for _, f := range fields {
			kept = append(kept, singular(f))
		}
	}
	return kept
}

func singular(w string) string {
	if len(w) > 4 && strings.HasSuffix(w, "ies") {
		return strings.TrimSuffix(w, "ies") + "y"
	}
	if len(w) > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// joinCompounds merges adjacent tokens whose concatenation is a single
// token on the other side, so "auto scaling" lines up with "autoscaling"
func joinCompounds(tokens []string, other sets.Set[string]) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) {
			joined := tokens[i] + tokens[i+1]
			if other.Has(joined) || other.Has(singular(joined)) {
				out = append(out, singular(joined))
				i++
				continue
			}
		}
		out = append(out, tokens[i])
	}
	return out
}

// Similarity returns the token-set Jaccard index of two titles after
// normalisation. Titles that compact to the same string score 1.
func Similarity(a, b string) float64 {
	ta, tb := tokenize(a), tokenize(b)
	ta = joinCompounds(ta, sets.New(tb...))
	tb = joinCompounds(tb, sets.New(ta...))

	if strings.Join(ta, "") == strings.Join(tb, "") {
		return 1
	}

	sa, sb := sets.New(ta...), sets.New(tb...)
	union := sa.Union(sb).Len()
	if union == 0 {
		return 0
	}
	return float64(sa.Intersection(sb).Len()) / float64(union)
}
