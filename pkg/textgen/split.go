package textgen

import (
	"iter"
	"regexp"
	"strings"
)

var (
	markdownHeading = regexp.MustCompile(`^\s{0,3}#{1,4}\s+\S`)
	labelHeading    = regexp.MustCompile(`(?i)^\s*\**recommendation\s*#?\d+\**\s*[:.)-]`)
	boldNumbered    = regexp.MustCompile(`^\s*\d+[.)]\s*\*\*[^*]+\*\*`)
	boldWrapped     = regexp.MustCompile(`^\s*\*\*\d+[.)]\s*[^*]+\*\*`)
	plainNumbered   = regexp.MustCompile(`^\d+[.)]\s+\S`)
)

// headingStyle picks the strongest heading convention present in lines.
// Numbered lines only separate blocks when nothing more specific is used,
// so numbered implementation steps stay inside their block.
func headingStyle(lines []string) func(string) bool {
	for _, l := range lines {
		if markdownHeading.MatchString(l) || labelHeading.MatchString(l) {
			return func(s string) bool {
				return markdownHeading.MatchString(s) || labelHeading.MatchString(s)
			}
		}
	}
	isBold := func(s string) bool {
		return boldNumbered.MatchString(s) || boldWrapped.MatchString(s)
	}
	for _, l := range lines {
		if isBold(l) {
			return isBold
		}
	}
	return plainNumbered.MatchString
}

// SplitBlocks splits a generated response into one block per
// recommendation. Text before the first heading is dropped. Each block
// starts with its heading line.
func SplitBlocks(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		isHeading := headingStyle(lines)

		var current []string
		flush := func() bool {
			if len(current) == 0 {
				return true
			}
			block := strings.TrimSpace(strings.Join(current, "\n"))
			current = current[:0]
			if block == "" {
				return true
			}
			return yield(block)
		}

		started := false
		for _, line := range lines {
			if isHeading(line) {
				if !flush() {
					return
				}
				started = true
			}
			if started {
				current = append(current, line)
			}
		}
		flush()
	}
}
