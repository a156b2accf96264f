package memory

import "strings"

// duplicateTokens is how many leading content tokens the duplicate guard
// compares against existing summaries.
const duplicateTokens = 20

// duplicateThreshold is the overlap ratio above which create is refused.
const duplicateThreshold = 0.6

// Keywords lower-cases s and splits it on whitespace. No stemming, no stop
// words.
func Keywords(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func wordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Similarity is the share of the first 20 distinct content tokens that also
// appear as words of summary.
func Similarity(content, summary string) float64 {
	tokens := Keywords(content)
	if len(tokens) > duplicateTokens {
		tokens = tokens[:duplicateTokens]
	}
	candidate := wordSet(tokens)
	if len(candidate) == 0 {
		return 0
	}
	existing := wordSet(Keywords(summary))
	overlap := 0
	for w := range candidate {
		if existing[w] {
			overlap++
		}
	}
	return float64(overlap) / float64(len(candidate))
}
