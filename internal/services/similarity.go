package services

import (
	"math"
	"strings"
)

const MaxSimilarity = 30

// Similarity counts prompt tokens that also occur in the reference and scales
// the count to [0, MaxSimilarity]. Tokens are lower-cased, whitespace
// separated and keep their punctuation. Repeated prompt tokens each count.
func Similarity(prompt, reference string) int {
	promptTokens := strings.Fields(strings.ToLower(prompt))
	refTokens := strings.Fields(strings.ToLower(reference))

	vocab := make(map[string]struct{}, len(refTokens))
	for _, tok := range refTokens {
		vocab[tok] = struct{}{}
	}

	common := 0
	for _, tok := range promptTokens {
		if _, ok := vocab[tok]; ok {
			common++
		}
	}

	score := int(math.Round(float64(MaxSimilarity) * float64(common) / float64(max(1, len(refTokens)))))
	return min(score, MaxSimilarity)
}
