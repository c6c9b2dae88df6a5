package classifier

import (
	"math/rand"
	"strings"
	"sync"
	"unicode/utf8"
)

// minWordLen is the length a prompt word must exceed to earn partial credit.
const minWordLen = 3

type Result struct {
	Category string `json:"category"`
	ImageRef string `json:"image_ref"`
	Fallback bool   `json:"fallback"`
}

// Classifier maps a prompt to the closest taxonomy category and picks one of
// its images. Safe for concurrent use.
type Classifier struct {
	taxonomy *Taxonomy

	mu  sync.Mutex
	rng *rand.Rand
}

func New(taxonomy *Taxonomy, rng *rand.Rand) *Classifier {
	return &Classifier{taxonomy: taxonomy, rng: rng}
}

func (c *Classifier) Classify(prompt string) Result {
	lower := strings.ToLower(prompt)
	words := longWords(lower)

	best, bestScore := -1, 0.0
	for i, cat := range c.taxonomy.Categories {
		score := c.categoryScore(cat, lower, words)
		// later categories only take over on a strictly greater score
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 {
		best = c.wordPass(words)
	}
	if best < 0 {
		return Result{ImageRef: c.fallbackImage(prompt), Fallback: true}
	}

	cat := c.taxonomy.Categories[best]
	return Result{Category: cat.Name, ImageRef: c.pick(cat.Images)}
}

func (c *Classifier) categoryScore(cat Category, lower string, words []string) float64 {
	var score float64
	for _, kw := range cat.Keywords {
		if strings.Contains(lower, kw) {
			score += float64(len(kw))
		}
		for _, w := range words {
			if related(w, kw) {
				score += c.taxonomy.PartialWeight
			}
		}
	}
	return score
}

func (c *Classifier) wordPass(words []string) int {
	for _, w := range words {
		for i, cat := range c.taxonomy.Categories {
			for _, kw := range cat.Keywords {
				if related(w, kw) {
					return i
				}
			}
		}
	}
	return -1
}

// fallbackImage is deterministic: rune count plus the first rune's code point.
func (c *Classifier) fallbackImage(prompt string) string {
	h := utf8.RuneCountInString(prompt)
	if r, size := utf8.DecodeRuneInString(prompt); size > 0 {
		h += int(r)
	}
	return c.taxonomy.Fallback[h%len(c.taxonomy.Fallback)]
}

func (c *Classifier) pick(images []string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return images[c.rng.Intn(len(images))]
}

func related(word, keyword string) bool {
	return strings.Contains(keyword, word) || strings.Contains(word, keyword)
}

func longWords(lower string) []string {
	var words []string
	for _, w := range strings.Fields(lower) {
		if len(w) > minWordLen {
			words = append(words, w)
		}
	}
	return words
}
