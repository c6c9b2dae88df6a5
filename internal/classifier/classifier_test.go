package classifier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T, seed int64) *Classifier {
	t.Helper()
	tax, err := DefaultTaxonomy()
	require.NoError(t, err)
	return New(tax, rand.New(rand.NewSource(seed)))
}

func TestClassifyPicksClosestCategory(t *testing.T) {
	c := newTestClassifier(t, 1)

	tests := []struct {
		prompt   string
		category string
	}{
		{"a cute orange cat sitting on a windowsill", "animal"},
		{"A majestic dragon soaring through a cloudy sunset sky", "dragon"},
		{"a red sports car racing down a neon lit street at night", "city"},
		{"astronaut floating near a purple nebula", "space"},
		{"a stack of pancakes with fresh fruit for breakfast", "food"},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			res := c.Classify(tt.prompt)
			assert.Equal(t, tt.category, res.Category)
			assert.False(t, res.Fallback)

			var images []string
			for _, cat := range c.taxonomy.Categories {
				if cat.Name == tt.category {
					images = cat.Images
				}
			}
			assert.Contains(t, images, res.ImageRef)
		})
	}
}

func TestClassifyTieKeepsDeclarationOrder(t *testing.T) {
	// "dragon" and "sunset" both weigh 7 here; dragon is declared first.
	c := newTestClassifier(t, 1)
	res := c.Classify("a dragon flying through a sunset sky")
	assert.Equal(t, "dragon", res.Category)
}

func TestClassifyIsReproducibleWithSeed(t *testing.T) {
	prompt := "a cute orange cat sitting on a windowsill"
	a := newTestClassifier(t, 42)
	b := newTestClassifier(t, 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Classify(prompt), b.Classify(prompt))
	}
}

func TestClassifyFallback(t *testing.T) {
	c := newTestClassifier(t, 1)
	fallback := c.taxonomy.Fallback
	require.Len(t, fallback, 5)

	// 26 runes + 'h' (104) = 130, 130 % 5 = 0
	res := c.Classify("hello there friend of mine")
	assert.True(t, res.Fallback)
	assert.Empty(t, res.Category)
	assert.Equal(t, fallback[0], res.ImageRef)

	// 6 runes + 'x' (120) = 126, 126 % 5 = 1
	assert.Equal(t, fallback[1], c.Classify("xyz qq").ImageRef)

	// stable across calls
	assert.Equal(t, c.Classify("xyz qq"), c.Classify("xyz qq"))

	empty := c.Classify("")
	assert.True(t, empty.Fallback)
	assert.Equal(t, fallback[0], empty.ImageRef)
}

func TestWordPassWithoutPartialCredit(t *testing.T) {
	tax, err := ParseTaxonomy([]byte(`
partial_weight: 0
categories:
  - name: dragon
    keywords: [fire breathing]
    images: [dragon.png]
  - name: forest
    keywords: [woodland]
    images: [forest.png]
fallback: [fallback.png]
`))
	require.NoError(t, err)
	c := New(tax, rand.New(rand.NewSource(1)))

	// no full keyword appears, but "fire" is part of "fire breathing"
	res := c.Classify("fire everywhere tonight")
	assert.Equal(t, "dragon", res.Category)
	assert.Equal(t, "dragon.png", res.ImageRef)

	// "woodlands" contains "woodland" so the scoring pass already wins
	assert.Equal(t, "forest", c.Classify("misty woodlands").Category)

	assert.True(t, c.Classify("nothing here").Fallback)
}

func TestParseTaxonomyValidation(t *testing.T) {
	tests := map[string]string{
		"no categories": `fallback: [a.png]`,
		"no fallback": `
categories:
  - name: a
    keywords: [x]
    images: [a.png]`,
		"no images": `
categories:
  - name: a
    keywords: [x]
fallback: [a.png]`,
		"duplicate": `
categories:
  - name: a
    keywords: [x]
    images: [a.png]
  - name: a
    keywords: [y]
    images: [b.png]
fallback: [a.png]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTaxonomy([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadTaxonomyDefault(t *testing.T) {
	tax, err := LoadTaxonomy("")
	require.NoError(t, err)
	assert.Equal(t, "dragon", tax.Categories[0].Name)
	assert.Equal(t, 1.0, tax.PartialWeight)

	_, err = LoadTaxonomy("/does/not/exist.yaml")
	assert.Error(t, err)
}
