package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEvaluator struct {
	base int
	err  error
}

func (f fixedEvaluator) Evaluate(context.Context, string, string) (int, error) {
	return f.base, f.err
}

func TestRandomEvaluatorRange(t *testing.T) {
	e := NewRandomEvaluator(rand.New(rand.NewSource(7)))
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		base, err := e.Evaluate(context.Background(), "p", "r")
		require.NoError(t, err)
		require.GreaterOrEqual(t, base, MinBaseScore)
		require.LessOrEqual(t, base, MaxBaseScore)
		seen[base] = true
	}
	assert.True(t, seen[MinBaseScore])
	assert.True(t, seen[MaxBaseScore])
}

func TestScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	vocab := strings.Fields("a dragon sky sunset cloudy golden light majestic soaring through forest cat neon city the of")
	randomText := func() string {
		n := rng.Intn(15)
		words := make([]string, n)
		for i := range words {
			words[i] = vocab[rng.Intn(len(vocab))]
		}
		return strings.Join(words, " ")
	}

	s := NewScoringService(NewRandomEvaluator(rand.New(rand.NewSource(1))))
	for i := 0; i < 1000; i++ {
		prompt, ref := randomText(), randomText()
		res, err := s.Score(context.Background(), prompt, ref)
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Score, 0, fmt.Sprintf("prompt=%q ref=%q", prompt, ref))
		require.LessOrEqual(t, res.Score, 100)
		require.GreaterOrEqual(t, res.Similarity, 0)
		require.LessOrEqual(t, res.Similarity, MaxSimilarity)
		require.NotEmpty(t, res.Feedback)
	}
}

func TestScoreIsMonotonicInSimilarity(t *testing.T) {
	const ref = "a majestic dragon soaring through a cloudy sunset sky"
	s := NewScoringService(fixedEvaluator{base: 65})
	ctx := context.Background()

	low, err := s.Score(ctx, "blue ocean waves at noon", ref)
	require.NoError(t, err)
	mid, err := s.Score(ctx, "a dragon flying through a sunset sky", ref)
	require.NoError(t, err)
	high, err := s.Score(ctx, ref, ref)
	require.NoError(t, err)

	assert.Equal(t, 65, low.Score)
	assert.Equal(t, 85, mid.Score)
	assert.Equal(t, 95, high.Score)
	assert.LessOrEqual(t, low.Score, mid.Score)
	assert.LessOrEqual(t, mid.Score, high.Score)
}

func TestScoreClampsTo100(t *testing.T) {
	s := NewScoringService(fixedEvaluator{base: 95})
	res, err := s.Score(context.Background(), "dragon sky", "dragon sky")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 30, res.Similarity)
}

func TestScoreEvaluatorError(t *testing.T) {
	s := NewScoringService(fixedEvaluator{err: errors.New("model down")})
	_, err := s.Score(context.Background(), "p", "r")
	assert.Error(t, err)
}

func TestFeedbackTiers(t *testing.T) {
	tiers := map[int]string{
		100: Feedback(90),
		89:  Feedback(75),
		74:  Feedback(60),
		59:  Feedback(0),
	}
	for score, want := range tiers {
		assert.Equal(t, want, Feedback(score), "score %d", score)
	}
	assert.NotEqual(t, Feedback(90), Feedback(89))
	assert.NotEqual(t, Feedback(75), Feedback(74))
	assert.NotEqual(t, Feedback(60), Feedback(59))
}
