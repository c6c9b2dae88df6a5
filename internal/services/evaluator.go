package services

import (
	"context"
	"math/rand"
	"sync"
)

const (
	MinBaseScore = 50
	MaxBaseScore = 80
)

// Evaluator produces the base quality score of a prompt before the
// similarity bonus is added.
type Evaluator interface {
	Evaluate(ctx context.Context, prompt, reference string) (int, error)
}

// RandomEvaluator draws the base score uniformly from [MinBaseScore, MaxBaseScore].
type RandomEvaluator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomEvaluator(rng *rand.Rand) *RandomEvaluator {
	return &RandomEvaluator{rng: rng}
}

func (e *RandomEvaluator) Evaluate(_ context.Context, _, _ string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return MinBaseScore + e.rng.Intn(MaxBaseScore-MinBaseScore+1), nil
}
