package services

import (
	"context"
	"fmt"
)

type ScoreResult struct {
	Score      int    `json:"score"`
	Similarity int    `json:"similarity"`
	Feedback   string `json:"feedback"`
}

// ScoringService combines the evaluator's base score with the similarity
// bonus into a 0-100 score.
type ScoringService struct {
	evaluator Evaluator
}

func NewScoringService(evaluator Evaluator) *ScoringService {
	return &ScoringService{evaluator: evaluator}
}

func (s *ScoringService) Score(ctx context.Context, prompt, reference string) (ScoreResult, error) {
	similarity := Similarity(prompt, reference)

	base, err := s.evaluator.Evaluate(ctx, prompt, reference)
	if err != nil {
		return ScoreResult{}, fmt.Errorf("evaluate prompt: %w", err)
	}
	base = min(max(base, 0), 100)

	score := min(100, base+similarity)
	return ScoreResult{
		Score:      score,
		Similarity: similarity,
		Feedback:   Feedback(score),
	}, nil
}

func Feedback(score int) string {
	switch {
	case score >= 90:
		return "Outstanding! Your prompt captures the reference almost perfectly."
	case score >= 75:
		return "Great work! Your prompt recreates most of the reference's key elements."
	case score >= 60:
		return "Good effort! Add more of the reference's details to climb higher."
	default:
		return "Keep experimenting! Study the reference and describe what you see more closely."
	}
}
