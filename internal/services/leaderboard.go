package services

import (
	"math"
	"sort"
	"time"

	"prompt-contest-backend/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	TierGold   = "gold"
	TierSilver = "silver"
	TierBronze = "bronze"
)

type RankedEntry struct {
	Position   int               `json:"position"`
	Tier       string            `json:"tier,omitempty"`
	Submission models.Submission `json:"submission"`
}

type LeaderboardStats struct {
	MaxScore       int `json:"max_score"`
	AverageScore   int `json:"average_score"`
	BestSimilarity int `json:"best_similarity"`
	Count          int `json:"count"`
}

type Leaderboard struct {
	Entries []RankedEntry     `json:"entries"`
	Stats   *LeaderboardStats `json:"stats"`
}

type ExportRow struct {
	Rank       int       `json:"rank"`
	Score      int       `json:"score"`
	Similarity int       `json:"similarity"`
	Prompt     string    `json:"prompt"`
	Timestamp  time.Time `json:"timestamp"`
}

// Rank orders submissions by score, highest first. Equal scores rank the
// earlier submission higher, then the lower id. The input is not modified.
func Rank(subs []models.Submission) []RankedEntry {
	sorted := make([]models.Submission, len(subs))
	copy(sorted, subs)
	sort.SliceStable(sorted, func(a, b int) bool {
		return ranksBefore(sorted[a], sorted[b])
	})

	entries := make([]RankedEntry, len(sorted))
	for i, sub := range sorted {
		entries[i] = RankedEntry{
			Position:   i + 1,
			Tier:       tierFor(i + 1),
			Submission: sub,
		}
	}
	return entries
}

func ranksBefore(a, b models.Submission) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.ID < b.ID
}

func tierFor(position int) string {
	switch position {
	case 1:
		return TierGold
	case 2:
		return TierSilver
	case 3:
		return TierBronze
	default:
		return ""
	}
}

// Summarize computes the aggregate statistics. ok is false for an empty
// collection, which has no statistics.
func Summarize(subs []models.Submission) (stats LeaderboardStats, ok bool) {
	if len(subs) == 0 {
		return LeaderboardStats{}, false
	}

	scores := make([]float64, len(subs))
	similarities := make([]float64, len(subs))
	for i, s := range subs {
		scores[i] = float64(s.Score)
		similarities[i] = float64(s.Similarity)
	}

	return LeaderboardStats{
		MaxScore:       int(floats.Max(scores)),
		AverageScore:   int(math.Round(stat.Mean(scores, nil))),
		BestSimilarity: int(floats.Max(similarities)),
		Count:          len(subs),
	}, true
}

// BuildLeaderboard ranks and summarises one snapshot of submissions.
func BuildLeaderboard(subs []models.Submission) Leaderboard {
	lb := Leaderboard{Entries: Rank(subs)}
	if stats, ok := Summarize(subs); ok {
		lb.Stats = &stats
	}
	return lb
}

func ExportRows(entries []RankedEntry) []ExportRow {
	rows := make([]ExportRow, len(entries))
	for i, e := range entries {
		rows[i] = ExportRow{
			Rank:       e.Position,
			Score:      e.Submission.Score,
			Similarity: e.Submission.Similarity,
			Prompt:     e.Submission.Prompt,
			Timestamp:  e.Submission.SubmittedAt,
		}
	}
	return rows
}
