package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"prompt-contest-backend/internal/classifier"
	"prompt-contest-backend/internal/models"
	"prompt-contest-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dragonReference = "a majestic dragon soaring through a cloudy sunset sky"

func newTestContest(t *testing.T, opts ContestOptions) (*ContestService, repository.Repository) {
	t.Helper()
	repo := repository.NewMemoryRepository()

	tax, err := classifier.DefaultTaxonomy()
	require.NoError(t, err)
	cls := classifier.New(tax, rand.New(rand.NewSource(1)))

	svc := NewContestService(
		repo,
		NewRegistrationService(repo, 80),
		cls,
		NewScoringService(fixedEvaluator{base: 60}),
		opts,
	)
	require.NoError(t, svc.EnsureTarget(context.Background(), models.Target{
		ImageRef:    "https://example.com/dragon.png",
		Description: dragonReference,
	}))
	return svc, repo
}

func TestSubmitScoresAndRecords(t *testing.T) {
	svc, repo := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	got, err := svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "  a dragon flying through a sunset sky "})
	require.NoError(t, err)

	assert.NotZero(t, got.ID)
	assert.Equal(t, "a dragon flying through a sunset sky", got.Prompt)
	assert.Equal(t, 7, got.WordCount)
	assert.Equal(t, 36, got.CharCount)
	assert.Equal(t, 20, got.Similarity)
	assert.Equal(t, 80, got.Score)
	assert.Equal(t, Feedback(80), got.Feedback)
	assert.Equal(t, "dragon", got.Category)
	assert.NotEmpty(t, got.GeneratedImageRef)
	assert.Equal(t, models.TargetSnapshot{ImageRef: "https://example.com/dragon.png", Description: dragonReference}, got.Target)
	assert.Equal(t, uint(1), got.ParticipantID)

	subs, err := repo.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, got, subs[0])
}

func TestSubmitUsesCurrentSession(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{Prompt: "a dragon flying through a sunset sky"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, _, err = svc.Register(ctx, "Grace", "grace@example.com")
	require.NoError(t, err)

	got, err := svc.Submit(ctx, SubmitInput{Prompt: "a dragon flying through a sunset sky"})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", got.ParticipantEmail)
}

func TestSubmitValidation(t *testing.T) {
	svc, repo := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	var verr *ValidationError

	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "only four words here"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "prompt", verr.Field)

	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "   "})
	require.ErrorAs(t, err, &verr)

	_, err = svc.Submit(ctx, SubmitInput{Email: "nobody@example.com", Prompt: "a dragon flying through a sunset sky"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	subs, err := repo.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitCancelledDuringProcessing(t *testing.T) {
	svc, repo := newTestContest(t, ContestOptions{MinPromptWords: 5, ProcessingDelay: time.Minute})
	_, _, err := svc.Register(context.Background(), "Ada", "ada@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "a dragon flying through a sunset sky"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	subs, err := repo.ListSubmissions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestTargetChangeKeepsSnapshots(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	before, err := svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "a dragon flying through a sunset sky"})
	require.NoError(t, err)

	target, err := svc.UpdateTarget(ctx, "https://example.com/forest.png", "a misty pine forest at dawn")
	require.NoError(t, err)
	assert.Equal(t, "a misty pine forest at dawn", target.Description)

	after, err := svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "a misty pine forest at dawn"})
	require.NoError(t, err)
	assert.Equal(t, 30, after.Similarity)
	assert.Equal(t, "https://example.com/forest.png", after.Target.ImageRef)

	history, err := svc.History(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, after.ID, history[0].ID)
	assert.Equal(t, before.Target, history[1].Target)
	assert.Equal(t, dragonReference, history[1].Target.Description)
}

func TestUpdateTargetValidation(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{})
	ctx := context.Background()

	var verr *ValidationError
	_, err := svc.UpdateTarget(ctx, "", "desc")
	require.ErrorAs(t, err, &verr)
	_, err = svc.UpdateTarget(ctx, "not a uri", "desc")
	require.ErrorAs(t, err, &verr)
	_, err = svc.UpdateTarget(ctx, "https://example.com/x.png", " ")
	require.ErrorAs(t, err, &verr)

	target, err := svc.CurrentTarget(ctx)
	require.NoError(t, err)
	assert.Equal(t, dragonReference, target.Description)
}

func TestEnsureTargetKeepsExisting(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{})
	ctx := context.Background()

	require.NoError(t, svc.EnsureTarget(ctx, models.Target{ImageRef: "https://example.com/other.png", Description: "other"}))
	target, err := svc.CurrentTarget(ctx)
	require.NoError(t, err)
	assert.Equal(t, dragonReference, target.Description)
}

func TestResetKeepsParticipants(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "a dragon flying through a sunset sky"})
	require.NoError(t, err)

	lb, err := svc.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 1)
	require.NotNil(t, lb.Stats)

	require.NoError(t, svc.Reset(ctx))

	lb, err = svc.Leaderboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, lb.Entries)
	assert.Nil(t, lb.Stats)

	participants, err := svc.Participants(ctx)
	require.NoError(t, err)
	assert.Len(t, participants, 1)
}

func TestExportFollowsRanking(t *testing.T) {
	svc, _ := newTestContest(t, ContestOptions{MinPromptWords: 5})
	ctx := context.Background()
	_, _, err := svc.Register(ctx, "Ada", "ada@example.com")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: "blue ocean waves at noon"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{Email: "ada@example.com", Prompt: dragonReference})
	require.NoError(t, err)

	rows, err := svc.Export(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 90, rows[0].Score)
	assert.Equal(t, dragonReference, rows[0].Prompt)
	assert.Equal(t, 60, rows[1].Score)
}
