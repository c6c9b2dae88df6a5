package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"prompt-contest-backend/internal/classifier"
	"prompt-contest-backend/internal/models"
	"prompt-contest-backend/internal/repository"
)

type ContestOptions struct {
	MinPromptWords  int
	ProcessingDelay time.Duration
}

// ContestService is the entry point the presentation layer calls into.
type ContestService struct {
	repo         repository.Repository
	registration *RegistrationService
	classifier   *classifier.Classifier
	scoring      *ScoringService
	opts         ContestOptions
	now          func() time.Time
}

func NewContestService(
	repo repository.Repository,
	registration *RegistrationService,
	cls *classifier.Classifier,
	scoring *ScoringService,
	opts ContestOptions,
) *ContestService {
	return &ContestService{
		repo:         repo,
		registration: registration,
		classifier:   cls,
		scoring:      scoring,
		opts:         opts,
		now:          time.Now,
	}
}

type SubmitInput struct {
	Email  string
	Prompt string
}

func (s *ContestService) Register(ctx context.Context, name, email string) (models.Participant, bool, error) {
	p, created, err := s.registration.Register(ctx, name, email)
	if err != nil {
		return models.Participant{}, false, err
	}
	if created {
		log.Printf("contest: participant %d registered (%s)", p.ID, p.Email)
	}
	return p, created, nil
}

func (s *ContestService) Capacity(ctx context.Context) (Capacity, error) {
	return s.registration.Capacity(ctx)
}

func (s *ContestService) CurrentParticipant(ctx context.Context) (*models.Participant, error) {
	return s.repo.CurrentSession(ctx)
}

func (s *ContestService) Participants(ctx context.Context) ([]models.Participant, error) {
	return s.repo.ListParticipants(ctx)
}

func (s *ContestService) CurrentTarget(ctx context.Context) (models.Target, error) {
	return s.repo.Target(ctx)
}

// EnsureTarget stores def as the target if none has been set yet.
func (s *ContestService) EnsureTarget(ctx context.Context, def models.Target) error {
	_, err := s.repo.Target(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.UpdateTarget(ctx, def.ImageRef, def.Description)
	return err
}

// UpdateTarget replaces the live target. Submissions already recorded keep
// their own snapshot.
func (s *ContestService) UpdateTarget(ctx context.Context, imageRef, description string) (models.Target, error) {
	imageRef = strings.TrimSpace(imageRef)
	description = strings.TrimSpace(description)

	if imageRef == "" {
		return models.Target{}, invalid("image_ref", "image reference is required")
	}
	if u, err := url.ParseRequestURI(imageRef); err != nil || u.Scheme == "" {
		return models.Target{}, invalid("image_ref", "%q is not an absolute URI", imageRef)
	}
	if description == "" {
		return models.Target{}, invalid("description", "description is required")
	}

	target := models.Target{ImageRef: imageRef, Description: description, UpdatedAt: s.now().UTC()}
	if err := s.repo.SetTarget(ctx, target); err != nil {
		return models.Target{}, fmt.Errorf("update target: %w", err)
	}
	log.Printf("contest: target replaced (%s)", imageRef)
	return s.repo.Target(ctx)
}

// Reset deletes every submission. Participants are kept.
func (s *ContestService) Reset(ctx context.Context) error {
	if err := s.repo.ClearSubmissions(ctx); err != nil {
		return fmt.Errorf("reset contest: %w", err)
	}
	log.Println("contest: submissions cleared")
	return nil
}

// Submit scores a prompt for a registered participant and records it. The
// participant is looked up by email, or taken from the current session when
// no email is given. Nothing is written unless scoring completes.
func (s *ContestService) Submit(ctx context.Context, in SubmitInput) (models.Submission, error) {
	prompt := strings.TrimSpace(in.Prompt)
	words := len(strings.Fields(prompt))
	if words < s.opts.MinPromptWords {
		return models.Submission{}, invalid("prompt", "prompt must have at least %d words, got %d", s.opts.MinPromptWords, words)
	}

	participant, err := s.resolveParticipant(ctx, in.Email)
	if err != nil {
		return models.Submission{}, err
	}

	target, err := s.repo.Target(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Submission{}, invalid("target", "no active target")
	}
	if err != nil {
		return models.Submission{}, err
	}

	if err := s.wait(ctx); err != nil {
		return models.Submission{}, err
	}

	classified := s.classifier.Classify(prompt)
	result, err := s.scoring.Score(ctx, prompt, target.Description)
	if err != nil {
		return models.Submission{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		ParticipantID:     participant.ID,
		ParticipantEmail:  participant.Email,
		Prompt:            prompt,
		WordCount:         words,
		CharCount:         utf8.RuneCountInString(prompt),
		Target:            target.Snapshot(),
		Category:          classified.Category,
		GeneratedImageRef: classified.ImageRef,
		Score:             result.Score,
		Similarity:        result.Similarity,
		Feedback:          result.Feedback,
		SubmittedAt:       s.now().UTC(),
	}
	if err := s.repo.AppendSubmission(ctx, &sub); err != nil {
		return models.Submission{}, fmt.Errorf("record submission: %w", err)
	}

	log.Printf("contest: submission %d by %s scored %d (+%d similarity)", sub.ID, sub.ParticipantEmail, sub.Score, sub.Similarity)
	return sub, nil
}

func (s *ContestService) resolveParticipant(ctx context.Context, email string) (models.Participant, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		current, err := s.repo.CurrentSession(ctx)
		if err != nil {
			return models.Participant{}, err
		}
		if current == nil {
			return models.Participant{}, invalid("email", "no registered participant in session")
		}
		return *current, nil
	}

	p, err := s.repo.FindParticipantByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Participant{}, invalid("email", "%s is not registered", email)
	}
	return p, err
}

func (s *ContestService) wait(ctx context.Context) error {
	if s.opts.ProcessingDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.ProcessingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// History returns a participant's submissions, newest first.
func (s *ContestService) History(ctx context.Context, email string) ([]models.Submission, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email", "email is required")
	}
	subs, err := s.repo.ListSubmissionsByParticipant(ctx, email)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(a, b int) bool { return subs[a].ID > subs[b].ID })
	return subs, nil
}

func (s *ContestService) Leaderboard(ctx context.Context) (Leaderboard, error) {
	subs, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return Leaderboard{}, err
	}
	return BuildLeaderboard(subs), nil
}

func (s *ContestService) Export(ctx context.Context) ([]ExportRow, error) {
	lb, err := s.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return ExportRows(lb.Entries), nil
}
