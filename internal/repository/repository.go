package repository

import (
	"context"
	"errors"
	"time"

	"prompt-contest-backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Repository holds the contest state: participants, submissions, the live
// target and the current-session pointer. Writers that must check and then
// act (registration) run inside Atomically.
type Repository interface {
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	FindParticipantByEmail(ctx context.Context, email string) (models.Participant, error)
	CountParticipants(ctx context.Context) (int, error)
	AppendParticipant(ctx context.Context, p *models.Participant) error

	ListSubmissions(ctx context.Context) ([]models.Submission, error)
	ListSubmissionsByParticipant(ctx context.Context, email string) ([]models.Submission, error)
	AppendSubmission(ctx context.Context, s *models.Submission) error
	ClearSubmissions(ctx context.Context) error

	Target(ctx context.Context) (models.Target, error)
	SetTarget(ctx context.Context, t models.Target) error

	CurrentSession(ctx context.Context) (*models.Participant, error)
	SetCurrentSession(ctx context.Context, p *models.Participant) error

	Atomically(ctx context.Context, fn func(Repository) error) error
}

// nextSubmissionID keeps ids timestamp based while staying strictly increasing.
func nextSubmissionID(last int64, now time.Time) int64 {
	id := now.UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id
}
