package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"prompt-contest-backend/internal/models"
	"prompt-contest-backend/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type RegistrationService struct {
	repo            repository.Repository
	maxParticipants int
	now             func() time.Time
}

func NewRegistrationService(repo repository.Repository, maxParticipants int) *RegistrationService {
	return &RegistrationService{repo: repo, maxParticipants: maxParticipants, now: time.Now}
}

type Capacity struct {
	Registered int `json:"registered"`
	Max        int `json:"max"`
	Remaining  int `json:"remaining"`
}

// Register admits a participant. An email that is already registered returns
// the stored participant unchanged with created=false. Either way the
// participant becomes the current session.
func (s *RegistrationService) Register(ctx context.Context, name, email string) (models.Participant, bool, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return models.Participant{}, false, invalid("name", "name is required")
	}
	if email == "" {
		return models.Participant{}, false, invalid("email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return models.Participant{}, false, invalid("email", "%q is not a valid email address", email)
	}

	var (
		participant models.Participant
		created     bool
	)
	err := s.repo.Atomically(ctx, func(tx repository.Repository) error {
		existing, err := tx.FindParticipantByEmail(ctx, email)
		if err == nil {
			participant = existing
			return tx.SetCurrentSession(ctx, &existing)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		count, err := tx.CountParticipants(ctx)
		if err != nil {
			return err
		}
		if count >= s.maxParticipants {
			return &CapacityExceededError{Max: s.maxParticipants}
		}

		participant = models.Participant{
			Name:         name,
			Email:        email,
			RegisteredAt: s.now().UTC(),
		}
		if err := tx.AppendParticipant(ctx, &participant); err != nil {
			return err
		}
		created = true
		return tx.SetCurrentSession(ctx, &participant)
	})
	if err != nil {
		var capErr *CapacityExceededError
		if errors.As(err, &capErr) {
			return models.Participant{}, false, err
		}
		return models.Participant{}, false, fmt.Errorf("register participant: %w", err)
	}
	return participant, created, nil
}

func (s *RegistrationService) Capacity(ctx context.Context) (Capacity, error) {
	count, err := s.repo.CountParticipants(ctx)
	if err != nil {
		return Capacity{}, err
	}
	return Capacity{
		Registered: count,
		Max:        s.maxParticipants,
		Remaining:  max(0, s.maxParticipants-count),
	}, nil
}
