package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"prompt-contest-backend/internal/models"
)

type memoryState struct {
	participants []models.Participant
	submissions  []models.Submission
	target       *models.Target
	currentID    uint
	lastSubID    int64
	now          func() time.Time
}

// MemoryRepository keeps state in process. Every call takes the lock, so a
// single list call always sees one consistent snapshot.
type MemoryRepository struct {
	mu    sync.RWMutex
	state *memoryState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: &memoryState{now: time.Now}}
}

// NewMemoryRepositoryWithClock is used by tests that need fixed submission ids.
func NewMemoryRepositoryWithClock(now func() time.Time) *MemoryRepository {
	return &MemoryRepository{state: &memoryState{now: now}}
}

func (r *MemoryRepository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.listParticipants(), nil
}

func (r *MemoryRepository) FindParticipantByEmail(ctx context.Context, email string) (models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.findParticipantByEmail(email)
}

func (r *MemoryRepository) CountParticipants(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.state.participants), nil
}

func (r *MemoryRepository) AppendParticipant(ctx context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.appendParticipant(p)
	return nil
}

func (r *MemoryRepository) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.listSubmissions(), nil
}

func (r *MemoryRepository) ListSubmissionsByParticipant(ctx context.Context, email string) ([]models.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.listSubmissionsByParticipant(email), nil
}

func (r *MemoryRepository) AppendSubmission(ctx context.Context, s *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.appendSubmission(s)
	return nil
}

func (r *MemoryRepository) ClearSubmissions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.submissions = nil
	return nil
}

func (r *MemoryRepository) Target(ctx context.Context) (models.Target, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.getTarget()
}

func (r *MemoryRepository) SetTarget(ctx context.Context, t models.Target) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.setTarget(t)
	return nil
}

func (r *MemoryRepository) CurrentSession(ctx context.Context) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.currentSession(), nil
}

func (r *MemoryRepository) SetCurrentSession(ctx context.Context, p *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.setCurrentSession(p)
	return nil
}

// Atomically runs fn with the write lock held. The Repository handed to fn
// must not escape it.
func (r *MemoryRepository) Atomically(ctx context.Context, fn func(Repository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := r.state.clone()
	if err := fn(&lockedMemory{state: staged}); err != nil {
		return err
	}
	r.state = staged
	return nil
}

func (s *memoryState) clone() *memoryState {
	c := *s
	c.participants = append([]models.Participant(nil), s.participants...)
	c.submissions = append([]models.Submission(nil), s.submissions...)
	if s.target != nil {
		t := *s.target
		c.target = &t
	}
	return &c
}

func (s *memoryState) listParticipants() []models.Participant {
	out := make([]models.Participant, len(s.participants))
	copy(out, s.participants)
	return out
}

func (s *memoryState) findParticipantByEmail(email string) (models.Participant, error) {
	for _, p := range s.participants {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return models.Participant{}, ErrNotFound
}

func (s *memoryState) findParticipantByID(id uint) (models.Participant, bool) {
	for _, p := range s.participants {
		if p.ID == id {
			return p, true
		}
	}
	return models.Participant{}, false
}

func (s *memoryState) appendParticipant(p *models.Participant) {
	p.ID = uint(len(s.participants)) + 1
	s.participants = append(s.participants, *p)
}

func (s *memoryState) listSubmissions() []models.Submission {
	out := make([]models.Submission, len(s.submissions))
	copy(out, s.submissions)
	return out
}

func (s *memoryState) listSubmissionsByParticipant(email string) []models.Submission {
	var out []models.Submission
	for _, sub := range s.submissions {
		if strings.EqualFold(sub.ParticipantEmail, email) {
			out = append(out, sub)
		}
	}
	return out
}

func (s *memoryState) appendSubmission(sub *models.Submission) {
	sub.ID = nextSubmissionID(s.lastSubID, s.now())
	s.lastSubID = sub.ID
	s.submissions = append(s.submissions, *sub)
}

func (s *memoryState) getTarget() (models.Target, error) {
	if s.target == nil {
		return models.Target{}, ErrNotFound
	}
	return *s.target, nil
}

func (s *memoryState) setTarget(t models.Target) {
	t.ID = models.TargetRowID
	s.target = &t
}

func (s *memoryState) currentSession() *models.Participant {
	if s.currentID == 0 {
		return nil
	}
	p, ok := s.findParticipantByID(s.currentID)
	if !ok {
		return nil
	}
	return &p
}

func (s *memoryState) setCurrentSession(p *models.Participant) {
	if p == nil {
		s.currentID = 0
		return
	}
	s.currentID = p.ID
}

// lockedMemory is the view handed to Atomically callbacks; the caller
// already owns the lock.
type lockedMemory struct {
	state *memoryState
}

func (l *lockedMemory) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	return l.state.listParticipants(), nil
}

func (l *lockedMemory) FindParticipantByEmail(ctx context.Context, email string) (models.Participant, error) {
	return l.state.findParticipantByEmail(email)
}

func (l *lockedMemory) CountParticipants(ctx context.Context) (int, error) {
	return len(l.state.participants), nil
}

func (l *lockedMemory) AppendParticipant(ctx context.Context, p *models.Participant) error {
	l.state.appendParticipant(p)
	return nil
}

func (l *lockedMemory) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	return l.state.listSubmissions(), nil
}

func (l *lockedMemory) ListSubmissionsByParticipant(ctx context.Context, email string) ([]models.Submission, error) {
	return l.state.listSubmissionsByParticipant(email), nil
}

func (l *lockedMemory) AppendSubmission(ctx context.Context, s *models.Submission) error {
	l.state.appendSubmission(s)
	return nil
}

func (l *lockedMemory) ClearSubmissions(ctx context.Context) error {
	l.state.submissions = nil
	return nil
}

func (l *lockedMemory) Target(ctx context.Context) (models.Target, error) {
	return l.state.getTarget()
}

func (l *lockedMemory) SetTarget(ctx context.Context, t models.Target) error {
	l.state.setTarget(t)
	return nil
}

func (l *lockedMemory) CurrentSession(ctx context.Context) (*models.Participant, error) {
	return l.state.currentSession(), nil
}

func (l *lockedMemory) SetCurrentSession(ctx context.Context, p *models.Participant) error {
	l.state.setCurrentSession(p)
	return nil
}

func (l *lockedMemory) Atomically(ctx context.Context, fn func(Repository) error) error {
	return fn(l)
}
