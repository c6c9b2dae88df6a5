package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"prompt-contest-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository persists contest state through gorm. Writes are serialised
// by a process-wide lock so id assignment and capacity checks stay atomic.
type GormRepository struct {
	db   *gorm.DB
	mu   *sync.Mutex
	now  func() time.Time
	inTx bool
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, mu: &sync.Mutex{}, now: time.Now}
}

func (r *GormRepository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

func (r *GormRepository) FindParticipantByEmail(ctx context.Context, email string) (models.Participant, error) {
	var p models.Participant
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Participant{}, ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

func (r *GormRepository) CountParticipants(ctx context.Context) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Participant{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return int(count), nil
}

func (r *GormRepository) AppendParticipant(ctx context.Context, p *models.Participant) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		var maxID uint
		if err := tx.Model(&models.Participant{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return fmt.Errorf("next participant id: %w", err)
		}
		p.ID = maxID + 1
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("append participant: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	var subs []models.Submission
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (r *GormRepository) ListSubmissionsByParticipant(ctx context.Context, email string) ([]models.Submission, error) {
	var subs []models.Submission
	if err := r.db.WithContext(ctx).
		Where("LOWER(participant_email) = ?", strings.ToLower(email)).
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list participant submissions: %w", err)
	}
	return subs, nil
}

func (r *GormRepository) AppendSubmission(ctx context.Context, s *models.Submission) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&models.Submission{}).Select("COALESCE(MAX(id), 0)").Scan(&last).Error; err != nil {
			return fmt.Errorf("next submission id: %w", err)
		}
		s.ID = nextSubmissionID(last, r.now())
		if err := tx.Create(s).Error; err != nil {
			return fmt.Errorf("append submission: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) ClearSubmissions(ctx context.Context) error {
	return r.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Submission{}).Error; err != nil {
			return fmt.Errorf("clear submissions: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) Target(ctx context.Context) (models.Target, error) {
	var t models.Target
	err := r.db.WithContext(ctx).First(&t, models.TargetRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Target{}, ErrNotFound
	}
	if err != nil {
		return models.Target{}, fmt.Errorf("load target: %w", err)
	}
	return t, nil
}

func (r *GormRepository) SetTarget(ctx context.Context, t models.Target) error {
	t.ID = models.TargetRowID
	return r.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&t).Error; err != nil {
			return fmt.Errorf("set target: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) CurrentSession(ctx context.Context) (*models.Participant, error) {
	var cs models.CurrentSession
	err := r.db.WithContext(ctx).First(&cs, models.CurrentSessionRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && cs.ParticipantID == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load current session: %w", err)
	}

	var p models.Participant
	err = r.db.WithContext(ctx).First(&p, cs.ParticipantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session participant: %w", err)
	}
	return &p, nil
}

func (r *GormRepository) SetCurrentSession(ctx context.Context, p *models.Participant) error {
	cs := models.CurrentSession{ID: models.CurrentSessionRowID}
	if p != nil {
		cs.ParticipantID = p.ID
	}
	return r.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&cs).Error; err != nil {
			return fmt.Errorf("set current session: %w", err)
		}
		return nil
	})
}

// Atomically runs fn inside one transaction while holding the write lock.
// Writes made through the handed-in Repository join that transaction.
func (r *GormRepository) Atomically(ctx context.Context, fn func(Repository) error) error {
	if r.inTx {
		return fn(r)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx, mu: r.mu, now: r.now, inTx: true})
	})
}

func (r *GormRepository) write(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if r.inTx {
		return fn(r.db.WithContext(ctx))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.WithContext(ctx).Transaction(fn)
}
