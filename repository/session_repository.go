package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.ScheduledSession) error
	// CreateWithAttendee persists a session and its first attendee in one
	// transaction so the two can never diverge.
	CreateWithAttendee(ctx context.Context, session *models.ScheduledSession, attendee *models.SessionAttendee) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduledSession, error)
	// ListGroupScheduled returns GROUP sessions still in SCHEDULED state,
	// start time ascending. Fullness is the caller's concern.
	ListGroupScheduled(ctx context.Context) ([]models.ScheduledSession, error)
	// ListByTeacher returns the teacher's sessions, start time descending.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.ScheduledSession, error)
	// CompleteEnded flips SCHEDULED sessions whose end time has passed to
	// COMPLETED and reports how many were updated.
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

func (r *GormSessionRepository) Create(ctx context.Context, session *models.ScheduledSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *GormSessionRepository) CreateWithAttendee(ctx context.Context, session *models.ScheduledSession, attendee *models.SessionAttendee) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if attendee.ID == uuid.Nil {
		attendee.ID = uuid.New()
	}
	attendee.SessionID = session.ID
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		return tx.Create(attendee).Error
	})
}

func (r *GormSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ScheduledSession, error) {
	var session models.ScheduledSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *GormSessionRepository) ListGroupScheduled(ctx context.Context) ([]models.ScheduledSession, error) {
	var sessions []models.ScheduledSession
	err := r.db.WithContext(ctx).
		Where("session_type = ? AND status = ?", models.SessionTypeGroup, models.SessionStatusScheduled).
		Order("start_time asc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.ScheduledSession, error) {
	var sessions []models.ScheduledSession
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("start_time desc").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *GormSessionRepository) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.ScheduledSession{}).
		Where("status = ? AND end_time < ?", models.SessionStatusScheduled, now).
		Update("status", models.SessionStatusCompleted)
	return res.RowsAffected, res.Error
}
