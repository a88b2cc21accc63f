package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
	"gorm.io/gorm"
)

var (
	ErrSessionFull     = errors.New("session is full")
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this session")
)

type AttendeeRepository interface {
	Count(ctx context.Context, sessionID uuid.UUID) (int64, error)
	IsEnrolled(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error)
	// Enroll inserts an attendee record for the session. The capacity check
	// and the insert run inside one transaction holding a write lock on the
	// session row, so two enrollers racing for the last seat cannot both
	// succeed. maxAttendees nil means unbounded. Returns the record and the
	// attendee count after the insert.
	Enroll(ctx context.Context, sessionID, studentID uuid.UUID, maxAttendees *int) (*models.SessionAttendee, int64, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.SessionAttendee, error)
}

type GormAttendeeRepository struct {
	db *gorm.DB
}

func NewGormAttendeeRepository(db *gorm.DB) *GormAttendeeRepository {
	return &GormAttendeeRepository{db: db}
}

func (r *GormAttendeeRepository) Count(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionAttendee{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *GormAttendeeRepository) IsEnrolled(ctx context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionAttendee{}).
		Where("session_id = ? AND student_id = ?", sessionID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormAttendeeRepository) Enroll(ctx context.Context, sessionID, studentID uuid.UUID, maxAttendees *int) (*models.SessionAttendee, int64, error) {
	attendee := &models.SessionAttendee{
		ID:          uuid.New(),
		SessionID:   sessionID,
		StudentID:   studentID,
		BookingTime: time.Now().UTC(),
	}

	var total int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Touching the session row takes a write lock that serializes
		// concurrent enrollments for the same session.
		res := tx.Model(&models.ScheduledSession{}).
			Where("id = ?", sessionID).
			Update("updated_at", time.Now().UTC())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var count int64
		if err := tx.Model(&models.SessionAttendee{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
			return err
		}
		if maxAttendees != nil && count >= int64(*maxAttendees) {
			return ErrSessionFull
		}

		if err := tx.Create(attendee).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyEnrolled
			}
			return err
		}

		total = count + 1
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return attendee, total, nil
}

func (r *GormAttendeeRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.SessionAttendee, error) {
	var attendees []models.SessionAttendee
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("booking_time desc").
		Find(&attendees).Error
	if err != nil {
		return nil, err
	}
	return attendees, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
