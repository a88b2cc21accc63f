package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
	"gorm.io/gorm"
)

var (
	// ErrSlotAlreadyBooked is returned when the booked transition loses
	// the race: the slot exists but another caller flipped it first.
	ErrSlotAlreadyBooked = errors.New("availability slot is already booked")
)

type AvailabilityRepository interface {
	// ReplaceForTeacher deletes every slot of the teacher and inserts the
	// given set in a single transaction.
	ReplaceForTeacher(ctx context.Context, teacherID uuid.UUID, slots []models.AvailabilitySlot) error
	// ListOpen returns the teacher's unbooked slots, start time ascending.
	ListOpen(ctx context.Context, teacherID uuid.UUID) ([]models.AvailabilitySlot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.AvailabilitySlot, error)
	// MarkBooked flips is_booked from false to true as one conditional
	// update. Zero affected rows means either the slot is gone
	// (gorm.ErrRecordNotFound) or someone else won (ErrSlotAlreadyBooked).
	MarkBooked(ctx context.Context, id uuid.UUID) error
	// Release reopens a slot after a failed booking attempt.
	Release(ctx context.Context, id uuid.UUID) error
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) ReplaceForTeacher(ctx context.Context, teacherID uuid.UUID, slots []models.AvailabilitySlot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_id = ?", teacherID).Delete(&models.AvailabilitySlot{}).Error; err != nil {
			return err
		}
		for i := range slots {
			if slots[i].ID == uuid.Nil {
				slots[i].ID = uuid.New()
			}
			slots[i].TeacherID = teacherID
		}
		if len(slots) == 0 {
			return nil
		}
		return tx.Create(&slots).Error
	})
}

func (r *GormAvailabilityRepository) ListOpen(ctx context.Context, teacherID uuid.UUID) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND is_booked = ?", teacherID, false).
		Order("start_time asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *GormAvailabilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormAvailabilityRepository) MarkBooked(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", id, false).
		Updates(map[string]interface{}{"is_booked": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.AvailabilitySlot{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrSlotAlreadyBooked
	}
	return nil
}

func (r *GormAvailabilityRepository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.AvailabilitySlot{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_booked": false, "updated_at": time.Now().UTC()}).Error
}
