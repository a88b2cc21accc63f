package models

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilitySlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`
	IsBooked  bool      `gorm:"not null;default:false" json:"is_booked"`
	IsPaid    bool      `gorm:"not null;default:false" json:"is_paid"`

	PricePerSession    *float64 `gorm:"type:numeric(10,2)" json:"price_per_session"`
	SessionDescription *string  `gorm:"size:500" json:"session_description"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
