package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionAttendee links a student to a scheduled session. The composite
// unique index closes the double-enrollment race at the storage layer.
type SessionAttendee struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"enrollment_id"`
	SessionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_student" json:"session_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_student" json:"student_id"`
	BookingTime time.Time `gorm:"not null" json:"booking_time"`

	CreatedAt time.Time `json:"-"`
}
