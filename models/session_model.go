package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SessionTypeOneOnOne = "ONE_ON_ONE"
	SessionTypeGroup    = "GROUP"
)

const (
	SessionStatusScheduled = "SCHEDULED"
	SessionStatusCompleted = "COMPLETED"
	SessionStatusCanceled  = "CANCELED"
)

type ScheduledSession struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"session_id"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	SessionType string    `gorm:"size:20;not null" json:"session_type"`
	Title       *string   `gorm:"size:255" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	StartTime   time.Time `gorm:"not null" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	Status      string    `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"`
	IsPaid      bool      `gorm:"not null;default:false" json:"is_paid"`
	Price       *float64  `gorm:"type:numeric(10,2)" json:"price"`

	// nil means unbounded; always 1 for one-on-one sessions.
	MaxAttendees *int `json:"max_attendees"`

	ZoomMeetingID *string `gorm:"size:255" json:"zoom_meeting_id"`
	ZoomJoinURL   *string `gorm:"type:text" json:"zoom_join_url"`
	ZoomStartURL  *string `gorm:"type:text" json:"-"`
	ZoomPassword  *string `gorm:"size:50" json:"-"`

	Attendees []SessionAttendee `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
