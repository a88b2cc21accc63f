package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
)

// SessionView is the caller-facing projection of a scheduled session.
// Host-only meeting fields (start URL, password) are populated for the
// hosting teacher only; student views carry the join URL alone.
type SessionView struct {
	SessionID           uuid.UUID `json:"session_id"`
	TeacherID           uuid.UUID `json:"teacher_id"`
	SessionType         string    `json:"session_type"`
	Title               *string   `json:"title"`
	Description         *string   `json:"description"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	Status              string    `json:"status"`
	IsPaid              bool      `json:"is_paid"`
	Price               *float64  `json:"price"`
	MaxAttendees        *int      `json:"max_attendees"`
	AttendeesCount      int64     `json:"attendees_count"`
	VideoConferenceLink *string   `json:"video_conference_link"`
	ZoomMeetingID       *string   `json:"zoom_meeting_id"`
	ZoomJoinURL         *string   `json:"zoom_join_url"`
	ZoomStartURL        *string   `json:"zoom_start_url,omitempty"`
	ZoomPassword        *string   `json:"zoom_password,omitempty"`
}

// EnrollmentResult is returned by group enrollment. Exactly one of Session
// or CheckoutSessionID is set: paid sessions hand off to payment before any
// attendee record exists.
type EnrollmentResult struct {
	Session           *SessionView `json:"session,omitempty"`
	CheckoutSessionID string       `json:"checkoutSessionId,omitempty"`
}

func newStudentSessionView(s *models.ScheduledSession, attendeesCount int64) *SessionView {
	return &SessionView{
		SessionID:           s.ID,
		TeacherID:           s.TeacherID,
		SessionType:         s.SessionType,
		Title:               s.Title,
		Description:         s.Description,
		StartTime:           s.StartTime,
		EndTime:             s.EndTime,
		Status:              s.Status,
		IsPaid:              s.IsPaid,
		Price:               s.Price,
		MaxAttendees:        s.MaxAttendees,
		AttendeesCount:      attendeesCount,
		VideoConferenceLink: s.ZoomJoinURL,
		ZoomMeetingID:       s.ZoomMeetingID,
		ZoomJoinURL:         s.ZoomJoinURL,
	}
}

func newTeacherSessionView(s *models.ScheduledSession, attendeesCount int64) *SessionView {
	view := newStudentSessionView(s, attendeesCount)
	view.ZoomStartURL = s.ZoomStartURL
	view.ZoomPassword = s.ZoomPassword
	return view
}
