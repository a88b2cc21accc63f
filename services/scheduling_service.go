package services

import (
	"context"
	"errors"
	"log"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/identity"
	"github.com/tutorlk/scheduling_backend/models"
	"github.com/tutorlk/scheduling_backend/repository"
	"github.com/tutorlk/scheduling_backend/utils"
	"github.com/tutorlk/scheduling_backend/zoom"
	"gorm.io/gorm"
)

const defaultGroupCapacity = 10

type CreateGroupSessionInput struct {
	Title        string
	Description  *string
	StartTime    string
	EndTime      string
	IsPaid       bool
	Price        *float64
	MaxAttendees *int
}

// SchedulingService coordinates the availability store, the meeting
// provisioner, the session store and the enrollment ledger to run the two
// booking workflows.
type SchedulingService struct {
	availability repository.AvailabilityRepository
	sessions     repository.SessionRepository
	attendees    repository.AttendeeRepository
	meetings     zoom.MeetingProvisioner
	defaultLoc   *time.Location
}

func NewSchedulingService(
	availability repository.AvailabilityRepository,
	sessions repository.SessionRepository,
	attendees repository.AttendeeRepository,
	meetings zoom.MeetingProvisioner,
	defaultLoc *time.Location,
) *SchedulingService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &SchedulingService{
		availability: availability,
		sessions:     sessions,
		attendees:    attendees,
		meetings:     meetings,
		defaultLoc:   defaultLoc,
	}
}

// CreateGroupSession provisions a meeting for the window and persists the
// session. Nothing is persisted when provisioning fails.
func (s *SchedulingService) CreateGroupSession(ctx context.Context, teacherID string, in CreateGroupSessionInput) (*SessionView, error) {
	teacherUUID := identity.EnsureUUID(teacherID)

	start, err := parseFlexibleTime(in.StartTime, s.defaultLoc)
	if err != nil {
		return nil, NewValidationError("startTime and endTime must be valid ISO dates")
	}
	end, err := parseFlexibleTime(in.EndTime, s.defaultLoc)
	if err != nil {
		return nil, NewValidationError("startTime and endTime must be valid ISO dates")
	}
	if !start.Before(end) {
		return nil, NewValidationError("startTime must be before endTime")
	}

	log.Printf("Creating Zoom meeting for group session: %s", in.Title)
	meeting, err := s.meetings.CreateSessionMeeting(ctx, in.Title, "Group Session", start, durationMinutes(start, end))
	if err != nil {
		log.Printf("❌ Zoom meeting creation failed: %v", err)
		return nil, err
	}

	maxAttendees := defaultGroupCapacity
	if in.MaxAttendees != nil && *in.MaxAttendees > 0 {
		maxAttendees = *in.MaxAttendees
	}

	title := in.Title
	session := &models.ScheduledSession{
		TeacherID:    teacherUUID,
		SessionType:  models.SessionTypeGroup,
		Title:        &title,
		Description:  in.Description,
		StartTime:    start,
		EndTime:      end,
		Status:       models.SessionStatusScheduled,
		IsPaid:       in.IsPaid,
		Price:        in.Price,
		MaxAttendees: &maxAttendees,
		ZoomMeetingID: meetingIDString(meeting),
		ZoomJoinURL:   &meeting.JoinURL,
		ZoomStartURL:  &meeting.StartURL,
		ZoomPassword:  &meeting.Password,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return newTeacherSessionView(session, 0), nil
}

// BookOneOnOneSession books an open availability slot for the student. The
// slot transition is a single atomic conditional update; if provisioning or
// persistence fails after the slot was taken, the slot is released again
// before the error is surfaced.
func (s *SchedulingService) BookOneOnOneSession(ctx context.Context, studentID string, slotID string) (*SessionView, error) {
	studentUUID := identity.EnsureUUID(studentID)
	slotUUID := identity.EnsureUUID(slotID)

	slot, err := s.availability.GetByID(ctx, slotUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Availability slot not found")
		}
		return nil, err
	}
	if slot.IsBooked {
		return nil, NewConflictError("This time slot is already booked")
	}

	if err := s.availability.MarkBooked(ctx, slotUUID); err != nil {
		if errors.Is(err, repository.ErrSlotAlreadyBooked) {
			return nil, NewConflictError("This time slot is already booked")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Availability slot not found")
		}
		return nil, err
	}

	title := "One-on-One Session"
	if slot.SessionDescription != nil && *slot.SessionDescription != "" {
		title = *slot.SessionDescription
	}

	log.Printf("Creating Zoom meeting for session: %s", title)
	meeting, err := s.meetings.CreateSessionMeeting(ctx, title, "Individual Tutoring", slot.StartTime, durationMinutes(slot.StartTime, slot.EndTime))
	if err != nil {
		log.Printf("❌ Zoom meeting creation failed: %v", err)
		s.releaseSlot(ctx, slotUUID)
		return nil, err
	}

	maxAttendees := 1
	session := &models.ScheduledSession{
		TeacherID:    slot.TeacherID,
		SessionType:  models.SessionTypeOneOnOne,
		Title:        &title,
		Description:  slot.SessionDescription,
		StartTime:    slot.StartTime,
		EndTime:      slot.EndTime,
		Status:       models.SessionStatusScheduled,
		IsPaid:       slot.IsPaid,
		Price:        slot.PricePerSession,
		MaxAttendees: &maxAttendees,
		ZoomMeetingID: meetingIDString(meeting),
		ZoomJoinURL:   &meeting.JoinURL,
		ZoomStartURL:  &meeting.StartURL,
		ZoomPassword:  &meeting.Password,
	}
	attendee := &models.SessionAttendee{
		StudentID:   studentUUID,
		BookingTime: time.Now().UTC(),
	}

	if err := s.sessions.CreateWithAttendee(ctx, session, attendee); err != nil {
		s.releaseSlot(ctx, slotUUID)
		return nil, err
	}

	return newStudentSessionView(session, 1), nil
}

// EnrollGroupSession enrolls a student in a group session. Paid sessions
// return a checkout-session token and defer enrollment until payment
// confirms; no attendee record is written for them here.
func (s *SchedulingService) EnrollGroupSession(ctx context.Context, studentID string, sessionID string) (*EnrollmentResult, error) {
	studentUUID := identity.EnsureUUID(studentID)
	sessionUUID := identity.EnsureUUID(sessionID)

	session, err := s.sessions.GetByID(ctx, sessionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Session not found")
		}
		return nil, err
	}
	if session.SessionType != models.SessionTypeGroup {
		return nil, NewValidationError("This endpoint is only for group sessions")
	}

	count, err := s.attendees.Count(ctx, sessionUUID)
	if err != nil {
		return nil, err
	}
	if session.MaxAttendees != nil && count >= int64(*session.MaxAttendees) {
		return nil, NewConflictError("Session is full")
	}

	enrolled, err := s.attendees.IsEnrolled(ctx, sessionUUID, studentUUID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, NewConflictError("Student is already enrolled in this session")
	}

	if session.IsPaid {
		return &EnrollmentResult{CheckoutSessionID: utils.GenerateCheckoutSessionID()}, nil
	}

	_, total, err := s.attendees.Enroll(ctx, sessionUUID, studentUUID, session.MaxAttendees)
	if err != nil {
		if errors.Is(err, repository.ErrSessionFull) {
			return nil, NewConflictError("Session is full")
		}
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			return nil, NewConflictError("Student is already enrolled in this session")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Session not found")
		}
		return nil, err
	}

	return &EnrollmentResult{Session: newStudentSessionView(session, total)}, nil
}

// GetTeacherSessions returns the teacher's sessions with host meeting
// fields included, most recent window first.
func (s *SchedulingService) GetTeacherSessions(ctx context.Context, teacherID string) ([]*SessionView, error) {
	teacherUUID := identity.EnsureUUID(teacherID)

	sessions, err := s.sessions.ListByTeacher(ctx, teacherUUID)
	if err != nil {
		return nil, err
	}

	views := make([]*SessionView, 0, len(sessions))
	for i := range sessions {
		count, err := s.attendees.Count(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newTeacherSessionView(&sessions[i], count))
	}
	return views, nil
}

// GetStudentSessions returns the sessions the student is enrolled in, most
// recent window first, with host-only meeting fields redacted.
func (s *SchedulingService) GetStudentSessions(ctx context.Context, studentID string) ([]*SessionView, error) {
	studentUUID := identity.EnsureUUID(studentID)

	records, err := s.attendees.ListByStudent(ctx, studentUUID)
	if err != nil {
		return nil, err
	}

	views := make([]*SessionView, 0, len(records))
	for _, rec := range records {
		session, err := s.sessions.GetByID(ctx, rec.SessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		count, err := s.attendees.Count(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, newStudentSessionView(session, count))
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].StartTime.After(views[j].StartTime)
	})
	return views, nil
}

// GetOpenGroupSessions lists scheduled group sessions that still have free
// seats, earliest first. Full sessions are excluded, not deleted.
func (s *SchedulingService) GetOpenGroupSessions(ctx context.Context) ([]*SessionView, error) {
	sessions, err := s.sessions.ListGroupScheduled(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*SessionView, 0, len(sessions))
	for i := range sessions {
		count, err := s.attendees.Count(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		if sessions[i].MaxAttendees != nil && count >= int64(*sessions[i].MaxAttendees) {
			continue
		}
		views = append(views, newStudentSessionView(&sessions[i], count))
	}
	return views, nil
}

func (s *SchedulingService) releaseSlot(ctx context.Context, slotID uuid.UUID) {
	if err := s.availability.Release(ctx, slotID); err != nil {
		log.Printf("🔥 Failed to release slot %s after aborted booking: %v", slotID, err)
	}
}

func durationMinutes(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Minutes()))
}

func meetingIDString(m *zoom.Meeting) *string {
	id := strconv.FormatInt(m.ID, 10)
	return &id
}
