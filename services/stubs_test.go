package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
	"github.com/tutorlk/scheduling_backend/repository"
	"github.com/tutorlk/scheduling_backend/zoom"
	"gorm.io/gorm"
)

type stubAvailabilityRepo struct {
	mu           sync.Mutex
	slots        map[uuid.UUID]*models.AvailabilitySlot
	released     []uuid.UUID
	replaceCalls int
	lastTeacher  uuid.UUID
	lastSlots    []models.AvailabilitySlot
	replaceErr   error
}

func newStubAvailabilityRepo() *stubAvailabilityRepo {
	return &stubAvailabilityRepo{slots: make(map[uuid.UUID]*models.AvailabilitySlot)}
}

func (r *stubAvailabilityRepo) addSlot(slot models.AvailabilitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := slot
	r.slots[slot.ID] = &copied
}

func (r *stubAvailabilityRepo) ReplaceForTeacher(_ context.Context, teacherID uuid.UUID, slots []models.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceCalls++
	r.lastTeacher = teacherID
	r.lastSlots = slots
	return r.replaceErr
}

func (r *stubAvailabilityRepo) ListOpen(_ context.Context, teacherID uuid.UUID) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.TeacherID == teacherID && !s.IsBooked {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubAvailabilityRepo) GetByID(_ context.Context, id uuid.UUID) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *stubAvailabilityRepo) MarkBooked(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.IsBooked {
		return repository.ErrSlotAlreadyBooked
	}
	s.IsBooked = true
	return nil
}

func (r *stubAvailabilityRepo) Release(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.slots[id]; ok {
		s.IsBooked = false
	}
	r.released = append(r.released, id)
	return nil
}

type stubSessionRepo struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*models.ScheduledSession
	attendees *stubAttendeeRepo
	createErr error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: make(map[uuid.UUID]*models.ScheduledSession)}
}

func (r *stubSessionRepo) addSession(s models.ScheduledSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := s
	r.sessions[s.ID] = &copied
}

func (r *stubSessionRepo) Create(_ context.Context, session *models.ScheduledSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *stubSessionRepo) CreateWithAttendee(ctx context.Context, session *models.ScheduledSession, attendee *models.SessionAttendee) error {
	if err := r.Create(ctx, session); err != nil {
		return err
	}
	attendee.SessionID = session.ID
	if attendee.ID == uuid.Nil {
		attendee.ID = uuid.New()
	}
	if r.attendees != nil {
		r.attendees.mu.Lock()
		r.attendees.records = append(r.attendees.records, *attendee)
		r.attendees.mu.Unlock()
	}
	return nil
}

func (r *stubSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ScheduledSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *stubSessionRepo) ListGroupScheduled(_ context.Context) ([]models.ScheduledSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ScheduledSession
	for _, s := range r.sessions {
		if s.SessionType == models.SessionTypeGroup && s.Status == models.SessionStatusScheduled {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]models.ScheduledSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ScheduledSession
	for _, s := range r.sessions {
		if s.TeacherID == teacherID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) CompleteEnded(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, s := range r.sessions {
		if s.Status == models.SessionStatusScheduled && s.EndTime.Before(now) {
			s.Status = models.SessionStatusCompleted
			updated++
		}
	}
	return updated, nil
}

type stubAttendeeRepo struct {
	mu      sync.Mutex
	records []models.SessionAttendee
}

func (r *stubAttendeeRepo) Count(_ context.Context, sessionID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countLocked(sessionID), nil
}

func (r *stubAttendeeRepo) countLocked(sessionID uuid.UUID) int64 {
	var n int64
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			n++
		}
	}
	return n
}

func (r *stubAttendeeRepo) IsEnrolled(_ context.Context, sessionID, studentID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.SessionID == sessionID && rec.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubAttendeeRepo) Enroll(_ context.Context, sessionID, studentID uuid.UUID, maxAttendees *int) (*models.SessionAttendee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := r.countLocked(sessionID)
	if maxAttendees != nil && count >= int64(*maxAttendees) {
		return nil, 0, repository.ErrSessionFull
	}
	for _, rec := range r.records {
		if rec.SessionID == sessionID && rec.StudentID == studentID {
			return nil, 0, repository.ErrAlreadyEnrolled
		}
	}
	attendee := models.SessionAttendee{
		ID:          uuid.New(),
		SessionID:   sessionID,
		StudentID:   studentID,
		BookingTime: time.Now().UTC(),
	}
	r.records = append(r.records, attendee)
	return &attendee, count + 1, nil
}

func (r *stubAttendeeRepo) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.SessionAttendee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SessionAttendee
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type stubProvisioner struct {
	mu      sync.Mutex
	meeting *zoom.Meeting
	err     error
	calls   int
}

func (p *stubProvisioner) CreateSessionMeeting(_ context.Context, _, _ string, _ time.Time, _ int) (*zoom.Meeting, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	copied := *p.meeting
	return &copied, nil
}

func testMeeting() *zoom.Meeting {
	return &zoom.Meeting{
		ID:       987654321,
		Topic:    "test meeting",
		JoinURL:  "https://zoom.us/j/987654321",
		StartURL: "https://zoom.us/s/987654321",
		Password: "abc12345",
	}
}
