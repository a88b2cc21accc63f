package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tutorlk/scheduling_backend/models"
	"gorm.io/gorm"
)

func seedGroupSession(t *testing.T, db *gorm.DB, maxAttendees int) *models.ScheduledSession {
	t.Helper()

	title := "Algebra study group"
	max := maxAttendees
	session := &models.ScheduledSession{
		ID:           uuid.New(),
		TeacherID:    uuid.New(),
		SessionType:  models.SessionTypeGroup,
		Title:        &title,
		StartTime:    time.Date(2099, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2099, 1, 1, 11, 0, 0, 0, time.UTC),
		Status:       models.SessionStatusScheduled,
		MaxAttendees: &max,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return session
}

func TestEnroll_InsertsAndCounts(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)
	ctx := context.Background()
	session := seedGroupSession(t, db, 5)
	studentID := uuid.New()

	attendee, total, err := repo.Enroll(ctx, session.ID, studentID, session.MaxAttendees)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected count 1 after enroll, got %d", total)
	}
	if attendee.SessionID != session.ID || attendee.StudentID != studentID {
		t.Fatalf("attendee record has wrong keys: %+v", attendee)
	}

	enrolled, err := repo.IsEnrolled(ctx, session.ID, studentID)
	if err != nil {
		t.Fatalf("is enrolled: %v", err)
	}
	if !enrolled {
		t.Fatalf("student should be enrolled")
	}
}

func TestEnroll_RejectsWhenFull(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)
	ctx := context.Background()
	session := seedGroupSession(t, db, 1)

	if _, _, err := repo.Enroll(ctx, session.ID, uuid.New(), session.MaxAttendees); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	_, _, err := repo.Enroll(ctx, session.ID, uuid.New(), session.MaxAttendees)
	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("expected ErrSessionFull, got %v", err)
	}

	count, err := repo.Count(ctx, session.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("capacity exceeded: count=%d", count)
	}
}

func TestEnroll_RejectsDuplicateStudent(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)
	ctx := context.Background()
	session := seedGroupSession(t, db, 5)
	studentID := uuid.New()

	if _, _, err := repo.Enroll(ctx, session.ID, studentID, session.MaxAttendees); err != nil {
		t.Fatalf("first enroll: %v", err)
	}

	_, _, err := repo.Enroll(ctx, session.ID, studentID, session.MaxAttendees)
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}

	count, err := repo.Count(ctx, session.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("duplicate enrollment was persisted: count=%d", count)
	}
}

func TestEnroll_MissingSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)

	_, _, err := repo.Enroll(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected gorm.ErrRecordNotFound, got %v", err)
	}
}

func TestEnroll_UnboundedWhenMaxNil(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)
	ctx := context.Background()
	session := seedGroupSession(t, db, 1)

	for i := 0; i < 3; i++ {
		if _, _, err := repo.Enroll(ctx, session.ID, uuid.New(), nil); err != nil {
			t.Fatalf("enroll %d with nil max: %v", i, err)
		}
	}
}

func TestListByStudent(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormAttendeeRepository(db)
	ctx := context.Background()
	studentID := uuid.New()

	first := seedGroupSession(t, db, 5)
	second := seedGroupSession(t, db, 5)
	if _, _, err := repo.Enroll(ctx, first.ID, studentID, first.MaxAttendees); err != nil {
		t.Fatalf("enroll first: %v", err)
	}
	if _, _, err := repo.Enroll(ctx, second.ID, studentID, second.MaxAttendees); err != nil {
		t.Fatalf("enroll second: %v", err)
	}
	if _, _, err := repo.Enroll(ctx, second.ID, uuid.New(), second.MaxAttendees); err != nil {
		t.Fatalf("enroll other student: %v", err)
	}

	records, err := repo.ListByStudent(ctx, studentID)
	if err != nil {
		t.Fatalf("list by student: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 enrollments, got %d", len(records))
	}
	for _, rec := range records {
		if rec.StudentID != studentID {
			t.Fatalf("foreign enrollment returned: %+v", rec)
		}
	}
}
