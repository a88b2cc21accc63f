package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tutorlk/scheduling_backend/identity"
	"github.com/tutorlk/scheduling_backend/models"
	"github.com/tutorlk/scheduling_backend/repository"
	"gorm.io/gorm"
)

// Slots starting sooner than this from now are rejected; covers clock skew
// and network delays between the client and the server.
const slotLeadTime = 5 * time.Minute

type SlotInput struct {
	StartTime          string
	EndTime            string
	IsPaid             bool
	Price              *float64
	SessionDescription *string
}

type AvailabilityService struct {
	repo       repository.AvailabilityRepository
	defaultLoc *time.Location
}

func NewAvailabilityService(repo repository.AvailabilityRepository, defaultLoc *time.Location) *AvailabilityService {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &AvailabilityService{repo: repo, defaultLoc: defaultLoc}
}

// ReplaceForTeacher validates the whole batch before any write, then swaps
// the teacher's availability wholesale. A single invalid slot rejects the
// batch and leaves the stored slots untouched.
func (s *AvailabilityService) ReplaceForTeacher(ctx context.Context, teacherID string, inputs []SlotInput) error {
	teacherUUID := identity.EnsureUUID(teacherID)

	nowWithLead := time.Now().UTC().Add(slotLeadTime)

	slots := make([]models.AvailabilitySlot, 0, len(inputs))
	for _, in := range inputs {
		start, err := parseFlexibleTime(in.StartTime, s.defaultLoc)
		if err != nil {
			return NewValidationError("startTime and endTime must be valid ISO dates")
		}
		end, err := parseFlexibleTime(in.EndTime, s.defaultLoc)
		if err != nil {
			return NewValidationError("startTime and endTime must be valid ISO dates")
		}
		if !start.Before(end) {
			return NewValidationError("startTime must be before endTime")
		}
		if !start.After(nowWithLead) {
			return NewValidationError(fmt.Sprintf(
				"Cannot create availability in the past. Start time %s must be at least %d minutes after the current time.",
				start.Format(time.RFC3339), int(slotLeadTime.Minutes())))
		}

		slots = append(slots, models.AvailabilitySlot{
			StartTime:          start,
			EndTime:            end,
			IsBooked:           false,
			IsPaid:             in.IsPaid,
			PricePerSession:    in.Price,
			SessionDescription: in.SessionDescription,
		})
	}

	return s.repo.ReplaceForTeacher(ctx, teacherUUID, slots)
}

// ListOpen returns the teacher's unbooked slots, earliest first.
func (s *AvailabilityService) ListOpen(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	return s.repo.ListOpen(ctx, identity.EnsureUUID(teacherID))
}

func (s *AvailabilityService) FindByID(ctx context.Context, id string) (*models.AvailabilitySlot, error) {
	slot, err := s.repo.GetByID(ctx, identity.EnsureUUID(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Availability slot not found")
		}
		return nil, err
	}
	return slot, nil
}
