package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"rezerv/internal/bookings/repository"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/metrics"
	"rezerv/pkg/model"
)

// Request carries the raw availability query parameters. Empty WorkStart,
// WorkEnd and SlotMinutes fall back to the configured defaults.
type Request struct {
	ResourceID  string
	Date        string
	WorkStart   string
	WorkEnd     string
	SlotMinutes string
}

type AvailabilityService interface {
	Compute(ctx context.Context, req Request) (*model.Availability, error)
}

type availabilityService struct {
	bookings repository.BookingRepository
	cfg      *config.Config
}

func NewAvailabilityService(bookings repository.BookingRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		cfg:      cfg,
	}
}

// Compute partitions the working window into fixed-length slots and removes
// every slot overlapping an active booking. A trailing remainder shorter than
// the slot length is not offered, and an empty or inverted window yields no
// slots at all. The resource is not validated to exist;
// unknown resources simply have no bookings and yield a fully free day.
func (s *availabilityService) Compute(ctx context.Context, req Request) (*model.Availability, error) {
	if req.ResourceID == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid date %q, must be YYYY-MM-DD", req.Date))
	}

	workStart, err := s.resolveTimeOfDay(req.WorkStart, s.cfg.DefaultWorkStart, "work_start")
	if err != nil {
		return nil, err
	}
	workEnd, err := s.resolveTimeOfDay(req.WorkEnd, s.cfg.DefaultWorkEnd, "work_end")
	if err != nil {
		return nil, err
	}

	slotMinutes := s.cfg.DefaultSlotMinutes
	if req.SlotMinutes != "" {
		slotMinutes, err = strconv.Atoi(req.SlotMinutes)
		if err != nil {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid slot_minutes %q, must be an integer", req.SlotMinutes))
		}
	}
	if slotMinutes <= 0 {
		return nil, apperrors.InvalidInput("slot_minutes must be positive")
	}

	windowStart := day.Add(workStart)
	windowEnd := day.Add(workEnd)

	booked, err := s.bookings.FindActiveInWindow(ctx, req.ResourceID, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for availability",
			"resource_id", req.ResourceID,
			"date", req.Date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to compute availability", err)
	}

	slotLen := time.Duration(slotMinutes) * time.Minute
	free := freeSlots(windowStart, windowEnd, slotLen, booked)

	metrics.IncAvailabilityQuery()
	s.cfg.Log.Debug("Availability computed",
		"resource_id", req.ResourceID,
		"date", req.Date,
		"free_slots", len(free),
		"booked", len(booked),
	)

	return &model.Availability{
		ResourceID: req.ResourceID,
		Date:       req.Date,
		Slots:      free,
	}, nil
}

// freeSlots walks the window in slotLen steps and keeps slots untouched by
// any booking. Slots never straddle the window end.
func freeSlots(windowStart, windowEnd time.Time, slotLen time.Duration, booked []*model.Booking) []model.Slot {
	slots := []model.Slot{}
	for start := windowStart; !start.Add(slotLen).After(windowEnd); start = start.Add(slotLen) {
		end := start.Add(slotLen)

		blocked := false
		for _, b := range booked {
			if b.Overlaps(start, end) {
				blocked = true
				break
			}
		}
		if !blocked {
			slots = append(slots, model.Slot{Start: start, End: end})
		}
	}
	return slots
}

func (s *availabilityService) resolveTimeOfDay(value, fallback, param string) (time.Duration, error) {
	if value == "" {
		value = fallback
	}

	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid %s %q, must be HH:MM", param, value))
	}

	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
