package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "rezerv/internal/bookings/errors"
	"rezerv/internal/bookings/repository"
	"rezerv/internal/bookings/validator"
	"rezerv/internal/events"
	resourceerrors "rezerv/internal/resources/errors"
	resourcerepo "rezerv/internal/resources/repository"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/metrics"
	"rezerv/pkg/model"
	"rezerv/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	resourceRepo resourcerepo.ResourceRepository
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	resourceRepo resourcerepo.ResourceRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		resourceRepo: resourceRepo,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.ID = ""
	booking.Status = model.StatusActive
	booking.CustomerName = sanitizer.NormalizeName(booking.CustomerName)

	if !booking.EndAt.After(booking.StartAt) {
		return apperrors.InvalidInput("end_at must be after start_at")
	}
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.verifyResourceBookable(ctx, booking.ResourceID); err != nil {
		return err
	}

	// Advisory lock serializes the conflict check and insert per resource.
	lockID, err := s.acquireResourceLock(ctx, booking.ResourceID)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseResourceLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) && apperrors.AsAppError(err).Code == apperrors.CodeConflict {
			metrics.IncBookingConflict()
		}
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return err
	}

	metrics.IncBookingCreated()
	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Warn("Booking created but event publish failed", "id", booking.ID, "error", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"resource_id", booking.ResourceID,
		"start_at", booking.StartAt,
		"end_at", booking.EndAt,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id, "retrieve")
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter != nil && filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status filter: %s", filter.Status))
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByFilter(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel marks a booking canceled. Canceling an already canceled booking is a
// no-op that succeeds with the booking unchanged.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id, "cancel")
	}

	if booking.Status == model.StatusCanceled {
		s.cfg.Log.Debug("Booking already canceled", "id", id)
		return booking, nil
	}

	canceled, err := s.repo.UpdateStatus(ctx, id, model.StatusCanceled)
	if err != nil {
		return nil, s.translateRepoError(err, id, "cancel")
	}

	metrics.IncBookingCanceled()
	if err := s.publisher.BookingCanceled(ctx, canceled); err != nil {
		s.cfg.Log.Warn("Booking canceled but event publish failed", "id", id, "error", err)
	}

	s.cfg.Log.Info("Booking canceled successfully", "id", id, "resource_id", canceled.ResourceID)
	return canceled, nil
}

// --- Helpers ---

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) verifyResourceBookable(ctx context.Context, resourceID string) error {
	resource, err := s.resourceRepo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", resourceID)
		}
		if errors.Is(err, resourceerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid resource ID format")
		}
		return apperrors.Internal("Failed to check resource", err)
	}

	if !resource.IsActive {
		return apperrors.InvalidState(fmt.Sprintf("Resource %s is inactive and cannot be booked", resourceID))
	}
	return nil
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindActiveOverlapping(ctx, booking.ResourceID, booking.StartAt, booking.EndAt)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Overlaps(booking.StartAt, booking.EndAt) {
			return apperrors.Conflict(fmt.Sprintf(
				"Booking overlaps with existing booking (%s - %s)",
				b.StartAt.Format(time.RFC3339),
				b.EndAt.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireResourceLock creates an advisory lock keyed by resource so only one
// request at a time runs the check-then-insert sequence for that resource.
func (s *bookingService) acquireResourceLock(ctx context.Context, resourceID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", resourceID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This resource is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseResourceLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) translateRepoError(err error, id string, action string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to "+action+" booking", err)
}
