package service

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "rezerv/internal/bookings/errors"
	"rezerv/internal/bookings/validator"
	"rezerv/internal/events"
	resourceerrors "rezerv/internal/resources/errors"
	"rezerv/pkg/config"
	mongotx "rezerv/pkg/db/mongo"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/logger"
	"rezerv/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc                func(ctx context.Context, booking *model.Booking) error
	findByIDFunc              func(ctx context.Context, id string) (*model.Booking, error)
	findActiveOverlappingFunc func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error)
	updateStatusFunc          func(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error)
	findFunc                  func(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error)
	countFunc                 func(ctx context.Context, filter *model.BookingFilter) (int64, error)

	created []*model.Booking
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, booking); err != nil {
			return err
		}
	}
	booking.ID = "68a000000000000000000001"
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) Find(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) CountByFilter(ctx context.Context, filter *model.BookingFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
	if m.findActiveOverlappingFunc != nil {
		return m.findActiveOverlappingFunc(ctx, resourceID, start, end)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindActiveInWindow(ctx context.Context, resourceID string, windowStart, windowEnd time.Time) ([]*model.Booking, error) {
	return m.FindActiveOverlapping(ctx, resourceID, windowStart, windowEnd)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockResourceRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Resource, error)
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Resource{ID: id, Name: "Room A", Type: "room", IsActive: true}, nil
}

func (m *mockResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	return []*model.Resource{}, nil
}

func (m *mockResourceRepository) Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error) {
	return nil, resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockResourceRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "test",
		}),
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		BookingLockTTL: 10 * time.Second,
	}
}

func newTestService(repo *mockBookingRepository, lockRepo *mockLockRepository, resourceRepo *mockResourceRepository) BookingService {
	cfg := testConfig()
	return NewBookingService(
		repo,
		lockRepo,
		resourceRepo,
		validator.NewBookingValidator(cfg.Log),
		events.NewNoopPublisher(),
		cfg,
	)
}

func validBooking() *model.Booking {
	return &model.Booking{
		ResourceID:   "68a0000000000000000000aa",
		CustomerName: "Dana",
		StartAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2026, 9, 1, 11, 0, 0, 0, time.UTC),
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected error code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	repo := &mockBookingRepository{}
	lockRepo := &mockLockRepository{}
	svc := newTestService(repo, lockRepo, &mockResourceRepository{})

	booking := validBooking()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be set after create")
	}
	if booking.Status != model.StatusActive {
		t.Errorf("expected status active, got %s", booking.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.created))
	}
	if len(lockRepo.deleted) != 1 {
		t.Errorf("expected advisory lock to be released, deleted=%v", lockRepo.deleted)
	}
}

func TestCreate_EndNotAfterStart(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	booking := validBooking()
	booking.EndAt = booking.StartAt

	err := svc.Create(context.Background(), booking)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
	if len(repo.created) != 0 {
		t.Error("booking must not be inserted when the interval is empty")
	}
}

func TestCreate_ResourceNotFound(t *testing.T) {
	resourceRepo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceerrors.ErrNotFound
		},
	}
	repo := &mockBookingRepository{}
	svc := newTestService(repo, &mockLockRepository{}, resourceRepo)

	err := svc.Create(context.Background(), validBooking())
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
	if len(repo.created) != 0 {
		t.Error("booking must not be inserted for a missing resource")
	}
}

func TestCreate_InactiveResource(t *testing.T) {
	resourceRepo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return &model.Resource{ID: id, Name: "Old Room", Type: "room", IsActive: false}, nil
		},
	}
	repo := &mockBookingRepository{}
	svc := newTestService(repo, &mockLockRepository{}, resourceRepo)

	err := svc.Create(context.Background(), validBooking())
	assertAppErrorCode(t, err, apperrors.CodeInvalidState)
	if len(repo.created) != 0 {
		t.Error("booking must not be inserted for an inactive resource")
	}
}

func TestCreate_ConflictOnNestedInterval(t *testing.T) {
	existing := &model.Booking{
		ID:           "68a000000000000000000099",
		ResourceID:   "68a0000000000000000000aa",
		CustomerName: "Eli",
		StartAt:      time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Status:       model.StatusActive,
	}
	repo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
			if existing.Overlaps(start, end) {
				return []*model.Booking{existing}, nil
			}
			return []*model.Booking{}, nil
		},
	}
	lockRepo := &mockLockRepository{}
	svc := newTestService(repo, lockRepo, &mockResourceRepository{})

	// Entirely inside the existing booking.
	err := svc.Create(context.Background(), validBooking())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
	if len(repo.created) != 0 {
		t.Error("conflicting booking must not be inserted")
	}
	if len(lockRepo.deleted) != 1 {
		t.Error("advisory lock must be released even when the create fails")
	}
}

func TestCreate_BackToBackIsNotConflict(t *testing.T) {
	existing := &model.Booking{
		ID:         "68a000000000000000000099",
		ResourceID: "68a0000000000000000000aa",
		StartAt:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:     model.StatusActive,
	}
	repo := &mockBookingRepository{
		findActiveOverlappingFunc: func(ctx context.Context, resourceID string, start, end time.Time) ([]*model.Booking, error) {
			if existing.Overlaps(start, end) {
				return []*model.Booking{existing}, nil
			}
			return []*model.Booking{}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	// Starts exactly when the existing booking ends.
	booking := validBooking()
	if err := svc.Create(context.Background(), booking); err != nil {
		t.Fatalf("back-to-back booking should succeed, got: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(repo.created))
	}
}

func TestCreate_LockHeldByAnotherRequest(t *testing.T) {
	lockRepo := &mockLockRepository{
		createFunc: func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	repo := &mockBookingRepository{}
	svc := newTestService(repo, lockRepo, &mockResourceRepository{})

	err := svc.Create(context.Background(), validBooking())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
	if len(repo.created) != 0 {
		t.Error("booking must not be inserted while the lock is held elsewhere")
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	booking := validBooking()
	booking.CustomerName = ""

	err := svc.Create(context.Background(), booking)
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

// ────────────────────────────────────────────────
// Tests for Cancel()
// ────────────────────────────────────────────────

func TestCancel_ActiveBooking(t *testing.T) {
	stored := validBooking()
	stored.ID = "68a000000000000000000001"
	stored.Status = model.StatusActive

	var updatedTo model.BookingStatus
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
			updatedTo = status
			canceled := *stored
			canceled.Status = status
			return &canceled, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	booking, err := svc.Cancel(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCanceled {
		t.Errorf("expected canceled status, got %s", booking.Status)
	}
	if updatedTo != model.StatusCanceled {
		t.Errorf("expected status update to canceled, got %s", updatedTo)
	}
}

func TestCancel_AlreadyCanceledIsIdempotent(t *testing.T) {
	stored := validBooking()
	stored.ID = "68a000000000000000000001"
	stored.Status = model.StatusCanceled

	updateCalled := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, status model.BookingStatus) (*model.Booking, error) {
			updateCalled = true
			return stored, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	booking, err := svc.Cancel(context.Background(), stored.ID)
	if err != nil {
		t.Fatalf("canceling an already canceled booking must succeed, got: %v", err)
	}
	if booking.Status != model.StatusCanceled {
		t.Errorf("expected canceled status, got %s", booking.Status)
	}
	if updateCalled {
		t.Error("no status update should be issued for an already canceled booking")
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockResourceRepository{})

	_, err := svc.Cancel(context.Background(), "68a0000000000000000000ff")
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

// ────────────────────────────────────────────────
// Tests for List()
// ────────────────────────────────────────────────

func TestList_InvalidStatusFilter(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, &mockLockRepository{}, &mockResourceRepository{})

	_, _, err := svc.List(context.Background(), &model.BookingFilter{Status: "pending"}, 10, 0)
	assertAppErrorCode(t, err, apperrors.CodeInvalidInput)
}

func TestList_PassesFilterThrough(t *testing.T) {
	var seen *model.BookingFilter
	repo := &mockBookingRepository{
		findFunc: func(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
			seen = filter
			return []*model.Booking{}, nil
		},
		countFunc: func(ctx context.Context, filter *model.BookingFilter) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	filter := &model.BookingFilter{
		ResourceID: "68a0000000000000000000aa",
		Status:     model.StatusActive,
		DateFrom:   &from,
	}
	if _, _, err := svc.List(context.Background(), filter, 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen == nil || seen.ResourceID != filter.ResourceID || seen.Status != model.StatusActive || seen.DateFrom == nil {
		t.Errorf("filter not passed through to repository: %+v", seen)
	}
}

func TestList_RepositoryError(t *testing.T) {
	repo := &mockBookingRepository{
		findFunc: func(ctx context.Context, filter *model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
			return nil, errors.New("cursor exhausted")
		},
	}
	svc := newTestService(repo, &mockLockRepository{}, &mockResourceRepository{})

	_, _, err := svc.List(context.Background(), nil, 10, 0)
	assertAppErrorCode(t, err, apperrors.CodeInternal)
}
