package service

import (
	"context"
	"testing"
	"time"

	resourceerrors "rezerv/internal/resources/errors"
	"rezerv/internal/resources/validator"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/logger"
	"rezerv/pkg/model"
)

type mockResourceRepository struct {
	createFunc   func(ctx context.Context, resource *model.Resource) error
	findByIDFunc func(ctx context.Context, id string) (*model.Resource, error)
	updateFunc   func(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error)
	deleteFunc   func(ctx context.Context, id string) error

	created []*model.Resource
}

func (m *mockResourceRepository) Create(ctx context.Context, resource *model.Resource) error {
	if m.createFunc != nil {
		if err := m.createFunc(ctx, resource); err != nil {
			return err
		}
	}
	resource.ID = "68a0000000000000000000aa"
	m.created = append(m.created, resource)
	return nil
}

func (m *mockResourceRepository) FindByID(ctx context.Context, id string) (*model.Resource, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, error) {
	return []*model.Resource{}, nil
}

func (m *mockResourceRepository) Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, updates)
	}
	return nil, resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return resourceerrors.ErrNotFound
}

func (m *mockResourceRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestService(repo *mockResourceRepository) ResourceService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewResourceService(repo, validator.NewResourceValidator(cfg.Log), cfg)
}

func TestCreate_DefaultsToActive(t *testing.T) {
	repo := &mockResourceRepository{}
	svc := newTestService(repo)

	resource, err := svc.Create(context.Background(), &model.ResourceCreate{
		Name: "Room A",
		Type: "room",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resource.IsActive {
		t.Error("resource created without is_active must default to active")
	}
	if resource.ID == "" {
		t.Error("expected ID to be set after create")
	}
}

func TestCreate_ExplicitInactive(t *testing.T) {
	repo := &mockResourceRepository{}
	svc := newTestService(repo)

	inactive := false
	resource, err := svc.Create(context.Background(), &model.ResourceCreate{
		Name:     "Decommissioned",
		Type:     "room",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resource.IsActive {
		t.Error("explicit is_active=false must be honored")
	}
}

func TestCreate_NormalizesInput(t *testing.T) {
	repo := &mockResourceRepository{}
	svc := newTestService(repo)

	resource, err := svc.Create(context.Background(), &model.ResourceCreate{
		Name: "  Conference   Room ",
		Type: " Meeting-Room ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resource.Name != "Conference Room" {
		t.Errorf("expected normalized name, got %q", resource.Name)
	}
	if resource.Type != "meeting-room" {
		t.Errorf("expected lowercased type, got %q", resource.Type)
	}
}

func TestCreate_MissingName(t *testing.T) {
	svc := newTestService(&mockResourceRepository{})

	_, err := svc.Create(context.Background(), &model.ResourceCreate{Type: "room"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockResourceRepository{})

	_, err := svc.GetByID(context.Background(), "68a0000000000000000000ff")
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	repo := &mockResourceRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Resource, error) {
			return nil, resourceerrors.ErrInvalidID
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), "not-an-object-id")
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestUpdate_TogglesActive(t *testing.T) {
	var seen *model.ResourceUpdate
	repo := &mockResourceRepository{
		updateFunc: func(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error) {
			seen = updates
			return &model.Resource{ID: id, Name: "Room A", Type: "room", IsActive: *updates.IsActive}, nil
		},
	}
	svc := newTestService(repo)

	inactive := false
	resource, err := svc.Update(context.Background(), "68a0000000000000000000aa", &model.ResourceUpdate{IsActive: &inactive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resource.IsActive {
		t.Error("expected resource to be deactivated")
	}
	if seen == nil || seen.IsActive == nil || *seen.IsActive {
		t.Error("update payload not passed through")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockResourceRepository{})

	err := svc.Delete(context.Background(), "68a0000000000000000000ff")
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
