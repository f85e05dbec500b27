package service

import (
	"context"
	"errors"
	"sync"

	resourceerrors "rezerv/internal/resources/errors"
	"rezerv/internal/resources/repository"
	"rezerv/internal/resources/validator"
	"rezerv/pkg/config"
	apperrors "rezerv/pkg/errors"
	"rezerv/pkg/model"
	"rezerv/pkg/sanitizer"
)

type ResourceService interface {
	Create(ctx context.Context, input *model.ResourceCreate) (*model.Resource, error)
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error)
	Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error)
	Delete(ctx context.Context, id string) error
}

type resourceService struct {
	repo      repository.ResourceRepository
	validator *validator.ResourceValidator
	cfg       *config.Config
}

func NewResourceService(
	repo repository.ResourceRepository,
	validator *validator.ResourceValidator,
	cfg *config.Config,
) ResourceService {
	return &resourceService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, input *model.ResourceCreate) (*model.Resource, error) {
	input.Name = sanitizer.NormalizeName(input.Name)
	input.Type = sanitizer.NormalizeType(input.Type)

	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return nil, apperrors.Validation("Resource validation failed", map[string]any{"error": err.Error()})
	}

	resource := &model.Resource{
		Name:     input.Name,
		Type:     input.Type,
		IsActive: true,
	}
	if input.IsActive != nil {
		resource.IsActive = *input.IsActive
	}

	if err := s.repo.Create(ctx, resource); err != nil {
		s.cfg.Log.Error("Failed to create resource", "error", err)
		return nil, apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created successfully",
		"id", resource.ID,
		"name", resource.Name,
		"type", resource.Type,
	)
	return resource, nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id, "retrieve")
	}

	return resource, nil
}

func (s *resourceService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Resource, int64, error) {
	var count int64
	var resources []*model.Resource
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count resources", "error", errCount)
			errCount = apperrors.Internal("Failed to count resources", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		resources, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list resources", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve resources", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return resources, count, nil
}

func (s *resourceService) Update(ctx context.Context, id string, updates *model.ResourceUpdate) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}
	if updates.Name != nil {
		name := sanitizer.NormalizeName(*updates.Name)
		updates.Name = &name
	}
	if updates.Type != nil {
		resourceType := sanitizer.NormalizeType(*updates.Type)
		updates.Type = &resourceType
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Resource update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	resource, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, s.translateRepoError(err, id, "update")
	}

	s.cfg.Log.Info("Resource updated successfully", "id", id)
	return resource, nil
}

func (s *resourceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Resource ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id, "delete")
	}

	s.cfg.Log.Info("Resource deleted successfully", "id", id)
	return nil
}

func (s *resourceService) translateRepoError(err error, id string, action string) error {
	if errors.Is(err, resourceerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Resource", id)
	}
	if errors.Is(err, resourceerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid resource ID format")
	}
	return apperrors.Internal("Failed to "+action+" resource", err)
}
