package service

import (
	"context"
	"errors"
	"fmt"

	resourceerrors "reservio/internal/resources/errors"
	"reservio/internal/resources/repository"
	"reservio/pkg/cache"
	"reservio/pkg/config"
	apperrors "reservio/pkg/errors"
	"reservio/pkg/model"
	"reservio/pkg/sanitizer"
)

// ResourceValidator validates resource payloads.
type ResourceValidator interface {
	ValidateResource(resource *model.Resource) error
}

type ResourceService struct {
	repo      repository.ResourceRepository
	cache     cache.ResourceCache
	validator ResourceValidator
	cfg       *config.Config
}

func NewResourceService(
	repo repository.ResourceRepository,
	resourceCache cache.ResourceCache,
	validator ResourceValidator,
	cfg *config.Config,
) *ResourceService {
	return &ResourceService{
		repo:      repo,
		cache:     resourceCache,
		validator: validator,
		cfg:       cfg,
	}
}

// Create registers a bookable resource. Only admins manage the catalog.
func (s *ResourceService) Create(ctx context.Context, principal model.Principal, resource *model.Resource) (*model.Resource, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	resource.ID = ""
	resource.Kind = model.NormalizeKind(resource.Kind)
	resource.Code = sanitizer.SanitizeCode(resource.Code)
	resource.Name = sanitizer.SanitizeName(resource.Name)
	resource.Description = sanitizer.SanitizeFreeText(resource.Description)

	if err := s.validator.ValidateResource(resource); err != nil {
		return nil, err
	}

	if _, err := s.repo.Create(ctx, resource); err != nil {
		if errors.Is(err, resourceerrors.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("resource %s:%s already exists", resource.Kind, resource.Code))
		}
		return nil, apperrors.Internal("Failed to create resource", err)
	}

	// A stale negative entry must not outlive the new resource.
	s.invalidate(ctx, resource.Kind, resource.Code)

	return resource, nil
}

// GetByCode reads through the cache.
func (s *ResourceService) GetByCode(ctx context.Context, kind, code string) (*model.Resource, error) {
	kind = model.NormalizeKind(kind)
	if !model.IsValidKind(kind) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown resource kind: %s", kind))
	}
	code = sanitizer.SanitizeCode(code)

	if cached, err := s.cache.Get(ctx, kind, code); err != nil {
		s.cfg.Log.Warn("Resource cache read failed", "kind", kind, "code", code, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	resource, err := s.repo.FindByCode(ctx, kind, code)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", kind+":"+code)
		}
		return nil, apperrors.Internal("Failed to load resource", err)
	}

	if err := s.cache.Set(ctx, resource); err != nil {
		s.cfg.Log.Warn("Resource cache write failed", "kind", kind, "code", code, "error", err)
	}

	return resource, nil
}

// Exists is the lookup the booking admission path depends on.
func (s *ResourceService) Exists(ctx context.Context, kind, code string) (bool, error) {
	_, err := s.GetByCode(ctx, kind, code)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *ResourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to load resource", err)
	}
	return resource, nil
}

func (s *ResourceService) List(ctx context.Context, kind string, limit int, offset int64) ([]model.Resource, int64, error) {
	kind = model.NormalizeKind(kind)
	if kind != "" && !model.IsValidKind(kind) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown resource kind: %s", kind))
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	resources, total, err := s.repo.FindAll(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to list resources", err)
	}

	return resources, total, nil
}

// Update changes a resource's display fields. Kind and code are
// immutable; bookings reference them.
func (s *ResourceService) Update(ctx context.Context, principal model.Principal, id, name, description string) (*model.Resource, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		resource.Name = sanitizer.SanitizeName(name)
	}
	if description != "" {
		resource.Description = sanitizer.SanitizeFreeText(description)
	}

	if err := s.validator.ValidateResource(resource); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, resource); err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Resource", id)
		}
		return nil, apperrors.Internal("Failed to update resource", err)
	}

	s.invalidate(ctx, resource.Kind, resource.Code)

	return resource, nil
}

func (s *ResourceService) Delete(ctx context.Context, principal model.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}

	resource, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, resourceerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Resource", id)
		}
		return apperrors.Internal("Failed to delete resource", err)
	}

	s.invalidate(ctx, resource.Kind, resource.Code)

	return nil
}

func (s *ResourceService) invalidate(ctx context.Context, kind, code string) {
	if err := s.cache.Invalidate(ctx, kind, code); err != nil {
		s.cfg.Log.Warn("Resource cache invalidation failed", "kind", kind, "code", code, "error", err)
	}
}

func requireAdmin(principal model.Principal) error {
	if principal.ID == "" {
		return apperrors.Unauthorized("caller identity is required")
	}
	if !principal.IsAdmin() {
		return apperrors.Forbidden("only admins may manage resources")
	}
	return nil
}
