// Package services contains business logic for showcase-engine.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/apperrors"
	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/cache"
	"github.com/openfolio/showcase-engine/pkg/models"
	"github.com/openfolio/showcase-engine/pkg/repositories"
)

// CreateProjectInput carries the fields a caller supplies when creating a
// project.
type CreateProjectInput struct {
	Title        string
	Description  string
	Image        string
	Link         string
	Technologies []string
}

// UpdateProjectInput carries a partial update; nil fields stay unchanged.
type UpdateProjectInput struct {
	Title        *string
	Description  *string
	Image        *string
	Link         *string
	Technologies *[]string
}

// ProjectService handles project business logic: the CRUD surface, the
// viewer access policy, and the transform sync protocol with its collection
// cache invalidation.
type ProjectService interface {
	List(ctx context.Context, viewer *auth.Identity) ([]models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, viewer *auth.Identity, input CreateProjectInput) (*models.Project, error)
	Update(ctx context.Context, viewer *auth.Identity, id uuid.UUID, input UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, viewer *auth.Identity, id uuid.UUID) error
	UpdateTransform(ctx context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error)
}

type projectService struct {
	repo       repositories.ProjectRepository
	cache      *cache.ProjectCache
	ownerScope bool
	logger     *zap.Logger
}

// NewProjectService creates a new project service. When ownerScope is true,
// non-admin viewers see only their own projects in collection reads.
func NewProjectService(repo repositories.ProjectRepository, projectCache *cache.ProjectCache, ownerScope bool, logger *zap.Logger) ProjectService {
	return &projectService{
		repo:       repo,
		cache:      projectCache,
		ownerScope: ownerScope,
		logger:     logger.Named("project-service"),
	}
}

var _ ProjectService = (*projectService)(nil)

// List returns the project collection visible to the viewer, read through
// the collection cache.
func (s *projectService) List(ctx context.Context, viewer *auth.Identity) ([]models.Project, error) {
	if s.ownerScope && viewer == nil {
		// Owner-scoped deployments have no anonymous gallery.
		return []models.Project{}, nil
	}
	scope := s.scopeFor(viewer)

	if projects, ok := s.cache.Get(ctx, scope); ok {
		return projects, nil
	}

	projects, err := s.repo.List(ctx, scope)
	if err != nil {
		s.logger.Error("Failed to list projects", zap.Error(err))
		return nil, err
	}

	s.cache.Set(ctx, scope, projects)
	return projects, nil
}

// Get returns a single project by ID.
func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		if err != apperrors.ErrNotFound {
			s.logger.Error("Failed to get project", zap.String("project_id", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return project, nil
}

// Create stores a new project owned by the viewer.
func (s *projectService) Create(ctx context.Context, viewer *auth.Identity, input CreateProjectInput) (*models.Project, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if err := validateProjectInput(input.Title, input.Description, input.Image); err != nil {
		return nil, err
	}

	project := &models.Project{
		OwnerID:      viewer.UserID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Image:        strings.TrimSpace(input.Image),
		Link:         strings.TrimSpace(input.Link),
		Technologies: input.Technologies,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		s.logger.Error("Failed to create project", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, project.OwnerID)
	return project, nil
}

// Update applies a partial update if the viewer owns the project or is an
// admin.
func (s *projectService) Update(ctx context.Context, viewer *auth.Identity, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanManage(project.OwnerID) {
		return nil, apperrors.ErrForbidden
	}

	if input.Title != nil {
		project.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Image != nil {
		project.Image = strings.TrimSpace(*input.Image)
	}
	if input.Link != nil {
		project.Link = strings.TrimSpace(*input.Link)
	}
	if input.Technologies != nil {
		project.Technologies = *input.Technologies
	}
	if err := validateProjectInput(project.Title, project.Description, project.Image); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, project); err != nil {
		if err != apperrors.ErrNotFound {
			s.logger.Error("Failed to update project", zap.String("project_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, project.OwnerID)
	return project, nil
}

// Delete removes a project if the viewer owns it or is an admin.
func (s *projectService) Delete(ctx context.Context, viewer *auth.Identity, id uuid.UUID) error {
	if viewer == nil {
		return apperrors.ErrUnauthorized
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.CanManage(project.OwnerID) {
		return apperrors.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if err != apperrors.ErrNotFound {
			s.logger.Error("Failed to delete project", zap.String("project_id", id.String()), zap.Error(err))
		}
		return err
	}

	s.cache.Invalidate(ctx, project.OwnerID)
	return nil
}

// UpdateTransform persists a user-driven pose change. The cached collection
// views are invalidated strictly after the write is acknowledged, so any
// read that follows a success response observes the new pose.
func (s *projectService) UpdateTransform(ctx context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error) {
	if !position.Finite() {
		return nil, fmt.Errorf("%w: position must be 3 finite numbers", apperrors.ErrValidation)
	}
	if !rotation.Finite() {
		return nil, fmt.Errorf("%w: rotation must be 3 finite numbers", apperrors.ErrValidation)
	}

	project, err := s.repo.UpdateTransform(ctx, id, position, rotation)
	if err != nil {
		if err != apperrors.ErrNotFound {
			s.logger.Error("Failed to update project transform", zap.String("project_id", id.String()), zap.Error(err))
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, project.OwnerID)
	return project, nil
}

// scopeFor maps a viewer to the owner filter for collection reads.
func (s *projectService) scopeFor(viewer *auth.Identity) *uuid.UUID {
	if !s.ownerScope || viewer == nil || viewer.Admin {
		return nil
	}
	owner := viewer.UserID
	return &owner
}

func validateProjectInput(title, description, image string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(image) == "" {
		return fmt.Errorf("%w: image is required", apperrors.ErrValidation)
	}
	return nil
}
