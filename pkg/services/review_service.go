package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/apperrors"
	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/models"
	"github.com/openfolio/showcase-engine/pkg/repositories"
)

// ReviewService handles project review business logic.
type ReviewService interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Review, error)
	Create(ctx context.Context, viewer *auth.Identity, projectID uuid.UUID, rating int, comment string) (*models.Review, error)
}

type reviewService struct {
	reviews  repositories.ReviewRepository
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repositories.ReviewRepository, projects repositories.ProjectRepository, logger *zap.Logger) ReviewService {
	return &reviewService{
		reviews:  reviews,
		projects: projects,
		logger:   logger.Named("review-service"),
	}
}

var _ ReviewService = (*reviewService)(nil)

// ListByProject returns a project's reviews.
func (s *reviewService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Review, error) {
	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}
	return reviews, nil
}

// Create stores a review after checking the rating bounds and that the
// project exists. Multiple reviews per user and project are allowed.
func (s *reviewService) Create(ctx context.Context, viewer *auth.Identity, projectID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", apperrors.ErrValidation, models.MinRating, models.MaxRating)
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", apperrors.ErrValidation)
	}

	if _, err := s.projects.Get(ctx, projectID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ProjectID: projectID,
		UserID:    viewer.UserID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("Failed to create review", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, err
	}
	return review, nil
}
