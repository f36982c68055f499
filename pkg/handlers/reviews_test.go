package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/apperrors"
	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/models"
)

// mockReviewService implements services.ReviewService for handler testing.
type mockReviewService struct {
	projectID uuid.UUID
	reviews   []models.Review
}

func (m *mockReviewService) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Review, error) {
	if projectID != m.projectID {
		return nil, apperrors.ErrNotFound
	}
	return m.reviews, nil
}

func (m *mockReviewService) Create(_ context.Context, viewer *auth.Identity, projectID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if viewer == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if projectID != m.projectID {
		return nil, apperrors.ErrNotFound
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, apperrors.ErrValidation
	}
	review := models.Review{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    viewer.UserID,
		Rating:    rating,
		Comment:   comment,
	}
	m.reviews = append(m.reviews, review)
	return &review, nil
}

func TestReviewsHandler_Create(t *testing.T) {
	svc := &mockReviewService{projectID: uuid.New()}
	h := NewReviewsHandler(svc, zap.NewNop())
	viewer := &auth.Identity{UserID: uuid.New()}

	body := `{"rating":4,"comment":"well lit"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+svc.projectID.String()+"/reviews", strings.NewReader(body))
	req.SetPathValue("id", svc.projectID.String())
	rec := httptest.NewRecorder()
	h.Create(rec, withViewer(req, viewer))

	require.Equal(t, http.StatusCreated, rec.Code)
	var review models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &review))
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, viewer.UserID, review.UserID)
}

func TestReviewsHandler_CreateRatingOutOfRange(t *testing.T) {
	svc := &mockReviewService{projectID: uuid.New()}
	h := NewReviewsHandler(svc, zap.NewNop())

	body := `{"rating":9,"comment":"too enthusiastic"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects/"+svc.projectID.String()+"/reviews", strings.NewReader(body))
	req.SetPathValue("id", svc.projectID.String())
	rec := httptest.NewRecorder()
	h.Create(rec, withViewer(req, &auth.Identity{UserID: uuid.New()}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.reviews)
}

func TestReviewsHandler_ListUnknownProject(t *testing.T) {
	h := NewReviewsHandler(&mockReviewService{projectID: uuid.New()}, zap.NewNop())

	unknown := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+unknown.String()+"/reviews", nil)
	req.SetPathValue("id", unknown.String())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewsHandler_List(t *testing.T) {
	svc := &mockReviewService{projectID: uuid.New(), reviews: []models.Review{
		{ID: uuid.New(), Rating: 5, Comment: "great"},
		{ID: uuid.New(), Rating: 2, Comment: "meh"},
	}}
	h := NewReviewsHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/projects/"+svc.projectID.String()+"/reviews", nil)
	req.SetPathValue("id", svc.projectID.String())
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 2)
}
