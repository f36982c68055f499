package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/services"
)

// CreateReviewRequest is the request body for creating a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewsHandler handles review-related HTTP requests.
type ReviewsHandler struct {
	reviewService services.ReviewService
	logger        *zap.Logger
}

// NewReviewsHandler creates a new reviews handler.
func NewReviewsHandler(reviewService services.ReviewService, logger *zap.Logger) *ReviewsHandler {
	return &ReviewsHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers the reviews handler's routes on the given mux.
func (h *ReviewsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects/{id}/reviews", h.List)
	mux.HandleFunc("POST /api/projects/{id}/reviews", authMiddleware.RequireAuth(h.Create))
}

// List handles GET /api/projects/{id}/reviews.
func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByProject(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, h.logger, err, "project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, reviews); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/projects/{id}/reviews.
func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())
	projectID, ok := h.parseProjectID(w, r)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	review, err := h.reviewService.Create(r.Context(), viewer, projectID, req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, h.logger, err, "review")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, review); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ReviewsHandler) parseProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
