package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/gallery"
)

// GalleryHandler serves the posed collection for clients that do not run the
// layout math themselves.
type GalleryHandler struct {
	coordinator *gallery.Coordinator
	logger      *zap.Logger
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(coordinator *gallery.Coordinator, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		coordinator: coordinator,
		logger:      logger,
	}
}

// RegisterRoutes registers the gallery handler's routes on the given mux.
func (h *GalleryHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/gallery", authMiddleware.OptionalAuth(h.Get))
}

// Get handles GET /api/gallery.
func (h *GalleryHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())

	posed, err := h.coordinator.LoadGallery(r.Context(), viewer)
	if err != nil {
		writeServiceError(w, h.logger, err, "gallery")
		return
	}
	if err := WriteJSON(w, http.StatusOK, posed); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
