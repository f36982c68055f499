package handlers

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/models"
	"github.com/openfolio/showcase-engine/pkg/services"
)

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Link         string   `json:"link"`
	Technologies []string `json:"technologies"`
}

// UpdateProjectRequest is the request body for a partial project update.
type UpdateProjectRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Image        *string   `json:"image"`
	Link         *string   `json:"link"`
	Technologies *[]string `json:"technologies"`
}

// TransformRequest is the wire form of the transform sync protocol.
type TransformRequest struct {
	Position []float64 `json:"position"`
	Rotation []float64 `json:"rotation"`
}

// ProjectsHandler handles project-related HTTP requests.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes registers the projects handler's routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/projects", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/projects/{id}", h.Get)
	mux.HandleFunc("POST /api/projects", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PUT /api/projects/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", authMiddleware.RequireAuth(h.Delete))
	mux.HandleFunc("PATCH /api/projects/{id}/transform", h.UpdateTransform)
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())

	projects, err := h.projectService.List(r.Context(), viewer)
	if err != nil {
		writeServiceError(w, h.logger, err, "projects")
		return
	}
	if err := WriteJSON(w, http.StatusOK, projects); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/projects/{id}.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidBody(w)
		return
	}

	project, err := h.projectService.Create(r.Context(), viewer, services.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Link:         req.Link,
		Technologies: req.Technologies,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "project")
		return
	}
	if err := WriteJSON(w, http.StatusCreated, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/projects/{id}.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidBody(w)
		return
	}

	project, err := h.projectService.Update(r.Context(), viewer, id, services.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Link:         req.Link,
		Technologies: req.Technologies,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.IdentityFrom(r.Context())
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), viewer, id); err != nil {
		writeServiceError(w, h.logger, err, "project")
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateTransform handles PATCH /api/projects/{id}/transform, the wire form
// of the transform sync protocol.
func (h *ProjectsHandler) UpdateTransform(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.invalidBody(w)
		return
	}

	position, ok := toVec3(req.Position)
	if !ok {
		h.badTuple(w, "position")
		return
	}
	rotation, ok := toVec3(req.Rotation)
	if !ok {
		h.badTuple(w, "rotation")
		return
	}

	if _, err := h.projectService.UpdateTransform(r.Context(), id, position, rotation); err != nil {
		writeServiceError(w, h.logger, err, "project transform")
		return
	}
	if err := WriteJSON(w, http.StatusOK, map[string]bool{"success": true}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *ProjectsHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_project_id", "Invalid project ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProjectsHandler) invalidBody(w http.ResponseWriter) {
	if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func (h *ProjectsHandler) badTuple(w http.ResponseWriter, field string) {
	if err := ErrorResponse(w, http.StatusBadRequest, "validation_failed", field+" must be an array of 3 finite numbers"); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// toVec3 validates a wire tuple: exactly 3 finite components.
func toVec3(values []float64) (models.Vec3, bool) {
	if len(values) != 3 {
		return models.ZeroVec3, false
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.ZeroVec3, false
		}
	}
	return models.Vec3{values[0], values[1], values[2]}, true
}
