// Package gallery ties the project service and the layout engine together
// for the 3D gallery view: posed collection reads, transform update
// dispatch, and detail-dialog selection state.
package gallery

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openfolio/showcase-engine/pkg/auth"
	"github.com/openfolio/showcase-engine/pkg/layout"
	"github.com/openfolio/showcase-engine/pkg/models"
	"github.com/openfolio/showcase-engine/pkg/services"
)

// PosedProject is a project together with its renderable pose.
type PosedProject struct {
	models.Project
	Pose layout.Pose `json:"pose"`
}

// Coordinator orchestrates gallery reads and transform updates. Selection
// state is the coordinator's own; the project store stays the source of
// truth for everything persisted.
type Coordinator struct {
	projects services.ProjectService
	engine   *layout.Engine
	logger   *zap.Logger

	mu       sync.Mutex
	selected *uuid.UUID
}

// NewCoordinator creates a gallery coordinator.
func NewCoordinator(projects services.ProjectService, engine *layout.Engine, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		projects: projects,
		engine:   engine,
		logger:   logger.Named("gallery"),
	}
}

// LoadGallery fetches the collection visible to the viewer and attaches a
// pose to every project. Callers degrade to an empty gallery on error.
func (c *Coordinator) LoadGallery(ctx context.Context, viewer *auth.Identity) ([]PosedProject, error) {
	projects, err := c.projects.List(ctx, viewer)
	if err != nil {
		c.logger.Error("Failed to load gallery", zap.Error(err))
		return nil, err
	}

	poses := c.engine.Arrange(projects)
	posed := make([]PosedProject, len(projects))
	for i := range projects {
		posed[i] = PosedProject{Project: projects[i], Pose: poses[i]}
	}
	return posed, nil
}

// RequestTransformUpdate forwards a pose change to the transform sync
// protocol. On failure nothing changes and the error is surfaced.
func (c *Coordinator) RequestTransformUpdate(ctx context.Context, id uuid.UUID, position, rotation models.Vec3) (*models.Project, error) {
	return c.projects.UpdateTransform(ctx, id, position, rotation)
}

// Select marks a project as open in the detail view. Selecting the already
// selected project is a no-op.
func (c *Coordinator) Select(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	selected := id
	c.selected = &selected
}

// Deselect clears the detail view. A no-op when nothing is selected.
func (c *Coordinator) Deselect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// Selected returns the currently open project, if any.
func (c *Coordinator) Selected() (uuid.UUID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == nil {
		return uuid.Nil, false
	}
	return *c.selected, true
}
