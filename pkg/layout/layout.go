// Package layout computes renderable poses for gallery projects. All
// functions are pure: the same inputs always yield the same poses and input
// slices are never mutated.
package layout

import (
	"math"

	"github.com/openfolio/showcase-engine/pkg/models"
)

// DefaultRadius is the distance from the gallery center at which cards are
// placed when no radius is configured.
const DefaultRadius = 5.0

// Mode selects how stored transforms are treated.
type Mode string

const (
	// ModeAuto recomputes every pose from the circular layout, ignoring
	// stored transforms.
	ModeAuto Mode = "auto"
	// ModePersisted uses a project's stored pose verbatim when one exists
	// and falls back to the circular layout otherwise.
	ModePersisted Mode = "persisted"
)

// Pose is a project's renderable position and Euler rotation.
type Pose struct {
	Position models.Vec3 `json:"position"`
	Rotation models.Vec3 `json:"rotation"`
}

// CirclePose places item i of n on a circle of the given radius in the XZ
// plane, rotated about Y so the card faces the center.
func CirclePose(i, n int, radius float64) Pose {
	angle := float64(i) / float64(n) * 2 * math.Pi
	x := math.Sin(angle) * radius
	z := math.Cos(angle) * radius
	return Pose{
		Position: models.Vec3{x, 0, z},
		Rotation: models.Vec3{0, math.Atan2(x, z), 0},
	}
}

// Engine assigns poses to project collections.
type Engine struct {
	radius float64
	mode   Mode
}

// NewEngine creates a layout engine. A non-positive radius falls back to
// DefaultRadius; an unknown mode falls back to ModePersisted.
func NewEngine(radius float64, mode Mode) *Engine {
	if radius <= 0 {
		radius = DefaultRadius
	}
	if mode != ModeAuto && mode != ModePersisted {
		mode = ModePersisted
	}
	return &Engine{radius: radius, mode: mode}
}

// Radius returns the configured circle radius.
func (e *Engine) Radius() float64 {
	return e.radius
}

// Arrange returns one pose per input project, order preserved. In
// ModePersisted a project's stored pose wins; projects still at the zero
// default receive their circular slot.
func (e *Engine) Arrange(projects []models.Project) []Pose {
	poses := make([]Pose, 0, len(projects))
	n := len(projects)
	for i := range projects {
		p := &projects[i]
		if e.mode == ModePersisted && p.HasStoredPose() {
			poses = append(poses, Pose{Position: p.Position, Rotation: p.Rotation})
			continue
		}
		poses = append(poses, CirclePose(i, n, e.radius))
	}
	return poses
}
