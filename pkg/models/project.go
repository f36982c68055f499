// Package models contains domain types for showcase-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a single portfolio entry shown as a card in the 3D gallery.
// Position and Rotation carry the card's persisted pose; both default to the
// zero vector until a user drags the card.
type Project struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"userId"` // uuid.Nil in single-tenant deployments
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	Link         string    `json:"link,omitempty"`
	Technologies []string  `json:"technologies"`
	Position     Vec3      `json:"position"`
	Rotation     Vec3      `json:"rotation"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasStoredPose reports whether the project carries a user-placed transform.
// The storage default is the zero pose, so an all-zero transform means the
// card has never been moved and should receive an auto-layout pose.
func (p *Project) HasStoredPose() bool {
	return !p.Position.IsZero() || !p.Rotation.IsZero()
}
