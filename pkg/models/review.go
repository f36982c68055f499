package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a rating left on a project by an authenticated user. A user may
// leave more than one review per project.
type Review struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"projectId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating bounds enforced at the input boundary.
const (
	MinRating = 1
	MaxRating = 5
)
