// Package auth provides token issuance, verification, and request identity
// plumbing for showcase-engine.
package auth

import "github.com/google/uuid"

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Admin  bool
}

// CanManage reports whether the identity may mutate a resource owned by
// ownerID. Owners and admins may; everyone else may not.
func (id *Identity) CanManage(ownerID uuid.UUID) bool {
	if id == nil {
		return false
	}
	return id.Admin || (ownerID != uuid.Nil && id.UserID == ownerID)
}
