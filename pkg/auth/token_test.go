package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfolio/showcase-engine/pkg/models"
)

func TestTokenManager_IssueVerify(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)
	user := &models.User{ID: uuid.New(), Email: "alice@example.com", IsAdmin: true}

	token, err := m.Issue(user)
	require.NoError(t, err)

	identity, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, user.Email, identity.Email)
	assert.True(t, identity.Admin)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(&models.User{ID: uuid.New(), Email: "a@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m := NewTokenManager([]byte("secret"), -time.Minute)

	token, err := m.Issue(&models.User{ID: uuid.New(), Email: "a@example.com"})
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager([]byte("secret"), time.Hour)
	_, err := m.Verify("not-a-token")
	assert.Error(t, err)
}

func TestIdentity_CanManage(t *testing.T) {
	owner := uuid.New()

	var anonymous *Identity
	assert.False(t, anonymous.CanManage(owner))

	assert.True(t, (&Identity{UserID: owner}).CanManage(owner))
	assert.False(t, (&Identity{UserID: uuid.New()}).CanManage(owner))
	assert.True(t, (&Identity{UserID: uuid.New(), Admin: true}).CanManage(owner))
	assert.False(t, (&Identity{UserID: uuid.Nil}).CanManage(uuid.Nil), "nil owner is unmanageable without admin")
}
