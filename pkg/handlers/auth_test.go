package handlers

import (
	"bytes"
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
	"github.com/openfolio/showcase-engine/pkg/models"
)

// mockAuthService implements services.AuthService for handler testing.
type mockAuthService struct {
	users map[string]*models.User
}

func newMockAuthService() *mockAuthService {
	return &mockAuthService{users: make(map[string]*models.User)}
}

func (m *mockAuthService) Register(_ context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 6 {
		return nil, "", apperrors.ErrValidation
	}
	if _, exists := m.users[email]; exists {
		return nil, "", apperrors.ErrConflict
	}
	user := &models.User{ID: uuid.New(), Name: name, Email: email}
	m.users[email] = user
	return user, "token-" + user.ID.String(), nil
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*models.User, string, error) {
	user, ok := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok || password != "hunter22" {
		return nil, "", apperrors.ErrUnauthorized
	}
	return user, "token-" + user.ID.String(), nil
}

func newAuthHandler(svc *mockAuthService) *AuthHandler {
	return NewAuthHandler(svc, zap.NewNop())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	h := newAuthHandler(newMockAuthService())

	rec := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)
}

func TestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	svc := newMockAuthService()
	h := newAuthHandler(svc)

	req := RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter22"}
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, "/api/auth/register", req).Code)

	rec := postJSON(t, h.Register, "/api/auth/register", req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	h := newAuthHandler(newMockAuthService())

	rec := postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_RegisterMalformedBody(t *testing.T) {
	h := newAuthHandler(newMockAuthService())

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	svc := newMockAuthService()
	h := newAuthHandler(svc)
	postJSON(t, h.Register, "/api/auth/register", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})

	rec := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var session SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	h := newAuthHandler(newMockAuthService())

	rec := postJSON(t, h.Login, "/api/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp["error"])
}
