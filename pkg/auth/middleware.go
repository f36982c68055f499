package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware. It is thin and
// delegates verification to the TokenManager.
type Middleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{
		tokens: tokens,
		logger: logger.Named("auth"),
	}
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// caller's identity to the context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.identify(r)
		if !ok {
			m.unauthorized(w, "Authentication required")
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is
// present and otherwise passes the request through anonymously.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := m.identify(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), identity))
		}
		next(w, r)
	}
}

func (m *Middleware) identify(r *http.Request) (*Identity, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	identity, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Debug("Token verification failed", zap.Error(err))
		return nil, false
	}
	return identity, true
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
