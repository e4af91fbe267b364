package middleware

import (
	"context"
	"net/http"

	"filestore-backend/internal/authz"
	"filestore-backend/internal/models"
	"filestore-backend/internal/services"
	"filestore-backend/utils/response"
)

type contextKey string

const UserContextKey contextKey = "user"

const SessionCookieName = "token"

type AuthMiddleware struct {
	sessions *services.SessionService
	auth     *services.AuthService
}

func NewAuthMiddleware(sessions *services.SessionService, auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, auth: auth}
}

// WithUser resolves the session cookie into a user and stores it in the
// request context, then continues either way. The user row is re-read on
// every request; nothing is cached between requests.
func (m *AuthMiddleware) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.sessions.Resolve(r.Context(), cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.auth.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.WithUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			response.Error(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authz.CanViewAdminPanel(UserFromContext(r.Context())) {
			response.Error(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// UserFromContext returns the authenticated user, or nil for anonymous.
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
