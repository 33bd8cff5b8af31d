package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/prediction-tracker-service/internal/models"
	"github.com/cypherlabdev/prediction-tracker-service/pkg/access"
)

// Identity headers set by the upstream gateway
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type identityKey struct{}

// AuthMiddleware resolves the caller identity forwarded by the gateway
type AuthMiddleware struct {
	responder
}

// NewAuthMiddleware creates the identity middleware
func NewAuthMiddleware(logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		responder: responder{logger: logger.With().Str("component", "auth_middleware").Logger()},
	}
}

// Identity rejects requests without a user id and stores the caller in the request context
func (m *AuthMiddleware) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			m.errorResponse(w, http.StatusUnauthorized, "authentication required")
			return
		}

		role := models.RoleUser
		if models.Role(r.Header.Get(HeaderUserRole)) == models.RoleAdmin {
			role = models.RoleAdmin
		}

		ctx := context.WithValue(r.Context(), identityKey{}, models.Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects callers without the admin role. It must run after Identity.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := identityFrom(r.Context())
		if err := access.RequireAdmin(&models.Subscriber{ID: id.UserID, Role: id.Role}); err != nil {
			m.logger.Debug().
				Str("user_id", id.UserID).
				Str("path", r.URL.Path).
				Msg("admin access denied")
			m.errorResponse(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identityFrom returns the caller stored by Identity
func identityFrom(ctx context.Context) models.Identity {
	id, _ := ctx.Value(identityKey{}).(models.Identity)
	return id
}
