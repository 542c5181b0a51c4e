package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/agentlobby/lobby/internal/service"
)

type contextKeyAuth string

// AuthPrincipalKey is the context key for the authenticated admin principal.
const AuthPrincipalKey contextKeyAuth = "auth_principal"

// RequireAdminKey returns an HTTP middleware that validates the admin API
// key on requests to the branding override endpoints. The key is read from
// the Authorization header as a Bearer token. On success the principal is
// attached to the request context; on failure a 401 JSON error is returned.
func RequireAdminKey(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized,
					"Authentication required. Provide an admin key as a Bearer token.")
				return
			}

			rawKey := strings.TrimPrefix(authHeader, "Bearer ")
			principal, err := authSvc.ValidateAdminKey(r.Context(), rawKey)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid admin key")
				return
			}

			ctx := context.WithValue(r.Context(), AuthPrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal extracts the authenticated principal from the context.
// Returns nil if no principal is present (i.e., unauthenticated request).
func GetPrincipal(ctx context.Context) *service.AdminPrincipal {
	if p, ok := ctx.Value(AuthPrincipalKey).(*service.AdminPrincipal); ok {
		return p
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid import cycle with handler package
	w.Write([]byte(`{"error":{"code":` + strconv.Itoa(status) + `,"message":"` + message + `"}}`))
}
