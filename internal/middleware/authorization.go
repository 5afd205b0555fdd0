package middleware

import (
	"net/http"

	"amber-storefront/internal/domain"

	"go.uber.org/zap"
)

const (
	signInRequired = "Debes iniciar sesión para continuar."
	notAuthorized  = "No tienes autorización para realizar esta acción"
)

// RequireAdmin lets through only a device signed in with the admin role.
// Signed-out requests get 401, customers get 403.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, signedIn := GetUserRole(r.Context())
			switch {
			case !signedIn:
				RespondWithError(w, http.StatusUnauthorized, signInRequired)
			case domain.Role(role) != domain.RoleAdmin:
				logger.Warn("Customer tried an admin endpoint", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusForbidden, notAuthorized)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
