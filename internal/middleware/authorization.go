package middleware

import (
	"net/http"

	"shopfront/internal/domain"

	"go.uber.org/zap"
)

// RequireAdmin middleware ensures the user has admin role
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, domain.RoleAdmin)
}

// RequireCatalogManager lets sellers and admins through
func RequireCatalogManager(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(logger, domain.RoleSeller, domain.RoleAdmin)
}

// RequireRole middleware ensures the user has one of the specified roles
func RequireRole(logger *zap.Logger, allowedRoles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				logger.Warn("Identity not found in context")
				RespondWithDomainError(w, logger, domain.ErrForbidden)
				return
			}

			for _, role := range allowedRoles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User role not authorized",
				zap.String("user_id", identity.AccountID),
				zap.String("role", string(identity.Role)),
			)
			RespondWithDomainError(w, logger, domain.ErrForbidden)
		})
	}
}
