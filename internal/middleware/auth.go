package middleware

import (
	"context"
	"net/http"
	"strings"

	"shopfront/internal/auth"
	"shopfront/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const identityKey contextKey = "identity"

// TokenVerifier resolves a credential into the caller's identity
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// AuthMiddleware verifies the credential carried by the request and stores
// the resolved identity in the request context. The cookie wins over the
// Authorization header when both are present.
func AuthMiddleware(verifier TokenVerifier, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractToken(r, cookieName)
			if err != nil {
				logger.Debug("Rejected credential", zap.Error(err))
				RespondWithDomainError(w, logger, err)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				RespondWithDomainError(w, logger, err)
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", identity.AccountID),
				zap.String("role", string(identity.Role)),
			)

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// IdentifyMiddleware resolves the caller when the request carries a valid
// credential. Anonymous or invalid requests pass through unchanged.
func IdentifyMiddleware(verifier TokenVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, err := extractToken(r, cookieName); err == nil {
				if identity, err := verifier.Verify(token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request, cookieName string) (string, error) {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return "", domain.ErrMissingToken
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", domain.ErrInvalidToken
	}
	return parts[1], nil
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the verified caller from request context
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

// GetUserID extracts the caller's account id from request context
func GetUserID(ctx context.Context) (string, bool) {
	identity, ok := GetIdentity(ctx)
	if !ok {
		return "", false
	}
	return identity.AccountID, true
}
