package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/microcase-api/internal/api/shared"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/phrazzld/microcase-api/internal/platform/logger"
	"github.com/phrazzld/microcase-api/internal/redact"
	"github.com/phrazzld/microcase-api/internal/service/auth"
)

// ErrorCodeMissingToken is sent when a route needs an identity the request
// does not carry.
const ErrorCodeMissingToken = "missing_token"

const bearerPrefix = "bearer "

// AuthMiddleware resolves the caller from the Authorization header.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// OptionalAuthenticate stores the caller in the request context. A missing
// or unusable token leaves the caller anonymous; the request is never
// rejected here.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := domain.Anonymous()

		if token := TokenFromHeader(r.Header.Get("Authorization")); token != "" && m.jwtService != nil {
			claims, err := m.jwtService.ValidateToken(r.Context(), token)
			switch {
			case err == nil:
				caller = domain.NewCaller(claims.UserID)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrExpiredToken),
				errors.Is(err, auth.ErrTokenNotYetValid):
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Debug("ignoring unusable bearer token", slog.String("reason", err.Error()))
			default:
				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Warn("failed to validate token", slog.String("error", redact.Error(err)))
			}
		}

		next.ServeHTTP(w, r.WithContext(shared.WithCaller(r.Context(), caller)))
	})
}

// RequireAuth rejects anonymous callers with 401 missing_token. It must be
// mounted after OptionalAuthenticate.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shared.CallerFrom(r.Context()).IsAuthenticated() {
			shared.RespondWithError(w, r, http.StatusUnauthorized, ErrorCodeMissingToken)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFromHeader extracts the token from an Authorization header value.
// The Bearer prefix is matched case-insensitively and is optional: a bare
// token is used as is.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, strings.TrimSpace(bearerPrefix)) {
		return ""
	}
	if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		header = header[len(bearerPrefix):]
	}
	return strings.TrimSpace(header)
}
