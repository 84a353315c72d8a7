package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type claimsKey struct{}

// ClaimsFromContext returns the editor claims attached by RequireEditor.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// RequireEditor rejects requests without a valid editor bearer token.
// A nil manager disables the guard.
func RequireEditor(manager *jwt.Manager, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if manager == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Parse "Bearer <token>"
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				httperrors.RespondUnauthorized(w)
				return
			}

			claims, err := manager.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("editor token rejected")
				httperrors.RespondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
