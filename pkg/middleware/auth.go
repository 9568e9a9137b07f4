package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"travel-marketplace/internal/usecase"
	"travel-marketplace/pkg/utils"

	"go.uber.org/zap"
)

// IdentityProvider reports the identity behind a session token.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context, token string) (*usecase.Identity, error)
}

// AuthSession rejects requests without a valid session and stores the
// resolved actor and token in the request context.
func AuthSession(identities IdentityProvider, roles usecase.RoleResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(identities, roles, logger, true)
}

// OptionalSession resolves the actor when a token is sent and lets anonymous
// requests through. A token that is sent but invalid is still rejected.
func OptionalSession(identities IdentityProvider, roles usecase.RoleResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return session(identities, roles, logger, false)
}

func session(identities IdentityProvider, roles usecase.RoleResolver, logger *zap.Logger, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if required {
					utils.ResponseUnauthorized(w, "Missing authorization token")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(authHeader)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			identity, err := identities.CurrentIdentity(r.Context(), token)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseUnavailable(w, "Service temporarily unavailable")
				return
			}
			if identity == nil {
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			actor, err := roles.ResolveRole(r.Context(), identity)
			if err != nil {
				writeResolveError(w, err, identity, logger)
				return
			}

			ctx := utils.SetActorContext(r.Context(), *actor)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeResolveError(w http.ResponseWriter, err error, identity *usecase.Identity, logger *zap.Logger) {
	switch {
	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication required")
	case errors.Is(err, usecase.ErrStoreUnavailable):
		logger.Error("Failed to resolve role", zap.Error(err))
		utils.ResponseUnavailable(w, "Service temporarily unavailable")
	default:
		// an account with no profile is a data fault, not a client error
		logger.Error("Failed to resolve role",
			zap.Error(err),
			zap.String("account_id", identity.AccountID.String()),
		)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
