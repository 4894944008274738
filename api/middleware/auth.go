package middleware

import (
	"net/http"

	"github.com/wishlane/wishlane-backend/api/responses"
	"github.com/wishlane/wishlane-backend/api/validators"
	"github.com/wishlane/wishlane-backend/internal/identity"
	pkgAuth "github.com/wishlane/wishlane-backend/pkg/auth"
	"github.com/wishlane/wishlane-backend/pkg/auth/session"
	"github.com/wishlane/wishlane-backend/pkg/config"
	pkgerrors "github.com/wishlane/wishlane-backend/pkg/errors"
	"github.com/wishlane/wishlane-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// authenticated member. Requests without a valid, live session are rejected.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := resolveMember(cfg, verifier, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithIdentity(r.Context(), member)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":  member.UserID.String(),
					"username": member.Username,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth resolves a member when valid credentials are presented and
// falls back to the anonymous identity otherwise. It never rejects a request;
// pages that render for signed-out visitors sit behind this middleware.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, err := resolveMember(cfg, verifier, r)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity.Anonymous{})))
				return
			}

			ctx := WithIdentity(r.Context(), member)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":  member.UserID.String(),
					"username": member.Username,
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveMember(cfg config.JWTConfig, verifier session.AccessSessionChecker, r *http.Request) (identity.Member, error) {
	token := validators.BearerToken(r)
	if token == "" {
		return identity.Member{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return identity.Member{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return identity.Member{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(r.Context(), claims.ID)
		if err != nil {
			return identity.Member{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return identity.Member{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	return identity.Member{
		UserID:      claims.UserID,
		Username:    claims.Username,
		Permissions: claims.Permissions,
		Confirmed:   claims.Confirmed,
		AccessID:    claims.ID,
	}, nil
}

// RequirePermission rejects callers whose permission mask lacks the bit.
func RequirePermission(p identity.Permission, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFromContext(r.Context()).Can(p) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "permission required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdministrator guards the admin surface.
func RequireAdministrator(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IdentityFromContext(r.Context()).IsAdministrator() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
