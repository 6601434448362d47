package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/pkg/httpx"
	"github.com/contacthub/contacthub/pkg/slogx"
)

type ctxKey string

const ctxKeyUser ctxKey = "current_user"

// AuthnMiddleware extracts the bearer token, resolves it to a user and
// injects the user into the request context. The resolved user id also feeds
// the per-user rate limiter.
func AuthnMiddleware(identity *service.IdentityService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				ErrNotAuthenticated.WriteError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			user, err := identity.Resolve(ctx, raw)
			if err != nil {
				if !errors.Is(err, service.ErrUnauthorized) {
					log.Warn("identity resolution failed", "err", err)
				}
				ErrNotAuthenticated.WriteError(w)
				return
			}

			ctx = context.WithValue(ctx, ctxKeyUser, user)
			ctx = context.WithValue(ctx, httpx.CtxKeyUserID, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a route to ADMIN users. Composed after AuthnMiddleware.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := userFromContext(r.Context())
			if !ok {
				ErrNotAuthenticated.WriteError(w)
				return
			}
			if err := service.RequireAdmin(user); err != nil {
				ErrAdminOnly.WriteError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(domain.User)
	return u, ok
}
