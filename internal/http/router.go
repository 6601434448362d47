// Package http wires the API surface: routing, authentication middleware,
// rate limits and the request/response schemas.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/contacthub/contacthub/internal/service"
	"github.com/contacthub/contacthub/internal/store"
	"github.com/contacthub/contacthub/pkg/httpx"
	"github.com/contacthub/contacthub/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	redis *redis.Client

	Identity *service.IdentityService
	Accounts *service.AccountService
	Contacts *service.ContactService
	Avatars  *service.AvatarService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	rdb *redis.Client,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		redis:        rdb,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerContacts()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Accounts: r.Accounts}

	// Registration and login are credential endpoints, strict IP limit.
	r.Mux.Handle("POST /api/auth/registration",
		httpx.Chain(http.HandlerFunc(h.HandleRegistration),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Token consumption endpoints arrive from mail links.
	r.Mux.Handle("GET /api/auth/confirmed_email/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleConfirmEmail),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /api/auth/reset_password/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleResetPassword),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /api/auth/request_email",
		httpx.Chain(http.HandlerFunc(h.HandleRequestEmail),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Stacked limits: one attempt per minute and three per day.
	r.Mux.Handle("POST /api/auth/forgot_password",
		httpx.Chain(http.HandlerFunc(h.HandleForgotPassword),
			httpx.RateLimitByIP(httpx.ResetMinuteLimit),
			httpx.RateLimitByIP(httpx.ResetDailyLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Avatars: r.Avatars}

	r.Mux.Handle("GET /api/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.Identity),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("PATCH /api/users/me/avatar",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateAvatar),
			AuthnMiddleware(r.Identity),
			RequireAdmin(),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerContacts() {
	h := &ContactsHandler{Contacts: r.Contacts}
	authn := AuthnMiddleware(r.Identity)

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			authn,
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /api/contacts/{$}", secured(h.HandleCreate))
	r.Mux.Handle("GET /api/contacts/{$}", secured(h.HandleList))
	r.Mux.Handle("GET /api/contacts/birthdays/next", secured(h.HandleBirthdays))
	r.Mux.Handle("GET /api/contacts/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /api/contacts/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/contacts/{id}", secured(h.HandleDelete))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.redis),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
