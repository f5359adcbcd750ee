package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/lecenter/dashboard/internal/auth/service"
	"github.com/lecenter/dashboard/internal/auth/store"
	"github.com/lecenter/dashboard/pkg/httpx"
	"github.com/lecenter/dashboard/pkg/sessionx"
	"github.com/lecenter/dashboard/pkg/slogx"

	_ "github.com/lecenter/dashboard/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// PublicPrefixes are served without a session.
var PublicPrefixes = []string{"/api/auth", "/livez", "/readyz", "/swagger/"}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler

	signer       SessionSigner
	cookies      sessionx.CookieOptions
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService *service.AuthService

	// AllowedOrigins for credentialed CORS. Empty reflects any origin.
	AllowedOrigins []string
}

func NewRouter(
	signer SessionSigner,
	cookies sessionx.CookieOptions,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		cookies:      cookies,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}
}

// ApplyRoutes registers every route and builds the global middleware chain.
// Call it once, after the services are set.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	corsOpts := cors.Options{
		AllowedOrigins:   r.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", slogx.RequestIDHeader},
		ExposedHeaders:   []string{slogx.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(r.AllowedOrigins) == 0 {
		// Reflect the caller's origin; "*" cannot carry credentials.
		corsOpts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	r.middlewares = append(r.middlewares, cors.Handler(corsOpts))
	r.middlewares = append(r.middlewares,
		httpx.SessionAuthMiddleware(r.signer, httpx.GuardOptions{PublicPrefixes: PublicPrefixes}),
	)

	r.handler = httpx.Chain(r.Mux, r.middlewares...)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						Learning Center Dashboard Auth API
//	@version					0.1.0
//	@description				LINE Login for the learning center dashboard. A verified, whitelisted LINE
//	@description				identity receives an HMAC-SHA256 signed session credential valid for 7 days.
//	@description
//	@description				The credential is set in the lec_auth cookie and may also be sent as a Bearer token.
//
//	@host						localhost:3004
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						lec_auth
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session credential. Format: "Bearer {credential}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, Cookies: r.cookies}

	// The global guard skips /api/auth, so the session endpoints guard themselves.
	r.Mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	r.Mux.Handle("GET /api/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe), httpx.RequireSession(r.signer)),
	)
	r.Mux.Handle("PATCH /api/auth/profile",
		httpx.Chain(http.HandlerFunc(h.HandleUpdateProfile), httpx.RequireSession(r.signer)),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer))
}
