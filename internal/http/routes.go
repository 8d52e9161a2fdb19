package httpx

import (
	"log/slog"
	"net/http"

	"github.com/olive/canteen/internal/adapters/mirror"
	"github.com/olive/canteen/internal/catalog"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	"github.com/olive/canteen/internal/observability/metrics"
	"github.com/olive/canteen/internal/session"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Bridge       IdentityBridge        // Optional: social login endpoints are skipped when nil
	StateCookies *StateCookies         // Required with Bridge
	Providers    []domainauth.Provider // Social providers shown on the login screen
	Mirrors      *mirror.CookieFactory
	Materializer *session.Materializer
	Routes       *domainauth.RouteTable // Optional: defaults to the canteen table
	Catalog      *catalog.Catalog       // Optional: defaults to the seeded kitchens
	Metrics      *metrics.Auth
	Logger       *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	routes := services.Routes
	if routes == nil {
		routes = domainauth.DefaultRoutes()
	}
	kitchens := services.Catalog
	if kitchens == nil {
		kitchens = catalog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	if services.Bridge != nil {
		registerBridgeRoutes(mux, &BridgeHandlers{
			Svc:     services.Bridge,
			Cookies: services.StateCookies,
			Logger:  logger,
		})
	}

	loadSession := LoadSession(&ClientFactory{
		Mirrors:      services.Mirrors,
		Materializer: services.Materializer,
		Routes:       routes,
		Logger:       logger,
	})
	registerSessionRoutes(mux, &SessionHandlers{Metrics: services.Metrics, Logger: logger}, loadSession)
	registerScreenRoutes(mux, &ScreenHandlers{Catalog: kitchens, Providers: services.Providers}, screenRouteConfig{
		load:  loadSession,
		guard: RequireScreen(routes, logger),
	})

	return Recover(logger)(Logging(logger)(mux))
}

func registerBridgeRoutes(mux *http.ServeMux, h *BridgeHandlers) {
	mux.HandleFunc("GET /api/auth/{provider}/login", h.Login)
	mux.HandleFunc("GET /api/auth/{provider}/callback", h.Callback)
}

func registerSessionRoutes(mux *http.ServeMux, h *SessionHandlers, load func(http.Handler) http.Handler) {
	mux.Handle("GET /api/session", load(http.HandlerFunc(h.Current)))
	mux.Handle("POST /api/session/handoff", load(http.HandlerFunc(h.Handoff)))
	mux.Handle("POST /api/session/login", load(http.HandlerFunc(h.Login)))
	mux.Handle("POST /api/session/logout", load(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/navigate", load(http.HandlerFunc(h.Navigate)))
}

type screenRouteConfig struct {
	load  func(http.Handler) http.Handler
	guard func(http.Handler) http.Handler
}

func (cfg screenRouteConfig) wrap(h http.HandlerFunc) http.Handler {
	return cfg.load(cfg.guard(h))
}

func registerScreenRoutes(mux *http.ServeMux, h *ScreenHandlers, cfg screenRouteConfig) {
	mux.Handle("GET /login", cfg.wrap(h.Login))
	mux.Handle("GET /cs", cfg.wrap(h.WorkerHome))
	mux.Handle("GET /cs/{slug}", cfg.wrap(h.Kitchen))
	mux.Handle("GET /admin", cfg.wrap(h.Admin))
}
