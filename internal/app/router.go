package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/autopark-suite/autopark/internal/accounts"
	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/depot/buses"
	"github.com/autopark-suite/autopark/internal/depot/buslines"
	"github.com/autopark-suite/autopark/internal/depot/employees"
	"github.com/autopark-suite/autopark/internal/depot/trips"
	"github.com/autopark-suite/autopark/internal/lookups"
	"github.com/autopark-suite/autopark/internal/observability"
	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/reports"
	"github.com/autopark-suite/autopark/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthzMiddleware    authz.Middleware
	AccountsHandler    *accounts.Handler
	PermissionsHandler *authz.PermissionsHandler
	BusesHandler       *buses.Handler
	RoutesHandler      *buslines.Handler
	TripsHandler       *trips.Handler
	EmployeesHandler   *employees.Handler
	LookupsHandler     *lookups.Handler
	ReportsHandler     *reports.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Clients fetch the CSRF token here and echo it back on every
	// mutating request.
	r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("issue csrf token", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"token": token})
	})

	r.Route("/auth", params.AccountsHandler.MountAuthRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthzMiddleware.WithIdentity)
		r.Route("/users", params.AccountsHandler.MountUserRoutes)
		r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		r.Route("/buses", params.BusesHandler.MountRoutes)
		r.Route("/routes", params.RoutesHandler.MountRoutes)
		r.Route("/trips", params.TripsHandler.MountRoutes)
		r.Route("/employees", params.EmployeesHandler.MountRoutes)
		r.Route("/lookups", params.LookupsHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountReportRoutes)
		r.Route("/queries", params.ReportsHandler.MountQueryRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
