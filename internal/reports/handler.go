package reports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/shared"
	"github.com/autopark-suite/autopark/jobs"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	queue   *jobs.Client
	authz   authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, queue *jobs.Client, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, queue: queue, authz: mw}
}

// MountReportRoutes mounts the aggregate reports under the "reports" module.
func (h *Handler) MountReportRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleReports, authz.ActionRead))
		r.Get("/", h.catalog(authz.ModuleReports))
		r.Get("/{code}", h.run)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleReports, authz.ActionEdit))
		r.Post("/rollup", h.rollup)
	})
}

// MountQueryRoutes mounts the raw projections under the "queries" module.
func (h *Handler) MountQueryRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleQueries, authz.ActionRead))
		r.Get("/", h.catalog(authz.ModuleQueries))
		r.Get("/{code}", h.run)
	})
}

func (h *Handler) catalog(module string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		defs := CatalogFor(module)
		if defs == nil {
			defs = []Definition{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"reports": defs})
	}
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	from, to, err := dateRange(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.Run(r.Context(), code, from, to)
	if err != nil {
		h.logger.Error("run report", slog.String("code", code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) rollup(w http.ResponseWriter, r *http.Request) {
	var payload jobs.RevenueRollupPayload
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &payload); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}
	info, err := h.queue.EnqueueRevenueRollup(r.Context(), payload)
	if err != nil {
		h.logger.Error("enqueue rollup", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"task_id": info.ID})
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid from date", shared.ErrValidation)
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid to date", shared.ErrValidation)
		}
		to = parsed
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date range is inverted", shared.ErrValidation)
	}
	return from, to, nil
}
