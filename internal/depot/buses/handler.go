package buses

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autopark-suite/autopark/internal/authz"
	depotshared "github.com/autopark-suite/autopark/internal/depot/shared"
	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleBuses, authz.ActionRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleBuses, authz.ActionWrite))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleBuses, authz.ActionEdit))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleBuses, authz.ActionDelete))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters := depotshared.FiltersFromQuery(r)
	buses, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list buses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if buses == nil {
		buses = []Bus{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"buses":      buses,
		"pagination": shared.NewPagination(filters.Page, filters.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bus id")
		return
	}
	bus, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var bus Bus
	if err := httpx.DecodeJSON(r, &bus); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	created, err := h.service.Create(r.Context(), bus)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bus id")
		return
	}
	var bus Bus
	if err := httpx.DecodeJSON(r, &bus); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.service.Update(r.Context(), id, bus); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bus id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
