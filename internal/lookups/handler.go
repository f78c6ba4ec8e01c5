package lookups

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

type entryRequest struct {
	Name string `json:"name"`
}

// MountRoutes mounts one sub-router per dictionary kind. Each kind is
// guarded by its own module code, so an operator may, for example, edit
// stops without being able to touch positions.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleLookups, authz.ActionRead))
		r.Get("/", h.listKinds)
	})
	for _, kind := range Kinds() {
		kind := kind
		r.Route("/"+kind.Code, func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(h.authz.Require(kind.Code, authz.ActionRead))
				r.Get("/", h.list(kind))
				r.Get("/{id}", h.get(kind))
			})
			r.Group(func(r chi.Router) {
				r.Use(h.authz.Require(kind.Code, authz.ActionWrite))
				r.Post("/", h.create(kind))
			})
			r.Group(func(r chi.Router) {
				r.Use(h.authz.Require(kind.Code, authz.ActionEdit))
				r.Put("/{id}", h.update(kind))
			})
			r.Group(func(r chi.Router) {
				r.Use(h.authz.Require(kind.Code, authz.ActionDelete))
				r.Delete("/{id}", h.delete(kind))
			})
		})
	}
}

func (h *Handler) listKinds(w http.ResponseWriter, _ *http.Request) {
	type kindResponse struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	out := make([]kindResponse, 0, len(kinds))
	for _, k := range Kinds() {
		out = append(out, kindResponse{Code: k.Code, Name: k.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"kinds": out})
}

func (h *Handler) list(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := h.service.List(r.Context(), kind)
		if err != nil {
			h.logger.Error("list lookup", slog.String("kind", kind.Code), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		if entries == nil {
			entries = []Entry{}
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
	}
}

func (h *Handler) get(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		entry, err := h.service.Get(r.Context(), kind, id)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, entry)
	}
}

func (h *Handler) create(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
		entry, err := h.service.Create(r.Context(), kind, req.Name)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusCreated, entry)
	}
}

func (h *Handler) update(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		var req entryRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
		if err := h.service.Update(r.Context(), kind, id, req.Name); err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.NoContent(w)
	}
}

func (h *Handler) delete(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
			return
		}
		if err := h.service.Delete(r.Context(), kind, id); err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.NoContent(w)
	}
}
