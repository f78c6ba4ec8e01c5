package accounts

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/shared"
)

// Handler wires HTTP endpoints for authentication and user administration.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	authz          authz.Middleware
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, mw authz.Middleware) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		authz:          mw,
		validator:      validator.New(),
	}
}

// MountAuthRoutes registers login/logout/self-service routes.
func (h *Handler) MountAuthRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Group(func(r chi.Router) {
		r.Use(h.authz.WithIdentity)
		r.Get("/modules", h.handleModules)
		r.Post("/password", h.handleChangePassword)
	})
}

// MountUserRoutes registers user administration routes.
func (h *Handler) MountUserRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleUsers, authz.ActionRead))
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleUsers, authz.ActionWrite))
		r.Post("/", h.handleCreate)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleUsers, authz.ActionEdit))
		r.Put("/{id}/active", h.handleSetActive)
		r.Post("/{id}/password", h.handleResetPassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require(authz.ModuleUsers, authz.ActionDelete))
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.SetUser(strconv.FormatInt(account.ID, 10))

	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, account.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register login session", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, toResponse(account))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		accountID, _ := strconv.ParseInt(sess.User(), 10, 64)
		if err := h.service.RemoveSession(r.Context(), sess.ID, accountID); err != nil {
			h.logger.Warn("remove login session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.NoContent(w)
}

// handleModules reports the navigation entries visible to the caller. An
// empty list is a normal state the client renders as "no modules available
// for your role".
func (h *Handler) handleModules(w http.ResponseWriter, r *http.Request) {
	sess := authz.IdentityFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	modules := authz.AllowedModules(sess)
	if modules == nil {
		modules = []authz.Module{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"modules": modules})
}

func (h *Handler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	sess := authz.IdentityFromContext(r.Context())
	principal, ok := sess.Principal()
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.ChangePassword(r.Context(), principal.ID, req.OldPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = toResponse(&accounts[i])
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	account, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(account))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	account, err := h.service.Register(r.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     authz.Role(req.Role),
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(account))
}

func (h *Handler) handleSetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	var req setActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context()).Principal()
	if err := h.service.SetActive(r.Context(), actor.ID, id, req.Active); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context()).Principal()
	if err := h.service.ResetPassword(r.Context(), actor.ID, id, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return
	}
	actor, _ := authz.IdentityFromContext(r.Context()).Principal()
	if err := h.service.Delete(r.Context(), actor.ID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
