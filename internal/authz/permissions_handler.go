package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/shared"
)

// GrantAdmin is the store surface the permissions editor needs.
type GrantAdmin interface {
	ResolveGrantsForAccount(ctx context.Context, accountID int64) ([]Grant, error)
	ReplaceGrants(ctx context.Context, accountID int64, grants []Grant) error
	SeedDefaultGrants(ctx context.Context, accountID int64, role Role) error
}

// AccountRoleSource resolves the role behind an account, needed when
// resetting an account's grants to role defaults.
type AccountRoleSource interface {
	FindPrincipal(ctx context.Context, accountID int64) (Principal, error)
}

// PermissionsHandler manages the grant-editing endpoints.
type PermissionsHandler struct {
	logger   *slog.Logger
	store    GrantAdmin
	accounts AccountRoleSource
	audit    *shared.AuditLogger
	mw       Middleware
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, store GrantAdmin, accounts AccountRoleSource, audit *shared.AuditLogger, mw Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, store: store, accounts: accounts, audit: audit, mw: mw}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(ModulePermissions, ActionRead))
		r.Get("/catalog", h.handleCatalog)
		r.Get("/accounts/{id}", h.handleResolve)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.mw.Require(ModulePermissions, ActionEdit))
		r.Put("/accounts/{id}", h.handleReplace)
		r.Post("/accounts/{id}/defaults", h.handleReseed)
	})
}

func (h *PermissionsHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"modules": Catalog()})
}

func (h *PermissionsHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	grants, err := h.store.ResolveGrantsForAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("resolve grants", slog.Int64("account_id", accountID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"grants": grants})
}

type replaceGrantsRequest struct {
	Grants []Grant `json:"grants"`
}

// handleReplace persists a full grant replacement. A storage failure is
// surfaced as a problem response; a silently dropped permission edit is
// unacceptable.
func (h *PermissionsHandler) handleReplace(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	var req replaceGrantsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if req.Grants == nil {
		req.Grants = []Grant{}
	}
	if err := h.store.ReplaceGrants(r.Context(), accountID, req.Grants); err != nil {
		h.logger.Error("replace grants", slog.Int64("account_id", accountID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "grants_replace", accountID, map[string]any{"count": len(req.Grants)})
	httpx.NoContent(w)
}

// handleReseed resets the account's grants to its role defaults.
func (h *PermissionsHandler) handleReseed(w http.ResponseWriter, r *http.Request) {
	accountID, ok := h.accountID(w, r)
	if !ok {
		return
	}
	principal, err := h.accounts.FindPrincipal(r.Context(), accountID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.store.SeedDefaultGrants(r.Context(), accountID, principal.Role); err != nil {
		h.logger.Error("reseed grants", slog.Int64("account_id", accountID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	h.record(r, "grants_reseed", accountID, nil)
	httpx.NoContent(w)
}

func (h *PermissionsHandler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid account id")
		return 0, false
	}
	return id, true
}

func (h *PermissionsHandler) record(r *http.Request, action string, subjectID int64, meta map[string]any) {
	if h.audit == nil {
		return
	}
	actor, _ := IdentityFromContext(r.Context()).Principal()
	err := h.audit.Record(r.Context(), shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   "grants",
		EntityID: strconv.FormatInt(subjectID, 10),
		Meta:     meta,
	})
	if err != nil && h.logger != nil {
		h.logger.Warn("audit record", slog.String("action", action), slog.Any("error", err))
	}
}
