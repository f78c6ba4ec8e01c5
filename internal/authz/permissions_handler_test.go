package authz_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/autopark-suite/autopark/internal/authz"
)

type fakeGrantAdmin struct {
	grants   map[int64][]authz.Grant
	replaced map[int64][]authz.Grant
	reseeded map[int64]authz.Role
}

func newFakeGrantAdmin() *fakeGrantAdmin {
	return &fakeGrantAdmin{
		grants:   map[int64][]authz.Grant{},
		replaced: map[int64][]authz.Grant{},
		reseeded: map[int64]authz.Role{},
	}
}

func (f *fakeGrantAdmin) ResolveGrantsForAccount(_ context.Context, accountID int64) ([]authz.Grant, error) {
	return f.grants[accountID], nil
}

func (f *fakeGrantAdmin) ReplaceGrants(_ context.Context, accountID int64, grants []authz.Grant) error {
	if err := authz.ValidateGrantSet(grants); err != nil {
		return err
	}
	f.replaced[accountID] = grants
	f.grants[accountID] = grants
	return nil
}

func (f *fakeGrantAdmin) SeedDefaultGrants(_ context.Context, accountID int64, role authz.Role) error {
	f.reseeded[accountID] = role
	return nil
}

func permissionsRouter(t *testing.T, admin *fakeGrantAdmin, accounts *stubAccounts) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := authz.Middleware{Accounts: accounts, Grants: admin, Logger: logger}
	handler := authz.NewPermissionsHandler(logger, admin, accounts, nil, mw)

	r := chi.NewRouter()
	r.Route("/permissions", handler.MountRoutes)
	return r
}

func adminAccounts() *stubAccounts {
	return &stubAccounts{principals: map[int64]authz.Principal{
		1: {ID: 1, Username: "root", Role: authz.RoleAdministrator, Active: true},
		7: {ID: 7, Username: "alice", Role: authz.RoleDispatcher, Active: true},
	}}
}

func TestPermissionsCatalogListsModules(t *testing.T) {
	router := permissionsRouter(t, newFakeGrantAdmin(), adminAccounts())

	req := requestWithUser(t, "1")
	req.URL.Path = "/permissions/catalog"
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Modules []authz.Module `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.Len(t, payload.Modules, len(authz.Catalog()))
}

func TestReplaceGrantsRoundTrip(t *testing.T) {
	admin := newFakeGrantAdmin()
	router := permissionsRouter(t, admin, adminAccounts())

	body, err := json.Marshal(map[string]any{
		"grants": []authz.Grant{
			{AccountID: 7, Module: authz.ModuleTrips, CanRead: true, CanWrite: true},
		},
	})
	require.NoError(t, err)

	req := requestWithUser(t, "1")
	req.Method = http.MethodPut
	req.URL.Path = "/permissions/accounts/7"
	req.Body = io.NopCloser(bytes.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusNoContent, res.Code)
	require.Len(t, admin.replaced[7], 1)
	require.Equal(t, authz.ModuleTrips, admin.replaced[7][0].Module)
}

func TestReplaceGrantsRejectsUnknownModule(t *testing.T) {
	admin := newFakeGrantAdmin()
	router := permissionsRouter(t, admin, adminAccounts())

	body, err := json.Marshal(map[string]any{
		"grants": []authz.Grant{{AccountID: 7, Module: "warehouse", CanRead: true}},
	})
	require.NoError(t, err)

	req := requestWithUser(t, "1")
	req.Method = http.MethodPut
	req.URL.Path = "/permissions/accounts/7"
	req.Body = io.NopCloser(bytes.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Empty(t, admin.replaced[7])
}

func TestReseedUsesAccountRole(t *testing.T) {
	admin := newFakeGrantAdmin()
	router := permissionsRouter(t, admin, adminAccounts())

	req := requestWithUser(t, "1")
	req.Method = http.MethodPost
	req.URL.Path = "/permissions/accounts/7/defaults"
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusNoContent, res.Code)
	require.Equal(t, authz.RoleDispatcher, admin.reseeded[7])
}

func TestPermissionsEndpointsNeedPermissionModule(t *testing.T) {
	admin := newFakeGrantAdmin()
	admin.grants[7] = []authz.Grant{{AccountID: 7, Module: authz.ModuleTrips, CanRead: true}}
	router := permissionsRouter(t, admin, adminAccounts())

	// Dispatcher with no "permissions" grant is rejected.
	req := requestWithUser(t, "7")
	req.URL.Path = "/permissions/catalog"
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)
}
