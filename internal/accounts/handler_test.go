package accounts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/autopark-suite/autopark/internal/accounts"
	"github.com/autopark-suite/autopark/internal/authz"
	"github.com/autopark-suite/autopark/internal/shared"
)

// FindPrincipal lets the in-memory repo double as the middleware's account
// source, like the real PGRepository does.
func (r *memoryAccountRepo) FindPrincipal(ctx context.Context, accountID int64) (authz.Principal, error) {
	a, ok := r.accounts[accountID]
	if !ok {
		return authz.Principal{}, shared.ErrNotFound
	}
	return a.Principal(), nil
}

type grantMap struct {
	grants map[int64][]authz.Grant
}

func (g *grantMap) ResolveGrantsForAccount(ctx context.Context, accountID int64) ([]authz.Grant, error) {
	return g.grants[accountID], nil
}

type commitWriter struct {
	http.ResponseWriter
	manager   *shared.SessionManager
	sess      *shared.Session
	req       *http.Request
	committed bool
}

func (w *commitWriter) WriteHeader(code int) {
	if !w.committed {
		w.committed = true
		_ = w.manager.Commit(w.req.Context(), w.ResponseWriter, w.req, w.sess)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *commitWriter) Write(b []byte) (int, error) {
	if !w.committed {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

type testServer struct {
	router  chi.Router
	repo    *memoryAccountRepo
	grants  *grantMap
	manager *shared.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	manager := shared.NewSessionManager(client, "autopark_session", "secret", time.Hour, false)

	repo := newMemoryAccountRepo()
	grants := &grantMap{grants: map[int64][]authz.Grant{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := accounts.NewService(repo, &stubSeeder{}, nil, logger)
	mw := authz.Middleware{Accounts: repo, Grants: grants, Logger: logger}
	handler := accounts.NewHandler(logger, service, manager, mw)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := manager.Load(req.Context(), req)
			require.NoError(t, err)
			req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
			next.ServeHTTP(&commitWriter{ResponseWriter: w, manager: manager, sess: sess, req: req}, req)
		})
	})
	r.Route("/auth", handler.MountAuthRoutes)
	r.Group(func(r chi.Router) {
		r.Use(mw.WithIdentity)
		r.Route("/users", handler.MountUserRoutes)
	})

	return &testServer{router: r, repo: repo, grants: grants, manager: manager}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res := httptest.NewRecorder()
	ts.router.ServeHTTP(res, req)
	return res
}

func (ts *testServer) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	res := ts.do(t, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, res.Code)
	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestLoginThenModules(t *testing.T) {
	ts := newTestServer(t)
	dispatcher := addAccount(t, ts.repo, "dispatcher", "dispatch123", authz.RoleDispatcher, true)
	ts.grants.grants[dispatcher.ID] = []authz.Grant{
		{AccountID: dispatcher.ID, Module: authz.ModuleTrips, CanRead: true, CanWrite: true},
		{AccountID: dispatcher.ID, Module: authz.ModuleRoutes, CanRead: true},
	}

	cookies := ts.login(t, "dispatcher", "dispatch123")

	res := ts.do(t, http.MethodGet, "/auth/modules", nil, cookies)
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Modules []authz.Module `json:"modules"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	codes := make([]string, 0, len(payload.Modules))
	for _, m := range payload.Modules {
		codes = append(codes, m.Code)
	}
	require.ElementsMatch(t, []string{authz.ModuleTrips, authz.ModuleRoutes}, codes)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	ts := newTestServer(t)
	addAccount(t, ts.repo, "dispatcher", "dispatch123", authz.RoleDispatcher, true)

	res := ts.do(t, http.MethodPost, "/auth/login", map[string]string{
		"username": "dispatcher",
		"password": "wrong-password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t)
	dispatcher := addAccount(t, ts.repo, "dispatcher", "dispatch123", authz.RoleDispatcher, true)
	ts.grants.grants[dispatcher.ID] = []authz.Grant{
		{AccountID: dispatcher.ID, Module: authz.ModuleTrips, CanRead: true},
	}

	cookies := ts.login(t, "dispatcher", "dispatch123")

	res := ts.do(t, http.MethodPost, "/auth/logout", nil, cookies)
	require.Equal(t, http.StatusNoContent, res.Code)

	res = ts.do(t, http.MethodGet, "/auth/modules", nil, cookies)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestUserAdministrationNeedsPermission(t *testing.T) {
	ts := newTestServer(t)
	addAccount(t, ts.repo, "root", "admin12345", authz.RoleAdministrator, true)
	dispatcher := addAccount(t, ts.repo, "dispatcher", "dispatch123", authz.RoleDispatcher, true)
	ts.grants.grants[dispatcher.ID] = []authz.Grant{
		{AccountID: dispatcher.ID, Module: authz.ModuleTrips, CanRead: true},
	}

	dispatcherCookies := ts.login(t, "dispatcher", "dispatch123")
	res := ts.do(t, http.MethodGet, "/users/", nil, dispatcherCookies)
	require.Equal(t, http.StatusForbidden, res.Code)

	adminCookies := ts.login(t, "root", "admin12345")
	res = ts.do(t, http.MethodGet, "/users/", nil, adminCookies)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestAdminCreatesAccount(t *testing.T) {
	ts := newTestServer(t)
	addAccount(t, ts.repo, "root", "admin12345", authz.RoleAdministrator, true)
	adminCookies := ts.login(t, "root", "admin12345")

	res := ts.do(t, http.MethodPost, "/users/", map[string]string{
		"username": "mechanic",
		"password": "mechanic99",
		"role":     string(authz.RoleMechanic),
	}, adminCookies)
	require.Equal(t, http.StatusCreated, res.Code)

	var created accounts.AccountResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.Equal(t, "mechanic", created.Username)

	stored, err := ts.repo.FindByUsername(context.Background(), "mechanic")
	require.NoError(t, err)
	require.Equal(t, authz.RoleMechanic, stored.Role)
}
