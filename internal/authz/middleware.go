package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/autopark-suite/autopark/internal/platform/httpx"
	"github.com/autopark-suite/autopark/internal/shared"
)

// AccountSource looks up the account summary behind a session.
type AccountSource interface {
	FindPrincipal(ctx context.Context, accountID int64) (Principal, error)
}

// GrantSource resolves the stored grant set for an account.
type GrantSource interface {
	ResolveGrantsForAccount(ctx context.Context, accountID int64) ([]Grant, error)
}

type identityContextKey struct{}

// ContextWithIdentity stores the resolved authorization session in context.
func ContextWithIdentity(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, identityContextKey{}, sess)
}

// IdentityFromContext extracts the authorization session from context,
// falling back to the anonymous session.
func IdentityFromContext(ctx context.Context) Session {
	if sess, ok := ctx.Value(identityContextKey{}).(Session); ok {
		return sess
	}
	return AnonymousSession()
}

// Middleware wires authorization checks into HTTP handlers. The principal
// and grants are resolved once per request; every check afterwards is a
// pure in-memory lookup.
type Middleware struct {
	Accounts AccountSource
	Grants   GrantSource
	Logger   *slog.Logger
}

// WithIdentity resolves the current identity and stores it in the request
// context without enforcing any permission. Handlers that only need to know
// who is calling (navigation, password change) mount under this.
func (m Middleware) WithIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.Resolve(r)
		if err != nil {
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), sess)))
	})
}

// Require enforces that the caller may perform action on the module.
// Anonymous callers get 401, everyone else who fails the gate gets 403.
// An account store failure is a 500, not a denial.
func (m Middleware) Require(module string, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := IdentityFromContext(r.Context())
			if !sess.Authenticated() {
				var err error
				sess, err = m.Resolve(r)
				if err != nil {
					httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
					return
				}
			}
			if !sess.Authenticated() {
				httpx.RespondError(w, fmt.Errorf("%w: authentication required", shared.ErrUnauthorized))
				return
			}
			if !IsAllowed(sess, module, string(action)) {
				httpx.RespondError(w, fmt.Errorf("%w: no permission for %s.%s", shared.ErrForbidden, module, action))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), sess)))
		})
	}
}

// Resolve builds the authorization session for the request. A missing or
// stale cookie yields the anonymous session and a grant store failure
// degrades to an empty grant set, which denies everything except
// administrators. An account lookup failure other than not-found is
// returned to the caller so it surfaces as a server error instead of a
// spurious logout.
func (m Middleware) Resolve(r *http.Request) (Session, error) {
	cookieSess := shared.SessionFromContext(r.Context())
	if cookieSess == nil {
		return AnonymousSession(), nil
	}
	raw := strings.TrimSpace(cookieSess.User())
	if raw == "" {
		return AnonymousSession(), nil
	}
	accountID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz parse account id", slog.String("value", raw))
		}
		return AnonymousSession(), nil
	}
	principal, err := m.Accounts.FindPrincipal(r.Context(), accountID)
	if errors.Is(err, shared.ErrNotFound) {
		return AnonymousSession(), nil
	}
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz load principal", slog.Int64("account_id", accountID), slog.Any("error", err))
		}
		return AnonymousSession(), err
	}
	if principal.Role.IsAdministrator() {
		return NewSession(principal, nil), nil
	}
	grants, err := m.Grants.ResolveGrantsForAccount(r.Context(), accountID)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("authz resolve grants", slog.Int64("account_id", accountID), slog.Any("error", err))
		}
		grants = nil
	}
	return NewSession(principal, grants), nil
}
