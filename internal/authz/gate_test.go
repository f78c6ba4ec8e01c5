package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/autopark-suite/autopark/internal/authz"
)

func dispatcherSession(grants ...authz.Grant) authz.Session {
	return authz.NewSession(authz.Principal{ID: 7, Username: "alice", Role: authz.RoleDispatcher, Active: true}, grants)
}

func TestAdministratorBypassesGrantTable(t *testing.T) {
	// Empty grant table: the administrator role must still allow everything.
	sess := authz.NewSession(authz.Principal{ID: 1, Username: "admin", Role: authz.RoleAdministrator, Active: true}, nil)

	for _, m := range authz.Catalog() {
		for _, action := range []string{"read", "write", "edit", "delete"} {
			require.True(t, authz.IsAllowed(sess, m.Code, action), "admin denied %s.%s", m.Code, action)
		}
	}
	require.True(t, authz.IsAllowed(sess, authz.ModulePermissions, "delete"))
}

func TestNonAdministratorFollowsGrants(t *testing.T) {
	sess := dispatcherSession(authz.Grant{AccountID: 7, Module: authz.ModuleTrips, CanRead: true})

	require.True(t, authz.IsAllowed(sess, "trips", "read"))
	require.False(t, authz.IsAllowed(sess, "trips", "write"))
	require.False(t, authz.IsAllowed(sess, "trips", "edit"))
	require.False(t, authz.IsAllowed(sess, "trips", "delete"))
	// No row for buses: denied.
	require.False(t, authz.IsAllowed(sess, "buses", "read"))
}

func TestAnonymousSessionDeniedEverywhere(t *testing.T) {
	sess := authz.AnonymousSession()

	for _, m := range authz.Catalog() {
		for _, action := range []string{"read", "write", "edit", "delete"} {
			require.False(t, authz.IsAllowed(sess, m.Code, action))
		}
	}
	require.False(t, authz.IsAllowed(sess, authz.ModuleUsers, "read"))
}

func TestInactiveAccountDenied(t *testing.T) {
	grants := []authz.Grant{{AccountID: 7, Module: authz.ModuleTrips, CanRead: true, CanWrite: true, CanEdit: true, CanDelete: true}}
	sess := authz.NewSession(authz.Principal{ID: 7, Username: "alice", Role: authz.RoleDispatcher, Active: false}, grants)

	require.False(t, authz.IsAllowed(sess, "trips", "read"))

	// An inactive administrator gets no bypass either.
	admin := authz.NewSession(authz.Principal{ID: 1, Username: "admin", Role: authz.RoleAdministrator, Active: false}, nil)
	require.False(t, authz.IsAllowed(admin, "users", "read"))
}

func TestUnknownModuleAndActionDeny(t *testing.T) {
	sess := dispatcherSession(authz.Grant{AccountID: 7, Module: authz.ModuleTrips, CanRead: true, CanWrite: true, CanEdit: true, CanDelete: true})

	require.False(t, authz.IsAllowed(sess, "garages", "read"))
	require.False(t, authz.IsAllowed(sess, "trips", "execute"))
	require.False(t, authz.IsAllowed(sess, "trips", ""))
}

func TestActionTokensAreCaseInsensitive(t *testing.T) {
	sess := dispatcherSession(authz.Grant{AccountID: 7, Module: authz.ModuleTrips, CanRead: true, CanDelete: true})

	require.True(t, authz.IsAllowed(sess, "trips", "READ"))
	require.True(t, authz.IsAllowed(sess, "trips", "Delete"))
	require.False(t, authz.IsAllowed(sess, "trips", "WRITE"))
}

func TestAllowedModules(t *testing.T) {
	sess := dispatcherSession(
		authz.Grant{AccountID: 7, Module: authz.ModuleTrips, CanRead: true},
		authz.Grant{AccountID: 7, Module: authz.ModuleRoutes, CanRead: true},
		authz.Grant{AccountID: 7, Module: authz.ModuleBuses},
	)

	modules := authz.AllowedModules(sess)
	codes := make([]string, len(modules))
	for i, m := range modules {
		codes[i] = m.Code
	}
	require.Equal(t, []string{authz.ModuleRoutes, authz.ModuleTrips}, codes)
	require.True(t, authz.HasAnyAccess(sess))

	empty := dispatcherSession()
	require.False(t, authz.HasAnyAccess(empty))
	require.Empty(t, authz.AllowedModules(empty))

	admin := authz.NewSession(authz.Principal{ID: 1, Role: authz.RoleAdministrator, Active: true}, nil)
	require.Len(t, authz.AllowedModules(admin), len(authz.Catalog()))
}

func TestParseAction(t *testing.T) {
	for _, tok := range []string{"read", "WRITE", " edit ", "Delete"} {
		_, ok := authz.ParseAction(tok)
		require.True(t, ok, tok)
	}
	for _, tok := range []string{"", "execute", "readwrite"} {
		_, ok := authz.ParseAction(tok)
		require.False(t, ok, tok)
	}
}

func TestRoleSet(t *testing.T) {
	require.True(t, authz.RoleAdministrator.IsAdministrator())
	require.False(t, authz.RoleDispatcher.IsAdministrator())
	require.True(t, authz.Role("Администратор").IsAdministrator())
	require.False(t, authz.Role("администратор").IsAdministrator())
	require.False(t, authz.Role("Кладовщик").Valid())
}
