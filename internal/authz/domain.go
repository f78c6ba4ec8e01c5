// Package authz implements the per-account, per-module permission model.
// Every functional module of the depot is gated by a Grant carrying four
// independent capability flags; the administrator role bypasses the grant
// table entirely.
package authz

import "strings"

// Action is one of the four capabilities a grant can carry.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction normalizes an action token. Unknown tokens are reported via
// ok=false and must be treated as "denied" by callers, never as an error.
func ParseAction(raw string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionRead:
		return ActionRead, true
	case ActionWrite:
		return ActionWrite, true
	case ActionEdit:
		return ActionEdit, true
	case ActionDelete:
		return ActionDelete, true
	}
	return "", false
}

// Role is a fixed account role label.
type Role string

// The role set is closed; display labels double as stored values.
const (
	RoleAdministrator Role = "Администратор"
	RoleDispatcher    Role = "Диспетчер"
	RoleAccountant    Role = "Бухгалтер"
	RoleMechanic      Role = "Механик"
)

// Roles lists every recognised role.
func Roles() []Role {
	return []Role{RoleAdministrator, RoleDispatcher, RoleAccountant, RoleMechanic}
}

// Valid reports whether the role is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleDispatcher, RoleAccountant, RoleMechanic:
		return true
	}
	return false
}

// IsAdministrator reports whether the role carries the unconditional bypass.
// Kept as an explicit capability check so a relabelled role cannot silently
// lose or gain the bypass.
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}

// Grant is a capability record: one row per (account, module) pair.
type Grant struct {
	AccountID int64  `json:"account_id"`
	Module    string `json:"module"`
	CanRead   bool   `json:"can_read"`
	CanWrite  bool   `json:"can_write"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// Allows returns the capability flag matching the action.
func (g Grant) Allows(action Action) bool {
	switch action {
	case ActionRead:
		return g.CanRead
	case ActionWrite:
		return g.CanWrite
	case ActionEdit:
		return g.CanEdit
	case ActionDelete:
		return g.CanDelete
	}
	return false
}

// Principal is the account summary the gate needs: identity, role and the
// active flag. A deactivated account is rejected at the next check without
// any session state transition.
type Principal struct {
	ID       int64
	Username string
	Role     Role
	Active   bool
}

// Session is the resolved authorization context for one actor. The zero
// value is the anonymous session. It is a pure value: building it is the
// only step that touches storage, every check afterwards is in-memory.
type Session struct {
	principal *Principal
	grants    []Grant
}

// AnonymousSession returns the unauthenticated session.
func AnonymousSession() Session {
	return Session{}
}

// NewSession builds an authenticated session from a principal and its
// resolved grants.
func NewSession(p Principal, grants []Grant) Session {
	return Session{principal: &p, grants: grants}
}

// Authenticated reports whether an account is attached.
func (s Session) Authenticated() bool {
	return s.principal != nil
}

// Principal returns the attached account summary, ok=false when anonymous.
func (s Session) Principal() (Principal, bool) {
	if s.principal == nil {
		return Principal{}, false
	}
	return *s.principal, true
}

// Grants returns the resolved grant list.
func (s Session) Grants() []Grant {
	return s.grants
}
