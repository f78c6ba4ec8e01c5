package authz

// IsAllowed answers whether the session may perform action on the module.
// The decision never errors: an anonymous session, a deactivated account,
// an unknown module code or an unrecognised action token all resolve to
// "denied". Administrators bypass the grant table entirely, so their access
// cannot be narrowed by editing grants.
func IsAllowed(sess Session, module string, action string) bool {
	principal, ok := sess.Principal()
	if !ok || !principal.Active {
		return false
	}
	if principal.Role.IsAdministrator() {
		return true
	}
	act, ok := ParseAction(action)
	if !ok {
		return false
	}
	for _, grant := range sess.grants {
		if grant.Module == module {
			return grant.Allows(act)
		}
	}
	return false
}

// HasAnyAccess reports whether the session can see at least one module.
// Used by navigation so a user with an empty grant set gets an explicit
// "no modules available" state instead of a blank screen.
func HasAnyAccess(sess Session) bool {
	return len(AllowedModules(sess)) > 0
}

// AllowedModules returns the catalog entries the session may read, in
// catalog order.
func AllowedModules(sess Session) []Module {
	var out []Module
	for _, m := range catalog {
		if IsAllowed(sess, m.Code, string(ActionRead)) {
			out = append(out, m)
		}
	}
	return out
}
