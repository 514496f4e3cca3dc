package dashboard

import "strings"

// Session is the dashboard identity extracted from the session cookie.
type Session struct {
	Email   string
	Name    string
	IsAdmin bool
}

// DerivedIdentity turns an email local-part into the string used to scope a
// self-service user: separators become spaces, matching is done
// case-insensitively as a substring against employee names.
//
// This is a heuristic, not a key: "jane.doe@co" scopes to any employee name
// containing "jane doe". Two employees whose names collide as substrings
// would see each other's rows. Known limitation, kept for compatibility
// with existing employee records; an explicit identity mapping table would
// be the fix.
func DerivedIdentity(email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	for _, sep := range []string{".", "_", "-"} {
		local = strings.ReplaceAll(local, sep, " ")
	}
	return strings.TrimSpace(local)
}

// NameInScope reports whether an employee name is visible to the identity.
func NameInScope(employeeName, identity string) bool {
	return strings.Contains(strings.ToLower(employeeName), strings.ToLower(identity))
}

// scopeFor returns the ledger filter a session is allowed to query with.
// Admins may pass an exact employee filter (empty means everyone);
// self-service users are always pinned to their derived identity.
func (s Session) scopeFor(requestedEmployee string) (employee, contains string) {
	if s.IsAdmin {
		return requestedEmployee, ""
	}
	return "", DerivedIdentity(s.Email)
}
