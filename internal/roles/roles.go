// Package roles is the single normalization boundary for role values. Records
// written by older platform versions carry legacy spellings next to the
// canonical ones, so every role read from storage or a token passes through
// Resolve before anything else looks at it.
package roles

import "strings"

// Role is a canonical platform role.
type Role string

const (
	PlatformAdmin Role = "PLATFORM_ADMIN"
	OrgAdmin      Role = "ORG_ADMIN"
	Mentor        Role = "MENTOR"
	Mentee        Role = "MENTEE"
	Unknown       Role = "UNKNOWN"
)

// Alias sets, checked in strict precedence order. Platform-admin aliases never
// fall through to org-admin.
var (
	platformAdminAliases = map[string]struct{}{
		"PLATFORM_ADMIN":    {},
		"PLATFORM_OPERATOR": {},
	}
	orgAdminAliases = map[string]struct{}{
		"ADMIN":              {},
		"ORG_ADMIN":          {},
		"ORGANIZATION_ADMIN": {},
	}
)

// Resolve maps a raw role value (canonical or legacy spelling) to exactly one
// canonical Role. Unrecognized values resolve to Unknown; they never error and
// Unknown must be treated as least privileged by every consumer.
func Resolve(raw string) Role {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if _, ok := platformAdminAliases[v]; ok {
		return PlatformAdmin
	}
	if _, ok := orgAdminAliases[v]; ok {
		return OrgAdmin
	}
	switch v {
	case "MENTOR":
		return Mentor
	case "MENTEE":
		return Mentee
	}
	return Unknown
}

// IsAdmin reports whether r carries administrative capability of any scope.
func IsAdmin(r Role) bool {
	return r == PlatformAdmin || r == OrgAdmin
}

// CanManagePlatform reports whether r may act across all organizations.
func CanManagePlatform(r Role) bool {
	return r == PlatformAdmin
}

// CanManageOrg reports whether r may administer the organization it belongs
// to. Platform admins administer every organization.
func CanManageOrg(r Role) bool {
	return r == PlatformAdmin || r == OrgAdmin
}
