package core

import "strings"

// Role is a flat capability tag. Membership is a set check; which roles
// satisfy which action is decided by callers, not here.
type Role string

const (
	RoleUnknown        Role = "unknown"
	RoleDeveloper      Role = "developer"
	RoleSeniorDev      Role = "seniordev"
	RoleChiefDev       Role = "chiefdev"
	RoleTester         Role = "tester"
	RoleInviter        Role = "inviter"
	RoleTranslator     Role = "translator"
	RoleUser           Role = "user"
	RoleSuperuser      Role = "superuser"
	RoleAssistant      Role = "assistant"
	RoleThing          Role = "thing"
	RoleSmartHomeGuest Role = "smarthomeguest"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUnknown, RoleDeveloper, RoleSeniorDev, RoleChiefDev, RoleTester,
		RoleInviter, RoleTranslator, RoleUser, RoleSuperuser, RoleAssistant,
		RoleThing, RoleSmartHomeGuest:
		return true
	default:
		return false
	}
}

// ParseRole maps free-form input to a known role, falling back to
// RoleUnknown for anything outside the closed set.
func ParseRole(value string) Role {
	role := Role(strings.TrimSpace(strings.ToLower(value)))
	if role.IsValid() {
		return role
	}
	return RoleUnknown
}
