package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRole is returned by ParseRole for names outside the closed role set.
var ErrUnknownRole = errors.New("rbac: unknown role")

var allRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

var allCapabilities = []Capability{
	CapManageUsers,
	CapManageStudents,
	CapManageClasses,
	CapManageGrades,
	CapViewStudents,
	CapViewClasses,
	CapViewGrades,
	CapViewReports,
	CapCreateGrades,
	CapUpdateGrades,
	CapDeleteGrades,
	CapViewOwnGrades,
	CapViewChildGrades,
}

var capabilityDescriptions = map[Capability]string{
	CapManageUsers:     "Create, update, and delete users",
	CapManageStudents:  "Create, update, and delete students",
	CapManageClasses:   "Create, update, and delete classes",
	CapManageGrades:    "Full access to grade management",
	CapViewStudents:    "View student information",
	CapViewClasses:     "View class information",
	CapViewGrades:      "View all grades",
	CapViewReports:     "View performance reports",
	CapCreateGrades:    "Create new grades",
	CapUpdateGrades:    "Update existing grades",
	CapDeleteGrades:    "Delete grades",
	CapViewOwnGrades:   "View own grades only",
	CapViewChildGrades: "View child grades only",
}

// rolePermissions is the access policy. Every role lists its grants
// explicitly; no role inherits from another.
var rolePermissions = map[Role][]Capability{
	RoleSuperAdmin: {
		CapManageUsers,
		CapManageStudents,
		CapManageClasses,
		CapManageGrades,
		CapViewStudents,
		CapViewClasses,
		CapViewGrades,
		CapViewReports,
		CapCreateGrades,
		CapUpdateGrades,
		CapDeleteGrades,
	},
	RoleAdmin: {
		CapManageStudents,
		CapManageClasses,
		CapViewStudents,
		CapViewClasses,
		CapViewGrades,
		CapViewReports,
	},
	RoleTeacher: {
		CapViewStudents,
		CapViewClasses,
		CapViewGrades,
		CapCreateGrades,
		CapUpdateGrades,
		CapViewReports,
	},
	RoleStudent: {CapViewOwnGrades, CapViewClasses},
	RoleParent:  {CapViewChildGrades, CapViewClasses},
}

var roleLevels = map[Role]int{
	RoleSuperAdmin: 5,
	RoleAdmin:      4,
	RoleTeacher:    3,
	RoleParent:     2,
	RoleStudent:    1,
}

var grantIndex = buildGrantIndex(rolePermissions)

func buildGrantIndex(table map[Role][]Capability) map[Role]map[Capability]struct{} {
	index := make(map[Role]map[Capability]struct{}, len(table))
	for role, caps := range table {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}
		index[role] = set
	}
	return index
}

// CapabilitiesForRole returns the capabilities granted to role in table order.
// The result is a fresh slice; unknown roles yield an empty slice.
func CapabilitiesForRole(role Role) []Capability {
	caps := rolePermissions[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// HasCapability reports whether role is granted c.
func HasCapability(role Role, c Capability) bool {
	_, ok := grantIndex[role][c]
	return ok
}

// RoleLevel ranks roles for minimum-role checks. Unknown roles rank 0.
func RoleLevel(role Role) int {
	return roleLevels[role]
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// ParseRole converts a stored or submitted role name into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return role, nil
}

// Roles lists every role in descending level order.
func Roles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Permissions lists every capability with its description.
func Permissions() []Permission {
	perms := make([]Permission, 0, len(allCapabilities))
	for _, c := range allCapabilities {
		perms = append(perms, Permission{Name: c, Description: capabilityDescriptions[c]})
	}
	return perms
}

// Grants returns the full role table for display.
func Grants() []RoleGrant {
	grants := make([]RoleGrant, 0, len(allRoles))
	for _, role := range allRoles {
		grants = append(grants, RoleGrant{
			Role:         role,
			Level:        RoleLevel(role),
			Capabilities: CapabilitiesForRole(role),
		})
	}
	return grants
}
