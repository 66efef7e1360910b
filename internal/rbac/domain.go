package rbac

import "time"

// Role is the named bundle assigned to a user account.
type Role string

// Roles known to the platform.
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleTeacher    Role = "TEACHER"
	RoleStudent    Role = "STUDENT"
	RoleParent     Role = "PARENT"
)

// Capability represents an atomic permission controlling one class of action.
type Capability string

// Capabilities known to the platform.
const (
	CapManageUsers     Capability = "MANAGE_USERS"
	CapManageStudents  Capability = "MANAGE_STUDENTS"
	CapManageClasses   Capability = "MANAGE_CLASSES"
	CapManageGrades    Capability = "MANAGE_GRADES"
	CapViewStudents    Capability = "VIEW_STUDENTS"
	CapViewClasses     Capability = "VIEW_CLASSES"
	CapViewGrades      Capability = "VIEW_GRADES"
	CapViewReports     Capability = "VIEW_REPORTS"
	CapCreateGrades    Capability = "CREATE_GRADES"
	CapUpdateGrades    Capability = "UPDATE_GRADES"
	CapDeleteGrades    Capability = "DELETE_GRADES"
	CapViewOwnGrades   Capability = "VIEW_OWN_GRADES"
	CapViewChildGrades Capability = "VIEW_CHILD_GRADES"
)

// Credential is the verified identity decoded from an access or refresh token.
// Capabilities is the snapshot taken at issuance; authorization decisions
// always re-derive the set from Role.
type Credential struct {
	SubjectID    string
	Email        string
	Role         Role
	Capabilities []Capability
	TokenID      string
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

// Permission describes a capability for catalog listings.
type Permission struct {
	Name        Capability `json:"name"`
	Description string     `json:"description"`
}

// RoleGrant lists the capabilities held by one role.
type RoleGrant struct {
	Role         Role         `json:"role"`
	Level        int          `json:"level"`
	Capabilities []Capability `json:"capabilities"`
}
