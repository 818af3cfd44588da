// Package roles holds the static role/capability table. Every privileged
// route is gated server-side through these capabilities; the front end only
// mirrors them for display.
package roles

import (
	"github.com/peopleops/hr-platform/internal"
)

const (
	RoleAdminHR  = "admin_hr" // top administrative tag, grants everything
	RoleHR       = "hr"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Capabilities is the fixed record of administrative permissions attached to
// a role tag.
type Capabilities struct {
	CreateUsers       bool `json:"create_users"`
	ManageEmployees   bool `json:"manage_employees"`
	ManageDepartments bool `json:"manage_departments"`
	ViewSalaries      bool `json:"view_salaries"`
	EditSalaries      bool `json:"edit_salaries"`
	ManageRoles       bool `json:"manage_roles"`
}

var ErrUnknownRole = internal.NewValidationError("unknown role", internal.ErrCodeUnknownRole)

var roleCapabilities = map[string]Capabilities{
	RoleAdminHR: {
		CreateUsers:       true,
		ManageEmployees:   true,
		ManageDepartments: true,
		ViewSalaries:      true,
		EditSalaries:      true,
		ManageRoles:       true,
	},
	RoleHR: {
		ManageEmployees:   true,
		ManageDepartments: true,
		ViewSalaries:      true,
		EditSalaries:      true,
	},
	RoleManager: {
		ViewSalaries: true,
	},
	RoleEmployee: {},
}

// PermissionsFor returns the capability record for a role tag. The role set
// is closed; anything outside it yields ErrUnknownRole.
func PermissionsFor(role string) (Capabilities, error) {
	caps, ok := roleCapabilities[role]
	if !ok {
		return Capabilities{}, ErrUnknownRole
	}
	return caps, nil
}

// IsValid reports whether the tag belongs to the closed role set.
func IsValid(role string) bool {
	_, ok := roleCapabilities[role]
	return ok
}

// All returns the closed role set in a stable order.
func All() []string {
	return []string{RoleAdminHR, RoleHR, RoleManager, RoleEmployee}
}

// AtLeastManager reports whether the tag carries manager-stage approval
// authority (managers and everything above).
func AtLeastManager(role string) bool {
	switch role {
	case RoleAdminHR, RoleHR, RoleManager:
		return true
	}
	return false
}

// HRStage reports whether the tag carries HR-stage approval authority.
func HRStage(role string) bool {
	return role == RoleAdminHR || role == RoleHR
}
