package user

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Role determines which order-lifecycle transitions and administrative actions
// a user may request. The full role-to-transition matrix lives in the order
// package; this type only identifies the role itself.
type Role int

const (
	// RoleUnknown represents an invalid or undefined role.
	RoleUnknown Role = iota

	// RoleCustomer places orders and may cancel their own pending orders.
	RoleCustomer

	// RoleOperations is marketplace staff driving orders through preparation.
	RoleOperations

	// RoleAdmin has full staff permissions plus corrective and purge powers.
	RoleAdmin

	// RoleDriver delivers orders assigned to them.
	RoleDriver
)

func getRoleNames() map[Role]string {
	return map[Role]string{
		RoleUnknown:    "UNKNOWN",
		RoleCustomer:   "CUSTOMER",
		RoleOperations: "OPERATIONS",
		RoleAdmin:      "ADMIN",
		RoleDriver:     "DRIVER",
	}
}

func getValidRoleNames() map[Role]string {
	//nolint:exhaustive // RoleUnknown is intentionally excluded as it's invalid
	return map[Role]string{
		RoleCustomer:   "CUSTOMER",
		RoleOperations: "OPERATIONS",
		RoleAdmin:      "ADMIN",
		RoleDriver:     "DRIVER",
	}
}

// RoleFromString parses the wire representation of a role ("CUSTOMER",
// "OPERATIONS", "ADMIN", "DRIVER"). Used when reconstructing the actor context
// supplied by the external authentication layer.
func RoleFromString(s string) (Role, error) {
	for role, name := range getValidRoleNames() {
		if name == s {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Validate returns an error for RoleUnknown and any other undefined value.
func (r Role) Validate() error {
	if _, ok := getValidRoleNames()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// String returns the canonical upper-case role name.
func (r Role) String() string {
	if name, ok := getRoleNames()[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsStaff reports whether the role belongs to marketplace staff
// (operations or admin).
func (r Role) IsStaff() bool {
	return r == RoleOperations || r == RoleAdmin
}
