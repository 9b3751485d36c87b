package services

import (
	"fmt"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
)

// AssignmentCoordinator is a domain service responsible for binding a driver
// to an order for delivery.
//
// Business rules:
//   - The order must already be Ready or OutForDelivery
//   - The driver must hold the DRIVER role, be approved, and not be trashed
//   - Reassignment before delivery simply replaces the previous driver
//   - Assignment never flips the driver's availability flag; availability is
//     advisory and changes only on the driver's own action or on delivery
//     completion
type AssignmentCoordinator struct{}

// NewAssignmentCoordinator creates a new AssignmentCoordinator instance.
func NewAssignmentCoordinator() AssignmentCoordinator {
	return AssignmentCoordinator{}
}

// Assign binds the driver to the order after checking eligibility.
//
// Returns:
//   - ValueIsInvalidError when the target user is not a driver
//   - InvalidStateError when the driver is unapproved or trashed, or when the
//     order is not in an assignable status
func (c AssignmentCoordinator) Assign(aggregate *order.Order, driver *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := driver.Validate(); err != nil {
		return err
	}

	if driver.Role() != user.RoleDriver {
		return errs.NewValueIsInvalidErrorWithCause("driverId",
			fmt.Errorf("user %s has role %s", driver.ID(), driver.Role()))
	}
	if !driver.IsApproved() {
		return errs.NewInvalidStateError("driver", "not approved")
	}
	if driver.TrashState().IsTrashed() {
		return errs.NewInvalidStateError("driver", "trashed")
	}

	return aggregate.AssignDriver(driver.ID())
}
