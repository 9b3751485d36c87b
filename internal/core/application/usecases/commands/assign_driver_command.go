package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrAssignDriverCommandIsNotConstructed is returned when the command was not
// created via NewAssignDriverCommand.
var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand represents a staff request to bind a driver to an order
// that is ready to leave, or to swap the driver while it is on the road.
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	driverID  kernel.UUID
	actorID   kernel.UUID
	actorRole user.Role
	meta      RequestMeta

	guard guard.ConstructorGuard
}

// NewAssignDriverCommand creates a driver-assignment request.
func NewAssignDriverCommand(
	orderID, driverID, actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (AssignDriverCommand, error) {
	command := AssignDriverCommand{
		meta:  meta,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setDriverID(driverID),
		command.setActor(actorID, actorRole),
	); err != nil {
		return AssignDriverCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

// DriverID returns the driver to assign.
func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}

// ActorID returns the acting user's identifier.
func (c AssignDriverCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c AssignDriverCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c AssignDriverCommand) Meta() RequestMeta {
	return c.meta
}

func (c *AssignDriverCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignDriverCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *AssignDriverCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
