package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrChangeOrderStatusCommandIsNotConstructed is returned when the command was
// not created via NewChangeOrderStatusCommand.
var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents a request to move an order to a new
// lifecycle status on behalf of an acting user. The actor's identity and role
// come from the external authentication layer; the handler decides whether
// that actor may request the transition.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	target    order.Status
	actorID   kernel.UUID
	actorRole user.Role
	meta      RequestMeta

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a status-change request.
// Validates the order id, the target status, and the actor context.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (ChangeOrderStatusCommand, error) {
	command := ChangeOrderStatusCommand{
		meta:  meta,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTarget(target),
		command.setActor(actorID, actorRole),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the target order's identifier.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested lifecycle status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// ActorID returns the acting user's identifier.
func (c ChangeOrderStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c ChangeOrderStatusCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c ChangeOrderStatusCommand) Meta() RequestMeta {
	return c.meta
}

func (c *ChangeOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *ChangeOrderStatusCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
