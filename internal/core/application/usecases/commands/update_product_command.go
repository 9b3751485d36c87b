package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrUpdateProductCommandIsNotConstructed is returned when the command was not
// created via NewUpdateProductCommand.
var ErrUpdateProductCommandIsNotConstructed = errors.New(
	"UpdateProductCommand must be created via NewUpdateProductCommand constructor",
)

// ProductChanges carries the fields a product update may touch. Nil pointers
// mean "leave unchanged". Range validation happens on the aggregate.
type ProductChanges struct {
	Price             *int64
	Cost              *int64
	Stock             *int
	LowStockThreshold *int
	TrackStock        *bool
}

// UpdateProductCommand represents a staff request to edit a product record.
// Price edits never touch existing orders: their lines carry price snapshots.
type UpdateProductCommand struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	changes   ProductChanges
	actorID   kernel.UUID
	actorRole user.Role
	meta      RequestMeta

	guard guard.ConstructorGuard
}

// NewUpdateProductCommand creates a product-update request.
func NewUpdateProductCommand(
	productID kernel.UUID,
	changes ProductChanges,
	actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (UpdateProductCommand, error) {
	command := UpdateProductCommand{
		changes: changes,
		meta:    meta,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setProductID(productID),
		command.setActor(actorID, actorRole),
	); err != nil {
		return UpdateProductCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateProductCommand) Validate() error {
	return c.guard.Validate(ErrUpdateProductCommandIsNotConstructed)
}

// ProductID returns the target product's identifier.
func (c UpdateProductCommand) ProductID() kernel.UUID {
	return c.productID
}

// Changes returns the requested field changes.
func (c UpdateProductCommand) Changes() ProductChanges {
	return c.changes
}

// ActorID returns the acting user's identifier.
func (c UpdateProductCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c UpdateProductCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c UpdateProductCommand) Meta() RequestMeta {
	return c.meta
}

func (c *UpdateProductCommand) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}

	c.productID = productID
	return nil
}

func (c *UpdateProductCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
