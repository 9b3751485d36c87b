package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrCreateOrderCommandIsNotConstructed is returned when the command was
	// not created via NewCreateOrderCommand.
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)

	// ErrNoLines is returned when an order is requested without any lines.
	ErrNoLines = errors.New("at least one order line is required")
)

// OrderLine is one requested product/quantity pair. The unit price is not part
// of the request: it is snapshotted from the product record inside the handler.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateOrderCommand represents a request to place a new order for a customer.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	customerID  kernel.UUID
	addressID   kernel.UUID
	lines       []OrderLine
	deliveryFee int64
	discount    int64
	actorID     kernel.UUID
	actorRole   user.Role
	meta        RequestMeta

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates an order-placement request. The order id is
// supplied by the caller so retried requests stay idempotent.
func NewCreateOrderCommand(
	orderID, customerID, addressID kernel.UUID,
	lines []OrderLine,
	deliveryFee, discount int64,
	actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		deliveryFee: deliveryFee,
		discount:    discount,
		meta:        meta,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setIDs(orderID, customerID, addressID),
		command.setLines(lines),
		command.setActor(actorID, actorRole),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// AddressID returns the delivery address reference.
func (c CreateOrderCommand) AddressID() kernel.UUID {
	return c.addressID
}

// Lines returns the requested product/quantity pairs.
func (c CreateOrderCommand) Lines() []OrderLine {
	return c.lines
}

// DeliveryFee returns the delivery fee in minor currency units.
func (c CreateOrderCommand) DeliveryFee() int64 {
	return c.deliveryFee
}

// Discount returns the applied discount in minor currency units.
func (c CreateOrderCommand) Discount() int64 {
	return c.discount
}

// ActorID returns the acting user's identifier.
func (c CreateOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c CreateOrderCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c CreateOrderCommand) Meta() RequestMeta {
	return c.meta
}

func (c *CreateOrderCommand) setIDs(orderID, customerID, addressID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), customerID.Validate(), addressID.Validate()); err != nil {
		return err
	}

	c.orderID = orderID
	c.customerID = customerID
	c.addressID = addressID
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrNoLines
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is not greater than 0", line.Quantity))
		}
	}

	c.lines = lines
	return nil
}

func (c *CreateOrderCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
