package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrNoItems is returned when an order is created without line items.
	ErrNoItems = errors.New("order must contain at least one item")
)

// Order is the aggregate root of the fulfillment core. It owns its line items
// exclusively and carries the money figures frozen at creation time.
//
// Invariants:
//   - total = subtotal + deliveryFee - discount at creation, never silently
//     recomputed afterwards
//   - status transitions follow the graph in status.go; who may request them
//     is the TransitionPolicy's concern
//   - confirmedAt/deliveredAt are stamped exactly when the corresponding
//     status is entered
//   - cost basis and driver payout are captured once, on delivery, and are
//     never recomputed retroactively
type Order struct {
	id         kernel.UUID
	number     string
	status     Status
	customerID kernel.UUID
	driverID   *kernel.UUID
	addressID  kernel.UUID
	items      []Item

	subtotal    int64
	deliveryFee int64
	discount    int64
	total       int64

	// recordedCost and driverPayout are the financial figures locked in when
	// the order enters Delivered.
	recordedCost *int64
	driverPayout *int64

	createdAt   time.Time
	confirmedAt *time.Time
	deliveredAt *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order for the given customer. The subtotal is
// computed from the item price snapshots and the total is fixed as
// subtotal + deliveryFee - discount.
func NewOrder(
	id kernel.UUID,
	customerID, addressID kernel.UUID,
	items []Item,
	deliveryFee, discount int64,
	now time.Time,
) (*Order, error) {
	number, err := NewNumber(now)
	if err != nil {
		return nil, err
	}

	order := &Order{
		number:        number,
		status:        Pending,
		items:         items,
		deliveryFee:   deliveryFee,
		discount:      discount,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerID(customerID),
		order.setAddressID(addressID),
		order.validateItems(),
		order.validateCharges(),
	); err != nil {
		return nil, err
	}

	for _, item := range order.items {
		order.subtotal += item.Total()
	}
	order.total = order.subtotal + order.deliveryFee - order.discount

	return order, nil
}

// RestoreOrderParams carries the full persisted state of an order.
type RestoreOrderParams struct {
	ID           kernel.UUID
	Number       string
	Status       Status
	CustomerID   kernel.UUID
	DriverID     *kernel.UUID
	AddressID    kernel.UUID
	Items        []Item
	Subtotal     int64
	DeliveryFee  int64
	Discount     int64
	Total        int64
	RecordedCost *int64
	DriverPayout *int64
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	DeliveredAt  *time.Time
}

// RestoreOrder reconstructs an order from persistence. The money figures are
// taken as stored; they are deliberately not recomputed from the items.
func RestoreOrder(params RestoreOrderParams) (*Order, error) {
	order := &Order{
		number:        params.Number,
		status:        params.Status,
		driverID:      params.DriverID,
		items:         params.Items,
		subtotal:      params.Subtotal,
		deliveryFee:   params.DeliveryFee,
		discount:      params.Discount,
		total:         params.Total,
		recordedCost:  params.RecordedCost,
		driverPayout:  params.DriverPayout,
		createdAt:     params.CreatedAt,
		confirmedAt:   params.ConfirmedAt,
		deliveredAt:   params.DeliveredAt,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(params.ID),
		order.setCustomerID(params.CustomerID),
		order.setAddressID(params.AddressID),
		order.status.Validate(),
		order.setNumber(params.Number),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the human-readable order number.
func (o *Order) Number() string {
	return o.number
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// DriverID returns the assigned driver's identifier, or nil if unassigned.
func (o *Order) DriverID() *kernel.UUID {
	return o.driverID
}

// AddressID returns the delivery address reference.
func (o *Order) AddressID() kernel.UUID {
	return o.addressID
}

// Items returns the owned line items.
func (o *Order) Items() []Item {
	return o.items
}

// Subtotal returns the sum of the line totals, in minor currency units.
func (o *Order) Subtotal() int64 {
	return o.subtotal
}

// DeliveryFee returns the delivery fee, in minor currency units.
func (o *Order) DeliveryFee() int64 {
	return o.deliveryFee
}

// Discount returns the applied discount, in minor currency units.
func (o *Order) Discount() int64 {
	return o.discount
}

// Total returns the total frozen at creation time.
func (o *Order) Total() int64 {
	return o.total
}

// RecordedCost returns the product cost basis captured on delivery, or nil
// before the order is delivered.
func (o *Order) RecordedCost() *int64 {
	return o.recordedCost
}

// DriverPayout returns the driver payout captured on delivery, or nil before
// the order is delivered.
func (o *Order) DriverPayout() *int64 {
	return o.driverPayout
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ConfirmedAt returns when the order entered Confirmed, or nil.
func (o *Order) ConfirmedAt() *time.Time {
	return o.confirmedAt
}

// DeliveredAt returns when the order entered Delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// BelongsTo reports whether the order was placed by the given customer.
func (o *Order) BelongsTo(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// IsAssignedTo reports whether the order is currently assigned to the given driver.
func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// TransitionTo moves the order to the target status, stamping confirmedAt and
// deliveredAt when entering Confirmed and Delivered respectively.
//
// Only graph legality is enforced here; authorization belongs to the
// TransitionPolicy and must be checked by the caller before applying the
// transition.
func (o *Order) TransitionTo(target Status, now time.Time) error {
	if !o.status.CanTransitionTo(target) {
		return errs.NewInvalidTransitionError(o.status.String(), target.String())
	}

	o.status = target
	switch target {
	case Confirmed:
		o.confirmedAt = &now
	case Delivered:
		o.deliveredAt = &now
	default:
	}
	return nil
}

// AssignDriver binds a driver to the order. The order must already be Ready
// or OutForDelivery; assignment does not itself advance the status, and
// reassignment before delivery is allowed.
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	if o.status != Ready && o.status != OutForDelivery {
		return errs.NewInvalidStateError("order", o.status.String())
	}

	o.driverID = &driverID
	return nil
}

// RecordDeliveryCosts locks in the final cost figures used by financial
// reporting. It may only be called once the order is Delivered.
func (o *Order) RecordDeliveryCosts(costBasis, driverPayout int64) error {
	if o.status != Delivered {
		return errs.NewInvalidStateError("order", o.status.String())
	}

	o.recordedCost = &costBasis
	o.driverPayout = &driverPayout
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setAddressID(addressID kernel.UUID) error {
	if err := addressID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("addressID", err)
	}
	o.addressID = addressID
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return errs.NewValueIsRequiredError("number")
	}
	return nil
}

func (o *Order) validateItems() error {
	if len(o.items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (o *Order) validateCharges() error {
	if o.deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("deliveryFee", fmt.Errorf("%d is negative", o.deliveryFee))
	}
	if o.discount < 0 {
		return errs.NewValueIsInvalidErrorWithCause("discount", fmt.Errorf("%d is negative", o.discount))
	}
	return nil
}
