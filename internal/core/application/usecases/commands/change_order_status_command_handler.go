package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler handles the business logic for moving an
// order through its lifecycle.
//
// Checks run in a fixed sequence: the order must exist, the actor must own or
// be assigned to it (customers and drivers), the transition must be legal on
// the status graph, and the role must be permitted to request it. The write
// itself is optimistic: it only lands while the stored row still holds the
// status the handler read, so two concurrent transitions cannot both win.
type ChangeOrderStatusCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	policy     order.TransitionPolicy
	recorder   *services.AuditRecorder
	dispatcher *services.NotificationDispatcher
}

// NewChangeOrderStatusCommandHandler creates a handler for status transitions.
func NewChangeOrderStatusCommandHandler(
	uowFactory FulfillmentUoWFactory,
	recorder *services.AuditRecorder,
	dispatcher *services.NotificationDispatcher,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		policy:     order.NewTransitionPolicy(),
		recorder:   recorder,
		dispatcher: dispatcher,
	}
}

// Handle processes the status-change command and returns the updated order.
// On success the audit entry and the customer notification fire after commit;
// neither can fail the change.
func (h *ChangeOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = h.authorize(aggregate, cmd); err != nil {
		return nil, err
	}

	expected := aggregate.Status()
	now := time.Now().UTC()
	if err = aggregate.TransitionTo(cmd.Target(), now); err != nil {
		return nil, err
	}

	var driver *user.User
	if aggregate.DriverID() != nil &&
		(cmd.Target() == order.OutForDelivery || cmd.Target() == order.Delivered) {
		driver, err = uow.UserRepository().Get(ctx, *aggregate.DriverID())
		if err != nil {
			return nil, err
		}
	}

	if cmd.Target() == order.Delivered {
		if err = h.lockInDeliveryCosts(ctx, uow, aggregate, driver); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.UpdateStatusGuarded(ctx, aggregate, expected); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionStatusChange,
		EntityKind: audit.EntityOrder,
		EntityID:   aggregate.ID().String(),
		Before:     statusSnapshot(expected),
		After:      statusSnapshot(cmd.Target()),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  now,
	})

	h.dispatcher.NotifyUserByID(ctx, aggregate.CustomerID(), services.Message{
		Type:    notification.TypeOrderStatus,
		Title:   fmt.Sprintf("Order %s", aggregate.Number()),
		Body:    fmt.Sprintf("Your order is now %s", cmd.Target()),
		Payload: statusPayload(aggregate, cmd.Target(), driver),
	})

	return aggregate, nil
}

// authorize runs the ownership and assignment checks, then the transition
// legality check, then the role matrix. The order matters: a driver poking at
// someone else's order gets Forbidden even when the transition itself would be
// illegal too.
func (h *ChangeOrderStatusCommandHandler) authorize(aggregate *order.Order, cmd ChangeOrderStatusCommand) error {
	action := fmt.Sprintf("transition order %s from %s to %s",
		aggregate.ID(), aggregate.Status(), cmd.Target())

	switch cmd.ActorRole() {
	case user.RoleCustomer:
		if !aggregate.BelongsTo(cmd.ActorID()) {
			return errs.NewForbiddenError(cmd.ActorRole().String(), action)
		}
	case user.RoleDriver:
		if !aggregate.IsAssignedTo(cmd.ActorID()) {
			return errs.NewForbiddenError(cmd.ActorRole().String(), action)
		}
	default:
	}

	if !aggregate.Status().CanTransitionTo(cmd.Target()) {
		return errs.NewInvalidTransitionError(aggregate.Status().String(), cmd.Target().String())
	}

	if !h.policy.Allows(cmd.ActorRole(), aggregate.Status(), cmd.Target()) {
		return errs.NewForbiddenError(cmd.ActorRole().String(), action)
	}

	return nil
}

// lockInDeliveryCosts captures the financial figures the moment the order is
// delivered: the product cost basis summed from the current product records
// and the payout from the driver record. The delivering driver also becomes
// available again.
func (h *ChangeOrderStatusCommandHandler) lockInDeliveryCosts(
	ctx context.Context,
	uow FulfillmentUoW,
	aggregate *order.Order,
	driver *user.User,
) error {
	productRepo := uow.ProductRepository()

	var costBasis int64
	for _, item := range aggregate.Items() {
		product, err := productRepo.Get(ctx, item.ProductID())
		if err != nil {
			return err
		}
		costBasis += product.Cost() * int64(item.Quantity())
	}

	var payout int64
	if driver != nil {
		payout = driver.PayoutRate()
		if err := driver.SetAvailability(true); err != nil {
			return err
		}
		if err := uow.UserRepository().Update(ctx, driver); err != nil {
			return err
		}
	}

	return aggregate.RecordDeliveryCosts(costBasis, payout)
}

func statusSnapshot(status order.Status) json.RawMessage {
	snapshot, _ := json.Marshal(map[string]string{"status": status.String()})
	return snapshot
}

func statusPayload(aggregate *order.Order, target order.Status, driver *user.User) json.RawMessage {
	fields := map[string]string{
		"orderId": aggregate.ID().String(),
		"number":  aggregate.Number(),
		"status":  target.String(),
	}
	if target == order.OutForDelivery && driver != nil {
		fields["driverName"] = driver.Name()
		fields["driverPhone"] = driver.Phone()
	}

	payload, _ := json.Marshal(fields)
	return payload
}

func ptr[T any](v T) *T {
	return &v
}
