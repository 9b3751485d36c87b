package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	domainservices "marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// AssignDriverCommandHandler handles the business logic for binding drivers to
// orders. Only staff may assign; eligibility of the driver and the order's
// state are the AssignmentCoordinator's concern. Assignment deliberately does
// not flip the driver's availability flag.
type AssignDriverCommandHandler struct {
	uowFactory  FulfillmentUoWFactory
	coordinator domainservices.AssignmentCoordinator
	recorder    *services.AuditRecorder
	dispatcher  *services.NotificationDispatcher
}

// NewAssignDriverCommandHandler creates a handler for driver assignment.
func NewAssignDriverCommandHandler(
	uowFactory FulfillmentUoWFactory,
	recorder *services.AuditRecorder,
	dispatcher *services.NotificationDispatcher,
) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:  uowFactory,
		coordinator: domainservices.NewAssignmentCoordinator(),
		recorder:    recorder,
		dispatcher:  dispatcher,
	}
}

// Handle processes the driver-assignment command. After commit it records the
// UPDATE audit entry and notifies the assigned driver.
func (h *AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.ActorRole().IsStaff() {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "assign a driver")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.DriverID()
	expected := aggregate.Status()

	driver, err := uow.UserRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = h.coordinator.Assign(aggregate, driver); err != nil {
		return err
	}

	// Guarded on the status read above: if a concurrent writer cancelled the
	// order between our read and this write, zero rows match and the
	// assignment is rejected instead of resurrecting the stale status.
	if err = orderRepo.UpdateStatusGuarded(ctx, aggregate, expected); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	now := time.Now().UTC()
	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionUpdate,
		EntityKind: audit.EntityOrder,
		EntityID:   aggregate.ID().String(),
		Before:     driverSnapshot(previous),
		After:      driverSnapshot(aggregate.DriverID()),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  now,
	})

	h.dispatcher.NotifyUser(ctx, driver, services.Message{
		Type:    notification.TypeAssignment,
		Title:   fmt.Sprintf("Delivery %s assigned to you", aggregate.Number()),
		Body:    "Pick up the order and start the delivery",
		Payload: orderSnapshot(aggregate),
	})

	return nil
}

func driverSnapshot(driverID *kernel.UUID) json.RawMessage {
	if driverID == nil {
		snapshot, _ := json.Marshal(map[string]any{"driverId": nil})
		return snapshot
	}
	snapshot, _ := json.Marshal(map[string]string{"driverId": driverID.String()})
	return snapshot
}
