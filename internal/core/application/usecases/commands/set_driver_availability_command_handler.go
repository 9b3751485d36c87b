package commands

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
)

// SetDriverAvailabilityCommandHandler handles drivers flipping their own
// availability flag. The aggregate rejects the change for any non-driver role.
type SetDriverAvailabilityCommandHandler struct {
	uowFactory UserUoWFactory
	recorder   *services.AuditRecorder
}

// NewSetDriverAvailabilityCommandHandler creates a handler for availability changes.
func NewSetDriverAvailabilityCommandHandler(
	uowFactory UserUoWFactory,
	recorder *services.AuditRecorder,
) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the availability-change command.
func (h *SetDriverAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetDriverAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	userRepo := uow.UserRepository()
	driver, err := userRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	before := driver.IsAvailable()
	if err = driver.SetAvailability(cmd.Available()); err != nil {
		return err
	}

	if err = userRepo.Update(ctx, driver); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.DriverID()),
		Action:     audit.ActionUpdate,
		EntityKind: audit.EntityUser,
		EntityID:   driver.ID().String(),
		Before:     availabilitySnapshot(before),
		After:      availabilitySnapshot(cmd.Available()),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  time.Now().UTC(),
	})

	return nil
}

func availabilitySnapshot(available bool) json.RawMessage {
	snapshot, _ := json.Marshal(map[string]bool{"available": available})
	return snapshot
}
