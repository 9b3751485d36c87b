package commands

import (
	"context"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/pkg/errs"
)

// RestoreCommandHandler handles bringing trashed entities back to live state.
type RestoreCommandHandler struct {
	uowFactory TrashUoWFactory
	recorder   *services.AuditRecorder
}

// NewRestoreCommandHandler creates a handler for restoring trashed entities.
func NewRestoreCommandHandler(
	uowFactory TrashUoWFactory,
	recorder *services.AuditRecorder,
) RestoreCommandHandler {
	return RestoreCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the restore command.
func (h *RestoreCommandHandler) Handle(ctx context.Context, cmd RestoreCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.ActorRole().IsStaff() {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "restore "+cmd.EntityKind())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := h.restore(ctx, uow, cmd); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionUpdate,
		EntityKind: cmd.EntityKind(),
		EntityID:   cmd.EntityID().String(),
		Before:     trashedSnapshot(true),
		After:      trashedSnapshot(false),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  time.Now().UTC(),
	})

	return nil
}

func (h *RestoreCommandHandler) restore(ctx context.Context, uow TrashUoW, cmd RestoreCommand) error {
	switch cmd.EntityKind() {
	case audit.EntityUser:
		repo := uow.UserRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return err
		}
		if err = aggregate.RestoreFromTrash(); err != nil {
			return err
		}
		return repo.Update(ctx, aggregate)

	case audit.EntityProduct:
		repo := uow.ProductRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return err
		}
		if err = aggregate.RestoreFromTrash(); err != nil {
			return err
		}
		return repo.Update(ctx, aggregate)

	case audit.EntityCategory:
		repo := uow.CategoryRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return err
		}
		if err = aggregate.RestoreFromTrash(); err != nil {
			return err
		}
		return repo.Update(ctx, aggregate)

	case audit.EntityOffer:
		repo := uow.OfferRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return err
		}
		if err = aggregate.RestoreFromTrash(); err != nil {
			return err
		}
		return repo.Update(ctx, aggregate)

	default:
		return validateTrashableKind(cmd.EntityKind())
	}
}
