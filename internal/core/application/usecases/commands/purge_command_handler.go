package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PurgeCommandHandler handles permanent removal of trashed entities.
//
// Purge is admin-only and only applies to entities already in the trash.
// Categories with live products still referencing them cannot be purged.
// Product purge deletes the externally stored images first; if the asset
// store refuses, the purge aborts and the row stays.
type PurgeCommandHandler struct {
	uowFactory TrashUoWFactory
	assets     ports.AssetStore
	recorder   *services.AuditRecorder
}

// NewPurgeCommandHandler creates a handler for permanent removal.
func NewPurgeCommandHandler(
	uowFactory TrashUoWFactory,
	assets ports.AssetStore,
	recorder *services.AuditRecorder,
) PurgeCommandHandler {
	return PurgeCommandHandler{
		uowFactory: uowFactory,
		assets:     assets,
		recorder:   recorder,
	}
}

// Handle processes the purge command. The DELETE audit entry carries a
// pre-image of the removed entity, the only trace that survives.
func (h *PurgeCommandHandler) Handle(ctx context.Context, cmd PurgeCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.ActorRole() != user.RoleAdmin {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "purge "+cmd.EntityKind())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	image, err := h.purge(ctx, uow, cmd)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionDelete,
		EntityKind: cmd.EntityKind(),
		EntityID:   cmd.EntityID().String(),
		Before:     image,
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  time.Now().UTC(),
	})

	return nil
}

// purge performs the kind-specific removal and returns the pre-image recorded
// in the audit trail.
func (h *PurgeCommandHandler) purge(ctx context.Context, uow TrashUoW, cmd PurgeCommand) (json.RawMessage, error) {
	switch cmd.EntityKind() {
	case audit.EntityUser:
		repo := uow.UserRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		if err = requireTrashed(aggregate.TrashState(), "user"); err != nil {
			return nil, err
		}
		return preImage(map[string]any{
			"name": aggregate.Name(),
			"role": aggregate.Role().String(),
		}), repo.Remove(ctx, cmd.EntityID())

	case audit.EntityProduct:
		repo := uow.ProductRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		if err = requireTrashed(aggregate.TrashState(), "product"); err != nil {
			return nil, err
		}
		for _, assetURL := range aggregate.ImageURLs() {
			if err = h.assets.Delete(ctx, assetURL); err != nil {
				return nil, fmt.Errorf("deleting product asset: %w", err)
			}
		}
		return preImage(map[string]any{
			"name":       aggregate.Name(),
			"categoryId": aggregate.CategoryID().String(),
			"imageUrls":  aggregate.ImageURLs(),
		}), repo.Remove(ctx, cmd.EntityID())

	case audit.EntityCategory:
		repo := uow.CategoryRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		if err = requireTrashed(aggregate.TrashState(), "category"); err != nil {
			return nil, err
		}

		live, err := uow.ProductRepository().CountLiveByCategory(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		if live > 0 {
			return nil, errs.NewConflictError("category",
				fmt.Sprintf("%d live products still reference it", live))
		}
		return preImage(map[string]any{
			"name": aggregate.Name(),
		}), repo.Remove(ctx, cmd.EntityID())

	case audit.EntityOffer:
		repo := uow.OfferRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		if err = requireTrashed(aggregate.TrashState(), "offer"); err != nil {
			return nil, err
		}
		return preImage(map[string]any{
			"title":      aggregate.Title(),
			"percentOff": aggregate.PercentOff(),
		}), repo.Remove(ctx, cmd.EntityID())

	default:
		return nil, validateTrashableKind(cmd.EntityKind())
	}
}

func requireTrashed(state kernel.TrashState, subject string) error {
	if state.IsLive() {
		return errs.NewInvalidStateError(subject, "not trashed")
	}
	return nil
}
