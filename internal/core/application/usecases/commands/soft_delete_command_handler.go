package commands

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// SoftDeleteCommandHandler handles moving entities to the trash.
//
// Soft-deleting a category cascades to its live products in the same
// transaction; restore never cascades back, so a restored category comes back
// empty until its products are restored one by one.
type SoftDeleteCommandHandler struct {
	uowFactory TrashUoWFactory
	recorder   *services.AuditRecorder
}

// NewSoftDeleteCommandHandler creates a handler for soft deletion.
func NewSoftDeleteCommandHandler(
	uowFactory TrashUoWFactory,
	recorder *services.AuditRecorder,
) SoftDeleteCommandHandler {
	return SoftDeleteCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the soft-delete command. One DELETE audit entry is recorded
// for the target and one for every product a category cascade swept along,
// each carrying a pre-deletion snapshot of the entity.
func (h *SoftDeleteCommandHandler) Handle(ctx context.Context, cmd SoftDeleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.ActorRole().IsStaff() {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "soft-delete "+cmd.EntityKind())
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	trashed, err := h.trash(ctx, uow, cmd, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, record := range trashed {
		h.recordTrashed(ctx, cmd, record, now)
	}

	return nil
}

// trashedEntity captures a just-trashed entity and its pre-deletion snapshot
// for the audit trail. A category cascade yields one record per swept product
// after the record for the category itself.
type trashedEntity struct {
	kind   string
	id     kernel.UUID
	before json.RawMessage
}

// trash performs the kind-specific soft delete and returns the audit records
// for the target and every product swept along by a category cascade.
func (h *SoftDeleteCommandHandler) trash(
	ctx context.Context,
	uow TrashUoW,
	cmd SoftDeleteCommand,
	now time.Time,
) ([]trashedEntity, error) {
	switch cmd.EntityKind() {
	case audit.EntityUser:
		repo := uow.UserRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		before := preImage(map[string]any{
			"name":    aggregate.Name(),
			"role":    aggregate.Role().String(),
			"trashed": false,
		})
		if err = aggregate.MarkTrashed(now); err != nil {
			return nil, err
		}
		return []trashedEntity{{audit.EntityUser, aggregate.ID(), before}},
			repo.Update(ctx, aggregate)

	case audit.EntityProduct:
		repo := uow.ProductRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		before := productPreImage(aggregate)
		if err = aggregate.MarkTrashed(now); err != nil {
			return nil, err
		}
		return []trashedEntity{{audit.EntityProduct, aggregate.ID(), before}},
			repo.Update(ctx, aggregate)

	case audit.EntityCategory:
		categoryRepo := uow.CategoryRepository()
		aggregate, err := categoryRepo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		before := preImage(map[string]any{
			"name":    aggregate.Name(),
			"trashed": false,
		})
		if err = aggregate.MarkTrashed(now); err != nil {
			return nil, err
		}
		if err = categoryRepo.Update(ctx, aggregate); err != nil {
			return nil, err
		}

		productRepo := uow.ProductRepository()
		products, err := productRepo.GetAllLiveByCategory(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}

		trashed := make([]trashedEntity, 0, len(products)+1)
		trashed = append(trashed, trashedEntity{audit.EntityCategory, aggregate.ID(), before})
		for _, product := range products {
			productBefore := productPreImage(product)
			if err = product.MarkTrashed(now); err != nil {
				return nil, err
			}
			if err = productRepo.Update(ctx, product); err != nil {
				return nil, err
			}
			trashed = append(trashed, trashedEntity{audit.EntityProduct, product.ID(), productBefore})
		}
		return trashed, nil

	case audit.EntityOffer:
		repo := uow.OfferRepository()
		aggregate, err := repo.Get(ctx, cmd.EntityID())
		if err != nil {
			return nil, err
		}
		before := preImage(map[string]any{
			"title":      aggregate.Title(),
			"percentOff": aggregate.PercentOff(),
			"trashed":    false,
		})
		if err = aggregate.MarkTrashed(now); err != nil {
			return nil, err
		}
		return []trashedEntity{{audit.EntityOffer, aggregate.ID(), before}},
			repo.Update(ctx, aggregate)

	default:
		return nil, validateTrashableKind(cmd.EntityKind())
	}
}

func productPreImage(product *catalog.Product) json.RawMessage {
	return preImage(map[string]any{
		"name":       product.Name(),
		"categoryId": product.CategoryID().String(),
		"imageUrls":  product.ImageURLs(),
		"trashed":    false,
	})
}

func (h *SoftDeleteCommandHandler) recordTrashed(
	ctx context.Context,
	cmd SoftDeleteCommand,
	record trashedEntity,
	now time.Time,
) {
	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionDelete,
		EntityKind: record.kind,
		EntityID:   record.id.String(),
		Before:     record.before,
		After:      trashedSnapshot(true),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  now,
	})
}
