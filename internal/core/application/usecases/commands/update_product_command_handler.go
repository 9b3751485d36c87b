package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
)

// UpdateProductCommandHandler handles staff edits to product records.
//
// The low-stock check re-runs whenever the update touched stock, the
// threshold, or the tracking flag; a product that ends up at or below its
// threshold triggers the same staff fan-out a sale does.
type UpdateProductCommandHandler struct {
	uowFactory ProductUoWFactory
	recorder   *services.AuditRecorder
	dispatcher *services.NotificationDispatcher
}

// NewUpdateProductCommandHandler creates a handler for product updates.
func NewUpdateProductCommandHandler(
	uowFactory ProductUoWFactory,
	recorder *services.AuditRecorder,
	dispatcher *services.NotificationDispatcher,
) UpdateProductCommandHandler {
	return UpdateProductCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		dispatcher: dispatcher,
	}
}

// Handle processes the product-update command.
func (h *UpdateProductCommandHandler) Handle(ctx context.Context, cmd UpdateProductCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !cmd.ActorRole().IsStaff() {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "update a product")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()
	product, err := productRepo.Get(ctx, cmd.ProductID())
	if err != nil {
		return err
	}

	before := productSnapshot(product)
	stockTouched, err := applyProductChanges(product, cmd.Changes())
	if err != nil {
		return err
	}

	if err = productRepo.Update(ctx, product); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionUpdate,
		EntityKind: audit.EntityProduct,
		EntityID:   product.ID().String(),
		Before:     before,
		After:      productSnapshot(product),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  time.Now().UTC(),
	})

	if stockTouched && product.IsLowStock() {
		msg := services.Message{
			Type:    notification.TypeLowStock,
			Title:   fmt.Sprintf("Low stock: %s", product.Name()),
			Body:    fmt.Sprintf("%d left, threshold is %d", product.Stock(), product.LowStockThreshold()),
			Payload: lowStockPayload(product),
		}
		h.dispatcher.NotifyRole(ctx, user.RoleOperations, msg)
		h.dispatcher.NotifyRole(ctx, user.RoleAdmin, msg)
	}

	return nil
}

// applyProductChanges mutates the aggregate and reports whether any
// stock-affecting field changed.
func applyProductChanges(product *catalog.Product, changes ProductChanges) (bool, error) {
	if changes.Price != nil {
		if err := product.SetPrice(*changes.Price); err != nil {
			return false, err
		}
	}
	if changes.Cost != nil {
		if err := product.SetCost(*changes.Cost); err != nil {
			return false, err
		}
	}

	stockTouched := false
	if changes.Stock != nil {
		if err := product.SetStock(*changes.Stock); err != nil {
			return false, err
		}
		stockTouched = true
	}
	if changes.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*changes.LowStockThreshold); err != nil {
			return false, err
		}
		stockTouched = true
	}
	if changes.TrackStock != nil {
		product.SetStockTracking(*changes.TrackStock)
		stockTouched = true
	}

	return stockTouched, nil
}

func productSnapshot(product *catalog.Product) json.RawMessage {
	snapshot, _ := json.Marshal(map[string]any{
		"name":       product.Name(),
		"price":      product.Price(),
		"cost":       product.Cost(),
		"stock":      product.Stock(),
		"threshold":  product.LowStockThreshold(),
		"trackStock": product.TracksStock(),
	})
	return snapshot
}
