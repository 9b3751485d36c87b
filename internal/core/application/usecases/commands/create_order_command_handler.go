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
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order placement.
//
// Unit prices are snapshotted from the product records inside the same
// transaction that decrements their stock, so the order's money figures and
// the stock movement always agree. Customers may only order for themselves;
// staff may place orders on a customer's behalf.
type CreateOrderCommandHandler struct {
	uowFactory FulfillmentUoWFactory
	recorder   *services.AuditRecorder
	dispatcher *services.NotificationDispatcher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory FulfillmentUoWFactory,
	recorder *services.AuditRecorder,
	dispatcher *services.NotificationDispatcher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		dispatcher: dispatcher,
	}
}

// Handle processes the order-placement command. After commit it records the
// CREATE audit entry, confirms to the customer, and fans a low-stock warning
// out to staff for every product the order pushed to its threshold.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.ActorRole() == user.RoleCustomer && !cmd.ActorID().IsEqual(cmd.CustomerID()) {
		return errs.NewForbiddenError(cmd.ActorRole().String(), "place an order for another customer")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	productRepo := uow.ProductRepository()

	items := make([]order.Item, 0, len(cmd.Lines()))
	var lowStock []*catalog.Product
	for _, line := range cmd.Lines() {
		product, err := productRepo.Get(ctx, line.ProductID)
		if err != nil {
			return err
		}
		if product.TrashState().IsTrashed() {
			return errs.NewObjectNotFoundError("productId", line.ProductID.String())
		}

		if err = product.DecrementStock(line.Quantity); err != nil {
			return err
		}
		if err = productRepo.Update(ctx, product); err != nil {
			return err
		}

		item, err := order.NewItem(product.ID(), line.Quantity, product.Price())
		if err != nil {
			return err
		}
		items = append(items, item)

		if product.IsLowStock() {
			lowStock = append(lowStock, product)
		}
	}

	now := time.Now().UTC()
	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.AddressID(),
		items, cmd.DeliveryFee(), cmd.Discount(), now,
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.Record(ctx, audit.EntryParams{
		ActorID:    ptr(cmd.ActorID()),
		Action:     audit.ActionCreate,
		EntityKind: audit.EntityOrder,
		EntityID:   aggregate.ID().String(),
		After:      orderSnapshot(aggregate),
		IP:         cmd.Meta().IP,
		UserAgent:  cmd.Meta().UserAgent,
		CreatedAt:  now,
	})

	h.dispatcher.NotifyUserByID(ctx, aggregate.CustomerID(), services.Message{
		Type:    notification.TypeOrderPlaced,
		Title:   fmt.Sprintf("Order %s received", aggregate.Number()),
		Body:    "We have your order and will confirm it shortly",
		Payload: orderSnapshot(aggregate),
	})

	for _, product := range lowStock {
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

func orderSnapshot(aggregate *order.Order) json.RawMessage {
	snapshot, _ := json.Marshal(map[string]any{
		"orderId": aggregate.ID().String(),
		"number":  aggregate.Number(),
		"status":  aggregate.Status().String(),
		"total":   aggregate.Total(),
	})
	return snapshot
}

func lowStockPayload(product *catalog.Product) json.RawMessage {
	payload, _ := json.Marshal(map[string]any{
		"productId": product.ID().String(),
		"stock":     product.Stock(),
		"threshold": product.LowStockThreshold(),
	})
	return payload
}
