// Package ports defines the contracts between the application core and its
// adapters: repositories, the unit of work, and the external push and asset
// collaborators. The interfaces enable dependency inversion and testability.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its owned line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists non-status changes to an existing order. It never
	// writes the status column; any write that depends on the status the
	// caller read must go through UpdateStatusGuarded.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateStatusGuarded persists the aggregate only while the stored row
	// still holds expectedStatus. When the row moved on concurrently, no
	// write happens and an InvalidTransitionError is returned, so a stale
	// transition request can never overwrite a newer state.
	UpdateStatusGuarded(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate with its line items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
