// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence, and post-commit side channels (audit, notifications).
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// RequestMeta carries best-effort request attribution for the audit trail.
// Both fields are optional; an empty value is recorded as such.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// UserRepoFactory provides access to the user repository within a transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// CategoryRepoFactory provides access to the category repository within a transaction.
	CategoryRepoFactory interface {
		CategoryRepository() ports.CategoryRepository
	}

	// OfferRepoFactory provides access to the offer repository within a transaction.
	OfferRepoFactory interface {
		OfferRepository() ports.OfferRepository
	}

	// FulfillmentUoW manages transactions for the order lifecycle: the order
	// itself plus the user and product records it reads and updates along the
	// way (driver payout and availability, stock decrements, cost basis).
	FulfillmentUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		ProductRepoFactory
	}

	// FulfillmentUoWFactory creates new fulfillment unit of work instances.
	FulfillmentUoWFactory interface {
		Create() FulfillmentUoW
	}

	// UserUoW manages transactions for user-only operations.
	UserUoW interface {
		TxManager
		UserRepoFactory
	}

	// UserUoWFactory creates new user unit of work instances.
	UserUoWFactory interface {
		Create() UserUoW
	}

	// ProductUoW manages transactions for product-only operations.
	ProductUoW interface {
		TxManager
		ProductRepoFactory
	}

	// ProductUoWFactory creates new product unit of work instances.
	ProductUoWFactory interface {
		Create() ProductUoW
	}

	// TrashUoW manages transactions for the trash subsystem, which operates
	// across every soft-deletable aggregate kind.
	TrashUoW interface {
		TxManager
		UserRepoFactory
		ProductRepoFactory
		CategoryRepoFactory
		OfferRepoFactory
	}

	// TrashUoWFactory creates new trash unit of work instances.
	TrashUoWFactory interface {
		Create() TrashUoW
	}
)
