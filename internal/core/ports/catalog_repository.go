package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
)

// ProductRepository defines the persistence contract for product aggregates.
type ProductRepository interface {
	// Add persists a new product aggregate.
	Add(ctx context.Context, aggregate *catalog.Product) error

	// Update persists changes to an existing product aggregate.
	Update(ctx context.Context, aggregate *catalog.Product) error

	// Get retrieves a product by id, whether live or trashed.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error)

	// GetAllLiveByCategory retrieves every live product in the category.
	// Used by the category soft-delete cascade.
	GetAllLiveByCategory(ctx context.Context, categoryID kernel.UUID) ([]*catalog.Product, error)

	// CountLiveByCategory counts live products referencing the category.
	// A non-zero count blocks permanent category purge.
	CountLiveByCategory(ctx context.Context, categoryID kernel.UUID) (int64, error)

	// Remove physically deletes a product row. Only the purge path calls this.
	Remove(ctx context.Context, id kernel.UUID) error
}

// CategoryRepository defines the persistence contract for category aggregates.
type CategoryRepository interface {
	// Add persists a new category aggregate.
	Add(ctx context.Context, aggregate *catalog.Category) error

	// Update persists changes to an existing category aggregate.
	Update(ctx context.Context, aggregate *catalog.Category) error

	// Get retrieves a category by id, whether live or trashed.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Category, error)

	// Remove physically deletes a category row. Only the purge path calls this.
	Remove(ctx context.Context, id kernel.UUID) error
}

// OfferRepository defines the persistence contract for offer aggregates.
type OfferRepository interface {
	// Add persists a new offer aggregate.
	Add(ctx context.Context, aggregate *catalog.Offer) error

	// Update persists changes to an existing offer aggregate.
	Update(ctx context.Context, aggregate *catalog.Offer) error

	// Get retrieves an offer by id, whether live or trashed.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Offer, error)

	// Remove physically deletes an offer row. Only the purge path calls this.
	Remove(ctx context.Context, id kernel.UUID) error
}
