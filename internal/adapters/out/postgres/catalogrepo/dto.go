// Package catalogrepo provides data transfer objects and mapping functions
// for catalog persistence: products, categories, and promotional offers share
// one package because the trash lifecycle treats them uniformly.
package catalogrepo

import (
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductDTO represents the database structure for persisting product aggregates.
type ProductDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string
	Price             int64
	Cost              int64
	Stock             int
	LowStockThreshold int
	TrackStock        bool
	CategoryID        uuid.UUID      `gorm:"type:uuid;index"`
	ImageURLs         pq.StringArray `gorm:"type:text[]"`
	DeletedAt         *time.Time     `gorm:"index"`
}

// TableName specifies the database table name for product entities.
func (ProductDTO) TableName() string {
	return "products"
}

// CategoryDTO represents the database structure for persisting category aggregates.
type CategoryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex"`
	DeletedAt *time.Time `gorm:"index"`
}

// TableName specifies the database table name for category entities.
func (CategoryDTO) TableName() string {
	return "categories"
}

// OfferDTO represents the database structure for persisting offer aggregates.
type OfferDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title      string
	PercentOff int
	DeletedAt  *time.Time `gorm:"index"`
}

// TableName specifies the database table name for offer entities.
func (OfferDTO) TableName() string {
	return "offers"
}

func trashStateFrom(deletedAt *time.Time) (kernel.TrashState, error) {
	if deletedAt == nil {
		return kernel.Live(), nil
	}
	return kernel.Trashed(*deletedAt)
}

func productFromDomain(aggregate *catalog.Product) ProductDTO {
	return ProductDTO{
		ID:                aggregate.ID().Bytes(),
		Name:              aggregate.Name(),
		Price:             aggregate.Price(),
		Cost:              aggregate.Cost(),
		Stock:             aggregate.Stock(),
		LowStockThreshold: aggregate.LowStockThreshold(),
		TrackStock:        aggregate.TracksStock(),
		CategoryID:        aggregate.CategoryID().Bytes(),
		ImageURLs:         pq.StringArray(aggregate.ImageURLs()),
		DeletedAt:         aggregate.TrashState().TrashedAt(),
	}
}

func productToDomain(dto ProductDTO) (*catalog.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	categoryID, err := kernel.UUIDFromBytes(dto.CategoryID[:])
	if err != nil {
		return nil, err
	}

	trashState, err := trashStateFrom(dto.DeletedAt)
	if err != nil {
		return nil, err
	}

	return catalog.RestoreProduct(catalog.RestoreProductParams{
		ID:                id,
		Name:              dto.Name,
		Price:             dto.Price,
		Cost:              dto.Cost,
		Stock:             dto.Stock,
		LowStockThreshold: dto.LowStockThreshold,
		TrackStock:        dto.TrackStock,
		CategoryID:        categoryID,
		ImageURLs:         []string(dto.ImageURLs),
		TrashState:        trashState,
	})
}

func categoryFromDomain(aggregate *catalog.Category) CategoryDTO {
	return CategoryDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		DeletedAt: aggregate.TrashState().TrashedAt(),
	}
}

func categoryToDomain(dto CategoryDTO) (*catalog.Category, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trashState, err := trashStateFrom(dto.DeletedAt)
	if err != nil {
		return nil, err
	}

	return catalog.RestoreCategory(id, dto.Name, trashState)
}

func offerFromDomain(aggregate *catalog.Offer) OfferDTO {
	return OfferDTO{
		ID:         aggregate.ID().Bytes(),
		Title:      aggregate.Title(),
		PercentOff: aggregate.PercentOff(),
		DeletedAt:  aggregate.TrashState().TrashedAt(),
	}
}

func offerToDomain(dto OfferDTO) (*catalog.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	trashState, err := trashStateFrom(dto.DeletedAt)
	if err != nil {
		return nil, err
	}

	return catalog.RestoreOffer(id, dto.Title, dto.PercentOff, trashState)
}
