package catalog

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrProductIsNotConstructed is returned when a Product instance was not
	// created through NewProduct or RestoreProduct.
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")

	// ErrInsufficientStock is returned when an order asks for more units than
	// the tracked stock holds.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is a sellable item. Price and cost are kept in minor currency
// units; cost feeds the cost-basis figure locked in when an order is
// delivered.
//
// Stock is only meaningful when tracking is enabled. The low-stock condition
// (stock at or below the configured threshold) must be re-evaluated on every
// stock-affecting mutation, not only when a sale decrements it, so the
// mutators here report whether the check is worth re-running.
type Product struct {
	id                kernel.UUID
	name              string
	price             int64
	cost              int64
	stock             int
	lowStockThreshold int
	trackStock        bool
	categoryID        kernel.UUID
	imageURLs         []string
	trashState        kernel.TrashState

	isConstructed bool
}

// NewProduct creates a live product with stock tracking enabled.
func NewProduct(
	id kernel.UUID,
	name string,
	price, cost int64,
	stock, lowStockThreshold int,
	categoryID kernel.UUID,
) (*Product, error) {
	product := &Product{
		stock:             stock,
		lowStockThreshold: lowStockThreshold,
		trackStock:        true,
		trashState:        kernel.Live(),
		isConstructed:     true,
	}

	if err := errors.Join(
		product.setID(id),
		product.setName(name),
		product.setPrice(price),
		product.setCost(cost),
		product.setCategoryID(categoryID),
	); err != nil {
		return nil, err
	}

	return product, nil
}

// RestoreProductParams carries the full persisted state of a product.
type RestoreProductParams struct {
	ID                kernel.UUID
	Name              string
	Price             int64
	Cost              int64
	Stock             int
	LowStockThreshold int
	TrackStock        bool
	CategoryID        kernel.UUID
	ImageURLs         []string
	TrashState        kernel.TrashState
}

// RestoreProduct reconstructs a product from persistence.
func RestoreProduct(params RestoreProductParams) (*Product, error) {
	product := &Product{
		stock:             params.Stock,
		lowStockThreshold: params.LowStockThreshold,
		trackStock:        params.TrackStock,
		imageURLs:         params.ImageURLs,
		trashState:        params.TrashState,
		isConstructed:     true,
	}

	if err := errors.Join(
		product.setID(params.ID),
		product.setName(params.Name),
		product.setPrice(params.Price),
		product.setCost(params.Cost),
		product.setCategoryID(params.CategoryID),
	); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate ensures the Product was created through a constructor.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.id
}

// Name returns the product's display name.
func (p *Product) Name() string {
	return p.name
}

// Price returns the selling price in minor currency units.
func (p *Product) Price() int64 {
	return p.price
}

// Cost returns the acquisition cost in minor currency units.
func (p *Product) Cost() int64 {
	return p.cost
}

// Stock returns the current tracked stock level.
func (p *Product) Stock() int {
	return p.stock
}

// LowStockThreshold returns the level at or below which the product counts
// as low on stock.
func (p *Product) LowStockThreshold() int {
	return p.lowStockThreshold
}

// TracksStock reports whether stock bookkeeping applies to this product.
func (p *Product) TracksStock() bool {
	return p.trackStock
}

// CategoryID returns the owning category's identifier.
func (p *Product) CategoryID() kernel.UUID {
	return p.categoryID
}

// ImageURLs returns the externally stored product images.
func (p *Product) ImageURLs() []string {
	return p.imageURLs
}

// TrashState returns the product's soft-delete state.
func (p *Product) TrashState() kernel.TrashState {
	return p.trashState
}

// IsLowStock reports whether tracked stock sits at or below the threshold.
func (p *Product) IsLowStock() bool {
	return p.trackStock && p.stock <= p.lowStockThreshold
}

// DecrementStock reduces tracked stock by the ordered quantity.
// Untracked products are left unchanged. Returns ErrInsufficientStock when the
// tracked stock cannot cover the quantity.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if !p.trackStock {
		return nil
	}
	if p.stock < quantity {
		return errs.NewConflictErrorWithCause("product",
			fmt.Sprintf("stock %d cannot cover quantity %d", p.stock, quantity),
			ErrInsufficientStock)
	}

	p.stock -= quantity
	return nil
}

// SetPrice updates the selling price. Existing order lines are unaffected:
// they carry their own price snapshots.
func (p *Product) SetPrice(price int64) error {
	return p.setPrice(price)
}

// SetCost updates the acquisition cost used for future cost-basis captures.
func (p *Product) SetCost(cost int64) error {
	return p.setCost(cost)
}

// SetStock replaces the tracked stock level.
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return errs.NewValueIsInvalidErrorWithCause("stock", fmt.Errorf("%d is negative", stock))
	}
	p.stock = stock
	return nil
}

// SetLowStockThreshold replaces the low-stock threshold.
func (p *Product) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return errs.NewValueIsInvalidErrorWithCause("lowStockThreshold", fmt.Errorf("%d is negative", threshold))
	}
	p.lowStockThreshold = threshold
	return nil
}

// SetStockTracking enables or disables stock bookkeeping.
func (p *Product) SetStockTracking(track bool) {
	p.trackStock = track
}

// MarkTrashed soft-deletes the product at the given moment.
func (p *Product) MarkTrashed(at time.Time) error {
	if p.trashState.IsTrashed() {
		return errs.NewInvalidStateError("product", "already trashed")
	}

	state, err := kernel.Trashed(at)
	if err != nil {
		return err
	}
	p.trashState = state
	return nil
}

// RestoreFromTrash clears the soft-delete state.
func (p *Product) RestoreFromTrash() error {
	if p.trashState.IsLive() {
		return errs.NewInvalidStateError("product", "not trashed")
	}
	p.trashState = kernel.Live()
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Product) setPrice(price int64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", price))
	}
	p.price = price
	return nil
}

func (p *Product) setCost(cost int64) error {
	if cost < 0 {
		return errs.NewValueIsInvalidErrorWithCause("cost", fmt.Errorf("%d is negative", cost))
	}
	p.cost = cost
	return nil
}

func (p *Product) setCategoryID(categoryID kernel.UUID) error {
	if err := categoryID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("categoryID", err)
	}
	p.categoryID = categoryID
	return nil
}
