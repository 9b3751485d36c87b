package catalog

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrCategoryIsNotConstructed is returned when a Category instance was not
// created through NewCategory or RestoreCategory.
var ErrCategoryIsNotConstructed = errors.New("Category must be created via NewCategory or RestoreCategory constructor")

// Category groups products. Soft-deleting a category cascades to every live
// product under it; restoring the category deliberately does not resurrect
// those products.
type Category struct {
	id         kernel.UUID
	name       string
	trashState kernel.TrashState

	isConstructed bool
}

// NewCategory creates a live category.
func NewCategory(id kernel.UUID, name string) (*Category, error) {
	category := &Category{
		trashState:    kernel.Live(),
		isConstructed: true,
	}

	if err := errors.Join(
		category.setID(id),
		category.setName(name),
	); err != nil {
		return nil, err
	}

	return category, nil
}

// RestoreCategory reconstructs a category from persistence.
func RestoreCategory(id kernel.UUID, name string, trashState kernel.TrashState) (*Category, error) {
	category := &Category{
		trashState:    trashState,
		isConstructed: true,
	}

	if err := errors.Join(
		category.setID(id),
		category.setName(name),
	); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate ensures the Category was created through a constructor.
func (c *Category) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCategoryIsNotConstructed
	}
	return nil
}

// ID returns the category's unique identifier.
func (c *Category) ID() kernel.UUID {
	return c.id
}

// Name returns the category's display name.
func (c *Category) Name() string {
	return c.name
}

// TrashState returns the category's soft-delete state.
func (c *Category) TrashState() kernel.TrashState {
	return c.trashState
}

// MarkTrashed soft-deletes the category at the given moment. The product
// cascade is the TrashManager's responsibility, not the aggregate's.
func (c *Category) MarkTrashed(at time.Time) error {
	if c.trashState.IsTrashed() {
		return errs.NewInvalidStateError("category", "already trashed")
	}

	state, err := kernel.Trashed(at)
	if err != nil {
		return err
	}
	c.trashState = state
	return nil
}

// RestoreFromTrash clears the soft-delete state.
func (c *Category) RestoreFromTrash() error {
	if c.trashState.IsLive() {
		return errs.NewInvalidStateError("category", "not trashed")
	}
	c.trashState = kernel.Live()
	return nil
}

func (c *Category) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Category) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}
