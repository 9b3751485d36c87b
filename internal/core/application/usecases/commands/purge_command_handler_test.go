package commands_test

import (
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPurgeCommand(t *testing.T, kind string, id kernel.UUID, role user.Role) commands.PurgeCommand {
	t.Helper()

	cmd, err := commands.NewPurgeCommand(kind, id, kernel.NewUUID(), role, commands.RequestMeta{})
	require.NoError(t, err)
	return cmd
}

func trashedProductWithImages(t *testing.T, urls []string) *catalog.Product {
	t.Helper()

	trashed, err := kernel.Trashed(testNow)
	require.NoError(t, err)

	product, err := catalog.RestoreProduct(catalog.RestoreProductParams{
		ID:         kernel.NewUUID(),
		Name:       "Widget",
		Price:      1500,
		Cost:       400,
		Stock:      0,
		TrackStock: true,
		CategoryID: kernel.NewUUID(),
		ImageURLs:  urls,
		TrashState: trashed,
	})
	require.NoError(t, err)
	return product
}

func TestPurgeCommandHandler_PurgesProductAndItsAssets(t *testing.T) {
	ctx := t.Context()
	product := trashedProductWithImages(t, []string{
		"https://assets.example.com/p/1.jpg",
		"https://assets.example.com/p/2.jpg",
	})

	productRepo := new(MockProductRepository)
	assets := new(MockAssetStore)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProductRepository").Return(productRepo).Once(),
		productRepo.On("Get", ctx, product.ID()).Return(product, nil).Once(),
		assets.On("Delete", ctx, "https://assets.example.com/p/1.jpg").Return(nil).Once(),
		assets.On("Delete", ctx, "https://assets.example.com/p/2.jpg").Return(nil).Once(),
		productRepo.On("Remove", ctx, product.ID()).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

	handler := commands.NewPurgeCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		assets, side.recorder,
	)
	cmd := newPurgeCommand(t, audit.EntityProduct, product.ID(), user.RoleAdmin)

	require.NoError(t, handler.Handle(ctx, cmd))

	entry := side.auditRepo.Calls[0].Arguments[1].(*audit.Entry)
	assert.Equal(t, audit.ActionDelete, entry.Action())
	assert.Contains(t, string(entry.Before()), `"name":"Widget"`)
	assert.Contains(t, string(entry.Before()), "1.jpg")
	assert.Nil(t, entry.After())
}

func TestPurgeCommandHandler_AssetDeletionFailureAbortsThePurge(t *testing.T) {
	ctx := t.Context()
	product := trashedProductWithImages(t, []string{"https://assets.example.com/p/1.jpg"})

	productRepo := new(MockProductRepository)
	assets := new(MockAssetStore)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil)
	productRepo.On("Get", ctx, product.ID()).Return(product, nil)
	assets.On("Delete", ctx, mock.Anything).Return(errors.New("storage unreachable"))

	side := newSideChannels()
	handler := commands.NewPurgeCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		assets, side.recorder,
	)
	cmd := newPurgeCommand(t, audit.EntityProduct, product.ID(), user.RoleAdmin)

	err := handler.Handle(ctx, cmd)
	require.ErrorContains(t, err, "deleting product asset")
	productRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestPurgeCommandHandler_LiveEntityCannotBePurged(t *testing.T) {
	ctx := t.Context()
	offer, err := catalog.RestoreOffer(kernel.NewUUID(), "Summer sale", 20, kernel.Live())
	require.NoError(t, err)

	offerRepo := new(MockOfferRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("Rollback", ctx).Return(nil)
	offerRepo.On("Get", ctx, offer.ID()).Return(offer, nil)

	side := newSideChannels()
	handler := commands.NewPurgeCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		new(MockAssetStore), side.recorder,
	)
	cmd := newPurgeCommand(t, audit.EntityOffer, offer.ID(), user.RoleAdmin)

	err = handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	offerRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestPurgeCommandHandler_CategoryWithLiveProductsIsAConflict(t *testing.T) {
	ctx := t.Context()
	trashed, err := kernel.Trashed(testNow)
	require.NoError(t, err)
	category, err := catalog.RestoreCategory(kernel.NewUUID(), "Beverages", trashed)
	require.NoError(t, err)

	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("CategoryRepository").Return(categoryRepo)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil)
	categoryRepo.On("Get", ctx, category.ID()).Return(category, nil)
	productRepo.On("CountLiveByCategory", ctx, category.ID()).Return(int64(4), nil)

	side := newSideChannels()
	handler := commands.NewPurgeCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		new(MockAssetStore), side.recorder,
	)
	cmd := newPurgeCommand(t, audit.EntityCategory, category.ID(), user.RoleAdmin)

	err = handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	categoryRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestPurgeCommandHandler_OnlyAdminMayPurge(t *testing.T) {
	side := newSideChannels()
	handler := commands.NewPurgeCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return new(MockUoW) }),
		new(MockAssetStore), side.recorder,
	)

	for _, role := range []user.Role{user.RoleCustomer, user.RoleDriver, user.RoleOperations} {
		cmd := newPurgeCommand(t, audit.EntityUser, kernel.NewUUID(), role)
		err := handler.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrForbidden, role.String())
	}
}
