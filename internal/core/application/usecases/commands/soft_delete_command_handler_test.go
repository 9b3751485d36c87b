package commands_test

import (
	"encoding/json"
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

func newSoftDeleteCommand(t *testing.T, kind string, id kernel.UUID, role user.Role) commands.SoftDeleteCommand {
	t.Helper()

	cmd, err := commands.NewSoftDeleteCommand(kind, id, kernel.NewUUID(), role, commands.RequestMeta{})
	require.NoError(t, err)
	return cmd
}

func TestSoftDeleteCommandHandler_TrashesProduct(t *testing.T) {
	ctx := t.Context()
	product := restoredProduct(t, kernel.NewUUID(), 1500, 400, 10, 3)

	productRepo := new(MockProductRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ProductRepository").Return(productRepo).Once(),
		productRepo.On("Get", ctx, product.ID()).Return(product, nil).Once(),
		productRepo.On("Update", ctx, product).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()

	handler := commands.NewSoftDeleteCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		side.recorder,
	)
	cmd := newSoftDeleteCommand(t, audit.EntityProduct, product.ID(), user.RoleOperations)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.True(t, product.TrashState().IsTrashed())

	entry := side.auditRepo.Calls[0].Arguments[1].(*audit.Entry)
	assert.Equal(t, audit.ActionDelete, entry.Action())
	assert.JSONEq(t, `{"trashed":true}`, string(entry.After()))

	// the entry keeps a snapshot of the product as it was before trashing
	var before map[string]any
	require.NoError(t, json.Unmarshal(entry.Before(), &before))
	assert.Equal(t, "Widget", before["name"])
	assert.Equal(t, product.CategoryID().String(), before["categoryId"])
	assert.Equal(t, false, before["trashed"])
}

func TestSoftDeleteCommandHandler_CategoryCascadesToLiveProducts(t *testing.T) {
	ctx := t.Context()
	category, err := catalog.RestoreCategory(kernel.NewUUID(), "Beverages", kernel.Live())
	require.NoError(t, err)
	first := restoredProduct(t, kernel.NewUUID(), 1500, 400, 10, 3)
	second := restoredProduct(t, kernel.NewUUID(), 900, 200, 5, 2)

	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("CategoryRepository").Return(categoryRepo)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	categoryRepo.On("Get", ctx, category.ID()).Return(category, nil)
	categoryRepo.On("Update", ctx, category).Return(nil)
	productRepo.On("GetAllLiveByCategory", ctx, category.ID()).
		Return([]*catalog.Product{first, second}, nil)
	productRepo.On("Update", ctx, first).Return(nil).Once()
	productRepo.On("Update", ctx, second).Return(nil).Once()

	side := newSideChannels()
	// one entry for the category plus one per cascaded product
	side.auditRepo.On("Add", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil).Times(3)

	handler := commands.NewSoftDeleteCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		side.recorder,
	)
	cmd := newSoftDeleteCommand(t, audit.EntityCategory, category.ID(), user.RoleAdmin)

	require.NoError(t, handler.Handle(ctx, cmd))

	assert.True(t, category.TrashState().IsTrashed())
	assert.True(t, first.TrashState().IsTrashed())
	assert.True(t, second.TrashState().IsTrashed())
	side.auditRepo.AssertExpectations(t)

	kinds := make([]string, 0, 3)
	for _, call := range side.auditRepo.Calls {
		kinds = append(kinds, call.Arguments[1].(*audit.Entry).EntityKind())
	}
	assert.Equal(t, []string{audit.EntityCategory, audit.EntityProduct, audit.EntityProduct}, kinds)

	// every entry, cascaded products included, carries its own pre-image
	categoryEntry := side.auditRepo.Calls[0].Arguments[1].(*audit.Entry)
	assert.Contains(t, string(categoryEntry.Before()), `"name":"Beverages"`)
	for _, call := range side.auditRepo.Calls[1:] {
		productEntry := call.Arguments[1].(*audit.Entry)
		assert.Contains(t, string(productEntry.Before()), `"name":"Widget"`)
	}
}

func TestSoftDeleteCommandHandler_NonStaffIsForbidden(t *testing.T) {
	side := newSideChannels()
	handler := commands.NewSoftDeleteCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return new(MockUoW) }),
		side.recorder,
	)
	cmd := newSoftDeleteCommand(t, audit.EntityProduct, kernel.NewUUID(), user.RoleCustomer)

	err := handler.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestNewSoftDeleteCommand_RejectsUntrashableKind(t *testing.T) {
	_, err := commands.NewSoftDeleteCommand(
		audit.EntityOrder, kernel.NewUUID(), kernel.NewUUID(),
		user.RoleAdmin, commands.RequestMeta{},
	)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestSoftDeleteCommandHandler_AlreadyTrashedIsAnError(t *testing.T) {
	ctx := t.Context()
	product := restoredProduct(t, kernel.NewUUID(), 1500, 400, 10, 3)
	require.NoError(t, product.MarkTrashed(testNow))

	productRepo := new(MockProductRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil)
	productRepo.On("Get", ctx, product.ID()).Return(product, nil)

	side := newSideChannels()
	handler := commands.NewSoftDeleteCommandHandler(
		TrashUoWFactoryFunc(func() commands.TrashUoW { return uow }),
		side.recorder,
	)
	cmd := newSoftDeleteCommand(t, audit.EntityProduct, product.ID(), user.RoleOperations)

	err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidState)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
