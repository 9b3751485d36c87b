package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newChangeStatusCommand(
	t *testing.T,
	orderID kernel.UUID,
	target order.Status,
	actorID kernel.UUID,
	actorRole user.Role,
) commands.ChangeOrderStatusCommand {
	t.Helper()

	cmd, err := commands.NewChangeOrderStatusCommand(
		orderID, target, actorID, actorRole,
		commands.RequestMeta{IP: "203.0.113.7", UserAgent: "test-agent"},
	)
	require.NoError(t, err)
	return cmd
}

func TestChangeOrderStatusCommandHandler_StaffConfirmsPendingOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	aggregate := restoredOrder(t, order.Pending, customerID, nil)
	actorID := kernel.NewUUID()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("UpdateStatusGuarded", ctx, aggregate, order.Pending).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(nil).Once()
	side.userRepo.On("Get", mock.Anything, customerID).Return(restoredCustomer(t, customerID), nil).Once()
	side.notifRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Confirmed, actorID, user.RoleOperations)

	updated, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	// the caller gets the updated order back
	require.NotNil(t, updated)
	assert.Equal(t, order.Confirmed, updated.Status())
	assert.NotNil(t, updated.ConfirmedAt())
	assert.True(t, updated.IsEqual(aggregate))
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	side.auditRepo.AssertExpectations(t)
	side.notifRepo.AssertExpectations(t)

	entry := side.auditRepo.Calls[0].Arguments[1].(*audit.Entry)
	assert.Equal(t, audit.ActionStatusChange, entry.Action())
	assert.Equal(t, audit.EntityOrder, entry.EntityKind())
	assert.Equal(t, aggregate.ID().String(), entry.EntityID())
	assert.JSONEq(t, `{"status":"PENDING"}`, string(entry.Before()))
	assert.JSONEq(t, `{"status":"CONFIRMED"}`, string(entry.After()))
	assert.Equal(t, "203.0.113.7", entry.IP())
}

func TestChangeOrderStatusCommandHandler_CustomerCancelsOwnPendingOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	aggregate := restoredOrder(t, order.Pending, customerID, nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	orderRepo.On("UpdateStatusGuarded", ctx, aggregate, order.Pending).Return(nil)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.Anything).Return(nil)
	side.userRepo.On("Get", mock.Anything, customerID).Return(restoredCustomer(t, customerID), nil)
	side.notifRepo.On("Add", mock.Anything, mock.Anything).Return(nil)

	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Cancelled, customerID, user.RoleCustomer)

	updated, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, updated.Status())
}

func TestChangeOrderStatusCommandHandler_CustomerCannotCancelForeignOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, order.Pending, kernel.NewUUID(), nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Cancelled, kernel.NewUUID(), user.RoleCustomer)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.Pending, aggregate.Status())
	orderRepo.AssertNotCalled(t, "UpdateStatusGuarded", mock.Anything, mock.Anything, mock.Anything)
	side.auditRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_UnassignedDriverCannotDeliver(t *testing.T) {
	ctx := t.Context()
	assignedDriverID := kernel.NewUUID()
	aggregate := restoredOrder(t, order.OutForDelivery, kernel.NewUUID(), &assignedDriverID)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Delivered, kernel.NewUUID(), user.RoleDriver)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, order.OutForDelivery, aggregate.Status())
}

func TestChangeOrderStatusCommandHandler_AssignedDriverShipsReadyOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	driver := restoredDriver(t, 700)
	driverID := driver.ID()
	aggregate := restoredOrder(t, order.Ready, customerID, &driverID)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("UserRepository").Return(userRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	userRepo.On("Get", ctx, driverID).Return(driver, nil)
	orderRepo.On("UpdateStatusGuarded", ctx, aggregate, order.Ready).Return(nil)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.Anything).Return(nil)
	side.userRepo.On("Get", mock.Anything, customerID).Return(restoredCustomer(t, customerID), nil)
	side.notifRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil)

	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.OutForDelivery, driverID, user.RoleDriver)

	updated, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, updated.Status())

	// customer notification carries the driver contact once the order leaves
	row := side.notifRepo.Calls[0].Arguments[1].(*notification.Notification)
	assert.Contains(t, string(row.Payload()), "Dana Driver")
	assert.Contains(t, string(row.Payload()), "+15550101")
}

func TestChangeOrderStatusCommandHandler_DeliveryLocksInCostsAndFreesDriver(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	driver := restoredDriver(t, 700)
	driverID := driver.ID()
	aggregate := restoredOrder(t, order.OutForDelivery, customerID, &driverID)
	productID := aggregate.Items()[0].ProductID()
	product := restoredProduct(t, productID, 1500, 400, 10, 3)

	orderRepo := new(MockOrderRepository)
	userRepo := new(MockUserRepository)
	productRepo := new(MockProductRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("UserRepository").Return(userRepo)
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	userRepo.On("Get", ctx, driverID).Return(driver, nil)
	productRepo.On("Get", ctx, productID).Return(product, nil)
	userRepo.On("Update", ctx, driver).Return(nil)
	orderRepo.On("UpdateStatusGuarded", ctx, aggregate, order.OutForDelivery).Return(nil)

	side := newSideChannels()
	side.auditRepo.On("Add", mock.Anything, mock.Anything).Return(nil)
	side.userRepo.On("Get", mock.Anything, customerID).Return(restoredCustomer(t, customerID), nil)
	side.notifRepo.On("Add", mock.Anything, mock.Anything).Return(nil)

	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Delivered, driverID, user.RoleDriver)

	updated, err := handler.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Delivered, updated.Status())
	assert.NotNil(t, updated.DeliveredAt())
	// two units at cost 400 each
	require.NotNil(t, updated.RecordedCost())
	assert.Equal(t, int64(800), *updated.RecordedCost())
	require.NotNil(t, updated.DriverPayout())
	assert.Equal(t, int64(700), *updated.DriverPayout())
	assert.True(t, driver.IsAvailable())
	userRepo.AssertCalled(t, "Update", ctx, driver)
}

func TestChangeOrderStatusCommandHandler_TerminalStatusRejectsTransitions(t *testing.T) {
	ctx := t.Context()
	for _, terminal := range []order.Status{order.Delivered, order.Cancelled, order.Returned} {
		aggregate := restoredOrder(t, terminal, kernel.NewUUID(), nil)

		orderRepo := new(MockOrderRepository)
		uow := new(MockUoW)
		uow.On("Begin", ctx).Return(nil)
		uow.On("OrderRepository").Return(orderRepo)
		uow.On("Rollback", ctx).Return(nil)
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

		side := newSideChannels()
		handler := commands.NewChangeOrderStatusCommandHandler(
			FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
			side.recorder, side.dispatcher,
		)
		cmd := newChangeStatusCommand(t, aggregate.ID(), order.Cancelled, kernel.NewUUID(), user.RoleAdmin)
		if terminal == order.Cancelled {
			cmd = newChangeStatusCommand(t, aggregate.ID(), order.Returned, kernel.NewUUID(), user.RoleAdmin)
		}

		_, err := handler.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrInvalidTransition, terminal.String())
	}
}

func TestChangeOrderStatusCommandHandler_SkippingAStepIsInvalid(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, order.Pending, kernel.NewUUID(), nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Preparing, kernel.NewUUID(), user.RoleAdmin)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestChangeOrderStatusCommandHandler_CustomerCannotAdvanceOwnOrder(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	aggregate := restoredOrder(t, order.Pending, customerID, nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Confirmed, customerID, user.RoleCustomer)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrForbidden)
}

func TestChangeOrderStatusCommandHandler_StaleStatusGuardFailsTheChange(t *testing.T) {
	ctx := t.Context()
	aggregate := restoredOrder(t, order.Pending, kernel.NewUUID(), nil)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	orderRepo.On("UpdateStatusGuarded", ctx, aggregate, order.Pending).
		Return(errs.NewInvalidTransitionError("PENDING", "CONFIRMED"))

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, aggregate.ID(), order.Confirmed, kernel.NewUUID(), user.RoleOperations)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	side.auditRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestChangeOrderStatusCommandHandler_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("orderId", orderID.String()))

	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return uow }),
		side.recorder, side.dispatcher,
	)
	cmd := newChangeStatusCommand(t, orderID, order.Confirmed, kernel.NewUUID(), user.RoleOperations)

	_, err := handler.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestChangeOrderStatusCommandHandler_ValidationError(t *testing.T) {
	side := newSideChannels()
	handler := commands.NewChangeOrderStatusCommandHandler(
		FulfillmentUoWFactoryFunc(func() commands.FulfillmentUoW { return new(MockUoW) }),
		side.recorder, side.dispatcher,
	)

	_, err := handler.Handle(t.Context(), commands.ChangeOrderStatusCommand{})
	require.ErrorIs(t, err, commands.ErrChangeOrderStatusCommandIsNotConstructed)
}
