package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatusGuarded(
	ctx context.Context, o *order.Order, expected order.Status,
) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetAllByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) GetAllLiveByCategory(
	ctx context.Context, categoryID kernel.UUID,
) ([]*catalog.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountLiveByCategory(ctx context.Context, categoryID kernel.UUID) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) Add(ctx context.Context, c *catalog.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, c *catalog.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, o *catalog.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, o *catalog.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Offer), args.Error(1)
}

func (m *MockOfferRepository) Remove(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(
	ctx context.Context, recipientID kernel.UUID, ids []kernel.UUID,
) (int64, error) {
	args := m.Called(ctx, recipientID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPushTransport struct{ mock.Mock }

func (m *MockPushTransport) Send(ctx context.Context, token string, push ports.Push) error {
	args := m.Called(ctx, token, push)
	return args.Error(0)
}

type MockAssetStore struct{ mock.Mock }

func (m *MockAssetStore) Delete(ctx context.Context, assetURL string) error {
	args := m.Called(ctx, assetURL)
	return args.Error(0)
}

// MockUoW implements every narrow unit-of-work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

func (m *MockUoW) CategoryRepository() ports.CategoryRepository {
	args := m.Called()
	return args.Get(0).(ports.CategoryRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

type FulfillmentUoWFactoryFunc func() commands.FulfillmentUoW

func (f FulfillmentUoWFactoryFunc) Create() commands.FulfillmentUoW { return f() }

type UserUoWFactoryFunc func() commands.UserUoW

func (f UserUoWFactoryFunc) Create() commands.UserUoW { return f() }

type ProductUoWFactoryFunc func() commands.ProductUoW

func (f ProductUoWFactoryFunc) Create() commands.ProductUoW { return f() }

type TrashUoWFactoryFunc func() commands.TrashUoW

func (f TrashUoWFactoryFunc) Create() commands.TrashUoW { return f() }

// sideChannels bundles the post-commit collaborators with the mocks behind
// them so tests can assert on audit and notification writes.
type sideChannels struct {
	auditRepo  *MockAuditRepository
	notifRepo  *MockNotificationRepository
	userRepo   *MockUserRepository
	push       *MockPushTransport
	recorder   *services.AuditRecorder
	dispatcher *services.NotificationDispatcher
}

func newSideChannels() *sideChannels {
	auditRepo := new(MockAuditRepository)
	notifRepo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	push := new(MockPushTransport)

	return &sideChannels{
		auditRepo:  auditRepo,
		notifRepo:  notifRepo,
		userRepo:   userRepo,
		push:       push,
		recorder:   services.NewAuditRecorder(auditRepo, discardLogger()),
		dispatcher: services.NewNotificationDispatcher(notifRepo, userRepo, push, discardLogger()),
	}
}

func restoredOrder(t *testing.T, status order.Status, customerID kernel.UUID, driverID *kernel.UUID) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), 2, 1500)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:          kernel.NewUUID(),
		Number:      "ORD-20250601-TEST42",
		Status:      status,
		CustomerID:  customerID,
		DriverID:    driverID,
		AddressID:   kernel.NewUUID(),
		Items:       []order.Item{item},
		Subtotal:    3000,
		DeliveryFee: 500,
		Discount:    0,
		Total:       3500,
		CreatedAt:   testNow,
	})
	require.NoError(t, err)
	return o
}

func restoredDriver(t *testing.T, payoutRate int64) *user.User {
	t.Helper()

	driver, err := user.RestoreUser(
		kernel.NewUUID(), "Dana Driver", "+15550101",
		user.RoleDriver, true, false, payoutRate, nil, kernel.Live(),
	)
	require.NoError(t, err)
	return driver
}

func restoredCustomer(t *testing.T, id kernel.UUID) *user.User {
	t.Helper()

	customer, err := user.RestoreUser(
		id, "Casey Customer", "+15550102",
		user.RoleCustomer, true, false, 0, nil, kernel.Live(),
	)
	require.NoError(t, err)
	return customer
}

func restoredUserWithRole(t *testing.T, role user.Role) *user.User {
	t.Helper()

	u, err := user.RestoreUser(
		kernel.NewUUID(), "Sam Staff", "+15550103",
		role, true, false, 0, nil, kernel.Live(),
	)
	require.NoError(t, err)
	return u
}

func restoredProduct(t *testing.T, id kernel.UUID, price, cost int64, stock, threshold int) *catalog.Product {
	t.Helper()

	product, err := catalog.RestoreProduct(catalog.RestoreProductParams{
		ID:                id,
		Name:              "Widget",
		Price:             price,
		Cost:              cost,
		Stock:             stock,
		LowStockThreshold: threshold,
		TrackStock:        true,
		CategoryID:        kernel.NewUUID(),
		TrashState:        kernel.Live(),
	})
	require.NoError(t, err)
	return product
}
