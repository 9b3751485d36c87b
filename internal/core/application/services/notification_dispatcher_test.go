package services_test

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/core/application/services"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

type MockPushTransport struct{ mock.Mock }

func (m *MockPushTransport) Send(ctx context.Context, token string, push ports.Push) error {
	args := m.Called(ctx, token, push)
	return args.Error(0)
}

func restoredUser(t *testing.T, role user.Role, tokens []string) *user.User {
	t.Helper()

	u, err := user.RestoreUser(
		kernel.NewUUID(), "Recipient", "+15550100",
		role, true, false, 0, tokens, kernel.Live(),
	)
	require.NoError(t, err)
	return u
}

var testMessage = services.Message{
	Type:  notification.TypeOrderStatus,
	Title: "Order update",
	Body:  "Your order is out for delivery",
}

func TestNotificationDispatcher_NotifyUser(t *testing.T) {
	t.Run("persists the row and pushes to every token", func(t *testing.T) {
		recipient := restoredUser(t, user.RoleCustomer, []string{"tok-1", "tok-2"})

		rows := new(MockNotificationRepository)
		push := new(MockPushTransport)
		rows.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
		push.On("Send", mock.Anything, "tok-1", mock.AnythingOfType("ports.Push")).Return(nil).Once()
		push.On("Send", mock.Anything, "tok-2", mock.AnythingOfType("ports.Push")).Return(nil).Once()

		dispatcher := services.NewNotificationDispatcher(rows, new(MockUserRepository), push, discardLogger())
		dispatcher.NotifyUser(t.Context(), recipient, testMessage)

		rows.AssertExpectations(t)
		push.AssertExpectations(t)

		row := rows.Calls[0].Arguments[1].(*notification.Notification)
		assert.True(t, row.RecipientID().IsEqual(recipient.ID()))
		assert.Equal(t, notification.TypeOrderStatus, row.Type())
		assert.False(t, row.IsRead())

		sent := push.Calls[0].Arguments[2].(ports.Push)
		assert.Equal(t, "Order update", sent.Title)
		assert.Equal(t, notification.TypeOrderStatus, sent.Data["type"])
	})

	t.Run("skips push when the row write fails", func(t *testing.T) {
		recipient := restoredUser(t, user.RoleCustomer, []string{"tok-1"})

		rows := new(MockNotificationRepository)
		push := new(MockPushTransport)
		rows.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).
			Return(errors.New("database error")).Once()

		dispatcher := services.NewNotificationDispatcher(rows, new(MockUserRepository), push, discardLogger())
		dispatcher.NotifyUser(t.Context(), recipient, testMessage)

		push.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("one failing token does not stop the others", func(t *testing.T) {
		recipient := restoredUser(t, user.RoleCustomer, []string{"tok-1", "tok-2"})

		rows := new(MockNotificationRepository)
		push := new(MockPushTransport)
		rows.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
		push.On("Send", mock.Anything, "tok-1", mock.AnythingOfType("ports.Push")).
			Return(errors.New("token expired")).Once()
		push.On("Send", mock.Anything, "tok-2", mock.AnythingOfType("ports.Push")).Return(nil).Once()

		dispatcher := services.NewNotificationDispatcher(rows, new(MockUserRepository), push, discardLogger())
		dispatcher.NotifyUser(t.Context(), recipient, testMessage)

		push.AssertExpectations(t)
	})
}

func TestNotificationDispatcher_NotifyUserByID(t *testing.T) {
	t.Run("resolves the recipient and delivers", func(t *testing.T) {
		recipient := restoredUser(t, user.RoleCustomer, nil)

		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, recipient.ID()).Return(recipient, nil).Once()
		rows.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyUserByID(t.Context(), recipient.ID(), testMessage)

		users.AssertExpectations(t)
		rows.AssertExpectations(t)
	})

	t.Run("skips trashed recipients", func(t *testing.T) {
		trashed, err := kernel.Trashed(testNow)
		require.NoError(t, err)
		recipient, err := user.RestoreUser(
			kernel.NewUUID(), "Gone", "", user.RoleCustomer, true, false, 0, nil, trashed,
		)
		require.NoError(t, err)

		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		users.On("Get", mock.Anything, recipient.ID()).Return(recipient, nil).Once()

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyUserByID(t.Context(), recipient.ID(), testMessage)

		rows.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("swallows lookup failures", func(t *testing.T) {
		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		id := kernel.NewUUID()
		users.On("Get", mock.Anything, id).Return(nil, errors.New("database error")).Once()

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyUserByID(t.Context(), id, testMessage)

		rows.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}

func TestNotificationDispatcher_NotifyRole(t *testing.T) {
	t.Run("fans out to every recipient", func(t *testing.T) {
		recipients := []*user.User{
			restoredUser(t, user.RoleOperations, nil),
			restoredUser(t, user.RoleOperations, nil),
			restoredUser(t, user.RoleOperations, nil),
		}

		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		users.On("GetAllByRole", mock.Anything, user.RoleOperations).Return(recipients, nil).Once()
		rows.On("Add", mock.Anything, mock.AnythingOfType("*notification.Notification")).Return(nil).Times(3)

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyRole(t.Context(), user.RoleOperations, testMessage)

		rows.AssertExpectations(t)

		seen := make(map[string]bool)
		for _, call := range rows.Calls {
			row := call.Arguments[1].(*notification.Notification)
			seen[row.RecipientID().String()] = true
		}
		assert.Len(t, seen, 3)
	})

	t.Run("one recipient failing does not stop the others", func(t *testing.T) {
		first := restoredUser(t, user.RoleAdmin, nil)
		second := restoredUser(t, user.RoleAdmin, nil)

		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		users.On("GetAllByRole", mock.Anything, user.RoleAdmin).
			Return([]*user.User{first, second}, nil).Once()
		rows.On("Add", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.RecipientID().IsEqual(first.ID())
		})).Return(errors.New("database error")).Once()
		rows.On("Add", mock.Anything, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.RecipientID().IsEqual(second.ID())
		})).Return(nil).Once()

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyRole(t.Context(), user.RoleAdmin, testMessage)

		rows.AssertExpectations(t)
	})

	t.Run("aborts quietly when the recipient list cannot load", func(t *testing.T) {
		rows := new(MockNotificationRepository)
		users := new(MockUserRepository)
		users.On("GetAllByRole", mock.Anything, user.RoleOperations).
			Return(nil, errors.New("database error")).Once()

		dispatcher := services.NewNotificationDispatcher(rows, users, new(MockPushTransport), discardLogger())
		dispatcher.NotifyRole(t.Context(), user.RoleOperations, testMessage)

		rows.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})
}
