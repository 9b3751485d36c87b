package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/ports"
)

const notifyTimeout = 10 * time.Second

// Message is the content of one notification before it is bound to a
// recipient.
type Message struct {
	Type    string
	Title   string
	Body    string
	Payload json.RawMessage
}

// NotificationDispatcher persists notifications and pushes them to registered
// device tokens. The database row is the durable record; push delivery is
// best-effort on top of it, and one recipient's failure never affects another.
//
// All methods are fire-and-forget: failures are logged, never returned, so a
// committed business operation cannot be failed by its notifications.
type NotificationDispatcher struct {
	notifications ports.NotificationRepository
	users         ports.UserRepository
	push          ports.PushTransport
	logger        *slog.Logger
}

// NewNotificationDispatcher creates a dispatcher over the given repositories
// and push transport.
func NewNotificationDispatcher(
	notifications ports.NotificationRepository,
	users ports.UserRepository,
	push ports.PushTransport,
	logger *slog.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notifications: notifications,
		users:         users,
		push:          push,
		logger:        logger.With("component", "notification_dispatcher"),
	}
}

// NotifyUser persists a notification row for the recipient and then pushes it
// to each of their registered tokens. A failed row write skips the push; a
// failed push for one token does not stop the others.
func (d *NotificationDispatcher) NotifyUser(ctx context.Context, recipient *user.User, msg Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	d.notifyUser(ctx, recipient, msg)
}

// NotifyUserByID resolves the recipient and delivers like NotifyUser.
// Trashed recipients are silently skipped.
func (d *NotificationDispatcher) NotifyUserByID(ctx context.Context, recipientID kernel.UUID, msg Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	recipient, err := d.users.Get(ctx, recipientID)
	if err != nil {
		d.logger.Error("notification recipient not resolved",
			"recipient_id", recipientID.String(),
			"type", msg.Type,
			"error", err)
		return
	}
	if recipient.TrashState().IsTrashed() {
		return
	}

	d.notifyUser(ctx, recipient, msg)
}

// NotifyRole fans the message out to every live, approved user holding the
// role. Recipients are notified in parallel and failures stay isolated per
// recipient. The call returns once the whole fan-out finished.
func (d *NotificationDispatcher) NotifyRole(ctx context.Context, role user.Role, msg Message) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	recipients, err := d.users.GetAllByRole(ctx, role)
	if err != nil {
		d.logger.Error("role fan-out aborted",
			"role", role.String(),
			"type", msg.Type,
			"error", err)
		return
	}

	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(recipient *user.User) {
			defer wg.Done()
			d.notifyUser(ctx, recipient, msg)
		}(recipient)
	}
	wg.Wait()
}

func (d *NotificationDispatcher) notifyUser(ctx context.Context, recipient *user.User, msg Message) {
	row, err := notification.NewNotification(
		kernel.NewUUID(), recipient.ID(),
		msg.Type, msg.Title, msg.Body, msg.Payload,
		time.Now().UTC(),
	)
	if err != nil {
		d.logger.Error("dropping malformed notification",
			"recipient_id", recipient.ID().String(),
			"type", msg.Type,
			"error", err)
		return
	}

	if err := d.notifications.Add(ctx, row); err != nil {
		d.logger.Error("notification row lost",
			"recipient_id", recipient.ID().String(),
			"type", msg.Type,
			"error", err)
		return
	}

	for _, token := range recipient.PushTokens() {
		if err := d.push.Send(ctx, token, ports.Push{
			Title: msg.Title,
			Body:  msg.Body,
			Data:  pushData(msg),
		}); err != nil {
			d.logger.Warn("push delivery failed",
				"recipient_id", recipient.ID().String(),
				"type", msg.Type,
				"error", err)
		}
	}
}

func pushData(msg Message) map[string]string {
	data := map[string]string{"type": msg.Type}
	if len(msg.Payload) > 0 {
		data["payload"] = string(msg.Payload)
	}
	return data
}
