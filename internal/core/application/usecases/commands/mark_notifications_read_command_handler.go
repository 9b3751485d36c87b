package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// MarkNotificationsReadCommandHandler handles read-flag updates. It works on
// the notification repository directly: the update is a single recipient-scoped
// statement, so there is no multi-repository transaction to manage.
type MarkNotificationsReadCommandHandler struct {
	notifications ports.NotificationRepository
}

// NewMarkNotificationsReadCommandHandler creates a handler for mark-read requests.
func NewMarkNotificationsReadCommandHandler(
	notifications ports.NotificationRepository,
) MarkNotificationsReadCommandHandler {
	return MarkNotificationsReadCommandHandler{
		notifications: notifications,
	}
}

// Handle processes the mark-read command and returns the number of rows the
// update actually flipped.
func (h *MarkNotificationsReadCommandHandler) Handle(
	ctx context.Context,
	cmd MarkNotificationsReadCommand,
) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	if len(cmd.NotificationIDs()) == 0 {
		return h.notifications.MarkAllRead(ctx, cmd.RecipientID())
	}
	return h.notifications.MarkRead(ctx, cmd.RecipientID(), cmd.NotificationIDs())
}
