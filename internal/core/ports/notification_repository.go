package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for notifications.
type NotificationRepository interface {
	// Add persists a new notification row.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// MarkRead flips isRead for the given notifications, restricted to rows
	// owned by recipientID. Returns the number of rows updated.
	MarkRead(ctx context.Context, recipientID kernel.UUID, ids []kernel.UUID) (int64, error)

	// MarkAllRead flips isRead for every unread notification owned by
	// recipientID. Returns the number of rows updated.
	MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error)
}
