package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListNotificationsQueryHandler reads a user's notification feed from the
// database.
type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewListNotificationsQueryHandler creates a handler for notification-feed queries.
func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

// Handle executes the query. Rows come back newest first.
func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListNotificationsQuery,
) ([]ListNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			type,
			title,
			body,
			payload,
			read,
			created_at
		FROM notifications
		WHERE recipient_id = ?`
	args := []any{query.RecipientID().Bytes()}

	if query.UnreadOnly() {
		sql += ` AND read = FALSE`
	}

	sql += `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`
	args = append(args, query.PageSize(), (query.Page()-1)*query.PageSize())

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feed := make([]ListNotificationsQueryResponse, 0, query.PageSize())
	for rows.Next() {
		var item ListNotificationsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&item.Type,
			&item.Title,
			&item.Body,
			&item.Payload,
			&item.Read,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = itemID

		feed = append(feed, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return feed, nil
}
