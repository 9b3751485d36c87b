package notificationrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add saves a new notification row.
func (r *GormNotificationRepository) Add(ctx context.Context, row *notification.Notification) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// MarkRead flips the read flag on the given rows. The recipient scope is part
// of the statement, so ids belonging to other users simply do not match.
// Returns the number of rows actually flipped.
func (r *GormNotificationRepository) MarkRead(
	ctx context.Context,
	recipientID kernel.UUID,
	ids []kernel.UUID,
) (int64, error) {
	if err := recipientID.Validate(); err != nil {
		return 0, err
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return 0, err
		}
		raw = append(raw, id.Bytes())
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("recipient_id = ? AND id IN ? AND read = FALSE", recipientID.Bytes(), raw).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// MarkAllRead flips the read flag on every unread row of one recipient.
// Returns the number of rows flipped.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	if err := recipientID.Validate(); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("recipient_id = ? AND read = FALSE", recipientID.Bytes()).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
