// Package notificationrepo provides data transfer objects and mapping
// functions for notification persistence.
package notificationrepo

import (
	"time"

	"marketplace/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO represents the database structure for persisting
// notification rows.
type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;index"`
	Type        string
	Title       string
	Body        string
	Payload     []byte    `gorm:"type:jsonb"`
	Read        bool      `gorm:"index"`
	CreatedAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for notification rows.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(row *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          row.ID().Bytes(),
		RecipientID: row.RecipientID().Bytes(),
		Type:        row.Type(),
		Title:       row.Title(),
		Body:        row.Body(),
		Payload:     []byte(row.Payload()),
		Read:        row.IsRead(),
		CreatedAt:   row.CreatedAt(),
	}
}
