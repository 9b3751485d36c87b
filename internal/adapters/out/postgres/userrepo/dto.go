// Package userrepo provides data transfer objects and mapping functions for
// user persistence.
package userrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserDTO represents the database structure for persisting user aggregates.
// DeletedAt is the trash marker; it is managed by the domain's trash
// lifecycle, never by GORM's soft-delete machinery, so repositories decide
// per query whether trashed rows are visible.
type UserDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	Phone      string         `gorm:"uniqueIndex"`
	Role       string         `gorm:"index"`
	Approved   bool
	Available  bool
	PayoutRate int64
	PushTokens pq.StringArray `gorm:"type:text[]"`
	DeletedAt  *time.Time     `gorm:"index"`
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(aggregate *user.User) UserDTO {
	return UserDTO{
		ID:         aggregate.ID().Bytes(),
		Name:       aggregate.Name(),
		Phone:      aggregate.Phone(),
		Role:       aggregate.Role().String(),
		Approved:   aggregate.IsApproved(),
		Available:  aggregate.IsAvailable(),
		PayoutRate: aggregate.PayoutRate(),
		PushTokens: pq.StringArray(aggregate.PushTokens()),
		DeletedAt:  aggregate.TrashState().TrashedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	role, err := user.RoleFromString(dto.Role)
	if err != nil {
		return nil, err
	}

	trashState := kernel.Live()
	if dto.DeletedAt != nil {
		trashState, err = kernel.Trashed(*dto.DeletedAt)
		if err != nil {
			return nil, err
		}
	}

	return user.RestoreUser(
		id, dto.Name, dto.Phone, role,
		dto.Approved, dto.Available, dto.PayoutRate,
		[]string(dto.PushTokens), trashState,
	)
}
