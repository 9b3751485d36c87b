// Package auditrepo provides data transfer objects and mapping functions for
// audit-trail persistence. Entries are append-only: the only mutation the
// table ever sees is the retention sweep deleting old rows.
package auditrepo

import (
	"time"

	"marketplace/internal/core/domain/model/audit"

	"github.com/google/uuid"
)

// EntryDTO represents the database structure for persisting audit entries.
type EntryDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"index"`
	EntityKind string     `gorm:"index"`
	EntityID   string     `gorm:"index"`
	Before     []byte     `gorm:"type:jsonb"`
	After      []byte     `gorm:"type:jsonb"`
	IP         string
	UserAgent  string
	CreatedAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for audit entries.
func (EntryDTO) TableName() string {
	return "audit_entries"
}

func fromDomain(entry *audit.Entry) EntryDTO {
	var actorID *uuid.UUID
	if id := entry.ActorID(); id != nil {
		raw := id.Bytes()
		actorID = &raw
	}

	return EntryDTO{
		ID:         entry.ID().Bytes(),
		ActorID:    actorID,
		Action:     entry.Action().String(),
		EntityKind: entry.EntityKind(),
		EntityID:   entry.EntityID(),
		Before:     []byte(entry.Before()),
		After:      []byte(entry.After()),
		IP:         entry.IP(),
		UserAgent:  entry.UserAgent(),
		CreatedAt:  entry.CreatedAt(),
	}
}
