package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/audit"
)

// AuditRepository defines the persistence contract for audit entries.
// Entries are append-only; there is no update operation by design.
type AuditRepository interface {
	// Add appends an audit entry.
	Add(ctx context.Context, entry *audit.Entry) error

	// DeleteOlderThan irreversibly removes entries created before the cutoff
	// and returns the number of rows removed. Only the retention job calls
	// this.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
