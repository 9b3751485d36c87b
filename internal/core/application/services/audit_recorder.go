// Package services contains application services sitting next to the command
// handlers: best-effort side channels (audit trail, notifications) that run
// after the business transaction committed and must never fail it.
package services

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/audit"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

const recordTimeout = 5 * time.Second

// AuditRecorder writes the immutable audit trail. Recording is fire-and-forget:
// a failed write is logged and swallowed, because losing one audit entry is an
// accepted gap while failing a committed business operation is not.
type AuditRecorder struct {
	entries ports.AuditRepository
	logger  *slog.Logger
}

// NewAuditRecorder creates an AuditRecorder over the given repository.
func NewAuditRecorder(entries ports.AuditRepository, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{
		entries: entries,
		logger:  logger.With("component", "audit_recorder"),
	}
}

// Record persists one audit entry. The write runs on a context detached from
// the caller's cancellation so a finished request cannot abort it, bounded by
// its own timeout. Failures are logged, never returned.
func (r *AuditRecorder) Record(ctx context.Context, params audit.EntryParams) {
	entry, err := audit.NewEntry(kernel.NewUUID(), params)
	if err != nil {
		r.logger.Error("dropping malformed audit entry",
			"action", params.Action.String(),
			"entity_kind", params.EntityKind,
			"error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := r.entries.Add(ctx, entry); err != nil {
		r.logger.Error("audit entry lost",
			"action", params.Action.String(),
			"entity_kind", params.EntityKind,
			"entity_id", params.EntityID,
			"error", err)
	}
}

// PurgeOlderThan removes audit entries created before the cutoff and returns
// the number of rows removed. Unlike Record this is not best-effort: the
// retention job wants to know when cleanup fails.
func (r *AuditRecorder) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.entries.DeleteOlderThan(ctx, cutoff)
}
