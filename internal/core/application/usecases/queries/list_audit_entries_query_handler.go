package queries

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListAuditEntriesQueryHandler reads the audit trail straight from the
// database. The write side never reads these rows back, so the read model
// bypasses the aggregate entirely.
type ListAuditEntriesQueryHandler struct {
	db *gorm.DB
}

// NewListAuditEntriesQueryHandler creates a handler for audit-trail queries.
func NewListAuditEntriesQueryHandler(db *gorm.DB) ListAuditEntriesQueryHandler {
	return ListAuditEntriesQueryHandler{db: db}
}

// Handle executes the query. Entries come back newest first; filters are
// combined with AND.
func (h ListAuditEntriesQueryHandler) Handle(
	ctx context.Context,
	query ListAuditEntriesQuery,
) ([]ListAuditEntriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			actor_id,
			action,
			entity_kind,
			entity_id,
			before,
			after,
			ip,
			user_agent,
			created_at
		FROM audit_entries
		WHERE 1=1`
	args := make([]any, 0, 10)

	filter := query.Filter()
	if filter.ActorID != nil {
		sql += ` AND actor_id = ?`
		args = append(args, filter.ActorID.Bytes())
	}
	if filter.EntityKind != "" {
		sql += ` AND entity_kind = ?`
		args = append(args, filter.EntityKind)
	}
	if filter.Action != "" {
		sql += ` AND action = ?`
		args = append(args, filter.Action)
	}
	if filter.Search != "" {
		sql += ` AND (entity_kind ILIKE ? OR action ILIKE ? OR entity_id ILIKE ? OR ip ILIKE ? OR user_agent ILIKE ?)`
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern, pattern)
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

	entries := make([]ListAuditEntriesQueryResponse, 0, query.PageSize())
	for rows.Next() {
		var entry ListAuditEntriesQueryResponse
		var id uuid.UUID
		var actorID uuid.NullUUID

		err = rows.Scan(
			&id,
			&actorID,
			&entry.Action,
			&entry.EntityKind,
			&entry.EntityID,
			&entry.Before,
			&entry.After,
			&entry.IP,
			&entry.UserAgent,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		entry.ID = entryID

		if actorID.Valid {
			actor, actorErr := kernel.UUIDFromBytes(actorID.UUID[:])
			if actorErr != nil {
				return nil, actorErr
			}
			entry.ActorID = &actor
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
