package kernel

import (
	"time"

	"marketplace/internal/pkg/errs"
)

// TrashState is the tagged Live/Trashed state carried by every soft-deletable
// aggregate (users, products, categories, offers).
//
// A live entity is visible to normal queries. A trashed entity is excluded from
// default listings and remains eligible for restore or permanent purge. The
// storage layer keeps this as a nullable deleted_at column; the domain boundary
// works with the explicit tagged state so cascade and purge-guard logic cannot
// confuse the two.
type TrashState struct {
	trashedAt *time.Time
}

// Live returns the state of a visible, non-deleted entity.
func Live() TrashState {
	return TrashState{}
}

// Trashed returns the state of an entity soft-deleted at the given moment.
func Trashed(at time.Time) (TrashState, error) {
	if at.IsZero() {
		return TrashState{}, errs.NewValueIsRequiredError("trashedAt")
	}
	return TrashState{trashedAt: &at}, nil
}

// IsLive reports whether the entity is visible to normal queries.
func (s TrashState) IsLive() bool {
	return s.trashedAt == nil
}

// IsTrashed reports whether the entity is in the trash.
func (s TrashState) IsTrashed() bool {
	return s.trashedAt != nil
}

// TrashedAt returns the soft-deletion timestamp, or nil for live entities.
func (s TrashState) TrashedAt() *time.Time {
	if s.trashedAt == nil {
		return nil
	}
	at := *s.trashedAt
	return &at
}
