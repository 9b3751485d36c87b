package queries

import (
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListAuditEntriesQueryIsNotConstructed = errors.New(
	"ListAuditEntriesQuery must be created via NewListAuditEntriesQuery constructor",
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AuditFilter narrows the audit listing. Zero values mean "no filter".
// Search matches a substring of the entity id, the IP, or the user agent.
type AuditFilter struct {
	ActorID    *kernel.UUID
	EntityKind string
	Action     string
	Search     string
}

// ListAuditEntriesQuery retrieves a page of the audit trail, newest first.
// Staff-only; the HTTP layer enforces the role before building the query.
type ListAuditEntriesQuery struct {
	filter   AuditFilter
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewListAuditEntriesQuery creates an audit-listing query. Page numbering
// starts at 1; a zero pageSize falls back to the default.
func NewListAuditEntriesQuery(filter AuditFilter, page, pageSize int) (ListAuditEntriesQuery, error) {
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		return ListAuditEntriesQuery{}, errs.NewValueIsInvalidError("page")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return ListAuditEntriesQuery{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, maxPageSize)
	}
	if filter.ActorID != nil {
		if err := filter.ActorID.Validate(); err != nil {
			return ListAuditEntriesQuery{}, err
		}
	}

	return ListAuditEntriesQuery{
		filter:   filter,
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListAuditEntriesQuery) Validate() error {
	return q.guard.Validate(ErrListAuditEntriesQueryIsNotConstructed)
}

// Filter returns the requested narrowing.
func (q ListAuditEntriesQuery) Filter() AuditFilter {
	return q.filter
}

// Page returns the 1-based page number.
func (q ListAuditEntriesQuery) Page() int {
	return q.page
}

// PageSize returns the page size.
func (q ListAuditEntriesQuery) PageSize() int {
	return q.pageSize
}

// ListAuditEntriesQueryResponse is one row of the audit listing. ActorID is
// nil for system-generated entries.
type ListAuditEntriesQueryResponse struct {
	ID         kernel.UUID
	ActorID    *kernel.UUID
	Action     string
	EntityKind string
	EntityID   string
	Before     json.RawMessage
	After      json.RawMessage
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}
