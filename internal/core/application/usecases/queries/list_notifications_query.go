package queries

import (
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrListNotificationsQueryIsNotConstructed = errors.New(
	"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
)

// ListNotificationsQuery retrieves one user's notification feed, newest first.
// The recipient id is the acting user's own id; there is no cross-user read.
type ListNotificationsQuery struct {
	recipientID kernel.UUID
	unreadOnly  bool
	page        int
	pageSize    int

	guard guard.ConstructorGuard
}

// NewListNotificationsQuery creates a notification-feed query. Page numbering
// starts at 1; a zero pageSize falls back to the default.
func NewListNotificationsQuery(
	recipientID kernel.UUID,
	unreadOnly bool,
	page, pageSize int,
) (ListNotificationsQuery, error) {
	if err := recipientID.Validate(); err != nil {
		return ListNotificationsQuery{}, err
	}
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if page < 1 {
		return ListNotificationsQuery{}, errs.NewValueIsInvalidError("page")
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return ListNotificationsQuery{}, errs.NewValueIsOutOfRangeError("pageSize", pageSize, 1, maxPageSize)
	}

	return ListNotificationsQuery{
		recipientID: recipientID,
		unreadOnly:  unreadOnly,
		page:        page,
		pageSize:    pageSize,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

// RecipientID returns the feed owner's identifier.
func (q ListNotificationsQuery) RecipientID() kernel.UUID {
	return q.recipientID
}

// UnreadOnly reports whether read rows are filtered out.
func (q ListNotificationsQuery) UnreadOnly() bool {
	return q.unreadOnly
}

// Page returns the 1-based page number.
func (q ListNotificationsQuery) Page() int {
	return q.page
}

// PageSize returns the page size.
func (q ListNotificationsQuery) PageSize() int {
	return q.pageSize
}

// ListNotificationsQueryResponse is one row of a user's notification feed.
type ListNotificationsQueryResponse struct {
	ID        kernel.UUID
	Type      string
	Title     string
	Body      string
	Payload   json.RawMessage
	Read      bool
	CreatedAt time.Time
}
