package queries_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListAuditEntriesQuery_DefaultsPageSize(t *testing.T) {
	query, err := queries.NewListAuditEntriesQuery(queries.AuditFilter{}, 1, 0)

	require.NoError(t, err)
	assert.Equal(t, 50, query.PageSize())
	assert.Equal(t, 1, query.Page())
}

func TestNewListAuditEntriesQuery_RejectsBadPaging(t *testing.T) {
	_, err := queries.NewListAuditEntriesQuery(queries.AuditFilter{}, 0, 10)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewListAuditEntriesQuery(queries.AuditFilter{}, 1, 500)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestNewListAuditEntriesQuery_RejectsZeroActorID(t *testing.T) {
	_, err := queries.NewListAuditEntriesQuery(queries.AuditFilter{ActorID: &kernel.UUID{}}, 1, 10)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestListAuditEntriesQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.ListAuditEntriesQuery

	err := query.Validate()
	require.ErrorIs(t, err, queries.ErrListAuditEntriesQueryIsNotConstructed)
}

func TestNewListNotificationsQuery_CarriesRecipientScope(t *testing.T) {
	recipientID := kernel.NewUUID()

	query, err := queries.NewListNotificationsQuery(recipientID, true, 2, 20)

	require.NoError(t, err)
	assert.True(t, query.RecipientID().IsEqual(recipientID))
	assert.True(t, query.UnreadOnly())
	assert.Equal(t, 2, query.Page())
	assert.Equal(t, 20, query.PageSize())
}

func TestNewListNotificationsQuery_RejectsZeroRecipient(t *testing.T) {
	_, err := queries.NewListNotificationsQuery(kernel.UUID{}, false, 1, 10)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestListNotificationsQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.ListNotificationsQuery

	err := query.Validate()
	require.ErrorIs(t, err, queries.ErrListNotificationsQueryIsNotConstructed)
}
