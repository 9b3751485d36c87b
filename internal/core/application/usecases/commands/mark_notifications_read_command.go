package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrMarkNotificationsReadCommandIsNotConstructed is returned when the command
// was not created via NewMarkNotificationsReadCommand.
var ErrMarkNotificationsReadCommandIsNotConstructed = errors.New(
	"MarkNotificationsReadCommand must be created via NewMarkNotificationsReadCommand constructor",
)

// MarkNotificationsReadCommand represents a user marking their notifications
// read. An empty id list means "all of mine". The recipient scope makes it
// impossible to flip someone else's rows regardless of the ids supplied.
type MarkNotificationsReadCommand struct { //nolint:recvcheck //using for validation
	recipientID     kernel.UUID
	notificationIDs []kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkNotificationsReadCommand creates a mark-read request. The recipient
// id is the acting user's own id.
func NewMarkNotificationsReadCommand(
	recipientID kernel.UUID,
	notificationIDs []kernel.UUID,
) (MarkNotificationsReadCommand, error) {
	command := MarkNotificationsReadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRecipientID(recipientID),
		command.setNotificationIDs(notificationIDs),
	); err != nil {
		return MarkNotificationsReadCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkNotificationsReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationsReadCommandIsNotConstructed)
}

// RecipientID returns the acting user's identifier.
func (c MarkNotificationsReadCommand) RecipientID() kernel.UUID {
	return c.recipientID
}

// NotificationIDs returns the targeted notifications; empty means all.
func (c MarkNotificationsReadCommand) NotificationIDs() []kernel.UUID {
	return c.notificationIDs
}

func (c *MarkNotificationsReadCommand) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	c.recipientID = recipientID
	return nil
}

func (c *MarkNotificationsReadCommand) setNotificationIDs(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.notificationIDs = ids
	return nil
}
