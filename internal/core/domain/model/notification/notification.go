package notification

import (
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrNotificationIsNotConstructed is returned when a Notification instance was
// not created through NewNotification or RestoreNotification.
var ErrNotificationIsNotConstructed = errors.New(
	"Notification must be created via NewNotification or RestoreNotification constructor")

// Type tags used by the dispatcher. Free-form strings are accepted too; these
// constants cover the notifications the fulfillment core emits itself.
const (
	TypeOrderStatus = "ORDER_STATUS"
	TypeOrderPlaced = "ORDER_PLACED"
	TypeAssignment  = "ASSIGNMENT"
	TypeLowStock    = "LOW_STOCK"
)

// Notification is a persisted message for one recipient. The row is the
// durable record; push delivery through the external transport is best-effort
// on top of it. After creation the only permitted mutation is flipping isRead.
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	typeTag     string
	title       string
	body        string
	payload     json.RawMessage
	isRead      bool
	createdAt   time.Time

	isConstructed bool
}

// NewNotification creates an unread notification for the recipient.
// The payload is optional structured context, e.g. a related order id.
func NewNotification(
	id, recipientID kernel.UUID,
	typeTag, title, body string,
	payload json.RawMessage,
	now time.Time,
) (*Notification, error) {
	notification := &Notification{
		typeTag:       typeTag,
		title:         title,
		body:          body,
		payload:       payload,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		notification.setID(id),
		notification.setRecipientID(recipientID),
		notification.setTypeTag(typeTag),
		notification.setTitle(title),
	); err != nil {
		return nil, err
	}

	return notification, nil
}

// RestoreNotification reconstructs a notification from persistence.
func RestoreNotification(
	id, recipientID kernel.UUID,
	typeTag, title, body string,
	payload json.RawMessage,
	isRead bool,
	createdAt time.Time,
) (*Notification, error) {
	notification, err := NewNotification(id, recipientID, typeTag, title, body, payload, createdAt)
	if err != nil {
		return nil, err
	}

	notification.isRead = isRead
	return notification, nil
}

// Validate ensures the Notification was created through a constructor.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// RecipientID returns the owning user's identifier.
func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

// Type returns the notification's type tag.
func (n *Notification) Type() string {
	return n.typeTag
}

// Title returns the notification title.
func (n *Notification) Title() string {
	return n.title
}

// Body returns the notification body text.
func (n *Notification) Body() string {
	return n.body
}

// Payload returns the optional structured payload.
func (n *Notification) Payload() json.RawMessage {
	return n.payload
}

// IsRead reports whether the recipient marked the notification read.
func (n *Notification) IsRead() bool {
	return n.isRead
}

// CreatedAt returns the creation timestamp.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// MarkRead flips the read flag. It is the only permitted mutation.
func (n *Notification) MarkRead() {
	n.isRead = true
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipientID", err)
	}
	n.recipientID = recipientID
	return nil
}

func (n *Notification) setTypeTag(typeTag string) error {
	if typeTag == "" {
		return errs.NewValueIsRequiredError("type")
	}
	return nil
}

func (n *Notification) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("title")
	}
	return nil
}
