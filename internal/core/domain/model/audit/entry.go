package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry instance was not created
// through NewEntry or RestoreEntry.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

// Action classifies what an audit entry records.
type Action int

const (
	// ActionUnknown represents an invalid or undefined action.
	ActionUnknown Action = iota

	ActionCreate
	ActionUpdate
	ActionDelete
	ActionLogin
	ActionLogout
	ActionStatusChange
)

func getActionStrings() map[Action]string {
	return map[Action]string{
		ActionUnknown:      "UNKNOWN",
		ActionCreate:       "CREATE",
		ActionUpdate:       "UPDATE",
		ActionDelete:       "DELETE",
		ActionLogin:        "LOGIN",
		ActionLogout:       "LOGOUT",
		ActionStatusChange: "STATUS_CHANGE",
	}
}

// ActionFromString parses the wire representation of an action.
func ActionFromString(s string) (Action, error) {
	for action, name := range getActionStrings() {
		if action != ActionUnknown && name == s {
			return action, nil
		}
	}
	return ActionUnknown, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

// Validate checks that the Action is one of the defined kinds.
func (a Action) Validate() error {
	if _, ok := getActionStrings()[a]; !ok || a == ActionUnknown {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// String returns the upper-case wire name of the action.
func (a Action) String() string {
	if str, ok := getActionStrings()[a]; ok {
		return str
	}
	return "UNKNOWN"
}

// Entity kinds recorded in audit entries and accepted by the trash subsystem.
const (
	EntityOrder    = "orders"
	EntityUser     = "users"
	EntityProduct  = "products"
	EntityCategory = "categories"
	EntityOffer    = "offers"
)

// Entry is one immutable audit record: who did what to which entity, with
// optional before/after snapshots and best-effort request metadata. Entries
// are created once and never updated; the retention job is the only code path
// that removes them.
type Entry struct {
	id         kernel.UUID
	actorID    *kernel.UUID
	action     Action
	entityKind string
	entityID   string
	before     json.RawMessage
	after      json.RawMessage
	ip         string
	userAgent  string
	createdAt  time.Time

	isConstructed bool
}

// EntryParams carries the attributes of an audit record. ActorID is nil for
// unattributed system actions; Before, After, IP, and UserAgent are optional.
type EntryParams struct {
	ActorID    *kernel.UUID
	Action     Action
	EntityKind string
	EntityID   string
	Before     json.RawMessage
	After      json.RawMessage
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// NewEntry creates an immutable audit record.
func NewEntry(id kernel.UUID, params EntryParams) (*Entry, error) {
	entry := &Entry{
		actorID:       params.ActorID,
		action:        params.Action,
		entityKind:    params.EntityKind,
		entityID:      params.EntityID,
		before:        params.Before,
		after:         params.After,
		ip:            params.IP,
		userAgent:     params.UserAgent,
		createdAt:     params.CreatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		entry.setID(id),
		entry.action.Validate(),
		entry.setEntityKind(params.EntityKind),
	); err != nil {
		return nil, err
	}

	return entry, nil
}

// RestoreEntry reconstructs an audit record from persistence.
func RestoreEntry(id kernel.UUID, params EntryParams) (*Entry, error) {
	return NewEntry(id, params)
}

// Validate ensures the Entry was created through a constructor.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// ActorID returns the acting user's identifier, or nil for system actions.
func (e *Entry) ActorID() *kernel.UUID {
	return e.actorID
}

// Action returns what the entry records.
func (e *Entry) Action() Action {
	return e.action
}

// EntityKind returns the kind of entity acted upon.
func (e *Entry) EntityKind() string {
	return e.entityKind
}

// EntityID returns the identifier of the entity acted upon, possibly empty.
func (e *Entry) EntityID() string {
	return e.entityID
}

// Before returns the optional pre-action snapshot.
func (e *Entry) Before() json.RawMessage {
	return e.before
}

// After returns the optional post-action snapshot.
func (e *Entry) After() json.RawMessage {
	return e.after
}

// IP returns the best-effort requester IP, possibly empty.
func (e *Entry) IP() string {
	return e.ip
}

// UserAgent returns the best-effort requester user agent, possibly empty.
func (e *Entry) UserAgent() string {
	return e.userAgent
}

// CreatedAt returns the creation timestamp.
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setEntityKind(kind string) error {
	if kind == "" {
		return errs.NewValueIsRequiredError("entityKind")
	}
	return nil
}
