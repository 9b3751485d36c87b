package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrPurgeCommandIsNotConstructed is returned when the command was not created
// via NewPurgeCommand.
var ErrPurgeCommandIsNotConstructed = errors.New(
	"PurgeCommand must be created via NewPurgeCommand constructor",
)

// PurgeCommand represents an admin request to permanently remove one trashed
// entity, including its externally stored assets. There is no undo.
type PurgeCommand struct { //nolint:recvcheck //using for validation
	entityKind string
	entityID   kernel.UUID
	actorID    kernel.UUID
	actorRole  user.Role
	meta       RequestMeta

	guard guard.ConstructorGuard
}

// NewPurgeCommand creates a purge request for one entity.
func NewPurgeCommand(
	entityKind string,
	entityID, actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (PurgeCommand, error) {
	command := PurgeCommand{
		meta:  meta,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTarget(entityKind, entityID),
		command.setActor(actorID, actorRole),
	); err != nil {
		return PurgeCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeCommand) Validate() error {
	return c.guard.Validate(ErrPurgeCommandIsNotConstructed)
}

// EntityKind returns the kind of entity being purged.
func (c PurgeCommand) EntityKind() string {
	return c.entityKind
}

// EntityID returns the entity's identifier.
func (c PurgeCommand) EntityID() kernel.UUID {
	return c.entityID
}

// ActorID returns the acting user's identifier.
func (c PurgeCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c PurgeCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c PurgeCommand) Meta() RequestMeta {
	return c.meta
}

func (c *PurgeCommand) setTarget(entityKind string, entityID kernel.UUID) error {
	if err := errors.Join(validateTrashableKind(entityKind), entityID.Validate()); err != nil {
		return err
	}

	c.entityKind = entityKind
	c.entityID = entityID
	return nil
}

func (c *PurgeCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
