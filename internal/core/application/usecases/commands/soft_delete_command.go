package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrSoftDeleteCommandIsNotConstructed is returned when the command was not
// created via NewSoftDeleteCommand.
var ErrSoftDeleteCommandIsNotConstructed = errors.New(
	"SoftDeleteCommand must be created via NewSoftDeleteCommand constructor",
)

// SoftDeleteCommand represents a staff request to move an entity to the trash.
// Trashed entities disappear from default listings and normal operations but
// keep all their data until restored or purged.
type SoftDeleteCommand struct { //nolint:recvcheck //using for validation
	entityKind string
	entityID   kernel.UUID
	actorID    kernel.UUID
	actorRole  user.Role
	meta       RequestMeta

	guard guard.ConstructorGuard
}

// NewSoftDeleteCommand creates a soft-delete request for one entity.
func NewSoftDeleteCommand(
	entityKind string,
	entityID, actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (SoftDeleteCommand, error) {
	command := SoftDeleteCommand{
		meta:  meta,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTarget(entityKind, entityID),
		command.setActor(actorID, actorRole),
	); err != nil {
		return SoftDeleteCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SoftDeleteCommand) Validate() error {
	return c.guard.Validate(ErrSoftDeleteCommandIsNotConstructed)
}

// EntityKind returns the kind of entity being trashed.
func (c SoftDeleteCommand) EntityKind() string {
	return c.entityKind
}

// EntityID returns the entity's identifier.
func (c SoftDeleteCommand) EntityID() kernel.UUID {
	return c.entityID
}

// ActorID returns the acting user's identifier.
func (c SoftDeleteCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c SoftDeleteCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c SoftDeleteCommand) Meta() RequestMeta {
	return c.meta
}

func (c *SoftDeleteCommand) setTarget(entityKind string, entityID kernel.UUID) error {
	if err := errors.Join(validateTrashableKind(entityKind), entityID.Validate()); err != nil {
		return err
	}

	c.entityKind = entityKind
	c.entityID = entityID
	return nil
}

func (c *SoftDeleteCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
