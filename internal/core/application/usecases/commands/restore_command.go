package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/guard"
)

// ErrRestoreCommandIsNotConstructed is returned when the command was not
// created via NewRestoreCommand.
var ErrRestoreCommandIsNotConstructed = errors.New(
	"RestoreCommand must be created via NewRestoreCommand constructor",
)

// RestoreCommand represents a staff request to bring one trashed entity back.
// Restore is always per-entity: restoring a category does not restore the
// products its soft delete cascaded over.
type RestoreCommand struct { //nolint:recvcheck //using for validation
	entityKind string
	entityID   kernel.UUID
	actorID    kernel.UUID
	actorRole  user.Role
	meta       RequestMeta

	guard guard.ConstructorGuard
}

// NewRestoreCommand creates a restore request for one entity.
func NewRestoreCommand(
	entityKind string,
	entityID, actorID kernel.UUID,
	actorRole user.Role,
	meta RequestMeta,
) (RestoreCommand, error) {
	command := RestoreCommand{
		meta:  meta,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTarget(entityKind, entityID),
		command.setActor(actorID, actorRole),
	); err != nil {
		return RestoreCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c RestoreCommand) Validate() error {
	return c.guard.Validate(ErrRestoreCommandIsNotConstructed)
}

// EntityKind returns the kind of entity being restored.
func (c RestoreCommand) EntityKind() string {
	return c.entityKind
}

// EntityID returns the entity's identifier.
func (c RestoreCommand) EntityID() kernel.UUID {
	return c.entityID
}

// ActorID returns the acting user's identifier.
func (c RestoreCommand) ActorID() kernel.UUID {
	return c.actorID
}

// ActorRole returns the acting user's role.
func (c RestoreCommand) ActorRole() user.Role {
	return c.actorRole
}

// Meta returns the request attribution for the audit trail.
func (c RestoreCommand) Meta() RequestMeta {
	return c.meta
}

func (c *RestoreCommand) setTarget(entityKind string, entityID kernel.UUID) error {
	if err := errors.Join(validateTrashableKind(entityKind), entityID.Validate()); err != nil {
		return err
	}

	c.entityKind = entityKind
	c.entityID = entityID
	return nil
}

func (c *RestoreCommand) setActor(actorID kernel.UUID, actorRole user.Role) error {
	if err := errors.Join(actorID.Validate(), actorRole.Validate()); err != nil {
		return err
	}

	c.actorID = actorID
	c.actorRole = actorRole
	return nil
}
