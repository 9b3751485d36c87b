package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

// ErrSetDriverAvailabilityCommandIsNotConstructed is returned when the command
// was not created via NewSetDriverAvailabilityCommand.
var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

// SetDriverAvailabilityCommand represents a driver flipping their own advisory
// availability flag. The flag never blocks assignment; it only signals whether
// the driver wants new deliveries.
type SetDriverAvailabilityCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	available bool
	meta      RequestMeta

	guard guard.ConstructorGuard
}

// NewSetDriverAvailabilityCommand creates an availability-change request.
// The driver id is the acting user's own id; drivers cannot flip each other.
func NewSetDriverAvailabilityCommand(
	driverID kernel.UUID,
	available bool,
	meta RequestMeta,
) (SetDriverAvailabilityCommand, error) {
	command := SetDriverAvailabilityCommand{
		available: available,
		meta:      meta,
		guard:     guard.NewConstructorGuard(),
	}

	if err := command.setDriverID(driverID); err != nil {
		return SetDriverAvailabilityCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

// DriverID returns the driver whose flag changes.
func (c SetDriverAvailabilityCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Available returns the requested flag value.
func (c SetDriverAvailabilityCommand) Available() bool {
	return c.available
}

// Meta returns the request attribution for the audit trail.
func (c SetDriverAvailabilityCommand) Meta() RequestMeta {
	return c.meta
}

func (c *SetDriverAvailabilityCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
