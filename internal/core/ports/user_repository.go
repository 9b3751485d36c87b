package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
// Get resolves trashed users too (the trash subsystem needs them);
// GetAllByRole deliberately does not.
type UserRepository interface {
	// Add persists a new user aggregate.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists changes to an existing user aggregate.
	Update(ctx context.Context, aggregate *user.User) error

	// Get retrieves a user by id, whether live or trashed.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetAllByRole retrieves every live, approved user holding the role.
	// This is the recipient set for role fan-out notifications.
	GetAllByRole(ctx context.Context, role user.Role) ([]*user.User, error)

	// Remove physically deletes a user row. Only the purge path calls this.
	Remove(ctx context.Context, id kernel.UUID) error
}
