package user

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrUserIsNotConstructed is returned when a User instance was not created
	// through NewUser or RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser or RestoreUser constructor")

	// ErrNotADriver is returned when availability is toggled on a non-driver user.
	ErrNotADriver = errors.New("availability applies only to users with the DRIVER role")
)

// User is the aggregate for every person known to the marketplace: customers,
// operations staff, admins, and drivers.
//
// Invariants:
//   - Must have a valid identifier, a non-empty name, and a valid role
//   - Availability is meaningful only for drivers; it is advisory capacity,
//     not a lock (two concurrent assignments resolve through the order's
//     optimistic status check, not through this flag)
//   - Trash state follows the soft-delete contract: trashed users disappear
//     from default listings and from role fan-out until restored
type User struct {
	id         kernel.UUID
	name       string
	phone      string
	role       Role
	approved   bool
	available  bool
	payoutRate int64
	pushTokens []string
	trashState kernel.TrashState

	isConstructed bool
}

// NewUser creates a live, unapproved user with the given role. Drivers start
// unavailable until approved staff or the driver themselves flips the flag.
func NewUser(id kernel.UUID, name, phone string, role Role) (*User, error) {
	user := &User{
		trashState:    kernel.Live(),
		isConstructed: true,
	}

	if err := errors.Join(
		user.setID(id),
		user.setName(name),
		user.setRole(role),
	); err != nil {
		return nil, err
	}

	user.phone = phone
	return user, nil
}

// RestoreUser reconstructs a user from persistence without re-running the
// creation defaults.
func RestoreUser(
	id kernel.UUID,
	name, phone string,
	role Role,
	approved, available bool,
	payoutRate int64,
	pushTokens []string,
	trashState kernel.TrashState,
) (*User, error) {
	user := &User{
		approved:      approved,
		available:     available,
		payoutRate:    payoutRate,
		pushTokens:    pushTokens,
		trashState:    trashState,
		isConstructed: true,
	}

	if err := errors.Join(
		user.setID(id),
		user.setName(name),
		user.setRole(role),
	); err != nil {
		return nil, err
	}

	user.phone = phone
	return user, nil
}

// Validate ensures the User was created through a constructor.
func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

// ID returns the user's unique identifier.
func (u *User) ID() kernel.UUID {
	return u.id
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// Phone returns the user's contact phone number.
func (u *User) Phone() string {
	return u.phone
}

// Role returns the user's role.
func (u *User) Role() Role {
	return u.role
}

// IsApproved reports whether staff approved this account. Only approved
// drivers are eligible for assignment and only approved users receive role
// fan-out notifications.
func (u *User) IsApproved() bool {
	return u.approved
}

// IsAvailable reports the driver's advisory availability flag.
func (u *User) IsAvailable() bool {
	return u.available
}

// PayoutRate returns the driver's per-delivery payout in minor currency units.
// The figure an order locks in on delivery comes from this record at that
// moment, never recomputed retroactively.
func (u *User) PayoutRate() int64 {
	return u.payoutRate
}

// PushTokens returns the registered device tokens for push delivery.
// Registration and removal of tokens is an external concern.
func (u *User) PushTokens() []string {
	return u.pushTokens
}

// TrashState returns the user's soft-delete state.
func (u *User) TrashState() kernel.TrashState {
	return u.trashState
}

// Approve marks the account as approved by staff.
func (u *User) Approve() {
	u.approved = true
}

// SetAvailability toggles the driver's advisory availability flag.
// Returns ErrNotADriver for any other role.
func (u *User) SetAvailability(available bool) error {
	if u.role != RoleDriver {
		return ErrNotADriver
	}
	u.available = available
	return nil
}

// SetPayoutRate updates the driver's per-delivery payout.
// Returns ErrNotADriver for any other role.
func (u *User) SetPayoutRate(rate int64) error {
	if u.role != RoleDriver {
		return ErrNotADriver
	}
	if rate < 0 {
		return errs.NewValueIsInvalidErrorWithCause("payoutRate", fmt.Errorf("%d is negative", rate))
	}
	u.payoutRate = rate
	return nil
}

// MarkTrashed soft-deletes the user at the given moment.
// Returns InvalidState if the user is already in the trash.
func (u *User) MarkTrashed(at time.Time) error {
	if u.trashState.IsTrashed() {
		return errs.NewInvalidStateError("user", "already trashed")
	}

	state, err := kernel.Trashed(at)
	if err != nil {
		return err
	}
	u.trashState = state
	return nil
}

// RestoreFromTrash clears the soft-delete state.
// Returns InvalidState if the user is not in the trash.
func (u *User) RestoreFromTrash() error {
	if u.trashState.IsLive() {
		return errs.NewInvalidStateError("user", "not trashed")
	}
	u.trashState = kernel.Live()
	return nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	u.name = name
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}
