package order

import (
	"marketplace/internal/core/domain/model/user"
)

// TransitionPolicy is the declarative role-to-transition authorization table.
// Keeping the whole matrix in one value makes every (status, role, target)
// combination testable in one place instead of scattering per-endpoint checks.
//
// The policy answers only "may this role request this transition"; whether the
// transition is legal at all is the status graph's concern (Status.CanTransitionTo),
// and ownership/assignment checks belong to the aggregate.
type TransitionPolicy struct {
	allowed map[Status]map[user.Role][]Status
}

// NewTransitionPolicy builds the authorization matrix:
//
//   - customers may only cancel their own pending order
//   - operations staff drive Pending through Ready and may cancel at any
//     pre-delivery state
//   - drivers move Ready -> OutForDelivery -> Delivered on orders assigned
//     to them
//   - admins may request any transition that is legal on the status graph,
//     including corrective moves to Returned
func NewTransitionPolicy() TransitionPolicy {
	staff := map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Preparing, Cancelled},
		Preparing:      {Ready, Cancelled},
		Ready:          {Cancelled},
		OutForDelivery: {Cancelled},
	}

	allowed := make(map[Status]map[user.Role][]Status)
	add := func(from Status, role user.Role, targets ...Status) {
		if allowed[from] == nil {
			allowed[from] = make(map[user.Role][]Status)
		}
		allowed[from][role] = append(allowed[from][role], targets...)
	}

	add(Pending, user.RoleCustomer, Cancelled)

	for from, targets := range staff {
		add(from, user.RoleOperations, targets...)
	}

	add(Ready, user.RoleDriver, OutForDelivery)
	add(OutForDelivery, user.RoleDriver, Delivered)

	return TransitionPolicy{allowed: allowed}
}

// Allows reports whether the role may request the from -> to transition.
// Admins are permitted every transition the status graph allows.
func (p TransitionPolicy) Allows(role user.Role, from, to Status) bool {
	if !from.CanTransitionTo(to) {
		return false
	}
	if role == user.RoleAdmin {
		return true
	}

	for _, target := range p.allowed[from][role] {
		if target == to {
			return true
		}
	}
	return false
}
