package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The happy path runs
//
//	Pending -> Confirmed -> Preparing -> Ready -> OutForDelivery -> Delivered
//
// with two terminal side branches, Cancelled and Returned, reachable from any
// non-terminal state. Delivered, Cancelled, and Returned accept no further
// transitions.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Pending is the initial status of a freshly placed order.
	Pending

	// Confirmed means staff accepted the order.
	Confirmed

	// Preparing means the order is being picked and packed.
	Preparing

	// Ready means the order awaits a driver.
	Ready

	// OutForDelivery means an assigned driver is carrying the order.
	OutForDelivery

	// Delivered is the terminal success state.
	Delivered

	// Cancelled is a terminal state reachable from any non-terminal state.
	Cancelled

	// Returned is a terminal corrective state applied by admins.
	Returned
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "UNKNOWN",
		Pending:        "PENDING",
		Confirmed:      "CONFIRMED",
		Preparing:      "PREPARING",
		Ready:          "READY",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
		Returned:       "RETURNED",
	}
}

// nextOnPath maps each non-terminal status to its single happy-path successor.
func nextOnPath() map[Status]Status {
	return map[Status]Status{
		Pending:        Confirmed,
		Confirmed:      Preparing,
		Preparing:      Ready,
		Ready:          OutForDelivery,
		OutForDelivery: Delivered,
	}
}

// StatusFromString parses the wire representation of a status.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != StatusUnknown && name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case wire name of the status.
// Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the status accepts no further transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == Returned
}

// CanTransitionTo reports whether target is a legal successor of s, regardless
// of who requests it. Legal successors are the next happy-path status plus the
// Cancelled and Returned side branches; terminal states have no successors.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Validate() != nil || target.Validate() != nil {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if target == Cancelled || target == Returned {
		return true
	}
	return nextOnPath()[s] == target
}
