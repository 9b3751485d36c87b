// Package order contains the Order aggregate, its line items, the lifecycle
// status graph, and the role-based transition authorization table.
//
// Three concerns are kept deliberately separate:
//   - Status (status.go) knows which transitions are legal at all
//   - TransitionPolicy (policy.go) knows which role may request which legal
//     transition
//   - Order (order.go) knows ownership and assignment, and applies validated
//     transitions with their timestamp side effects
//
// The split keeps the whole authorization matrix declaratively testable and
// lets the persistence layer enforce transitions optimistically: the repository
// updates a row only while its status still matches the one the caller read.
package order
