// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the marketplace. It implements workflows
// that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - AssignmentCoordinator: a domain service binding eligible drivers to orders
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
