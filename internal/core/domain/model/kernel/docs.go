// Package kernel contains shared value objects used across all domain aggregates.
//
// The kernel holds concepts that do not belong to any single aggregate:
//   - UUID: validated entity identifiers wrapping github.com/google/uuid
//   - TrashState: the Live/Trashed tagged state behind the soft-delete subsystem
//
// Value objects in this package are immutable and safe for concurrent use.
// Their zero values are invalid; construction goes through the provided
// factory functions, and Validate detects values that bypassed them.
package kernel
