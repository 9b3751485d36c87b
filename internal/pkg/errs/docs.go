// Package errs provides standardized error types for the marketplace application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers two groups of errors:
//   - Validation errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError)
//     raised while constructing commands, queries, and domain objects.
//   - Outcome errors (ObjectNotFoundError, ForbiddenError, InvalidTransitionError,
//     InvalidStateError, ConflictError) representing expected, user-facing failures
//     of business operations. These map one-to-one onto HTTP responses in the
//     inbound adapter and are never treated as fatal.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrForbidden)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method resolving to the sentinel for errors.Is classification
//
// Infrastructure failures (repository or transport unreachable) are deliberately
// not part of this taxonomy: they are returned as-is, logged, and surfaced to
// callers as generic failures.
package errs
