// Package errs provides the error taxonomy of the order workflow.
//
// Every error type wraps a sentinel so callers classify failures with errors.Is
// and inspect details with errors.As:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: rejected input
//   - ObjectNotFoundError, AlreadyExistsError: persistence lookups and inserts
//   - InvariantViolationError: a programmer error (missing event fields, negative points)
//   - PreconditionFailedError: a command issued against an incompatible aggregate state
//   - ConcurrencyConflictError: an optimistic version mismatch, retry with fresh state
//   - TransientError: broker or storage unavailability, retried with backoff
//
// Each type follows the same shape: a sentinel variable, a struct carrying the
// details and an optional Cause, constructors with and without cause, Error()
// and Unwrap().
package errs
