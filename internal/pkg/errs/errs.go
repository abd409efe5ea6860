package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValueIsRequired means a mandatory input was empty.
	ErrValueIsRequired = errors.New("value is required")
	// ErrValueIsInvalid means an input failed a format or business check.
	ErrValueIsInvalid = errors.New("value is invalid")
	// ErrValueIsOutOfRange means a numeric input fell outside its bounds.
	ErrValueIsOutOfRange = errors.New("value is out of range")
	// ErrObjectNotFound means a lookup by id found nothing.
	ErrObjectNotFound = errors.New("object not found")
	// ErrAlreadyExists means an insert collided with an existing row.
	ErrAlreadyExists = errors.New("object already exists")
	// ErrInvariantViolation means stored or received data is inconsistent.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrPreconditionFailed means a command does not apply to the current state.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrConcurrencyConflict means another writer changed the row first; the caller may retry.
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	// ErrTransient means infrastructure failed and the operation may succeed later.
	ErrTransient = errors.New("transient failure")
)

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// sanitize keeps user supplied values on a single log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

// ValueIsRequiredError names the missing parameter.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError that records cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsRequired.
func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError names the rejected parameter. Cause usually carries
// the detail.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError that records cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

// Unwrap returns ErrValueIsInvalid.
func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports the value together with its bounds. Unbounded
// sides are usually passed as the string "unbounded".
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates a ValueIsOutOfRangeError without a cause.
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

// NewValueIsOutOfRangeErrorWithCause creates a ValueIsOutOfRangeError that records cause.
func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

// Unwrap returns ErrValueIsOutOfRange.
func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError identifies the missing object by parameter name and id.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates a ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates a ObjectNotFoundError that records cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *ObjectNotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s is %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID))
	}
	return withCause(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

// Unwrap returns ErrObjectNotFound.
func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// AlreadyExistsError identifies the duplicate by parameter name and id.
type AlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewAlreadyExistsError creates a AlreadyExistsError without a cause.
func NewAlreadyExistsError(paramName string, id any) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id}
}

// NewAlreadyExistsErrorWithCause creates a AlreadyExistsError that records cause.
func NewAlreadyExistsErrorWithCause(paramName string, id any, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *AlreadyExistsError) Error() string {
	return withCause(fmt.Sprintf("%s: %s is %s", ErrAlreadyExists, e.ParamName, sanitize(e.ID)), e.Cause)
}

// Unwrap returns ErrAlreadyExists.
func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// InvariantViolationError signals a caller or producer bug. It is never retried.
type InvariantViolationError struct {
	Invariant string
	Cause     error
}

// NewInvariantViolationError creates a InvariantViolationError without a cause.
func NewInvariantViolationError(invariant string) *InvariantViolationError {
	return &InvariantViolationError{Invariant: invariant}
}

// NewInvariantViolationErrorWithCause creates a InvariantViolationError that records cause.
func NewInvariantViolationErrorWithCause(invariant string, cause error) *InvariantViolationError {
	return &InvariantViolationError{Invariant: invariant, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *InvariantViolationError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrInvariantViolation, e.Invariant), e.Cause)
}

// Unwrap returns ErrInvariantViolation.
func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

// PreconditionFailedError rejects a command issued against an incompatible state.
type PreconditionFailedError struct {
	Operation string
	Reason    string
	Cause     error
}

// NewPreconditionFailedError creates a PreconditionFailedError without a cause.
func NewPreconditionFailedError(operation, reason string) *PreconditionFailedError {
	return &PreconditionFailedError{Operation: operation, Reason: reason}
}

// NewPreconditionFailedErrorWithCause creates a PreconditionFailedError that records cause.
func NewPreconditionFailedErrorWithCause(operation, reason string, cause error) *PreconditionFailedError {
	return &PreconditionFailedError{Operation: operation, Reason: reason, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *PreconditionFailedError) Error() string {
	return withCause(fmt.Sprintf("%s: %s: %s", ErrPreconditionFailed, e.Operation, e.Reason), e.Cause)
}

// Unwrap returns ErrPreconditionFailed.
func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}

// ConcurrencyConflictError reports the aggregate and the version the writer
// expected to find.
//
// Example:
//
//	if errors.Is(err, errs.ErrConcurrencyConflict) {
//	    // reload and retry
//	}
type ConcurrencyConflictError struct {
	Aggregate       string
	ID              any
	ExpectedVersion int64
	Cause           error
}

// NewConcurrencyConflictError creates a ConcurrencyConflictError without a cause.
func NewConcurrencyConflictError(aggregate string, id any, expectedVersion int64) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id, ExpectedVersion: expectedVersion}
}

// NewConcurrencyConflictErrorWithCause creates a ConcurrencyConflictError that records cause.
func NewConcurrencyConflictErrorWithCause(
	aggregate string,
	id any,
	expectedVersion int64,
	cause error,
) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Aggregate: aggregate, ID: id, ExpectedVersion: expectedVersion, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *ConcurrencyConflictError) Error() string {
	msg := fmt.Sprintf("%s: %s %s is not at version %d", ErrConcurrencyConflict, e.Aggregate, sanitize(e.ID), e.ExpectedVersion)
	return withCause(msg, e.Cause)
}

// Unwrap returns ErrConcurrencyConflict.
func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConcurrencyConflict
}

// TransientError wraps an infrastructure failure. It unwraps to both
// ErrTransient and the cause, so errors.Is matches either.
type TransientError struct {
	Operation string
	Cause     error
}

// NewTransientError creates a TransientError without a cause.
func NewTransientError(operation string, cause error) *TransientError {
	return &TransientError{Operation: operation, Cause: cause}
}

// Error formats the sentinel, the details and the cause when present.
func (e *TransientError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrTransient, e.Operation), e.Cause)
}

// Unwrap returns ErrTransient and the cause.
func (e *TransientError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrTransient}
	}
	return []error{ErrTransient, e.Cause}
}

// IsRetryable reports whether err is worth retrying with fresh state or after a backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict) || errors.Is(err, ErrTransient)
}
