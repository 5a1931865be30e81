package cronloop

import (
	"github.com/hzerrad/cronloop/internal/errs"
	"github.com/hzerrad/cronloop/internal/registry"
)

// Registration is the caller-supplied task tuple:
// a unique name, a five-field cron expression, a zero-argument callback,
// and the delay to wait before retrying a failed attempt.
type Registration = registry.Registration

// ErrorKind identifies one of the typed error kinds initialize can
// return.
type ErrorKind = errs.Kind

const (
	ErrRegistrationsNotArray   = errs.KindRegistrationsNotArray
	ErrRegistrationShape       = errs.KindRegistrationShape
	ErrInvalidName             = errs.KindInvalidName
	ErrDuplicateTaskName       = errs.KindDuplicateTaskName
	ErrInvalidCronType         = errs.KindInvalidCronType
	ErrCronExpressionInvalid   = errs.KindCronExpressionInvalid
	ErrCallbackType            = errs.KindCallbackType
	ErrRetryDelayType          = errs.KindRetryDelayType
	ErrNegativeRetryDelay      = errs.KindNegativeRetryDelay
	ErrStateTransactionFailure = errs.KindStateTransactionFailure
)

// RegistrationError is returned by Initialize on the first invalid
// registration; use errors.As to recover it and inspect Details() for
// the offending index/name/field/value.
type RegistrationError = errs.RegistrationError

// StateTransactionError wraps a failure from the injected state store.
type StateTransactionError = errs.StateTransactionError

// Warning is a non-fatal issue attached to an otherwise valid
// registration: a whitespace-bearing name or a retry
// delay exceeding 24 hours.
type Warning = registry.Warning

const (
	WarnNameHasWhitespace    = registry.WarnNameHasWhitespace
	WarnRetryDelayExceedsDay = registry.WarnRetryDelayExceedsDay
)
