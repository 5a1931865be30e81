// Package errs holds the typed, structured error kinds shared by the
// registration validator and the runtime state store, so that callers
// (including the root cronloop façade) can match on them with errors.As
// instead of parsing messages.
package errs

import "fmt"

// Kind identifies one of the registration or state-transaction error kinds.
type Kind string

const (
	KindRegistrationsNotArray   Kind = "RegistrationsNotArray"
	KindRegistrationShape       Kind = "RegistrationShape"
	KindInvalidName             Kind = "InvalidName"
	KindDuplicateTaskName       Kind = "DuplicateTaskName"
	KindInvalidCronType         Kind = "InvalidCronType"
	KindCronExpressionInvalid   Kind = "CronExpressionInvalid"
	KindCallbackType            Kind = "CallbackType"
	KindRetryDelayType          Kind = "RetryDelayType"
	KindNegativeRetryDelay      Kind = "NegativeRetryDelay"
	KindStateTransactionFailure Kind = "StateTransactionFailure"
)

// RegistrationError is a structured error raised while validating a
// registration list. Details carry whatever is
// relevant to the kind: Index/Name/Field/Value are all optional.
type RegistrationError struct {
	Kind  Kind
	Index int    // offending registration index, -1 if not applicable
	Name  string // offending task name, if known
	Field string // offending field name, if known
	Value string // offending value, if known
	Cause error  // wrapped cause, e.g. a field-level cron parse error
}

func (e *RegistrationError) Error() string {
	msg := string(e.Kind)
	if e.Name != "" {
		msg += fmt.Sprintf(" (task %q)", e.Name)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" [field=%s]", e.Field)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" value=%q", e.Value)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RegistrationError) Unwrap() error { return e.Cause }

// Details exposes the structured fields for machine matching in tests
// as a "details.value" style map.
func (e *RegistrationError) Details() map[string]string {
	d := map[string]string{}
	if e.Name != "" {
		d["name"] = e.Name
	}
	if e.Field != "" {
		d["field"] = e.Field
	}
	if e.Value != "" {
		d["value"] = e.Value
	}
	return d
}

// StateTransactionError wraps a failure surfaced by the state store
// during a transaction. The handle that produced it
// is no longer usable.
type StateTransactionError struct {
	Op    string // "read", "commit", etc.
	Cause error
}

func (e *StateTransactionError) Error() string {
	return fmt.Sprintf("state transaction failed during %s: %v", e.Op, e.Cause)
}

func (e *StateTransactionError) Unwrap() error { return e.Cause }

func (e *StateTransactionError) Kind() Kind { return KindStateTransactionFailure }
