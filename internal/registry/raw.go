package registry

import (
	"time"

	"github.com/hzerrad/cronloop/internal/errs"
)

// ValidateRawDocument validates a registrations document decoded from
// YAML/JSON into bare interface{} values (gopkg.in/yaml.v3's default
// decode target), before any of it has been bound to Go types. This is
// the dynamic, duck-typed validation path this package exposes
// (NotAnArray, Shape, InvalidCronType, RetryDelayType, ...) — it only
// applies to cmd/cronloopd's file-driven config, since the root
// cronloop.Validate path already receives statically typed
// Registration values and most of these cases are unreachable there.
//
// handlers resolves a task's declared "handler" key to a callback; an
// unresolved key is reported as CallbackType, the same way a
// non-callable value would be, since callbacks cannot be serialized
// into the document itself.
func ValidateRawDocument(doc any, handlers map[string]func() error) ([]ParsedRegistration, []Warning, error) {
	regs, err := RegistrationsFromRawDocument(doc, handlers)
	if err != nil {
		return nil, nil, err
	}
	return Validate(regs)
}

// RegistrationsFromRawDocument decodes doc into unparsed Registrations,
// resolving each entry's "handler" key against handlers, without running
// Validate's cron-parsing/duplicate-name pass. Exported for callers that
// need the raw tuple ahead of the daemon's own Initialize, which performs
// that validation itself (e.g. cmd/cronloopd's run subcommand, which
// builds real callbacks rather than discarding them).
func RegistrationsFromRawDocument(doc any, handlers map[string]func() error) ([]Registration, error) {
	items, ok := doc.([]any)
	if !ok {
		return nil, &errs.RegistrationError{Kind: errs.KindRegistrationsNotArray, Index: -1}
	}

	regs := make([]Registration, 0, len(items))

	for i, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, &errs.RegistrationError{Kind: errs.KindRegistrationShape, Index: i}
		}

		name, ok := entry["name"].(string)
		if !ok {
			return nil, &errs.RegistrationError{Kind: errs.KindInvalidName, Index: i}
		}

		cronVal, present := entry["cron"]
		cron, ok := cronVal.(string)
		if !present || !ok {
			return nil, &errs.RegistrationError{Kind: errs.KindInvalidCronType, Index: i, Name: name, Field: "cron"}
		}

		handlerKey, ok := entry["handler"].(string)
		if !ok {
			return nil, &errs.RegistrationError{Kind: errs.KindCallbackType, Index: i, Name: name, Field: "handler"}
		}
		callback, known := handlers[handlerKey]
		if !known {
			return nil, &errs.RegistrationError{
				Kind: errs.KindCallbackType, Index: i, Name: name, Field: "handler", Value: handlerKey,
			}
		}

		var retryDelayMs int64
		if raw, present := entry["retryDelayMs"]; present {
			switch v := raw.(type) {
			case int:
				retryDelayMs = int64(v)
			case int64:
				retryDelayMs = v
			case float64:
				retryDelayMs = int64(v)
			default:
				return nil, &errs.RegistrationError{Kind: errs.KindRetryDelayType, Index: i, Name: name, Field: "retryDelayMs"}
			}
		}

		regs = append(regs, Registration{
			Name:       name,
			CronExpr:   cron,
			Callback:   callback,
			RetryDelay: time.Duration(retryDelayMs) * time.Millisecond,
		})
	}

	return regs, nil
}
