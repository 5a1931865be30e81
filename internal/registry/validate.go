// Package registry implements the registration validator:
// it turns a caller-supplied registration list into either a fully
// parsed, validated set or a typed error naming the first violation
// encountered. Its accumulate-then-report shape for warnings (as opposed
// to errors, which abort immediately) collects severity-tagged issues
// onto a result while still returning a hard pass/fail verdict.
package registry

import (
	"strings"
	"time"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/errs"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// Registration is the caller-supplied tuple.
type Registration struct {
	Name       string
	CronExpr   string
	Callback   func() error
	RetryDelay time.Duration
}

// ParsedRegistration is a Registration after successful validation: its
// cron expression is parsed and its retry delay is known non-negative.
type ParsedRegistration struct {
	Name       string
	Cron       cronexpr.Expression
	Callback   func() error
	RetryDelay timeutil.Duration
}

// WarningKind distinguishes non-fatal issues.
type WarningKind string

const (
	WarnNameHasWhitespace    WarningKind = "NameHasWhitespace"
	WarnRetryDelayExceedsDay WarningKind = "RetryDelayExceedsDay"
)

// Warning is a non-fatal validation issue attached to an otherwise valid
// registration.
type Warning struct {
	Kind    WarningKind
	Name    string
	Message string
}

const retryDelayWarnThreshold = 24 * time.Hour

// Validate validates the full registration list and returns the parsed
// form plus any warnings. Validation is all-or-nothing: the first
// invalid registration aborts with a typed *errs.RegistrationError and no
// partial result.
func Validate(regs []Registration) ([]ParsedRegistration, []Warning, error) {
	parsed := make([]ParsedRegistration, 0, len(regs))
	warnings := make([]Warning, 0)
	seen := make(map[string]struct{}, len(regs))

	for i, reg := range regs {
		name := reg.Name
		if strings.TrimSpace(name) == "" {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindInvalidName, Index: i, Value: name,
			}
		}
		if _, dup := seen[name]; dup {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindDuplicateTaskName, Index: i, Name: name,
			}
		}
		seen[name] = struct{}{}

		if strings.ContainsAny(name, " \t\n\r") {
			warnings = append(warnings, Warning{
				Kind: WarnNameHasWhitespace, Name: name,
				Message: "task name contains whitespace",
			})
		}

		if strings.TrimSpace(reg.CronExpr) == "" {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindInvalidCronType, Index: i, Name: name, Field: "cronExpression",
			}
		}

		cron, err := cronexpr.Parse(reg.CronExpr)
		if err != nil {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindCronExpressionInvalid, Index: i, Name: name,
				Field: "cronExpression", Value: reg.CronExpr, Cause: err,
			}
		}

		if reg.Callback == nil {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindCallbackType, Index: i, Name: name, Field: "callback",
			}
		}

		if reg.RetryDelay < 0 {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindNegativeRetryDelay, Index: i, Name: name, Field: "retryDelay",
			}
		}
		delay, err := timeutil.NewDuration(reg.RetryDelay)
		if err != nil {
			return nil, nil, &errs.RegistrationError{
				Kind: errs.KindNegativeRetryDelay, Index: i, Name: name, Field: "retryDelay", Cause: err,
			}
		}
		if reg.RetryDelay > retryDelayWarnThreshold {
			warnings = append(warnings, Warning{
				Kind: WarnRetryDelayExceedsDay, Name: name,
				Message: "retry delay exceeds 24 hours",
			})
		}

		parsed = append(parsed, ParsedRegistration{
			Name:       name,
			Cron:       cron,
			Callback:   reg.Callback,
			RetryDelay: delay,
		})
	}

	return parsed, warnings, nil
}
