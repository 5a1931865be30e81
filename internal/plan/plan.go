// Package plan computes a terraform-plan-style diff between the
// persisted task set and a candidate registration list, so an operator
// can preview what the next initialize would do before running it.
// The ChangeType/Change/Diff shape here is retargeted from comparing
// two parsed crontabs onto state.TaskEntry vs. registry.ParsedRegistration,
// and narrowed to the fields that matter for reconciliation: cron
// expression and retry delay. Environment-variable-line and comment-line
// diffing has no counterpart here — a registration set has neither —
// so it is dropped rather than adapted.
package plan

import (
	"sort"

	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
)

// ChangeType classifies one task's transition from current to candidate.
type ChangeType int

const (
	Unchanged ChangeType = iota
	Added
	Removed
	Modified
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "add"
	case Removed:
		return "remove"
	case Modified:
		return "modify"
	default:
		return "unchanged"
	}
}

// Change describes one task's delta between the persisted document and
// the candidate registration set.
type Change struct {
	Type             ChangeType
	Name             string
	OldCron, NewCron string
	OldRetryMs       int64
	NewRetryMs       int64
	// RuntimeCarriesForward is true when reconcile (the same rule
	// scheduler.go's Initialize applies) would preserve this task's
	// runtime bookkeeping rather than starting it fresh.
	RuntimeCarriesForward bool
}

// FieldsChanged lists which definition fields differ, for Modified
// changes only.
func (c Change) FieldsChanged() []string {
	var fields []string
	if c.OldCron != c.NewCron {
		fields = append(fields, "cronExpression")
	}
	if c.OldRetryMs != c.NewRetryMs {
		fields = append(fields, "retryDelayMs")
	}
	return fields
}

// Plan is the full set of per-task changes, sorted by name.
type Plan struct {
	Changes []Change
}

// Compute diffs current against candidates the same way
// Scheduler.Initialize's own reconciliation would: a task absent from
// candidates is Removed; a task absent from current is Added; a task in
// both with an identical cron expression and retry delay is Unchanged
// (and would carry its runtime forward); otherwise it is Modified (and
// would restart fresh).
func Compute(current state.SchedulerState, candidates []registry.ParsedRegistration) Plan {
	names := make(map[string]struct{})
	for _, t := range current.Tasks {
		names[t.Name] = struct{}{}
	}
	for _, c := range candidates {
		names[c.Name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var changes []Change
	for _, name := range sorted {
		existing, hasExisting := current.Find(name)
		candidate, hasCandidate := findCandidate(candidates, name)

		switch {
		case hasExisting && !hasCandidate:
			changes = append(changes, Change{Type: Removed, Name: name, OldCron: existing.CronExpression, OldRetryMs: existing.RetryDelayMs})
		case !hasExisting && hasCandidate:
			changes = append(changes, Change{
				Type: Added, Name: name,
				NewCron: candidate.Cron.String(), NewRetryMs: candidate.RetryDelay.Milliseconds(),
			})
		default:
			newCron := candidate.Cron.String()
			newRetry := candidate.RetryDelay.Milliseconds()
			unchanged := existing.CronExpression == newCron && existing.RetryDelayMs == newRetry
			ct := Unchanged
			if !unchanged {
				ct = Modified
			}
			changes = append(changes, Change{
				Type: ct, Name: name,
				OldCron: existing.CronExpression, NewCron: newCron,
				OldRetryMs: existing.RetryDelayMs, NewRetryMs: newRetry,
				RuntimeCarriesForward: unchanged,
			})
		}
	}

	return Plan{Changes: changes}
}

func findCandidate(candidates []registry.ParsedRegistration, name string) (registry.ParsedRegistration, bool) {
	for _, c := range candidates {
		if c.Name == name {
			return c, true
		}
	}
	return registry.ParsedRegistration{}, false
}
