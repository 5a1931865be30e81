package state

import (
	"fmt"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// maxPtr returns the later of two optional instants, treating a nil
// pointer as earlier than any set instant (max(success, failure)).
func maxPtr(a, b *timeutil.Instant) timeutil.Instant {
	var av, bv timeutil.Instant
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return timeutil.Max(av, bv)
}

// IsRunning reports whether the task's last attempt has not yet been
// followed by a success or failure.
func IsRunning(rt TaskRuntime) bool {
	if rt.LastAttemptTime == nil {
		return false
	}
	lastOutcome := maxPtr(rt.LastSuccessTime, rt.LastFailureTime)
	return rt.LastAttemptTime.After(lastOutcome)
}

// IsRetryPending reports whether a failed task's retry gate has
// opened.
func IsRetryPending(rt TaskRuntime, now timeutil.Instant) bool {
	return rt.PendingRetryUntil != nil && !rt.PendingRetryUntil.After(now)
}

// NextCronDue returns the task's most recent cron fire at now, if it is
// strictly newer than the last fire the poller already evaluated. ok
// is false if there is no such fire, either because
// the expression never matches within the calculator's bounded window,
// or because the most recent fire has already been evaluated.
func NextCronDue(def TaskDefinition, rt TaskRuntime, expr cronexpr.Expression, now timeutil.Instant) (fire timeutil.Instant, ok bool) {
	mrf, found := cronexpr.MostRecentFire(expr, now)
	if !found {
		return timeutil.Instant{}, false
	}
	if rt.LastEvaluatedFire == nil {
		// First-startup semantics: with no
		// prior evaluation, a task is due only if the cron expression
		// matches the current minute exactly. A task whose schedule last
		// fired in the past (before the process ever started) does not
		// catch up on that missed instant.
		if !mrf.Equal(now.TruncateToMinute()) {
			return timeutil.Instant{}, false
		}
		return mrf, true
	}
	if !mrf.After(*rt.LastEvaluatedFire) {
		return timeutil.Instant{}, false
	}
	return mrf, true
}

// ValidateInvariants checks the per-task invariants that must hold
// after every committed transaction. It is used by the state
// package's tests; a violation here
// indicates a bug in the dispatcher, not a recoverable runtime
// condition.
func ValidateInvariants(entry TaskEntry) error {
	rt := entry.TaskRuntime
	lastOutcome := maxPtr(rt.LastSuccessTime, rt.LastFailureTime)
	if rt.LastAttemptTime != nil && rt.LastAttemptTime.Before(lastOutcome) {
		return fmt.Errorf("task %q: lastAttemptTime precedes max(success,failure)", entry.Name)
	}

	hasFailureAfterSuccess := rt.LastFailureTime != nil &&
		(rt.LastSuccessTime == nil || rt.LastFailureTime.After(*rt.LastSuccessTime))
	if (rt.PendingRetryUntil != nil) != hasFailureAfterSuccess {
		return fmt.Errorf("task %q: pendingRetryUntil set iff lastFailureTime > lastSuccessTime", entry.Name)
	}

	return nil
}
