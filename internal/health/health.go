// Package health computes a point-in-time dashboard over the persisted
// scheduler state, backing the `cronloopd status` subcommand. It joins
// the live registration set against state.SchedulerState's per-task
// runtime bookkeeping, so it can report not just "when does this run"
// but "did it last succeed, and is it sitting in a retry backoff right
// now".
package health

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// Status classifies a single task's most recent outcome.
type Status int

const (
	// StatusNeverRun reports a task that has no recorded attempt yet.
	StatusNeverRun Status = iota
	// StatusHealthy reports a task whose most recent attempt succeeded.
	StatusHealthy
	// StatusPendingRetry reports a task whose last attempt failed and is
	// still inside its retry-delay window.
	StatusPendingRetry
	// StatusFailing reports a task whose last attempt failed and whose
	// retry window, if any, has elapsed.
	StatusFailing
)

// String renders the status the way the daemon's status command prints it.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusPendingRetry:
		return "pending-retry"
	case StatusFailing:
		return "failing"
	default:
		return "never-run"
	}
}

// MarshalText renders the status as its string form in JSON output.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// TaskStatus is one row of the dashboard.
type TaskStatus struct {
	Name              string            `json:"name"`
	Expression        string            `json:"expression"`
	Status            Status            `json:"status"`
	LastSuccessTime   *timeutil.Instant `json:"lastSuccessTime"`
	LastFailureTime   *timeutil.Instant `json:"lastFailureTime"`
	PendingRetryUntil *timeutil.Instant `json:"pendingRetryUntil"`
	RunsPerDay        int               `json:"runsPerDay"`
}

// Dashboard is the full point-in-time health report.
type Dashboard struct {
	Tasks         []TaskStatus `json:"tasks"`
	HourHistogram [24]int      `json:"hourHistogram"` // index = hour of day, count of upcoming fires within the window
}

// Compute joins the current registration set with the persisted runtime
// state and projects each task's upcoming fires over window to build
// the hour histogram.
func Compute(now timeutil.Instant, st state.SchedulerState, regs []registry.ParsedRegistration, window time.Duration) Dashboard {
	var d Dashboard
	d.Tasks = make([]TaskStatus, 0, len(regs))

	for _, reg := range regs {
		ts := TaskStatus{Name: reg.Name, Expression: reg.Cron.String()}

		if entry, ok := st.Find(reg.Name); ok {
			ts.LastSuccessTime = entry.LastSuccessTime
			ts.LastFailureTime = entry.LastFailureTime
			ts.PendingRetryUntil = entry.PendingRetryUntil
		}
		ts.Status = classify(now, ts)
		ts.RunsPerDay = countFires(reg.Cron, now, 24*time.Hour)

		d.Tasks = append(d.Tasks, ts)
		accumulateHistogram(&d.HourHistogram, reg.Cron, now, window)
	}

	sort.Slice(d.Tasks, func(i, j int) bool { return d.Tasks[i].Name < d.Tasks[j].Name })
	return d
}

func classify(now timeutil.Instant, ts TaskStatus) Status {
	if ts.PendingRetryUntil != nil && now.Before(*ts.PendingRetryUntil) {
		return StatusPendingRetry
	}
	if ts.LastFailureTime != nil && (ts.LastSuccessTime == nil || ts.LastFailureTime.After(*ts.LastSuccessTime)) {
		return StatusFailing
	}
	if ts.LastSuccessTime != nil {
		return StatusHealthy
	}
	return StatusNeverRun
}

func countFires(expr cronexpr.Expression, from timeutil.Instant, window time.Duration) int {
	until := from.Add(window)
	count := 0
	cursor := from
	for {
		next, err := cronexpr.NextFire(expr, cursor)
		if err != nil || !next.Time().Before(until.Time()) {
			break
		}
		count++
		cursor = next
	}
	return count
}

func accumulateHistogram(hist *[24]int, expr cronexpr.Expression, from timeutil.Instant, window time.Duration) {
	until := from.Add(window)
	cursor := from
	for {
		next, err := cronexpr.NextFire(expr, cursor)
		if err != nil || !next.Time().Before(until.Time()) {
			break
		}
		hist[next.Hour()]++
		cursor = next
	}
}

// Render writes d as a plain-text table followed by an hour histogram.
func Render(w io.Writer, d Dashboard) error {
	fmt.Fprintf(w, "Task Health\n")
	fmt.Fprintf(w, "───────────────────────────────────────────────────────\n")
	for _, ts := range d.Tasks {
		fmt.Fprintf(w, "%-24s %-14s cron=%q runsPerDay=%d\n", ts.Name, ts.Status, ts.Expression, ts.RunsPerDay)
		if ts.LastSuccessTime != nil {
			fmt.Fprintf(w, "    lastSuccess: %s\n", ts.LastSuccessTime)
		}
		if ts.LastFailureTime != nil {
			fmt.Fprintf(w, "    lastFailure: %s\n", ts.LastFailureTime)
		}
		if ts.PendingRetryUntil != nil {
			fmt.Fprintf(w, "    retryUntil:  %s\n", ts.PendingRetryUntil)
		}
	}
	fmt.Fprintf(w, "\n%s", GenerateHistogram(d.HourHistogram[:], 40))
	return nil
}
