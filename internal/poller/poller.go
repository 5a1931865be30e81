// Package poller implements the polling execution loop:
// it owns task dispatch, retry gating, catch-up policy, and parallel
// callback execution. Each tick is two transactions bracketing a burst
// of concurrent callback invocations: a plan transaction that selects
// and stamps the due set, then uncapped parallel dispatch, then one
// small outcome transaction per settled callback.
package poller

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hzerrad/cronloop/internal/collab"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// Dispatcher runs one poll cycle at a time against a state.Store,
// invoking due callbacks and persisting their outcomes. It holds no
// ticker of its own; a caller (the root façade) feeds it ticks, which
// keeps Tick synchronously drivable from tests.
type Dispatcher struct {
	Store  state.Store
	Clock  collab.Clock
	Logger collab.Logger

	mu    sync.RWMutex
	tasks map[string]registry.ParsedRegistration
}

// New builds a Dispatcher. Call SetTasks before the first Tick.
func New(store state.Store, clock collab.Clock, logger collab.Logger) *Dispatcher {
	if logger == nil {
		logger = collab.NopLogger{}
	}
	return &Dispatcher{Store: store, Clock: clock, Logger: logger, tasks: map[string]registry.ParsedRegistration{}}
}

// SetTasks replaces the closed set of registrations the dispatcher
// evaluates on each tick. Safe to call concurrently with Tick/Run; the
// façade calls this once at initialize and again on every reconciling
// re-initialize.
func (d *Dispatcher) SetTasks(regs []registry.ParsedRegistration) {
	tasks := make(map[string]registry.ParsedRegistration, len(regs))
	for _, r := range regs {
		tasks[r.Name] = r
	}
	d.mu.Lock()
	d.tasks = tasks
	d.mu.Unlock()
}

func (d *Dispatcher) snapshotTasks() map[string]registry.ParsedRegistration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	tasks := make(map[string]registry.ParsedRegistration, len(d.tasks))
	for k, v := range d.tasks {
		tasks[k] = v
	}
	return tasks
}

// dueTask is one task selected by the plan phase, carrying just enough
// to run its callback and commit its outcome.
type dueTask struct {
	reg        registry.ParsedRegistration
	now        timeutil.Instant
	isCronFire bool
	cronFireAt timeutil.Instant
}

// Run consumes ticks until ctx is cancelled or the channel closes,
// running one full Tick (plan, dispatch, commit) per tick before
// waiting for the next. Because a tick is allowed to run to completion
// even after ctx is cancelled mid-flight, the caller's stop sequence
// (cancel, then wait for Run to return) guarantees every in-flight
// callback has settled, without any forced callback cancellation.
func (d *Dispatcher) Run(ctx context.Context, ticks <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}
			d.Tick(ctx)
		}
	}
}

// Tick runs exactly one poll cycle synchronously: plan, dispatch,
// commit. It never returns an error or panics outward; every failure
// mode (callback error, callback panic, transaction failure) is logged
// and absorbed here.
func (d *Dispatcher) Tick(ctx context.Context) {
	tasks := d.snapshotTasks()
	if len(tasks) == 0 {
		return
	}

	due := d.plan(tasks)
	if len(due) == 0 {
		return
	}

	results := d.dispatch(ctx, due)
	d.commit(results)
}

// plan is Transaction A: it reads the current
// state, selects the due set, and stamps lastAttemptTime (and
// lastEvaluatedFire for cron-driven fires) on every selected task in
// the same commit, so a crash between plan and dispatch is recovered by
// the façade's crash-recovery promotion on the next initialize.
func (d *Dispatcher) plan(tasks map[string]registry.ParsedRegistration) []dueTask {
	var due []dueTask

	err := d.Store.Transaction(func(h state.Handle) error {
		s := h.GetCurrentState()
		now := d.Clock.Now()
		changed := false

		for name, reg := range tasks {
			entry, found := s.Find(name)
			if !found {
				continue
			}
			if state.IsRunning(entry.TaskRuntime) {
				continue
			}

			cronFire, cronOK := state.NextCronDue(entry.TaskDefinition, entry.TaskRuntime, reg.Cron, now)
			retryFire := state.IsRetryPending(entry.TaskRuntime, now)
			if !cronOK && !retryFire {
				continue
			}

			entry.LastAttemptTime = instantPtr(now)
			if cronOK {
				entry.LastEvaluatedFire = instantPtr(cronFire)
			}
			s.Put(entry)
			changed = true

			due = append(due, dueTask{reg: reg, now: now, isCronFire: cronOK, cronFireAt: cronFire})
		}

		if changed {
			h.SetState(s)
		}
		return nil
	})
	if err != nil {
		d.Logger.Error("poll plan transaction failed", map[string]any{"error": err.Error()})
		return nil
	}
	return due
}

type outcome struct {
	name    string
	now     timeutil.Instant
	success bool
}

// dispatch runs every due task's callback concurrently, with no cap.
// errgroup.Group serves purely as the "wait for every goroutine"
// barrier: each goroutine always returns nil so one callback's failure
// never cancels its siblings or aborts the wait.
func (d *Dispatcher) dispatch(_ context.Context, due []dueTask) []outcome {
	results := make([]outcome, len(due))
	var eg errgroup.Group

	for i, t := range due {
		i, t := i, t
		eg.Go(func() error {
			results[i] = d.invoke(t)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func (d *Dispatcher) invoke(t dueTask) (result outcome) {
	result = outcome{name: t.reg.Name, now: t.now}
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error("task callback panicked", map[string]any{"task": t.reg.Name, "panic": r})
			result.success = false
		}
	}()

	if err := t.reg.Callback(); err != nil {
		d.Logger.Error("task callback failed", map[string]any{"task": t.reg.Name, "error": err.Error()})
		result.success = false
		return result
	}
	result.success = true
	return result
}

// commit records success or failure (and the resulting retry gate) in
// one small transaction per task. Each
// task's outcome commits independently so two tasks finishing near-
// simultaneously never contend on the same transaction.
func (d *Dispatcher) commit(results []outcome) {
	for _, r := range results {
		err := d.Store.Transaction(func(h state.Handle) error {
			s := h.GetCurrentState()
			entry, found := s.Find(r.name)
			if !found {
				return nil
			}
			if r.success {
				entry.LastSuccessTime = instantPtr(r.now)
				entry.PendingRetryUntil = nil
			} else {
				entry.LastFailureTime = instantPtr(r.now)
				delay := retryDelayFor(entry.TaskDefinition)
				entry.PendingRetryUntil = instantPtr(r.now.Add(delay))
			}
			s.Put(entry)
			h.SetState(s)
			return nil
		})
		if err != nil {
			d.Logger.Error("poll outcome commit failed", map[string]any{"task": r.name, "error": err.Error()})
		}
	}
}

func retryDelayFor(def state.TaskDefinition) time.Duration {
	return time.Duration(def.RetryDelayMs) * time.Millisecond
}

func instantPtr(i timeutil.Instant) *timeutil.Instant { return &i }
