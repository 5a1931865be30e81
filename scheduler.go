// Package cronloop implements a declarative, crash-safe, polling cron
// scheduler for recurring background tasks. Callers supply
// a complete list of registrations at startup; the scheduler persists
// task metadata through an injected state store and polls wall-clock
// time to decide what to run, running each task at most once per due
// instant across restarts.
//
// All collaborators (clock, sleeper, logger, state store) are injected
// through a plain constructor over a config struct; there are no
// functional options and no package-level globals.
package cronloop

import (
	"context"
	"sync"
	"time"

	"github.com/hzerrad/cronloop/internal/collab"
	"github.com/hzerrad/cronloop/internal/poller"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// Config configures a Scheduler's collaborators and polling cadence.
// Zero-valued fields are replaced with their defaults by New.
type Config struct {
	Clock   Clock   // defaults to SystemClock
	Sleeper Sleeper // defaults to SystemSleeper
	Logger  Logger  // defaults to NopLogger

	// PollingInterval is how often the poll loop runs. Must divide one
	// minute evenly and be no greater than it; defaults to
	// one minute.
	PollingInterval time.Duration
}

// DefaultConfig returns a Config with production defaults: the real
// system clock and sleeper, a discarding logger, and a one-minute
// polling interval.
func DefaultConfig() Config {
	return Config{
		Clock:           SystemClock{},
		Sleeper:         SystemSleeper{},
		Logger:          NopLogger{},
		PollingInterval: time.Minute,
	}
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Sleeper == nil {
		c.Sleeper = SystemSleeper{}
	}
	if c.Logger == nil {
		c.Logger = collab.NopLogger{}
	}
	if c.PollingInterval <= 0 || c.PollingInterval > time.Minute {
		// Minute-precision cron semantics need at least one poll per
		// minute.
		c.PollingInterval = time.Minute
	}
	return c
}

// Scheduler owns a state store, a poll dispatcher, and the lifecycle
// (initialize/stop) around them.
type Scheduler struct {
	mu     sync.Mutex
	store  state.Store
	config Config
	disp   *poller.Dispatcher

	active        bool
	registrations []registry.Registration // last successfully applied set, for idempotent re-initialize

	cancel  context.CancelFunc
	runDone chan struct{}
}

// New builds a Scheduler over store. Call Initialize to register tasks
// and start polling.
func New(store state.Store, config Config) *Scheduler {
	config = config.withDefaults()
	return &Scheduler{
		store:  store,
		config: config,
		disp:   poller.New(store, config.Clock, config.Logger),
	}
}

// Initialize validates registrations, reconciles them into the durable
// state document, performs crash recovery, and starts (or keeps
// running) the poll loop.
//
// A second call with an identical registration set while already active
// is a no-op. A call with a different set reconciles in place without
// restarting the ticker. Any validation or storage failure leaves the
// scheduler's prior state untouched and is returned as a typed error.
func (s *Scheduler) Initialize(registrations []Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active && sameRegistrations(s.registrations, registrations) {
		return nil
	}

	parsed, warnings, err := registry.Validate(registrations)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		s.config.Logger.Warn(w.Message, map[string]any{"task": w.Name, "kind": string(w.Kind)})
	}

	now := s.config.Clock.Now()
	err = s.store.Transaction(func(h state.Handle) error {
		current := h.GetCurrentState()
		reconciled := reconcile(current, parsed, now)
		recoverCrashedTasks(&reconciled, now)
		reconciled.StartTime = now
		h.SetState(reconciled)
		return nil
	})
	if err != nil {
		return err
	}

	s.disp.SetTasks(parsed)
	s.registrations = registrations

	if !s.active {
		s.start()
	}
	s.active = true
	return nil
}

// Stop cancels the poll loop and awaits every in-flight callback to
// settle before returning. Safe to call when not active,
// and safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.runDone
	s.active = false
	s.mu.Unlock()

	cancel()
	<-done
}

// Tick drives exactly one poll cycle synchronously, bypassing the
// internal ticker entirely. Intended for tests; calling
// it concurrently with a running poll loop is safe but redundant.
func (s *Scheduler) Tick(ctx context.Context) {
	s.disp.Tick(ctx)
}

func (s *Scheduler) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.runDone = make(chan struct{})

	ticks := make(chan time.Time)
	go driveTicker(ctx, s.config.Sleeper, s.config.Clock, s.config.PollingInterval, ticks)

	disp := s.disp
	done := s.runDone
	go func() {
		disp.Run(ctx, ticks)
		close(done)
	}()
}

// driveTicker feeds ticks at pollingInterval using the injected Sleeper
// rather than time.Ticker, so a test Sleeper can fast-forward polls
// without a real wall-clock wait.
func driveTicker(ctx context.Context, sleeper Sleeper, clock Clock, interval time.Duration, ticks chan<- time.Time) {
	defer close(ticks)
	for {
		sleeper.Sleep(interval)
		select {
		case <-ctx.Done():
			return
		default:
		}
		select {
		case ticks <- clock.Now().Time():
		case <-ctx.Done():
			return
		}
	}
}

func sameRegistrations(prev, next []registry.Registration) bool {
	if len(prev) != len(next) {
		return false
	}
	for i := range prev {
		a, b := prev[i], next[i]
		if a.Name != b.Name || a.CronExpr != b.CronExpr || a.RetryDelay != b.RetryDelay {
			return false
		}
	}
	return true
}

// reconcile merges parsed into current: runtime
// fields survive only when both the cron expression and the retry
// delay are unchanged; entries absent from parsed are dropped.
func reconcile(current state.SchedulerState, parsed []registry.ParsedRegistration, now timeutil.Instant) state.SchedulerState {
	next := state.SchedulerState{Version: state.CurrentVersion, StartTime: now, Tasks: make([]state.TaskEntry, 0, len(parsed))}

	for _, p := range parsed {
		def := state.TaskDefinition{
			Name:           p.Name,
			CronExpression: p.Cron.String(),
			RetryDelayMs:   p.RetryDelay.Milliseconds(),
		}
		existing, found := current.Find(p.Name)
		if found && existing.CronExpression == def.CronExpression && existing.RetryDelayMs == def.RetryDelayMs {
			next.Tasks = append(next.Tasks, state.TaskEntry{TaskDefinition: def, TaskRuntime: existing.TaskRuntime})
			continue
		}
		next.Tasks = append(next.Tasks, state.TaskEntry{TaskDefinition: def})
	}
	return next
}

// recoverCrashedTasks handles attempts interrupted by a crash: any task observed
// mid-attempt (an attempt with no recorded outcome) is promoted to a
// pending retry due immediately, without fabricating a success or
// failure it never actually reached.
func recoverCrashedTasks(s *state.SchedulerState, now timeutil.Instant) {
	for i := range s.Tasks {
		rt := s.Tasks[i].TaskRuntime
		if !state.IsRunning(rt) {
			continue
		}
		last := maxOutcome(rt)
		if last.IsZero() {
			rt.LastAttemptTime = nil
		} else {
			rt.LastAttemptTime = instantPtr(last)
		}
		rt.PendingRetryUntil = instantPtr(now)
		s.Tasks[i].TaskRuntime = rt
	}
}

func maxOutcome(rt state.TaskRuntime) timeutil.Instant {
	var success, failure timeutil.Instant
	if rt.LastSuccessTime != nil {
		success = *rt.LastSuccessTime
	}
	if rt.LastFailureTime != nil {
		failure = *rt.LastFailureTime
	}
	return timeutil.Max(success, failure)
}

func instantPtr(i timeutil.Instant) *timeutil.Instant { return &i }
