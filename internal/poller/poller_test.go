package poller_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hzerrad/cronloop/internal/collab"
	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/poller"
	"github.com/hzerrad/cronloop/internal/registry"
	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
)

// manualClock is a test double for collab.Clock (and state.Clock, which
// is structurally identical) whose "now" only moves when Set is called.
type manualClock struct {
	mu  sync.Mutex
	now timeutil.Instant
}

func newManualClock(t time.Time) *manualClock {
	return &manualClock{now: timeutil.NewInstant(t)}
}

func (c *manualClock) Now() timeutil.Instant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = timeutil.NewInstant(t)
}

func utc(y int, mo time.Month, d, h, m, s int) time.Time {
	return time.Date(y, mo, d, h, m, s, 0, time.UTC)
}

func seed(store state.Store, name, cronExpr string, retryDelay time.Duration) {
	err := store.Transaction(func(h state.Handle) error {
		s := h.GetCurrentState()
		s.Put(state.TaskEntry{
			TaskDefinition: state.TaskDefinition{
				Name:           name,
				CronExpression: cronExpr,
				RetryDelayMs:   retryDelay.Milliseconds(),
			},
		})
		h.SetState(s)
		return nil
	})
	Expect(err).NotTo(HaveOccurred())
}

func entryFor(store state.Store, name string) state.TaskEntry {
	var entry state.TaskEntry
	err := store.Transaction(func(h state.Handle) error {
		doc, _ := h.GetExistingState()
		found := false
		entry, found = doc.Find(name)
		Expect(found).To(BeTrue())
		return nil
	})
	Expect(err).NotTo(HaveOccurred())
	return entry
}

func parsedReg(name string, cronExpr string, retryDelay time.Duration, callback func() error) registry.ParsedRegistration {
	expr, err := cronexpr.Parse(cronExpr)
	Expect(err).NotTo(HaveOccurred())
	return registry.ParsedRegistration{
		Name:       name,
		Cron:       expr,
		Callback:   callback,
		RetryDelay: timeutil.MustDuration(retryDelay),
	}
}

var _ = Describe("Dispatcher.Tick", func() {
	var (
		store *state.MemoryStore
		clock *manualClock
	)

	BeforeEach(func() {
		clock = newManualClock(utc(2021, time.January, 1, 0, 0, 0))
		store = state.NewMemoryStore(clock)
	})

	It("runs an hourly task exactly once per tick, regardless of how many instants were missed (S1)", func() {
		clock.Set(utc(2021, 1, 1, 0, 0, 0))
		seed(store, "hourly", "0 * * * *", 5*time.Minute)

		var runs int32
		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks([]registry.ParsedRegistration{
			parsedReg("hourly", "0 * * * *", 5*time.Minute, func() error {
				atomic.AddInt32(&runs, 1)
				return nil
			}),
		})

		d.Tick(context.Background())
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(1)))

		// Jump forward past three missed fires (01:00, 02:00, 03:00).
		clock.Set(utc(2021, 1, 1, 4, 0, 0))
		d.Tick(context.Background())
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(2)), "no catch-up: exactly one run for the jump")

		entry := entryFor(store, "hourly")
		Expect(entry.LastEvaluatedFire.Time()).To(Equal(utc(2021, 1, 1, 4, 0, 0)))
	})

	It("does not fire a day-of-month task until its exact instant, with no backfill on startup (S2)", func() {
		clock.Set(utc(2025, 1, 14, 10, 0, 0))
		seed(store, "twentieth", "0 0 20 * *", 0)

		var runs int32
		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks([]registry.ParsedRegistration{
			parsedReg("twentieth", "0 0 20 * *", 0, func() error {
				atomic.AddInt32(&runs, 1)
				return nil
			}),
		})

		d.Tick(context.Background()) // 14th: mid-morning, no match, no catch-up either
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(0)))

		for day := 15; day <= 19; day++ {
			clock.Set(utc(2025, 1, day, 0, 0, 0))
			d.Tick(context.Background())
		}
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(0)))

		clock.Set(utc(2025, 1, 20, 0, 0, 0))
		d.Tick(context.Background())
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(1)))

		clock.Set(utc(2025, 1, 21, 0, 0, 0))
		d.Tick(context.Background())
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(1)), "no further run once the instant has passed")
	})

	It("gates a retried failure behind its delay, then lets the next cron fire run normally (S3)", func() {
		start := utc(2024, 1, 1, 0, 5, 0)
		clock.Set(start)
		seed(store, "flaky", "*/15 * * * *", 500*time.Millisecond)

		// Simulate an already-failed prior attempt whose retry is due now.
		err := store.Transaction(func(h state.Handle) error {
			s := h.GetCurrentState()
			entry, _ := s.Find("flaky")
			failTime := timeutil.NewInstant(start.Add(-time.Second))
			entry.LastFailureTime = &failTime
			entry.LastAttemptTime = &failTime
			retryAt := timeutil.NewInstant(start)
			entry.PendingRetryUntil = &retryAt
			s.Put(entry)
			h.SetState(s)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		var calls int32
		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks([]registry.ParsedRegistration{
			parsedReg("flaky", "*/15 * * * *", 500*time.Millisecond, func() error {
				n := atomic.AddInt32(&calls, 1)
				if n == 1 {
					return errors.New("transient failure")
				}
				return nil
			}),
		})

		d.Tick(context.Background()) // retry #1: fails again
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
		entry := entryFor(store, "flaky")
		Expect(entry.PendingRetryUntil).NotTo(BeNil())

		clock.Set(start.Add(time.Second))
		d.Tick(context.Background()) // retry #2: succeeds
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
		entry = entryFor(store, "flaky")
		Expect(entry.PendingRetryUntil).To(BeNil())
		Expect(entry.LastSuccessTime).NotTo(BeNil())

		clock.Set(utc(2024, 1, 1, 0, 15, 0))
		d.Tick(context.Background()) // next cron fire, unrelated to the retry
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("runs independent tasks concurrently and persists each outcome (S4)", func() {
		clock.Set(utc(2021, 1, 1, 3, 0, 0))
		names := []string{"a", "b", "c"}
		for _, n := range names {
			seed(store, n, "0 * * * *", time.Minute)
		}

		var mu sync.Mutex
		seen := map[string]bool{}
		regs := make([]registry.ParsedRegistration, 0, len(names))
		for _, n := range names {
			n := n
			regs = append(regs, parsedReg(n, "0 * * * *", time.Minute, func() error {
				mu.Lock()
				seen[n] = true
				mu.Unlock()
				return nil
			}))
		}

		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks(regs)
		d.Tick(context.Background())

		for _, n := range names {
			mu.Lock()
			ran := seen[n]
			mu.Unlock()
			Expect(ran).To(BeTrue(), n+" should have run")

			entry := entryFor(store, n)
			Expect(entry.LastSuccessTime.Time()).To(Equal(utc(2021, 1, 1, 3, 0, 0)))
		}
	})

	It("runs a crash-promoted retry-pending task once its gate has opened", func() {
		// Mirrors S5's steady state after the façade's crash recovery
		// promotion: isRunning is already false and a retry is pending.
		clock.Set(utc(2021, 1, 1, 1, 0, 0))
		seed(store, "hourly", "0 * * * *", time.Minute)
		err := store.Transaction(func(h state.Handle) error {
			s := h.GetCurrentState()
			entry, _ := s.Find("hourly")
			now := timeutil.NewInstant(utc(2021, 1, 1, 1, 0, 0))
			entry.PendingRetryUntil = &now
			s.Put(entry)
			h.SetState(s)
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		var runs int32
		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks([]registry.ParsedRegistration{
			parsedReg("hourly", "0 * * * *", time.Minute, func() error {
				atomic.AddInt32(&runs, 1)
				return nil
			}),
		})
		d.Tick(context.Background())
		Expect(atomic.LoadInt32(&runs)).To(Equal(int32(1)))
	})
})

var _ = Describe("Dispatcher.Run", func() {
	It("awaits in-flight callbacks to completion before returning from a cancelled run", func() {
		clock := newManualClock(utc(2021, 1, 1, 0, 0, 0))
		store := state.NewMemoryStore(clock)
		seed(store, "slow", "0 * * * *", time.Minute)

		started := make(chan struct{})
		finished := make(chan struct{})
		d := poller.New(store, clock, collab.NopLogger{})
		d.SetTasks([]registry.ParsedRegistration{
			parsedReg("slow", "0 * * * *", time.Minute, func() error {
				close(started)
				time.Sleep(50 * time.Millisecond)
				close(finished)
				return nil
			}),
		})

		ctx, cancel := context.WithCancel(context.Background())
		ticks := make(chan time.Time, 1)
		ticks <- time.Now()

		runDone := make(chan struct{})
		go func() {
			d.Run(ctx, ticks)
			close(runDone)
		}()

		Eventually(started).Should(BeClosed())
		cancel() // request stop while the callback is still sleeping

		<-runDone
		Expect(finished).To(BeClosed(), "Run must not return until the in-flight callback settles")
	})
})
