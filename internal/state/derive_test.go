package state_test

import (
	"testing"
	"time"

	"github.com/hzerrad/cronloop/internal/cronexpr"
	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(y int, mo time.Month, d, h, m int) timeutil.Instant {
	return timeutil.NewInstant(time.Date(y, mo, d, h, m, 0, 0, time.UTC))
}

func ptr(i timeutil.Instant) *timeutil.Instant { return &i }

func TestIsRunning(t *testing.T) {
	tests := []struct {
		name string
		rt   state.TaskRuntime
		want bool
	}{
		{"never attempted", state.TaskRuntime{}, false},
		{
			"attempted, no outcome yet",
			state.TaskRuntime{LastAttemptTime: ptr(at(2024, 1, 1, 0, 0))},
			true,
		},
		{
			"attempted then succeeded",
			state.TaskRuntime{
				LastAttemptTime: ptr(at(2024, 1, 1, 0, 0)),
				LastSuccessTime: ptr(at(2024, 1, 1, 0, 0)),
			},
			false,
		},
		{
			"attempted then failed",
			state.TaskRuntime{
				LastAttemptTime: ptr(at(2024, 1, 1, 0, 0)),
				LastFailureTime: ptr(at(2024, 1, 1, 0, 0)),
			},
			false,
		},
		{
			"new attempt after an old success",
			state.TaskRuntime{
				LastAttemptTime: ptr(at(2024, 1, 1, 1, 0)),
				LastSuccessTime: ptr(at(2024, 1, 1, 0, 0)),
			},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, state.IsRunning(tt.rt))
		})
	}
}

func TestIsRetryPending(t *testing.T) {
	now := at(2024, 1, 1, 0, 30)
	assert.False(t, state.IsRetryPending(state.TaskRuntime{}, now))
	assert.False(t, state.IsRetryPending(state.TaskRuntime{PendingRetryUntil: ptr(at(2024, 1, 1, 1, 0))}, now))
	assert.True(t, state.IsRetryPending(state.TaskRuntime{PendingRetryUntil: ptr(at(2024, 1, 1, 0, 0))}, now))
	assert.True(t, state.IsRetryPending(state.TaskRuntime{PendingRetryUntil: ptr(now)}, now))
}

func TestNextCronDue(t *testing.T) {
	expr, err := cronexpr.Parse("0 * * * *")
	require.NoError(t, err)

	now := at(2024, 1, 1, 2, 0)
	def := state.TaskDefinition{Name: "hourly"}

	// Never evaluated: due at the most recent fire.
	fire, ok := state.NextCronDue(def, state.TaskRuntime{}, expr, now)
	require.True(t, ok)
	assert.Equal(t, now, fire)

	// Already evaluated at the same fire: not due again.
	_, ok = state.NextCronDue(def, state.TaskRuntime{LastEvaluatedFire: ptr(now)}, expr, now)
	assert.False(t, ok)

	// Evaluated at an earlier fire than the current one: due.
	fire, ok = state.NextCronDue(def, state.TaskRuntime{LastEvaluatedFire: ptr(at(2024, 1, 1, 1, 0))}, expr, now)
	require.True(t, ok)
	assert.Equal(t, now, fire)
}

func TestNextCronDue_NoCatchUpOnFirstStartup(t *testing.T) {
	// A daily cron that last fired yesterday at midnight; the process
	// starts mid-morning with no prior evaluation recorded. It must not
	// fire just because a past instant exists — only an exact match to
	// the current minute qualifies on first startup.
	expr, err := cronexpr.Parse("0 0 * * *")
	require.NoError(t, err)
	def := state.TaskDefinition{Name: "daily"}

	now := at(2024, 1, 2, 9, 30)
	_, ok := state.NextCronDue(def, state.TaskRuntime{}, expr, now)
	assert.False(t, ok, "must not catch up on a fire time missed before the process started")

	now = at(2024, 1, 2, 0, 0)
	fire, ok := state.NextCronDue(def, state.TaskRuntime{}, expr, now)
	require.True(t, ok, "must fire on first startup when the cron matches the current minute exactly")
	assert.Equal(t, now, fire)
}

func TestValidateInvariants(t *testing.T) {
	good := state.TaskEntry{
		TaskDefinition: state.TaskDefinition{Name: "ok"},
		TaskRuntime: state.TaskRuntime{
			LastAttemptTime:   ptr(at(2024, 1, 1, 1, 0)),
			LastFailureTime:   ptr(at(2024, 1, 1, 1, 0)),
			PendingRetryUntil: ptr(at(2024, 1, 1, 1, 5)),
		},
	}
	assert.NoError(t, state.ValidateInvariants(good))

	bad := state.TaskEntry{
		TaskDefinition: state.TaskDefinition{Name: "bad"},
		TaskRuntime: state.TaskRuntime{
			LastFailureTime: ptr(at(2024, 1, 1, 1, 0)),
			// pendingRetryUntil missing despite a failure after success
		},
	}
	assert.Error(t, state.ValidateInvariants(bad))
}
