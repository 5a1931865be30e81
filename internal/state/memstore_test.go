package state_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hzerrad/cronloop/internal/state"
	"github.com/hzerrad/cronloop/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now timeutil.Instant }

func (c fixedClock) Now() timeutil.Instant { return c.now }

func TestMemoryStore_ReadOnlyTransactionCommitsTrivially(t *testing.T) {
	clock := fixedClock{now: at(2024, time.January, 1, 0, 0)}
	store := state.NewMemoryStore(clock)

	var seenStart timeutil.Instant
	err := store.Transaction(func(h state.Handle) error {
		seenStart = h.GetCurrentState().StartTime
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, clock.now, seenStart)

	_, ok := getExisting(t, store)
	assert.False(t, ok, "a read-only transaction must not create a document")
}

func TestMemoryStore_WriteCommitsAtomically(t *testing.T) {
	clock := fixedClock{now: at(2024, time.January, 1, 0, 0)}
	store := state.NewMemoryStore(clock)

	err := store.Transaction(func(h state.Handle) error {
		s := h.GetCurrentState()
		s.Put(state.TaskEntry{TaskDefinition: state.TaskDefinition{Name: "a"}})
		h.SetState(s)
		return nil
	})
	require.NoError(t, err)

	doc, ok := getExisting(t, store)
	require.True(t, ok)
	assert.Len(t, doc.Tasks, 1)
}

func TestMemoryStore_ErrorAbortsWrite(t *testing.T) {
	clock := fixedClock{now: at(2024, time.January, 1, 0, 0)}
	store := state.NewMemoryStore(clock)
	boom := errors.New("boom")

	err := store.Transaction(func(h state.Handle) error {
		s := h.GetCurrentState()
		s.Put(state.TaskEntry{TaskDefinition: state.TaskDefinition{Name: "should-not-persist"}})
		h.SetState(s)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, ok := getExisting(t, store)
	assert.False(t, ok)
}

func getExisting(t *testing.T, store *state.MemoryStore) (state.SchedulerState, bool) {
	t.Helper()
	var doc state.SchedulerState
	var ok bool
	err := store.Transaction(func(h state.Handle) error {
		doc, ok = h.GetExistingState()
		return nil
	})
	require.NoError(t, err)
	return doc, ok
}
