// Package state implements the durable runtime state store and the
// task runtime derivations built on top of it: a single versioned
// document containing every task's definition and runtime bookkeeping,
// mutated only through an atomic transaction.
package state

import "github.com/hzerrad/cronloop/internal/timeutil"

// CurrentVersion is the schema version written by this build. A document
// read with a different version is discarded and rebuilt.
const CurrentVersion = 2

// TaskDefinition is the caller-supplied, reconciled half of a task
// entry.
type TaskDefinition struct {
	Name           string `json:"name"`
	CronExpression string `json:"cronExpression"`
	RetryDelayMs   int64  `json:"retryDelayMs"`
}

// TaskRuntime is the dispatcher-owned half of a task entry.
// Every field is an optional instant; nil serializes to JSON null.
type TaskRuntime struct {
	LastSuccessTime   *timeutil.Instant `json:"lastSuccessTime"`
	LastFailureTime   *timeutil.Instant `json:"lastFailureTime"`
	LastAttemptTime   *timeutil.Instant `json:"lastAttemptTime"`
	PendingRetryUntil *timeutil.Instant `json:"pendingRetryUntil"`
	LastEvaluatedFire *timeutil.Instant `json:"lastEvaluatedFire"`
}

// TaskEntry is one row of the persisted task list, keyed by Name.
type TaskEntry struct {
	TaskDefinition
	TaskRuntime
}

// SchedulerState is the single persisted document.
type SchedulerState struct {
	Version   int              `json:"version"`
	StartTime timeutil.Instant `json:"startTime"`
	Tasks     []TaskEntry      `json:"tasks"`
}

// NewState builds a fresh default document for a process starting now.
func NewState(now timeutil.Instant) SchedulerState {
	return SchedulerState{
		Version:   CurrentVersion,
		StartTime: now,
		Tasks:     []TaskEntry{},
	}
}

// Clone returns a deep copy, so callers can mutate the result inside a
// transaction without aliasing the handle's snapshot.
func (s SchedulerState) Clone() SchedulerState {
	tasks := make([]TaskEntry, len(s.Tasks))
	copy(tasks, s.Tasks)
	return SchedulerState{Version: s.Version, StartTime: s.StartTime, Tasks: tasks}
}

// Find returns the task entry with the given name, and whether it was
// found.
func (s SchedulerState) Find(name string) (TaskEntry, bool) {
	for _, t := range s.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskEntry{}, false
}

// Put inserts or replaces the task entry with the same name.
func (s *SchedulerState) Put(entry TaskEntry) {
	for i := range s.Tasks {
		if s.Tasks[i].Name == entry.Name {
			s.Tasks[i] = entry
			return
		}
	}
	s.Tasks = append(s.Tasks, entry)
}
