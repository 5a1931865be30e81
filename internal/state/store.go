package state

import "github.com/hzerrad/cronloop/internal/timeutil"

// Handle is the storage handle passed to a transaction function.
type Handle interface {
	// GetExistingState returns the state read at transaction begin, and
	// whether one was present (false if absent or an unreadable/older
	// version, both of which are treated as absent).
	GetExistingState() (SchedulerState, bool)

	// GetCurrentState returns the existing state, or a fresh default
	// document (StartTime set to the store's notion of "now") if none
	// was present.
	GetCurrentState() SchedulerState

	// SetState stages a new document to be committed atomically when
	// the transaction function returns nil.
	SetState(s SchedulerState)
}

// Store is the runtime state store's sole operation: an
// atomic, isolated read-modify-write transaction over the single
// document.
type Store interface {
	// Transaction runs fn with a handle reading a consistent snapshot.
	// If fn returns a non-nil error, no write is committed. If fn calls
	// SetState, the new document commits atomically on fn's successful
	// return; otherwise the transaction is read-only and always
	// commits trivially. A commit failure is returned wrapped in
	// *errs.StateTransactionError.
	Transaction(fn func(h Handle) error) error

	// Close releases any resources held by the store (file handles,
	// database connections). Safe to call multiple times.
	Close() error
}

// Clock is the minimal time source a store needs to manufacture a
// default document when none exists yet.
type Clock interface {
	Now() timeutil.Instant
}
