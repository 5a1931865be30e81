package state

import "sync"

// MemoryStore is an in-process Store guarded by a single mutex, used by
// the façade's own tests and by any test harness embedding the
// scheduler without a durable backend.
type MemoryStore struct {
	mu    sync.Mutex
	clock Clock
	doc   *SchedulerState // nil until first write
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore(clock Clock) *MemoryStore {
	return &MemoryStore{clock: clock}
}

func (s *MemoryStore) Transaction(fn func(h Handle) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &memHandle{clock: s.clock, existing: s.doc}
	if err := fn(h); err != nil {
		return err
	}
	if h.staged != nil {
		doc := h.staged.Clone()
		s.doc = &doc
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

type memHandle struct {
	clock    Clock
	existing *SchedulerState
	staged   *SchedulerState
}

func (h *memHandle) GetExistingState() (SchedulerState, bool) {
	if h.existing == nil {
		return SchedulerState{}, false
	}
	return h.existing.Clone(), true
}

func (h *memHandle) GetCurrentState() SchedulerState {
	if h.existing != nil {
		return h.existing.Clone()
	}
	return NewState(h.clock.Now())
}

func (h *memHandle) SetState(s SchedulerState) {
	doc := s.Clone()
	h.staged = &doc
}
