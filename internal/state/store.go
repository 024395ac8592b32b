package state

import "sync"

// Listener observes state changes. It is invoked synchronously after
// every successful dispatch with the new state and the action that
// produced it.
type Listener func(AppState, Action)

// Store holds the current state and the subscriber list. Construct
// with NewStore; there is no package-level instance, so lifecycle
// (including persistence wiring and teardown in tests) is explicit.
type Store struct {
	mu        sync.RWMutex
	state     AppState
	listeners []registration
	nextID    int
	onError   func(Action, error)
}

type registration struct {
	id int
	fn Listener
}

// NewStore creates a store seeded with the given state.
func NewStore(initial AppState) *Store {
	return &Store{state: initial}
}

// OnError installs a hook invoked when the reducer rejects an action.
// The state is unchanged in that case; dispatch never panics because of
// a bad payload.
func (s *Store) OnError(fn func(Action, error)) {
	s.onError = fn
}

// GetState returns the current immutable snapshot.
func (s *Store) GetState() AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a listener and returns its unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, registration{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, reg := range s.listeners {
			if reg.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch reduces the action into a new state and synchronously
// notifies every subscriber, in subscription order. Dispatch is
// re-entrant: a listener may dispatch again, and that inner dispatch
// completes (including its notifications) before the outer dispatch's
// remaining listeners run. Guarding against infinite recursion is the
// caller's responsibility.
//
// A rejected action returns the reducer's error, leaves the state
// unchanged and notifies nobody.
func (s *Store) Dispatch(action Action) error {
	s.mu.Lock()
	next, err := Reduce(s.state, action)
	if err != nil {
		s.mu.Unlock()
		if s.onError != nil {
			s.onError(action, err)
		}
		return err
	}
	s.state = next
	snapshot := make([]registration, len(s.listeners))
	copy(snapshot, s.listeners)
	s.mu.Unlock()

	for _, reg := range snapshot {
		reg.fn(next, action)
	}
	return nil
}
