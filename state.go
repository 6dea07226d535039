package fetchengo

import "sync"

// stateStore holds the opaque, caller-defined client state. Exactly one
// current value exists at a time; set and reset replace it wholesale. The
// value itself is handed out by reference, so nested mutation between calls
// stays visible to the ModifyOptions hook.
type stateStore struct {
	mu      sync.RWMutex
	value   any
	initial any
}

func newStateStore(initial any) *stateStore {
	return &stateStore{value: initial, initial: initial}
}

func (s *stateStore) get() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *stateStore) set(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

func (s *stateStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = s.initial
}

// SetState replaces the current client state with v entirely (not a merge)
// and emits fetch-state-set.
func (c *Client) SetState(v any) {
	c.state.set(v)
	c.emit(Event{Type: EventStateSet, State: v})
}

// ResetState restores the state captured at construction (or nil if none was
// given) and emits fetch-state-reset.
func (c *Client) ResetState() {
	c.state.reset()
	c.emit(Event{Type: EventStateReset, State: c.state.get()})
}

// State returns the current state value by reference.
func (c *Client) State() any {
	return c.state.get()
}
