package fetchengo

import (
	"net/http"
	"sync"
)

// headerStore holds the client's default headers. Keys are canonicalized so
// lookups and overwrites are case-insensitive. Safe for concurrent use.
type headerStore struct {
	mu sync.RWMutex
	m  Headers
}

func newHeaderStore(h Headers) *headerStore {
	s := &headerStore{m: make(Headers, len(h))}
	for k, v := range h {
		s.m[http.CanonicalHeaderKey(k)] = v
	}
	return s
}

func (s *headerStore) add(h Headers) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range h {
		s.m[http.CanonicalHeaderKey(k)] = v
	}
}

func (s *headerStore) remove(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.m, http.CanonicalHeaderKey(n))
	}
}

func (s *headerStore) has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.m[http.CanonicalHeaderKey(name)]
	return ok
}

// snapshot returns a copy; later mutation of the store never affects an
// already-dispatched call.
func (s *headerStore) snapshot() Headers {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Headers, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

// AddHeader merges the given entries into the client's default headers,
// overwriting on case-insensitive key collision, and emits fetch-header-add.
func (c *Client) AddHeader(h Headers) {
	c.headers.add(h)
	c.emit(Event{Type: EventHeaderAdd, State: c.State()})
}

// RemoveHeader deletes the named default headers (case-insensitive) and
// emits fetch-header-remove.
func (c *Client) RemoveHeader(names ...string) {
	c.headers.remove(names...)
	c.emit(Event{Type: EventHeaderRemove, State: c.State()})
}

// HasHeader reports whether a default header with the given name is set.
// Reads never emit events.
func (c *Client) HasHeader(name string) bool {
	return c.headers.has(name)
}

// mergeHeaders layers override entries over the defaults snapshot; the
// override wins on key collision.
func mergeHeaders(defaults, override Headers) Headers {
	merged := make(Headers, len(defaults)+len(override))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range override {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return merged
}
