package fetchengo

import (
	"reflect"
	"sync"
)

// EventType tags the events published by a Client. The string values are a
// stable contract.
type EventType string

const (
	// EventBefore fires right before a request is handed to the transport.
	EventBefore EventType = "fetch-before"
	// EventAfter fires once the transport produced a response, before status
	// classification. Data carries the raw *http.Response.
	EventAfter EventType = "fetch-after"
	// EventResponse fires on the success branch. Data carries the parsed value.
	EventResponse EventType = "fetch-response"
	// EventError fires on HTTP-level and unknown failures. Data carries the
	// *RequestError.
	EventError EventType = "fetch-error"
	// EventAbort fires when a call is cancelled by Abort or by the timeout
	// timer. Data carries the *RequestError with status 499.
	EventAbort EventType = "fetch-abort"
	// EventStateSet fires on SetState.
	EventStateSet EventType = "fetch-state-set"
	// EventStateReset fires on ResetState.
	EventStateReset EventType = "fetch-state-reset"
	// EventHeaderAdd fires on AddHeader.
	EventHeaderAdd EventType = "fetch-header-add"
	// EventHeaderRemove fires on RemoveHeader.
	EventHeaderRemove EventType = "fetch-header-remove"
	// EventURLChange fires on ChangeBaseURL.
	EventURLChange EventType = "fetch-url-change"

	// EventAny subscribes a handler to every event type.
	EventAny EventType = "*"
)

// Event is the value delivered to subscribed handlers. Remote-action events
// (before/after/response/error/abort) always carry Method, URL and Headers;
// lifecycle events never do. State is the client state at emission time.
type Event struct {
	Type    EventType
	State   any
	Method  string
	URL     string
	Headers Headers
	Payload any
	Data    any
}

// Handler consumes published events. A panicking handler is recovered and
// never prevents delivery to later handlers or propagates to the caller of
// the triggering operation.
type Handler func(Event)

type subscription struct {
	fn  Handler
	key uintptr
}

// eventBus is a typed publish/subscribe table with a separate wildcard list.
// Emission is synchronous and runs handlers in registration order, the
// type-specific list first, then the wildcard list.
type eventBus struct {
	mu       sync.RWMutex
	byType   map[EventType][]subscription
	wildcard []subscription
	onPanic  func(EventType)
}

func newEventBus() *eventBus {
	return &eventBus{byType: make(map[EventType][]subscription)}
}

// handlerKey identifies a handler for Off by its code pointer. References to
// the same named function share a key, as do closures created from the same
// function literal; subscribe distinct literals when independent
// unsubscription matters.
func handlerKey(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

func (b *eventBus) on(t EventType, h Handler) {
	if h == nil {
		return
	}
	sub := subscription{fn: h, key: handlerKey(h)}
	b.mu.Lock()
	defer b.mu.Unlock()
	if t == EventAny {
		b.wildcard = append(b.wildcard, sub)
		return
	}
	b.byType[t] = append(b.byType[t], sub)
}

// off removes registrations of h for exactly the given type. Removing the
// wildcard registration leaves type-specific registrations of the same
// handler untouched, symmetric with on.
func (b *eventBus) off(t EventType, h Handler) {
	if h == nil {
		return
	}
	key := handlerKey(h)
	b.mu.Lock()
	defer b.mu.Unlock()
	if t == EventAny {
		b.wildcard = drop(b.wildcard, key)
		return
	}
	b.byType[t] = drop(b.byType[t], key)
}

func drop(subs []subscription, key uintptr) []subscription {
	kept := subs[:0]
	for _, s := range subs {
		if s.key != key {
			kept = append(kept, s)
		}
	}
	return kept
}

func (b *eventBus) emit(e Event) {
	b.mu.RLock()
	typed := make([]subscription, len(b.byType[e.Type]))
	copy(typed, b.byType[e.Type])
	wild := make([]subscription, len(b.wildcard))
	copy(wild, b.wildcard)
	b.mu.RUnlock()

	for _, s := range typed {
		b.deliver(s, e)
	}
	for _, s := range wild {
		b.deliver(s, e)
	}
}

func (b *eventBus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			if b.onPanic != nil {
				b.onPanic(e.Type)
			}
		}
	}()
	s.fn(e)
}
