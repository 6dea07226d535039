package fetchengo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client is an HTTP client wrapper that layers header/state injection,
// lifecycle hooks, abort/timeout racing, error normalization and event
// emission around a pluggable transport. It is safe for concurrent use; two
// calls dispatched concurrently never block or serialize each other.
type Client struct {
	baseMu  sync.RWMutex
	baseURL string

	payloadType   PayloadType
	headers       *headerStore
	state         *stateStore
	timeout       time.Duration
	modifyOptions ModifyOptionsFunc

	events     *eventBus
	httpClient *http.Client
	transport  Transport
	metrics    *MetricsCollector
	debug      *DebugConfig
	logger     Logger
}

// New constructs a Client from the given config, applying any ambient
// options. Construction fails fast on an invalid config: a missing or
// non-absolute BaseURL and a missing or unsupported Type are rejected with
// an error naming the field.
func New(cfg Config, options ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:       cfg.BaseURL,
		payloadType:   cfg.Type,
		headers:       newHeaderStore(cfg.Headers),
		state:         newStateStore(cfg.InitialState),
		timeout:       cfg.Timeout,
		modifyOptions: cfg.ModifyOptions,
		events:        newEventBus(),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		debug: DefaultDebugConfig(),
	}

	for _, option := range options {
		option(c)
	}

	if c.transport == nil {
		c.transport = c.httpClient
	}
	c.events.onPanic = func(t EventType) {
		if c.metrics != nil {
			c.metrics.RecordHandlerPanic(t)
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogEvents && c.logger != nil {
			c.logger.Warn("Event handler panicked", "type", string(t))
		}
	}

	if c.debug != nil && c.debug.Enabled && c.logger != nil {
		c.logger.Debug("Client created", "version", Version, "baseURL", c.baseURL, "type", string(c.payloadType))
	}

	return c, nil
}

// On subscribes handler to the given event type, or to every type via
// EventAny.
func (c *Client) On(t EventType, handler Handler) {
	c.events.on(t, handler)
}

// Off removes handler's registration for exactly the given type. Removing
// the wildcard registration leaves type-specific registrations untouched.
func (c *Client) Off(t EventType, handler Handler) {
	c.events.off(t, handler)
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	c.baseMu.RLock()
	defer c.baseMu.RUnlock()
	return c.baseURL
}

// ChangeBaseURL replaces the base URL after re-validating it and emits
// fetch-url-change. Already-dispatched calls keep the URL they were built
// with.
func (c *Client) ChangeBaseURL(raw string) error {
	if raw == "" {
		return errBaseURLRequired
	}
	if _, err := parseAbsoluteURL(raw); err != nil {
		return err
	}
	c.baseMu.Lock()
	c.baseURL = raw
	c.baseMu.Unlock()
	c.emit(Event{Type: EventURLChange, State: c.State()})
	return nil
}

// Get dispatches a GET request. The returned Result is live before any
// asynchronous work settles.
func (c *Client) Get(ctx context.Context, path string, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodGet, path, nil, override)
}

// Options dispatches an OPTIONS request.
func (c *Client) Options(ctx context.Context, path string, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodOptions, path, nil, override)
}

// Post dispatches a POST request with the given payload.
func (c *Client) Post(ctx context.Context, path string, payload any, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodPost, path, payload, override)
}

// Put dispatches a PUT request with the given payload.
func (c *Client) Put(ctx context.Context, path string, payload any, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodPut, path, payload, override)
}

// Patch dispatches a PATCH request with the given payload.
func (c *Client) Patch(ctx context.Context, path string, payload any, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodPatch, path, payload, override)
}

// Delete dispatches a DELETE request with the given payload.
func (c *Client) Delete(ctx context.Context, path string, payload any, override *RequestOverride) *Result {
	return c.do(ctx, http.MethodDelete, path, payload, override)
}

// do assembles the cancellation controller and the Result handle
// synchronously, then runs the call on its own goroutine.
func (c *Client) do(ctx context.Context, method, path string, payload any, override *RequestOverride) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	callCtx, cancel := context.WithCancelCause(ctx)
	res := newResult(cancel)
	go c.execute(callCtx, cancel, res, method, path, payload, override)
	return res
}

// execute drives one call through the state machine:
// building → dispatched → {succeeded | failed-http | failed-abort |
// failed-timeout | failed-unknown}. Events for one call are emitted strictly
// in the order before → (after → {response | error}) | abort, each at most
// once.
func (c *Client) execute(ctx context.Context, cancel context.CancelCauseFunc, res *Result, method, path string, payload any, override *RequestOverride) {
	// Every terminal branch must settle the controller so no timer or
	// socket outlives the call.
	defer cancel(nil)

	start := time.Now()
	state := c.State()
	fullURL := c.BaseURL() + path
	endpoint := endpointLabel(fullURL)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", method, "url", fullURL)
	}
	if c.metrics != nil {
		c.metrics.RecordRequestStart(method, endpoint)
		defer c.metrics.RecordRequestEnd(method, endpoint)
	}

	// Building: merge defaults with the per-call override.
	headers := c.headers.snapshot()
	effectiveTimeout := c.timeout
	if override != nil {
		headers = mergeHeaders(headers, override.Headers)
		if override.Timeout > 0 {
			effectiveTimeout = override.Timeout
		}
		if override.Payload != nil {
			payload = override.Payload
		}
	}

	fail := func(status int, data any, cause error, abort bool) {
		reqErr := &RequestError{
			Status: status,
			Data:   data,
			Method: method,
			URL:    fullURL,
			Path:   path,
			cause:  cause,
		}

		eventType := EventError
		if abort {
			eventType = EventAbort
		}
		c.emit(Event{
			Type:    eventType,
			State:   state,
			Method:  method,
			URL:     fullURL,
			Headers: headers,
			Data:    reqErr,
		})

		if override != nil && override.OnError != nil {
			// A panicking OnError must not suppress the rejection.
			guard(func() { override.OnError(reqErr) })
		}

		if c.metrics != nil {
			if abort {
				reason := "abort"
				if errors.Is(cause, ErrTimedOut) {
					reason = "timeout"
				}
				c.metrics.RecordAbort(method, endpoint, reason)
			} else {
				kind := "Unknown"
				if status != StatusUnknown {
					kind = "Http"
				}
				c.metrics.RecordError(kind, method, endpoint)
			}
			c.metrics.RecordRequest(method, endpoint, status, time.Since(start))
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Warn("Request failed", "requestID", requestID, "method", method, "url", fullURL, "status", status)
		}

		res.reject(reqErr, abort)
	}

	body, err := serializePayload(c.payloadType, payload)
	if err != nil {
		fail(StatusUnknown, stringifyCause(err), err, false)
		return
	}

	opts := &RequestOptions{
		Method:  method,
		URL:     fullURL,
		Path:    path,
		Headers: headers,
		Payload: payload,
		Body:    body,
		Timeout: effectiveTimeout,
		cancel:  cancel,
	}

	if c.modifyOptions != nil {
		if p := guard(func() {
			if modified := c.modifyOptions(opts, state); modified != nil {
				opts = modified
			}
		}); p != nil {
			fail(StatusUnknown, stringifyCause(p), nil, false)
			return
		}
		// A replacement struct cannot carry the unexported cancellation
		// controller; restore it so OnBeforeReq's Abort still works.
		opts.cancel = cancel
		// A hook that swapped the payload without serializing it leaves
		// Body empty; serialize the replacement.
		if opts.Body == nil && opts.Payload != nil {
			if opts.Body, err = serializePayload(c.payloadType, opts.Payload); err != nil {
				fail(StatusUnknown, stringifyCause(err), err, false)
				return
			}
		}
		fullURL = opts.URL
		endpoint = endpointLabel(fullURL)
		headers = opts.Headers
	}

	c.emit(Event{
		Type:    EventBefore,
		State:   state,
		Method:  opts.Method,
		URL:     opts.URL,
		Headers: opts.Headers,
		Payload: opts.Payload,
	})

	if override != nil && override.OnBeforeReq != nil {
		if p := guard(func() { override.OnBeforeReq(opts) }); p != nil {
			fail(StatusUnknown, stringifyCause(p), nil, false)
			return
		}
		headers = opts.Headers
	}

	// Dispatched: the timer is armed on the same context the transport
	// observes, so cancelling either side always settles the other.
	reqCtx := ctx
	if opts.Timeout > 0 {
		var timerCancel context.CancelFunc
		reqCtx, timerCancel = context.WithTimeoutCause(ctx, opts.Timeout, ErrTimedOut)
		defer timerCancel()
	}

	var bodyReader io.Reader
	if len(opts.Body) > 0 {
		bodyReader = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(reqCtx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		fail(StatusUnknown, stringifyCause(err), err, false)
		return
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if len(opts.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentTypeFor(c.payloadType))
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent())
	}

	resp, err := c.transport.Do(req)

	// Abort/timeout classification: a triggered cancellation signal wins
	// over a late-arriving response or error. The cause distinguishes a
	// caller Abort from the timer, but both normalize to status 499.
	if cause := context.Cause(reqCtx); cause != nil {
		if resp != nil {
			resp.Body.Close()
		}
		fail(StatusAborted, stringifyCause(cause), cause, true)
		return
	}

	// Unknown failure classification: transport errors that are not
	// attributable to the cancellation signal.
	if err != nil {
		fail(StatusUnknown, stringifyCause(err), err, false)
		return
	}

	// Response handling. The body is buffered so the raw response handle
	// carried by fetch-after can still be read by hooks and handlers.
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		// Abort or timeout can fire while the body is still streaming; the
		// read error is then attributable to the cancellation signal, not an
		// unknown failure.
		if cause := context.Cause(reqCtx); cause != nil {
			fail(StatusAborted, stringifyCause(cause), cause, true)
			return
		}
		fail(StatusUnknown, stringifyCause(err), err, false)
		return
	}
	resp.Body = io.NopCloser(bytes.NewReader(respBody))

	c.emit(Event{
		Type:    EventAfter,
		State:   state,
		Method:  opts.Method,
		URL:     opts.URL,
		Headers: opts.Headers,
		Payload: opts.Payload,
		Data:    resp,
	})

	if override != nil && override.OnAfterReq != nil {
		if p := guard(func() { override.OnAfterReq(resp, opts) }); p != nil {
			fail(StatusUnknown, stringifyCause(p), nil, false)
			return
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		value, err := parseBody(c.payloadType, respBody)
		if err != nil {
			fail(StatusUnknown, stringifyCause(err), err, false)
			return
		}
		c.emit(Event{
			Type:    EventResponse,
			State:   state,
			Method:  opts.Method,
			URL:     opts.URL,
			Headers: opts.Headers,
			Payload: opts.Payload,
			Data:    value,
		})
		if c.metrics != nil {
			c.metrics.RecordRequest(method, endpoint, resp.StatusCode, time.Since(start))
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Debug("Request succeeded", "requestID", requestID, "method", method, "url", fullURL, "status", resp.StatusCode)
		}
		res.resolve(value, respBody)
		return
	}

	fail(resp.StatusCode, parseErrorData(c.payloadType, respBody), nil, false)
}

// emit publishes an event through the bus, recording it in metrics and the
// debug log first.
func (c *Client) emit(e Event) {
	if c.metrics != nil {
		c.metrics.RecordEvent(e.Type)
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogEvents && c.logger != nil {
		c.logger.Debug("Emitting event", "type", string(e.Type), "method", e.Method, "url", e.URL)
	}
	c.events.emit(e)
}

// guard runs fn and returns the recovered panic value, if any. Lifecycle
// hooks may throw; a throwing hook must never take down the executor.
func guard(fn func()) (panicked any) {
	defer func() {
		panicked = recover()
	}()
	fn()
	return nil
}

// endpointLabel reduces a URL to a low-cardinality host+path label for
// metrics and logs.
func endpointLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(u.Host)
	if u.Path != "" && u.Path != "/" {
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}
	return builder.String()
}
