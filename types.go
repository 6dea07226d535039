package fetchengo

import (
	"context"
	"net/http"
	"time"
)

// PayloadType selects how request payloads are serialized and how response
// bodies are parsed.
type PayloadType string

const (
	// PayloadJSON marshals payloads to JSON and parses bodies with
	// encoding/json. Empty bodies parse to an empty object.
	PayloadJSON PayloadType = "json"
	// PayloadText sends payloads as plain text and parses bodies to string.
	PayloadText PayloadType = "text"
	// PayloadBlob sends raw bytes and parses bodies to []byte.
	PayloadBlob PayloadType = "blob"
	// PayloadForm encodes payloads as application/x-www-form-urlencoded and
	// parses bodies to url.Values.
	PayloadForm PayloadType = "formData"
)

func (t PayloadType) valid() bool {
	switch t {
	case PayloadJSON, PayloadText, PayloadBlob, PayloadForm:
		return true
	}
	return false
}

// Headers is a case-insensitive header-name → value mapping. Keys are stored
// in canonical MIME header form; the last write for a key wins.
type Headers map[string]string

// Transport is the capability that executes the outbound request. The
// request carries the call's cancellation signal in its context; a Transport
// either returns a response or an error, and should stop waiting promptly
// once the context is cancelled. The default Transport is backed by a tuned
// *http.Client.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to the Transport interface. Handy for
// test doubles and middleware-style wrapping.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// Do implements Transport.
func (f RoundTripperFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestOptions is the finalized outbound request descriptor handed to the
// lifecycle hooks. ModifyOptions may replace or extend any field; OnBeforeReq
// receives the same object, including the cancellation controller via Abort.
type RequestOptions struct {
	// Method is the HTTP method of the call.
	Method string
	// URL is the full target URL (base URL + path).
	URL string
	// Path is the per-call path as given to the verb method.
	Path string
	// Headers are the merged outbound headers.
	Headers Headers
	// Payload is the unserialized payload value, if any.
	Payload any
	// Body is the payload serialized per the client's PayloadType.
	Body []byte
	// Timeout is the effective timeout for this call (zero means none).
	Timeout time.Duration

	cancel context.CancelCauseFunc
}

// Abort triggers the call's cancellation controller. Hooks may use it to
// schedule an abort before or during dispatch.
func (o *RequestOptions) Abort() {
	if o.cancel != nil {
		o.cancel(ErrAborted)
	}
}

// ModifyOptionsFunc rewrites the outbound options right before dispatch. It
// receives the client state by reference; the returned options become the
// final outbound descriptor (returning nil keeps the input unchanged).
type ModifyOptionsFunc func(opts *RequestOptions, state any) *RequestOptions

// RequestOverride carries per-call settings merged onto the client config
// for the duration of one call only. A nil *RequestOverride is valid.
type RequestOverride struct {
	// Headers are merged over the client's default headers; on key collision
	// the override wins.
	Headers Headers
	// Timeout replaces the client timeout for this call. Zero inherits.
	Timeout time.Duration
	// OnBeforeReq runs after ModifyOptions, right before dispatch.
	OnBeforeReq func(opts *RequestOptions)
	// OnAfterReq runs once the transport produced a response, before status
	// classification.
	OnAfterReq func(resp *http.Response, opts *RequestOptions)
	// OnError runs on every failure, before the Result is rejected.
	OnError func(err *RequestError)
	// Payload replaces the payload argument of the verb method when set.
	Payload any
}

// Option configures ambient concerns of a Client (transport, logging,
// metrics). Core request semantics live in Config.
type Option func(*Client)
