package fetchengo

import (
	"errors"
	"net/url"
	"time"
)

// Config holds the core request semantics of a Client. It is validated once
// at construction and is immutable afterwards except through the explicit
// mutator methods (AddHeader, RemoveHeader, SetState, ResetState,
// ChangeBaseURL).
type Config struct {
	// BaseURL is the absolute URL every per-call path is appended to.
	// Required.
	BaseURL string

	// Type selects payload serialization and response parsing. Required.
	Type PayloadType

	// Headers are the default headers sent with every call. Optional.
	Headers Headers

	// Timeout is the default per-call timeout. Zero means no timeout unless
	// a per-call override supplies one.
	Timeout time.Duration

	// ModifyOptions, when set, rewrites the finalized outbound options on
	// every call. It receives the client state by reference.
	ModifyOptions ModifyOptionsFunc

	// InitialState seeds the client state; ResetState restores it.
	InitialState any
}

// Validation failure messages name the offending field so construction
// errors are actionable without inspecting the config.
var (
	errBaseURLRequired = errors.New("baseUrl is required")
	errInvalidURL      = errors.New("invalid url")
	errTypeRequired    = errors.New("type is required")
	errInvalidType     = errors.New("invalid type")
)

// validate confirms BaseURL is a syntactically valid absolute URL and Type
// is a member of the supported set. No side effects.
func (c Config) validate() error {
	if c.BaseURL == "" {
		return errBaseURLRequired
	}
	if _, err := parseAbsoluteURL(c.BaseURL); err != nil {
		return err
	}
	if c.Type == "" {
		return errTypeRequired
	}
	if !c.Type.valid() {
		return errInvalidType
	}
	return nil
}

func parseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errInvalidURL
	}
	return u, nil
}
