package fetchengo

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// contentTypeFor maps a payload type to the Content-Type header set on
// outbound requests that carry a body.
func contentTypeFor(t PayloadType) string {
	switch t {
	case PayloadJSON:
		return "application/json"
	case PayloadText:
		return "text/plain; charset=utf-8"
	case PayloadBlob:
		return "application/octet-stream"
	case PayloadForm:
		return "application/x-www-form-urlencoded"
	}
	return ""
}

// serializePayload turns the caller's payload value into outbound bytes per
// the payload type. A nil payload yields no body.
func serializePayload(t PayloadType, payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	switch t {
	case PayloadJSON:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("serialize payload: %w", err)
		}
		return b, nil
	case PayloadText:
		switch v := payload.(type) {
		case string:
			return []byte(v), nil
		case []byte:
			return v, nil
		default:
			return []byte(fmt.Sprint(v)), nil
		}
	case PayloadBlob:
		switch v := payload.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		default:
			return nil, fmt.Errorf("serialize payload: blob payload must be []byte or string, got %T", payload)
		}
	case PayloadForm:
		switch v := payload.(type) {
		case url.Values:
			return []byte(v.Encode()), nil
		case map[string]string:
			form := url.Values{}
			for k, val := range v {
				form.Set(k, val)
			}
			return []byte(form.Encode()), nil
		case string:
			return []byte(v), nil
		default:
			return nil, fmt.Errorf("serialize payload: form payload must be url.Values, map[string]string or string, got %T", payload)
		}
	}
	return nil, fmt.Errorf("serialize payload: unsupported type %q", t)
}

// parseBody turns response bytes into the call's parsed value per the
// payload type. Empty and no-content bodies parse to an empty typed value,
// never nil, so "no body, status 200" and "status 204" behave identically.
func parseBody(t PayloadType, body []byte) (any, error) {
	switch t {
	case PayloadJSON:
		if len(body) == 0 {
			return map[string]any{}, nil
		}
		var out any
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		return out, nil
	case PayloadText:
		return string(body), nil
	case PayloadBlob:
		if body == nil {
			return []byte{}, nil
		}
		return body, nil
	case PayloadForm:
		if len(body) == 0 {
			return url.Values{}, nil
		}
		vals, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		return vals, nil
	}
	return nil, fmt.Errorf("parse response: unsupported type %q", t)
}

// parseErrorData is the best-effort rendition of a non-2xx body: parsed per
// the payload type when possible, raw string otherwise.
func parseErrorData(t PayloadType, body []byte) any {
	data, err := parseBody(t, body)
	if err != nil {
		return string(body)
	}
	return data
}

// stringifyCause renders an unclassifiable failure for RequestError.Data.
func stringifyCause(cause any) string {
	switch v := cause.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
