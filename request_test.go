package fetchengo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializePayload(t *testing.T) {
	tests := []struct {
		name    string
		ptype   PayloadType
		payload any
		want    string
		wantErr bool
	}{
		{name: "nil payload", ptype: PayloadJSON, payload: nil, want: ""},
		{name: "json object", ptype: PayloadJSON, payload: map[string]int{"n": 1}, want: `{"n":1}`},
		{name: "json unmarshalable", ptype: PayloadJSON, payload: func() {}, wantErr: true},
		{name: "text string", ptype: PayloadText, payload: "hello", want: "hello"},
		{name: "text bytes", ptype: PayloadText, payload: []byte("raw"), want: "raw"},
		{name: "text other", ptype: PayloadText, payload: 42, want: "42"},
		{name: "blob bytes", ptype: PayloadBlob, payload: []byte{0x1, 0x2}, want: "\x01\x02"},
		{name: "blob string", ptype: PayloadBlob, payload: "bin", want: "bin"},
		{name: "blob other", ptype: PayloadBlob, payload: 1, wantErr: true},
		{name: "form values", ptype: PayloadForm, payload: url.Values{"a": {"1"}}, want: "a=1"},
		{name: "form map", ptype: PayloadForm, payload: map[string]string{"b": "2"}, want: "b=2"},
		{name: "form string", ptype: PayloadForm, payload: "c=3", want: "c=3"},
		{name: "form other", ptype: PayloadForm, payload: 7, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := serializePayload(tt.ptype, tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestParseBodyEmptyValues(t *testing.T) {
	jsonVal, err := parseBody(PayloadJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, jsonVal)

	textVal, err := parseBody(PayloadText, nil)
	require.NoError(t, err)
	assert.Equal(t, "", textVal)

	blobVal, err := parseBody(PayloadBlob, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{}, blobVal)

	formVal, err := parseBody(PayloadForm, nil)
	require.NoError(t, err)
	assert.Equal(t, url.Values{}, formVal)
}

func TestParseBody(t *testing.T) {
	jsonVal, err := parseBody(PayloadJSON, []byte(`[1,2]`))
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, jsonVal)

	_, err = parseBody(PayloadJSON, []byte(`{broken`))
	assert.Error(t, err)

	formVal, err := parseBody(PayloadForm, []byte("a=1&a=2&b=3"))
	require.NoError(t, err)
	assert.Equal(t, url.Values{"a": {"1", "2"}, "b": {"3"}}, formVal)
}

func TestParseErrorDataFallsBackToRawBody(t *testing.T) {
	assert.Equal(t, map[string]any{"e": "x"}, parseErrorData(PayloadJSON, []byte(`{"e":"x"}`)))
	assert.Equal(t, "<html>oops</html>", parseErrorData(PayloadJSON, []byte("<html>oops</html>")))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/json", contentTypeFor(PayloadJSON))
	assert.Equal(t, "text/plain; charset=utf-8", contentTypeFor(PayloadText))
	assert.Equal(t, "application/octet-stream", contentTypeFor(PayloadBlob))
	assert.Equal(t, "application/x-www-form-urlencoded", contentTypeFor(PayloadForm))
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "api.example.com/users/1", endpointLabel("https://api.example.com/users/1"))
	assert.Equal(t, "api.example.com/", endpointLabel("https://api.example.com"))
	assert.Equal(t, "unknown", endpointLabel("not a url"))
}
