package fetchengo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordSuccessfulRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client := newJSONClient(t, server.URL, WithMetricsCollector(collector))
	ctx := context.Background()

	_, err := client.Get(ctx, "/users", nil).Wait(ctx)
	require.NoError(t, err)

	endpoint := strings.TrimPrefix(server.URL, "http://") + "/users"
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.requestsTotal.WithLabelValues("GET", "200", endpoint)))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(collector.requestsInFlight.WithLabelValues("GET", endpoint)),
		"in-flight gauge returns to zero")
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.eventsEmitted.WithLabelValues(string(EventBefore))))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.eventsEmitted.WithLabelValues(string(EventResponse))))
}

func TestMetricsRecordTimeoutAsAbort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client, err := New(
		Config{BaseURL: server.URL, Type: PayloadJSON, Timeout: 30 * time.Millisecond},
		WithMetricsCollector(collector),
	)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.Get(ctx, "/slow", nil).Wait(ctx)
	require.Error(t, err)

	endpoint := strings.TrimPrefix(server.URL, "http://") + "/slow"
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.abortsTotal.WithLabelValues("GET", endpoint, "timeout")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.requestsTotal.WithLabelValues("GET", "499", endpoint)))
}

func TestMetricsRecordHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client := newJSONClient(t, server.URL, WithMetricsCollector(collector))
	ctx := context.Background()

	_, err := client.Get(ctx, "/broken", nil).Wait(ctx)
	require.Error(t, err)

	endpoint := strings.TrimPrefix(server.URL, "http://") + "/broken"
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.errorsTotal.WithLabelValues("Http", "GET", endpoint)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.requestsTotal.WithLabelValues("GET", "500", endpoint)))
}

func TestMetricsRecordHandlerPanic(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	client, err := New(
		Config{BaseURL: "https://api.example.com", Type: PayloadJSON},
		WithMetricsCollector(collector),
	)
	require.NoError(t, err)

	client.On(EventStateSet, func(e Event) { panic("boom") })
	client.SetState("x")

	assert.Equal(t, float64(1),
		testutil.ToFloat64(collector.handlerPanics.WithLabelValues(string(EventStateSet))))
}
