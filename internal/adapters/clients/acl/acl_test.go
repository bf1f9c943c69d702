package acl

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motivationapp/motivation-service/internal/adapters/clients"
	"github.com/motivationapp/motivation-service/internal/platform/config"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestHTTPClient points a single-attempt client at a test server.
func newTestHTTPClient(t *testing.T, handler http.HandlerFunc) *clients.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := clients.New(&clients.Config{
		ServiceName: "motivation-api",
		BaseURL:     server.URL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   10,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 3,
		},
		Logger: discardLogger,
	})
	require.NoError(t, err)

	return client
}
