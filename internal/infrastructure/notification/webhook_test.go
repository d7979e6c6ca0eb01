package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWebhookNotifierSend(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the message as json", func(t *testing.T) {
		var received webhookMessage
		var contentType string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType = r.Header.Get("Content-Type")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		notifier := NewWebhookNotifier(server.URL, time.Second, zap.NewNop())
		err := notifier.Send(ctx, "security@example.com", "[HIGH] Security alert", `{"type":"EXCESSIVE_AUTH_FAILURES"}`)

		require.NoError(t, err)
		assert.Equal(t, "application/json", contentType)
		assert.Equal(t, "security@example.com", received.To)
		assert.Equal(t, "[HIGH] Security alert", received.Subject)
		assert.Contains(t, received.Body, "EXCESSIVE_AUTH_FAILURES")
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		notifier := NewWebhookNotifier(server.URL, time.Second, zap.NewNop())
		err := notifier.Send(ctx, "security@example.com", "subject", "body")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		notifier := NewWebhookNotifier("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop())
		assert.Error(t, notifier.Send(ctx, "security@example.com", "subject", "body"))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		notifier := NewWebhookNotifier(server.URL, 5*time.Second, zap.NewNop())
		cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		assert.Error(t, notifier.Send(cancelCtx, "security@example.com", "subject", "body"))
	})
}
