package gemini

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontentus/contentbot/internal/config"
)

func testClient(baseURL string) *Client {
	cfg := config.Config{
		GeminiAPIKey:   "test-key",
		GeminiBaseURL:  baseURL,
		GeminiModel:    "gemini-2.0-flash",
		RequestTimeout: 5 * time.Second,
	}
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompleteReturnsCandidateText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "скажи привет", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Привет"},{"text":"!"}]},"finishReason":"STOP"}]}`))
	}))
	defer ts.Close()

	text, err := testClient(ts.URL).Complete(context.Background(), "скажи привет")
	require.NoError(t, err)
	assert.Equal(t, "Привет!", text)
}

func TestCompleteSurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestCompleteBlockedPrompt(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestCompleteEmptyCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).Complete(context.Background(), "prompt")
	require.Error(t, err)
}
