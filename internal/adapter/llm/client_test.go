package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey        = "sk-test-0123456789"
	testModel         = "deepseek-chat"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(Options{
		BaseURL:     baseURL,
		Model:       testModel,
		MaxTokens:   500,
		Temperature: 0.7,
		Timeout:     timeout,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testRequest() domain.CompletionRequest {
	return domain.CompletionRequest{
		APIKey: testAPIKey,
		System: domain.SystemPrompt,
		Prompt: domain.BuildPrompt("Chinese Name\n小白鷺\n", "How many birds?"),
	}
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

func writeCompletion(t *testing.T, w http.ResponseWriter, choices string) {
	t.Helper()
	w.Header().Set(headerContentType, contentTypeJSON)
	_, err := w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1718000000,"model":"deepseek-chat","choices":` + choices + `,"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`))
	require.NoError(t, err)
}

func TestClient_Complete_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testAPIKey, r.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testModel, body.Model)
		assert.Equal(t, 500, body.MaxTokens)
		assert.InDelta(t, 0.7, body.Temperature, 1e-9)
		assert.False(t, body.Stream)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, domain.SystemPrompt, body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Contains(t, body.Messages[1].Content, "小白鷺")

		writeCompletion(t, w, `[{"index":0,"message":{"role":"assistant","content":"One bird."},"finish_reason":"stop"}]`)
	}))
	defer srv.Close()

	got, err := testClient(srv.URL+"/v1", 5*time.Second).Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "One bird.", got.Answer)
	assert.Equal(t, testModel, got.Model)
}

func TestClient_Complete_UnexpectedResponse(t *testing.T) {
	tests := []struct {
		name    string
		choices string
	}{
		{"no choices", `[]`},
		{"choice without message", `[{"index":0,"finish_reason":"stop"}]`},
		{"null message", `[{"index":0,"finish_reason":"stop","message":null}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeCompletion(t, w, tt.choices)
			}))
			defer srv.Close()

			got, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), testRequest())
			require.ErrorIs(t, err, domain.ErrUnexpectedResponse)
			assert.Empty(t, got.Answer)
		})
	}
}

func TestClient_Complete_APIErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), testRequest())
	require.Error(t, err)

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Details, "upstream overloaded")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Complete_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Authentication Fails","type":"authentication_error"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5*time.Second).Complete(context.Background(), testRequest())

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Status: 401")
}

func TestClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 50*time.Millisecond).Complete(context.Background(), testRequest())
	require.Error(t, err)

	var apiErr *domain.APIError
	assert.False(t, errors.As(err, &apiErr))
}
