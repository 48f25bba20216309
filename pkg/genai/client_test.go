package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Subject string `json:"subject"`
}

func replyWith(t *testing.T, status int, payload interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func candidate(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content":      map[string]interface{}{"parts": []interface{}{map[string]interface{}{"text": text}}},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGenerateJSONSendsSchemaAndDecodes(t *testing.T) {
	var captured generateRequest
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(candidate(`{"subject":"Matematika"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL + "/", Model: "test-model"}, nil)
	schema := &Schema{Type: TypeObject, Properties: map[string]*Schema{"subject": {Type: TypeString}}, Required: []string{"subject"}}

	var out sample
	require.NoError(t, client.GenerateJSON(context.Background(), "prompt", schema, &out))
	assert.Equal(t, "Matematika", out.Subject)
	assert.Equal(t, "/v1beta/models/test-model:generateContent", path)
	assert.Equal(t, "k", key)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	assert.Equal(t, defaultMaxOutputTokens, captured.GenerationConfig.MaxOutputTokens)
	require.NotNil(t, captured.GenerationConfig.ResponseSchema)
	assert.Equal(t, TypeObject, captured.GenerationConfig.ResponseSchema.Type)
	assert.Equal(t, "prompt", captured.Contents[0].Parts[0].Text)
}

func TestGenerateJSONStatusError(t *testing.T) {
	srv := replyWith(t, http.StatusServiceUnavailable, map[string]string{"error": "overloaded"})
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "overloaded")
}

func TestGenerateJSONMalformedText(t *testing.T) {
	srv := replyWith(t, http.StatusOK, candidate(`{"subject":`))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestGenerateJSONEmptyCandidates(t *testing.T) {
	srv := replyWith(t, http.StatusOK, map[string]interface{}{"candidates": []interface{}{}})
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerateJSONBlockedPrompt(t *testing.T) {
	srv := replyWith(t, http.StatusOK, map[string]interface{}{"promptFeedback": map[string]string{"blockReason": "SAFETY"}})
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGenerateJSONRejectsOversizedReply(t *testing.T) {
	long := `{"subject":"` + strings.Repeat("x", 2048) + `"}`
	srv := replyWith(t, http.StatusOK, candidate(long))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, MaxResponseBytes: 512}, nil)
	var out sample
	err := client.GenerateJSON(context.Background(), "p", nil, &out)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Empty(t, out.Subject)

	roomy := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	require.NoError(t, roomy.GenerateJSON(context.Background(), "p", nil, &out))
	assert.Len(t, out.Subject, 2048)
}

func TestGenerateJSONOversizedErrorKeepsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("e", 4096)))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, MaxResponseBytes: 1024}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.LessOrEqual(t, len(statusErr.Body), maxErrorBody)
}

func TestGenerateJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 20 * time.Millisecond}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	require.Error(t, err)
}

func TestGenerateJSONRequiresKey(t *testing.T) {
	client := NewClient(Config{}, nil)
	err := client.GenerateJSON(context.Background(), "p", nil, &sample{})
	require.Error(t, err)
	assert.Equal(t, defaultModel, client.Model())
}
