package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanandmn/wingman/wingman/config"
)

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient(config.APIConfig{})
		assert.Error(t, err)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		c, err := NewClient(config.APIConfig{APIKey: "k", BaseURL: "http://localhost:9999/v1/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999/v1", c.baseURL)
	})
}

func TestGenerate(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []any{
					map[string]any{"message": map[string]any{"content": "hello back"}},
				},
			})
		}))
		defer server.Close()

		c, err := NewClient(config.APIConfig{APIKey: "secret", BaseURL: server.URL})
		require.NoError(t, err)

		out, err := c.Generate(context.Background(), "gpt-4o-mini", "hello", map[string]any{
			"temperature": 0.7,
			"max_tokens":  4000,
		})
		require.NoError(t, err)
		assert.Equal(t, "hello back", out)
		assert.Equal(t, "Bearer secret", gotAuth)
		assert.Equal(t, "gpt-4o-mini", gotBody["model"])
		assert.InDelta(t, 0.7, gotBody["temperature"], 0.001)
		assert.InDelta(t, 4000, gotBody["max_tokens"], 0.001)
	})

	t.Run("api error surfaces message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "rate limit reached", "type": "rate_limit"},
			})
		}))
		defer server.Close()

		c, err := NewClient(config.APIConfig{APIKey: "secret", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = c.Generate(context.Background(), "m", "p", nil)
		assert.ErrorContains(t, err, "rate limit reached")
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
		}))
		defer server.Close()

		c, err := NewClient(config.APIConfig{APIKey: "secret", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = c.Generate(context.Background(), "m", "p", nil)
		assert.ErrorContains(t, err, "no choices")
	})

	t.Run("context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		c, err := NewClient(config.APIConfig{APIKey: "secret", BaseURL: server.URL})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.Generate(ctx, "m", "p", nil)
		assert.Error(t, err)
	})
}
