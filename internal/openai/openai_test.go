package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "how fast are snails", body.Messages[0].Content)

		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"not very"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "gpt-4o-mini")
	out, err := c.Chat(context.Background(), "how fast are snails")
	require.NoError(t, err)
	assert.Equal(t, "not very", out)
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "gpt-4o-mini")
	_, err := c.Chat(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", "gpt-4o-mini")
	_, err := c.Chat(context.Background(), "hi")
	assert.ErrorContains(t, err, "429")
}

func TestImagine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var body struct {
			Prompt string `json:"prompt"`
			N      int    `json:"n"`
			Size   string `json:"size"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a snail wearing a helmet", body.Prompt)
		assert.Equal(t, 1, body.N)
		assert.Equal(t, "512x512", body.Size)

		fmt.Fprint(w, `{"data":[{"url":"https://img.example/1.png"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "sk-test", "gpt-4o-mini")
	url, err := c.Imagine(context.Background(), "a snail wearing a helmet")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", url)
}
