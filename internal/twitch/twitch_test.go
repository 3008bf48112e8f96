package twitch

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

func newFakeHelix(t *testing.T, streamsHandler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"fake-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/streams", streamsHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewClient("id", "secret", WithEndpoints(srv.URL+"/oauth2/token", srv.URL))
}

func TestLookupStreamLive(t *testing.T) {
	c := newFakeHelix(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fake-token", r.Header.Get("Authorization"))
		assert.Equal(t, "id", r.Header.Get("Client-ID"))
		assert.Equal(t, "cosmo_cat", r.URL.Query().Get("user_login"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]string{{
				"type":          "live",
				"title":         "snail racing speedruns",
				"game_name":     "Just Chatting",
				"thumbnail_url": "https://example.com/thumb-{width}x{height}.jpg",
			}},
		})
	})

	s, err := c.LookupStream(context.Background(), "cosmo_cat")
	require.NoError(t, err)
	assert.True(t, s.Live)
	assert.Equal(t, "snail racing speedruns", s.Title)
	assert.Equal(t, "Just Chatting", s.GameName)
}

func TestLookupStreamOffline(t *testing.T) {
	c := newFakeHelix(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})

	s, err := c.LookupStream(context.Background(), "cosmo_cat")
	require.NoError(t, err)
	assert.False(t, s.Live)
}

func TestLookupStreamNotLiveType(t *testing.T) {
	c := newFakeHelix(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"type":"rerun","title":"old vod"}]}`)
	})

	s, err := c.LookupStream(context.Background(), "cosmo_cat")
	require.NoError(t, err)
	assert.False(t, s.Live)
}

func TestLookupStreamUpstreamError(t *testing.T) {
	c := newFakeHelix(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Too Many Requests"}`, http.StatusTooManyRequests)
	})

	_, err := c.LookupStream(context.Background(), "cosmo_cat")
	assert.ErrorContains(t, err, "429")
}
