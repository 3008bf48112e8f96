package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeme(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gimme", r.URL.Path)
		fmt.Fprint(w, `{"url":"https://i.redd.it/abc.jpg","title":"snail"}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.memeURL = srv.URL

	url, err := c.Meme(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://i.redd.it/abc.jpg", url)
}

func TestWaifu(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sfw/neko", r.URL.Path)
		fmt.Fprint(w, `{"url":"https://i.waifu.pics/xyz.png"}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.waifuURL = srv.URL

	url, err := c.Waifu(context.Background(), "neko")
	require.NoError(t, err)
	assert.Equal(t, "https://i.waifu.pics/xyz.png", url)
}

func TestWaifuRejectsUnknownCategory(t *testing.T) {
	c := NewClient()
	c.waifuURL = "http://127.0.0.1:1" // must not be reached

	_, err := c.Waifu(context.Background(), "nsfw")
	assert.ErrorIs(t, err, ErrBadCategory)
}

func TestCatJoinsRelativeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cat", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("json"))
		fmt.Fprint(w, `{"url":"/cat/abc123"}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.catURL = srv.URL

	url, err := c.Cat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/cat/abc123", url)
}

func TestCatAbsoluteURLPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"url":"https://cataas.com/cat/abc123"}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.catURL = srv.URL

	url, err := c.Cat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cataas.com/cat/abc123", url)
}

func TestCosmo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/cosmo", r.URL.Path)
		fmt.Fprint(w, `{"photoUrl":"https://cdn.example/cosmo.jpg"}`)
	}))
	defer srv.Close()

	c := NewClient()
	c.cosmoURL = srv.URL

	url, err := c.Cosmo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/cosmo.jpg", url)
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient()
	c.memeURL = srv.URL

	_, err := c.Meme(context.Background())
	assert.ErrorContains(t, err, "502")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, Ping(context.Background(), srv.URL))
}

func TestPingFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.ErrorContains(t, Ping(context.Background(), srv.URL), "503")
}
