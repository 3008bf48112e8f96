// Package twitch looks up live status through the Helix API.
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
	defaultBaseURL  = "https://api.twitch.tv/helix"
)

// Stream is the live state of a channel. Live is false when the channel
// is offline and the rest of the fields are empty.
type Stream struct {
	Live         bool
	Title        string
	GameName     string
	ThumbnailURL string
}

// Client calls Helix with an app access token obtained through the
// client-credentials grant. Token refresh is handled by oauth2.
type Client struct {
	clientID string
	baseURL  string
	http     *http.Client
}

// Option overrides a Client default.
type Option func(*Client, *clientcredentials.Config)

// WithEndpoints points the client at alternative token and API endpoints.
func WithEndpoints(tokenURL, baseURL string) Option {
	return func(c *Client, cc *clientcredentials.Config) {
		cc.TokenURL = tokenURL
		c.baseURL = baseURL
	}
}

func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     defaultTokenURL,
	}
	c := &Client{clientID: clientID, baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(c, cc)
	}
	c.http = cc.Client(context.Background())
	return c
}

// LookupStream returns the live state of the given login.
func (c *Client) LookupStream(ctx context.Context, login string) (*Stream, error) {
	u := fmt.Sprintf("%s/streams?user_login=%s", c.baseURL, url.QueryEscape(login))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query streams: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("streams lookup returned %s: %s", res.Status, body)
	}

	var payload struct {
		Data []struct {
			Type         string `json:"type"`
			Title        string `json:"title"`
			GameName     string `json:"game_name"`
			ThumbnailURL string `json:"thumbnail_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode streams response: %w", err)
	}

	if len(payload.Data) == 0 || payload.Data[0].Type != "live" {
		return &Stream{}, nil
	}

	d := payload.Data[0]
	return &Stream{Live: true, Title: d.Title, GameName: d.GameName, ThumbnailURL: d.ThumbnailURL}, nil
}
