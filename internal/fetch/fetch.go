// Package fetch is a thin client for the miscellaneous image and meme
// APIs surfaced by the fun commands.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrBadCategory = errors.New("unknown image category")

// WaifuCategories are the accepted arguments of Waifu.
var WaifuCategories = []string{"waifu", "neko", "shinobu", "megumin", "bully", "cuddle"}

type Client struct {
	http *http.Client

	memeURL  string
	waifuURL string
	catURL   string
	cosmoURL string
}

func NewClient() *Client {
	return &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		memeURL:  "https://meme-api.com",
		waifuURL: "https://api.waifu.pics",
		catURL:   "https://cataas.com",
		cosmoURL: "https://api.twizy.sh",
	}
}

// Meme returns the image URL of a random meme.
func (c *Client) Meme(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, c.memeURL+"/gimme", &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// Waifu returns a random SFW image URL for the given category.
func (c *Client) Waifu(ctx context.Context, category string) (string, error) {
	ok := false
	for _, cat := range WaifuCategories {
		if category == cat {
			ok = true
			break
		}
	}
	if !ok {
		return "", ErrBadCategory
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, c.waifuURL+"/sfw/"+category, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// Cat returns a random cat image URL. The API answers with a path
// relative to its own host.
func (c *Client) Cat(ctx context.Context) (string, error) {
	var payload struct {
		URL string `json:"url"`
	}
	if err := c.get(ctx, c.catURL+"/cat?json=true", &payload); err != nil {
		return "", err
	}
	if strings.HasPrefix(payload.URL, "http") {
		return payload.URL, nil
	}
	return c.catURL + payload.URL, nil
}

// Cosmo returns a random photo URL of Cosmo the cat.
func (c *Client) Cosmo(ctx context.Context) (string, error) {
	var payload struct {
		PhotoURL string `json:"photoUrl"`
	}
	if err := c.get(ctx, c.cosmoURL+"/v1/cosmo", &payload); err != nil {
		return "", err
	}
	return payload.PhotoURL, nil
}

// Ping checks that url answers with a success status. Used by the
// periodic health-check task.
func Ping(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("health check returned %s", res.Status)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %s", url, res.Status)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", url, err)
	}
	return nil
}
