// Package openai generates text and images through an OpenAI-compatible
// gateway endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrEmptyResponse = errors.New("model returned no choices")

// Client speaks the chat-completions and image-generations wire format.
// Gateway is the base URL, typically an AI gateway in front of the
// upstream API rather than the API itself.
type Client struct {
	gateway string
	key     string
	model   string
	http    *http.Client
}

func NewClient(gateway, key, model string) *Client {
	return &Client{
		gateway: strings.TrimRight(gateway, "/"),
		key:     key,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Chat sends a single-turn user prompt and returns the first choice.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.post(ctx, "/chat/completions", body, &payload); err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return payload.Choices[0].Message.Content, nil
}

// Imagine generates a single image and returns its URL.
func (c *Client) Imagine(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"prompt": prompt,
		"n":      1,
		"size":   "512x512",
	}

	var payload struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := c.post(ctx, "/images/generations", body, &payload); err != nil {
		return "", err
	}
	if len(payload.Data) == 0 {
		return "", ErrEmptyResponse
	}

	return payload.Data[0].URL, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gateway+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("gateway returned %s: %s", res.Status, msg)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
