// Package llm talks to an OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var (
	// ErrMalformedResponse reports a 200 response whose JSON lacks a usable
	// choices array. Treated as a permanent response-shape failure: no retry.
	ErrMalformedResponse = errors.New("llm: response missing choices")

	// ErrExhausted reports that every retry attempt failed.
	ErrExhausted = errors.New("llm: no response after all retries")
)

// Config holds the client settings, resolved once at startup.
type Config struct {
	BaseURL     string // e.g. "http://localhost:11434/v1"
	APIKey      string // may be a placeholder for local endpoints
	Model       string
	Temperature float64
	MaxTokens   int
	MaxRetries  int
	BaseDelay   time.Duration
	Timeout     time.Duration

	// Log receives retry and failure notices. Defaults to stderr.
	Log io.Writer
}

// Client sends single-shot chat-completion requests with bounded retries.
type Client struct {
	cfg   Config
	http  *http.Client
	log   io.Writer
	sleep func(time.Duration)
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 500
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log := cfg.Log
	if log == nil {
		log = os.Stderr
	}
	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		log:   log,
		sleep: time.Sleep,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the system and user prompts and returns the trimmed message
// content of the first choice. Network errors and non-200 statuses consume a
// retry attempt each, backing off BaseDelay*2^attempt between attempts; a
// 200 response without choices fails immediately with ErrMalformedResponse.
// Exhausting every attempt yields ErrExhausted. Generate never panics on
// network failures.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		msg, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return msg, nil
		}
		if !retryable {
			return "", err
		}
		fmt.Fprintf(c.log, "Request error (attempt %d/%d): %v\n", attempt+1, c.cfg.MaxRetries, err)

		if attempt < c.cfg.MaxRetries-1 {
			delay := c.cfg.BaseDelay * (1 << attempt)
			fmt.Fprintf(c.log, "Retrying in %s...\n", delay)
			c.sleep(delay)
		}
	}

	fmt.Fprintln(c.log, "Failed to get response from LLM after all retries.")
	return "", ErrExhausted
}

// attempt performs one request/response cycle and classifies the outcome.
func (c *Client) attempt(ctx context.Context, body []byte) (msg string, retryable bool, err error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.cfg.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", true, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(raw))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// An unparseable body counts as a transport-level failure.
		return "", true, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		fmt.Fprintf(c.log, "Unexpected response format: %s\n", string(raw))
		return "", false, ErrMalformedResponse
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), false, nil
}
