// Package llm talks to the external structured-extraction service through
// an OpenAI-compatible chat/completions endpoint. The client performs no
// structural checks on the reply beyond JSON parseability; the schema
// validator owns the contract.
package llm

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Sentinel errors for extraction failures. All are terminal for the current
// request; the pipeline never retries the extraction call.
var (
	ErrEmptyReply = errors.New("extraction service returned an empty reply")
	ErrUpstream   = errors.New("extraction service call failed")
)

// MalformedError means the service replied with something that is not JSON.
// The raw reply is kept for diagnostics but must never be surfaced as
// trusted data.
type MalformedError struct {
	Raw []byte
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("extraction reply is not valid JSON (%d bytes)", len(e.Raw))
}

// Config holds the extraction endpoint settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout bounds the single outbound call; a timeout surfaces as
	// ErrUpstream and is never retried automatically.
	Timeout time.Duration
}

// Client issues one structured-extraction request per syllabus.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates an extraction client. BaseURL defaults to the public
// OpenAI endpoint, Timeout to 60s.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With().Str("component", "llm").Logger(),
	}
}

// Extract sends the normalized syllabus text with the fixed instruction
// contract and returns the service's reply as unvalidated JSON.
func (c *Client) Extract(ctx context.Context, text string) (json.RawMessage, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info().
		Str("req_id", rid).
		Str("model", c.cfg.Model).
		Int("text_chars", len(text)).
		Msg("extraction call started")

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0,
		"response_format": map[string]any{
			"type": "json_object",
		},
		"messages": []map[string]any{
			{"role": "system", "content": BuildSystemPrompt()},
			{"role": "user", "content": BuildUserPrompt(text)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		c.log.Error().
			Str("req_id", rid).
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("extraction call failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	var reply struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: decode response envelope: %v", ErrUpstream, err)
	}
	if len(reply.Choices) == 0 {
		return nil, ErrEmptyReply
	}

	content := strings.TrimSpace(reply.Choices[0].Message.Content)
	if content == "" {
		return nil, ErrEmptyReply
	}
	if !json.Valid([]byte(content)) {
		c.log.Error().
			Str("req_id", rid).
			Int("reply_bytes", len(content)).
			Msg("extraction reply is not JSON")
		return nil, &MalformedError{Raw: []byte(content)}
	}

	c.log.Info().
		Str("req_id", rid).
		Int("reply_bytes", len(content)).
		Dur("elapsed", time.Since(start)).
		Msg("extraction call succeeded")
	return json.RawMessage(content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}
