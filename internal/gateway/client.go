// Package gateway is the completion-service client for the fallback path.
// It speaks the OpenAI-compatible chat completions protocol used by Groq
// and consumes the streamed response incrementally.
package gateway

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the completion service parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// DefaultConfig returns the Groq defaults.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "llama3-70b-8192",
		Temperature: 0.7,
		Timeout:     2 * time.Minute,
	}
}

// Client streams completions from the gateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CompleteWithStreaming sends the rendered prompt as a single user message
// and returns a channel of content deltas in arrival order. Event lines
// without the data marker are skipped; malformed payloads become inline
// "[Error: ...]" markers on the content channel and the stream continues.
// Both channels close when the stream ends.
func (c *Client) CompleteWithStreaming(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	contentChan := make(chan string, 100)
	errorChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errorChan)

		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()
		}

		start := time.Now()
		if c.cfg.APIKey == "" {
			errorChan <- fmt.Errorf("API key not configured")
			return
		}

		reqBody := chatRequest{
			Model:       c.cfg.Model,
			Messages:    []chatMessage{{Role: "user", Content: prompt}},
			Temperature: c.cfg.Temperature,
			Stream:      true,
		}
		payload, err := json.Marshal(reqBody)
		if err != nil {
			errorChan <- fmt.Errorf("failed to marshal request: %w", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			errorChan <- fmt.Errorf("failed to create request: %w", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errorChan <- fmt.Errorf("request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errorChan <- fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			if data == "[DONE]" {
				break
			}

			var chunk chatChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				// Per-line recovery: surface the bad fragment inline and
				// keep consuming the stream.
				if !send(ctx, contentChan, fmt.Sprintf("\n[Error: %v]", err)) {
					return
				}
				continue
			}
			if chunk.Error != nil {
				if !send(ctx, contentChan, fmt.Sprintf("\n[Error: %s]", chunk.Error.Message)) {
					return
				}
				continue
			}
			if len(chunk.Choices) > 0 {
				if delta := chunk.Choices[0].Delta.Content; delta != "" {
					if !send(ctx, contentChan, delta) {
						return
					}
				}
			}
		}
		if err := scanner.Err(); err != nil {
			errorChan <- fmt.Errorf("stream error: %w", err)
			return
		}
		c.log.Debug("stream completed", zap.Duration("elapsed", time.Since(start)))
	}()

	return contentChan, errorChan
}

// Stream consumes CompleteWithStreaming, invoking onChunk for every delta in
// arrival order, and returns the accumulated text.
func (c *Client) Stream(ctx context.Context, prompt string, onChunk func(string)) (string, error) {
	contentChan, errorChan := c.CompleteWithStreaming(ctx, prompt)

	var full strings.Builder
	for chunk := range contentChan {
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if err := <-errorChan; err != nil {
		return full.String(), err
	}
	return full.String(), nil
}

func send(ctx context.Context, ch chan<- string, s string) bool {
	select {
	case ch <- s:
		return true
	case <-ctx.Done():
		return false
	}
}
