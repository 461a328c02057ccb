// Package essay talks to an OpenAI-compatible chat-completion endpoint and
// implements flowchart.Generator.
package essay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3/client"
	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/internal/logging"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 1024
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultTimeout   = 60 * time.Second
)

// Config describes the completion endpoint.
type Config struct {
	Endpoint  string
	Model     string
	MaxTokens int
	// APIKeyEnv names the environment variable holding the bearer token.
	// It is read on every call, so rotating the key needs no restart.
	APIKeyEnv string
	Timeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.APIKeyEnv == "" {
		c.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client implements flowchart.Generator.
type Client struct {
	cfg    Config
	http   *client.Client
	getenv func(string) string
	logger *slog.Logger
}

var _ flowchart.Generator = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithGetenv replaces os.Getenv for the API key lookup.
func WithGetenv(fn func(string) string) Option {
	return func(c *Client) {
		if fn != nil {
			c.getenv = fn
		}
	}
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:    cfg,
		http:   client.New().SetTimeout(cfg.Timeout),
		getenv: os.Getenv,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends req.Prompt as a single user message and returns the first
// choice's content. Every failure is a *flowchart.GenerationError.
func (c *Client) Generate(ctx context.Context, req flowchart.GenerationRequest) (string, error) {
	key := c.getenv(c.cfg.APIKeyEnv)
	if key == "" {
		return "", &flowchart.GenerationError{Message: fmt.Sprintf("%s is not set", c.cfg.APIKeyEnv)}
	}

	body := chatRequest{
		Model:     c.cfg.Model,
		Messages:  []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: c.cfg.MaxTokens,
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+key).
		SetJSON(body).
		Post(c.cfg.Endpoint)
	if err != nil {
		return "", &flowchart.GenerationError{Message: flowchart.DefaultGenerationMessage, Err: err}
	}
	defer resp.Close()

	status := resp.StatusCode()
	c.logger.Debug("completion response",
		"status", status,
		"model", c.cfg.Model,
		"duration", time.Since(start),
	)

	var parsed chatResponse
	decodeErr := json.Unmarshal(resp.Body(), &parsed)

	if status < 200 || status > 299 {
		msg := flowchart.DefaultGenerationMessage
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &flowchart.GenerationError{Status: status, Message: msg}
	}

	if decodeErr != nil {
		return "", &flowchart.GenerationError{
			Status:  status,
			Message: "malformed completion response",
			Err:     decodeErr,
		}
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil ||
		parsed.Choices[0].Message.Content == nil || *parsed.Choices[0].Message.Content == "" {
		return "", &flowchart.GenerationError{
			Status:  status,
			Message: "malformed completion response: no message content",
		}
	}

	return *parsed.Choices[0].Message.Content, nil
}
