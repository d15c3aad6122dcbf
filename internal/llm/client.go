package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	BackendAnthropic = "anthropic"
	BackendOpenAI    = "openai"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultMaxTokens      = 4096
)

// Part is one element of a multimodal generation request. Exactly one of
// Text or ImageData is set.
type Part struct {
	Text      string
	ImageMIME string
	ImageData []byte
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func ImagePart(mime string, data []byte) Part {
	return Part{ImageMIME: mime, ImageData: data}
}

func (p Part) IsImage() bool {
	return len(p.ImageData) > 0
}

type Config struct {
	Backend   string `yaml:"backend"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type Client struct {
	Backend    string
	BaseURL    string
	APIKey     string
	Model      string
	MaxTokens  int
	HTTPClient *http.Client

	anthropicSDK anthropicHandle
	openaiSDK    openaiHandle
}

// NewClient builds a client for the configured backend. The API key comes
// from the caller, not from ambient process state.
func NewClient(cfg Config, apiKey string) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, errors.New("api key is required")
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendAnthropic
	}
	model := strings.TrimSpace(cfg.Model)
	switch backend {
	case BackendAnthropic:
		if model == "" {
			model = defaultAnthropicModel
		}
	case BackendOpenAI:
		if model == "" {
			model = defaultOpenAIModel
		}
	default:
		return nil, fmt.Errorf("unsupported backend: %q", cfg.Backend)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		Backend:   backend,
		BaseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		APIKey:    key,
		Model:     model,
		MaxTokens: maxTokens,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Generate sends the ordered prompt parts to the backend and returns the
// single text response.
func (c *Client) Generate(ctx context.Context, parts []Part) (string, error) {
	if c == nil {
		return "", errors.New("nil client")
	}
	if len(parts) == 0 {
		return "", errors.New("no prompt parts")
	}
	switch c.Backend {
	case BackendOpenAI:
		return c.generateOpenAI(ctx, parts)
	default:
		return c.generateAnthropic(ctx, parts)
	}
}
