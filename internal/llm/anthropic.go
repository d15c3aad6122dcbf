package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicBaseURL = "https://api.anthropic.com"

type anthropicHandle = anthropic.Client

func (c *Client) ensureAnthropicSDK() error {
	if c == nil {
		return errors.New("nil client")
	}
	if len(c.anthropicSDK.Options) > 0 {
		return nil
	}
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return errors.New("api key is required")
	}
	base := strings.TrimSpace(c.BaseURL)
	if base == "" {
		base = defaultAnthropicBaseURL
	}
	base = strings.TrimRight(base, "/") + "/"
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithBaseURL(base),
	}
	if c.HTTPClient != nil {
		opts = append(opts, anthropicoption.WithHTTPClient(c.HTTPClient))
	}
	c.anthropicSDK = anthropic.NewClient(opts...)
	return nil
}

func (c *Client) generateAnthropic(ctx context.Context, parts []Part) (string, error) {
	if err := c.ensureAnthropicSDK(); err != nil {
		return "", err
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			encoded := base64.StdEncoding.EncodeToString(p.ImageData)
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.ImageMIME, encoded))
			continue
		}
		blocks = append(blocks, anthropic.NewTextBlock(p.Text))
	}

	resp, err := c.anthropicSDK.Messages.New(ctx, anthropic.MessageNewParams{
		MaxTokens: int64(c.MaxTokens),
		Model:     anthropic.Model(c.Model),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("empty response from model")
	}
	return out.String(), nil
}
