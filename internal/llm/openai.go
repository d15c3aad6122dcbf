package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
)

type openaiHandle = openai.Client

func (c *Client) ensureOpenAISDK() error {
	if c == nil {
		return errors.New("nil client")
	}
	if len(c.openaiSDK.Options) > 0 {
		return nil
	}
	apiKey := strings.TrimSpace(c.APIKey)
	if apiKey == "" {
		return errors.New("api key is required")
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
	}
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		base = strings.TrimRight(base, "/")
		base = strings.TrimSuffix(base, "/v1")
		opts = append(opts, openaioption.WithBaseURL(base+"/v1/"))
	}
	if c.HTTPClient != nil {
		opts = append(opts, openaioption.WithHTTPClient(c.HTTPClient))
	}
	c.openaiSDK = openai.NewClient(opts...)
	return nil
}

func (c *Client) generateOpenAI(ctx context.Context, parts []Part) (string, error) {
	if err := c.ensureOpenAISDK(); err != nil {
		return "", err
	}

	content := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			url := "data:" + p.ImageMIME + ";base64," + base64.StdEncoding.EncodeToString(p.ImageData)
			content = append(content, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
			continue
		}
		content = append(content, openai.TextContentPart(p.Text))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(content)},
	}
	if c.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.MaxTokens))
	}

	resp, err := c.openaiSDK.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
