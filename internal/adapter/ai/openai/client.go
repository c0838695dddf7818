// Package openai talks to OpenAI-compatible chat completion endpoints.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultVisionModel = "gpt-4o-mini"
	DefaultTextModel   = goopenai.GPT4

	maxTokens   = 300
	temperature = 0.7
)

var errEmptyResponse = errors.New("model returned no choices")

// Client implements salespost.Models.
type Client struct {
	api         *goopenai.Client
	visionModel string
	textModel   string
	logger      *logger.Logger
}

// New builds a client. An empty baseURL means the public OpenAI API.
func New(apiKey, baseURL, visionModel, textModel string, log *logger.Logger) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	if textModel == "" {
		textModel = DefaultTextModel
	}
	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		visionModel: visionModel,
		textModel:   textModel,
		logger:      log.Named("OpenAIClient"),
	}
}

// ExtractText sends prompt and the image, inlined as a data URL, to the vision model.
func (c *Client) ExtractText(ctx context.Context, prompt string, image domain.ImageFile) (string, error) {
	mime := image.ContentType
	if mime == "" {
		mime = http.DetectContentType(image.Data)
	}
	dataURL := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image.Data)

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     c.visionModel,
		MaxTokens: maxTokens,
		Messages: []goopenai.ChatCompletionMessage{{
			Role: goopenai.ChatMessageRoleUser,
			MultiContent: []goopenai.ChatMessagePart{
				{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
				{Type: goopenai.ChatMessagePartTypeImageURL, ImageURL: &goopenai.ChatMessageImageURL{URL: dataURL}},
			},
		}},
	})
	if err != nil {
		c.logger.Error("Vision request failed", zap.String("model", c.visionModel), zap.Error(err))
		return "", fmt.Errorf("vision completion: %w", err)
	}
	return firstChoice(resp)
}

// Complete sends prompt to the text model.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.textModel,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:    goopenai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		c.logger.Error("Text request failed", zap.String("model", c.textModel), zap.Error(err))
		return "", fmt.Errorf("text completion: %w", err)
	}
	return firstChoice(resp)
}

func firstChoice(resp goopenai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
