// Package llm sends questions to an OpenAI-compatible chat completion API
// (DeepSeek by default).
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/bird-observations-service/internal/domain"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Options configures the model and sampling parameters sent with every request.
type Options struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client implements query.Completer with the OpenAI Go SDK. The API key is
// supplied per request because it belongs to the user asking.
type Client struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewClient creates a chat completion client. SDK retries are disabled: each
// question results in exactly one outbound request.
func NewClient(opts Options, logger *slog.Logger) *Client {
	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
		),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		logger:      logger,
	}
}

// Complete sends the system and user messages and returns the first choice.
// A non-2xx response becomes a *domain.APIError and a response without
// choices[0].message becomes domain.ErrUnexpectedResponse.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Temperature: openai.Float(c.temperature),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params, option.WithAPIKey(req.APIKey))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			details := apiErr.RawJSON()
			if details == "" {
				details = http.StatusText(apiErr.StatusCode)
			}
			return domain.Completion{}, &domain.APIError{StatusCode: apiErr.StatusCode, Details: details}
		}
		return domain.Completion{}, fmt.Errorf("chat completion request: %w", err)
	}

	if len(completion.Choices) == 0 || !completion.Choices[0].JSON.Message.Valid() {
		c.logger.Warn("chat completion returned no message", "model", completion.Model, "id", completion.ID)
		return domain.Completion{}, domain.ErrUnexpectedResponse
	}

	c.logger.Debug("chat completion received",
		"model", completion.Model,
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
	)

	model := completion.Model
	if model == "" {
		model = c.model
	}
	return domain.Completion{
		Model:  model,
		Answer: completion.Choices[0].Message.Content,
	}, nil
}
