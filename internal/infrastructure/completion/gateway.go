package completion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"resty.dev/v3"

	"loom-server/services/chat-api/internal/config"
	"loom-server/services/chat-api/internal/domain/chat"
	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/infrastructure/metrics"
	"loom-server/services/chat-api/internal/infrastructure/observability"
	"loom-server/services/chat-api/internal/utils/httpclients"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// Client talks to an OpenAI-compatible chat completion endpoint. Every call is
// bounded by the configured timeout.
type Client struct {
	client      *resty.Client
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	serviceName string
}

var _ chat.Gateway = (*Client)(nil)

// NewClient builds a completion gateway from the service configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		client:      httpclients.NewClient("completion"),
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.CompletionBaseURL), "/"),
		apiKey:      cfg.CompletionAPIKey,
		model:       cfg.CompletionModel,
		timeout:     cfg.CompletionTimeout,
		serviceName: cfg.ServiceName,
	}
}

// Complete implements chat.Gateway. The conversation history is forwarded as
// OpenAI-style messages and the first choice's content is returned.
func (c *Client) Complete(ctx context.Context, messages []thread.Message) (content string, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, c.serviceName, "completion.complete")
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordGatewayCall(status, time.Since(start).Seconds())
		observability.RecordError(ctx, err)
		span.End()
	}()
	observability.AddSpanAttributes(ctx,
		attribute.String("completion.model", c.model),
		attribute.Int("completion.history_length", len(messages)),
	)

	request := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	}

	var respBody openai.ChatCompletionResponse
	req := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody)
	if strings.TrimSpace(c.apiKey) != "" {
		req.SetHeader("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := req.Post(c.baseURL + "/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", platformerrors.NewError(
				ctx,
				platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeTimeout,
				"completion provider timed out",
				err,
				"5d7e9f1a-3b4c-4d6e-8f0a-2b4c5d7e9f1a",
			)
		}
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"completion provider unreachable",
			err,
			"6e8f0a2b-4c5d-4e7f-9a1b-3c5d6e8f0a2b",
		)
	}
	if resp.IsError() {
		return "", c.errorFromResponse(ctx, resp)
	}

	if len(respBody.Choices) == 0 {
		return "", platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			"completion provider returned no choices",
			nil,
			"7f9a1b3c-5d6e-4f8a-0b2c-4d6e7f9a1b3c",
		)
	}

	return respBody.Choices[0].Message.Content, nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response) error {
	message := fmt.Sprintf("completion provider returned status %d", resp.StatusCode())
	if resp.RawResponse != nil && resp.RawResponse.Body != nil {
		defer resp.RawResponse.Body.Close()
		if body, err := io.ReadAll(resp.RawResponse.Body); err == nil {
			if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
				message = fmt.Sprintf("%s: %s", message, trimmed)
			}
		}
	}
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal,
		message,
		nil,
		"8a0b2c4d-6e7f-4a9b-1c3d-5e7f8a0b2c4d",
	)
}

func toOpenAIMessages(messages []thread.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}
