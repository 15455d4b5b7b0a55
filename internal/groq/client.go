// Package groq talks to Groq's OpenAI-compatible chat completions API
// through the official OpenAI SDK.
package groq

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/varsilias/portfolio-relay/pkg/types"
)

const DefaultBaseURL = "https://api.groq.com/openai/v1/"

type Client struct {
	log *slog.Logger
	api *openai.Client
}

// Params for one non-streaming chat completion.
type Params struct {
	Model               string
	Messages            []types.Message
	Temperature         float64
	TopP                float64
	MaxCompletionTokens int64
}

type Result struct {
	Text             string
	Choices          int
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty). The
// SDK's automatic retries are switched off: a visitor message maps to
// exactly one upstream call. Extra options come after the defaults so tests
// can swap the HTTP client.
func NewClient(apiKey, baseURL string, log *slog.Logger, opts ...option.RequestOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{}),
	}
	return &Client{
		log: log,
		api: openai.NewClient(append(base, opts...)...),
	}
}

// ChatCompletion sends p and returns the first choice. Zero choices is not
// an error; callers decide what to show instead.
func (c *Client) ChatCompletion(ctx context.Context, p Params) (Result, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            openai.F(toOpenAIMessages(p.Messages)),
		Model:               openai.F(p.Model),
		Temperature:         openai.Float(p.Temperature),
		TopP:                openai.Float(p.TopP),
		MaxCompletionTokens: openai.Int(p.MaxCompletionTokens),
	}

	start := time.Now()
	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("groq chat completion: %w", err)
	}
	latency := time.Since(start)

	res := Result{
		Choices:          len(completion.Choices),
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
		Latency:          latency,
	}
	if len(completion.Choices) > 0 {
		res.Text = completion.Choices[0].Message.Content
	}
	c.log.DebugContext(ctx, "groq completion",
		"model", p.Model,
		"choices", res.Choices,
		"finish_reason", finishReason(completion),
		"latency_ms", latency.Milliseconds(),
	)
	return res, nil
}

func toOpenAIMessages(msgs []types.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case types.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func finishReason(c *openai.ChatCompletion) string {
	if len(c.Choices) == 0 {
		return ""
	}
	return string(c.Choices[0].FinishReason)
}
