package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/varsilias/portfolio-relay/pkg/types"
)

const (
	MissingCredentialMessage = "Groq API key is missing. Please set GROQ_API_KEY in your environment variables."
	ConnectionApology        = "I'm having trouble connecting right now. Please try again later or explore Sharavana's portfolio to learn more about his skills and projects!"
	EmptyCompletionFallback  = "I'm sorry, I couldn't process that request."
)

// Generation parameters sent with every completion.
const (
	Temperature = 1.0
	TopP        = 1.0
	MaxTokens   = 1024
)

var ErrMissingCredential = errors.New("chat: completion API key not configured")

type Options struct {
	// APIKey is only checked for presence; the engine owns the real client.
	APIKey       string
	Model        string
	SystemPrompt string
}

// Relay turns one visitor message into one completion call.
type Relay struct {
	log  *slog.Logger
	eng  Engine
	opts Options
}

func NewRelay(log *slog.Logger, eng Engine, opts Options) *Relay {
	return &Relay{log: log, eng: eng, opts: opts}
}

// Messages assembles system prompt, history and the new message, in that
// order. History is copied verbatim.
func (r *Relay) Messages(req types.ChatRequest) []types.Message {
	out := make([]types.Message, 0, len(req.History)+2)
	out = append(out, types.Message{Role: types.RoleSystem, Content: r.opts.SystemPrompt})
	out = append(out, req.History...)
	out = append(out, types.Message{Role: types.RoleUser, Content: req.Message})
	return out
}

// Reply answers a chat turn. The only error it returns is
// ErrMissingCredential; every other failure is logged and answered with
// ConnectionApology so the widget shows it as a normal assistant turn.
func (r *Relay) Reply(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error) {
	if strings.TrimSpace(r.opts.APIKey) == "" {
		r.log.ErrorContext(ctx, "completion API key is missing; set GROQ_API_KEY or COMPLETION_API_KEY")
		return types.ChatResponse{Message: MissingCredentialMessage}, ErrMissingCredential
	}

	msgs := r.Messages(req)
	res, err := r.eng.Complete(ctx, CompletionRequest{
		Model:       r.opts.Model,
		Messages:    msgs,
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		r.log.WarnContext(ctx, "chat relay failed", "err", err, "model", r.opts.Model, "turns", len(msgs))
		return types.ChatResponse{Message: ConnectionApology}, nil
	}

	text := res.Text
	if res.Choices == 0 || text == "" {
		r.log.InfoContext(ctx, "empty completion", "model", r.opts.Model, "choices", res.Choices)
		text = EmptyCompletionFallback
	}

	r.log.DebugContext(ctx, "chat reply",
		"model", r.opts.Model,
		"latency_ms", res.Latency.Milliseconds(),
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
	)
	return types.ChatResponse{Message: StripEmphasis(text)}, nil
}
