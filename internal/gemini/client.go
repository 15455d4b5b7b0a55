// Package gemini is the alternative completion provider backed by Google's
// Generative Language API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/varsilias/portfolio-relay/pkg/types"
)

const roleModel = "model"

var ErrNoUserMessage = errors.New("gemini: conversation must end with a user message")

type Params struct {
	Model           string
	Messages        []types.Message
	Temperature     float64
	TopP            float64
	MaxOutputTokens int64
}

type Result struct {
	Text             string
	Choices          int
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// Client creates the SDK client on first use, so a process started without
// a key comes up cleanly and never dials out.
type Client struct {
	log    *slog.Logger
	apiKey string
	opts   []option.ClientOption

	once    sync.Once
	client  *genai.Client
	initErr error
}

func NewClient(apiKey string, log *slog.Logger, opts ...option.ClientOption) *Client {
	return &Client{log: log, apiKey: apiKey, opts: opts}
}

func (c *Client) sdk() (*genai.Client, error) {
	c.once.Do(func() {
		opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
		c.client, c.initErr = genai.NewClient(context.Background(), opts...)
		if c.initErr != nil {
			c.initErr = fmt.Errorf("create gemini client: %w", c.initErr)
		}
	})
	return c.client, c.initErr
}

func (c *Client) GenerateContent(ctx context.Context, p Params) (Result, error) {
	system, history, last, err := splitMessages(p.Messages)
	if err != nil {
		return Result{}, err
	}

	gc, err := c.sdk()
	if err != nil {
		return Result{}, err
	}

	model := gc.GenerativeModel(p.Model)
	model.SetTemperature(float32(p.Temperature))
	model.SetTopP(float32(p.TopP))
	model.SetMaxOutputTokens(int32(p.MaxOutputTokens))
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	cs := model.StartChat()
	cs.History = history

	start := time.Now()
	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}

	res := Result{Latency: time.Since(start)}
	if resp != nil {
		res.Choices = len(resp.Candidates)
		res.Text = firstCandidateText(resp)
		if u := resp.UsageMetadata; u != nil {
			res.PromptTokens = int(u.PromptTokenCount)
			res.CompletionTokens = int(u.CandidatesTokenCount)
		}
	}
	c.log.DebugContext(ctx, "gemini completion", "model", p.Model, "choices", res.Choices, "latency_ms", res.Latency.Milliseconds())
	return res, nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// splitMessages maps the relay's message list onto Gemini's shape: system
// turns become the system instruction, the final user turn is the message
// to send, everything between is chat history in order.
func splitMessages(msgs []types.Message) (system string, history []*genai.Content, last string, err error) {
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != types.RoleUser {
		return "", nil, "", ErrNoUserMessage
	}

	var sys []string
	for _, m := range msgs[:len(msgs)-1] {
		switch m.Role {
		case types.RoleSystem:
			sys = append(sys, m.Content)
		case types.RoleAssistant:
			history = append(history, &genai.Content{Role: roleModel, Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: string(types.RoleUser), Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	return strings.Join(sys, "\n\n"), history, msgs[len(msgs)-1].Content, nil
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
