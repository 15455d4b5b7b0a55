package chat

import (
	"context"

	"github.com/varsilias/portfolio-relay/internal/groq"
)

type GroqEngine struct {
	c *groq.Client
}

func NewGroqEngine(c *groq.Client) *GroqEngine {
	return &GroqEngine{
		c: c,
	}
}

func (e *GroqEngine) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	res, err := e.c.ChatCompletion(ctx, groq.Params{
		Model:               req.Model,
		Messages:            req.Messages,
		Temperature:         req.Temperature,
		TopP:                req.TopP,
		MaxCompletionTokens: req.MaxTokens,
	})
	if err != nil {
		return Completion{}, err
	}
	return Completion{
		Text:         res.Text,
		Choices:      res.Choices,
		InputTokens:  res.PromptTokens,
		OutputTokens: res.CompletionTokens,
		Latency:      res.Latency,
	}, nil
}
