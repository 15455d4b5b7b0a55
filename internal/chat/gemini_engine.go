package chat

import (
	"context"

	"github.com/varsilias/portfolio-relay/internal/gemini"
)

type GeminiEngine struct {
	c *gemini.Client
}

func NewGeminiEngine(c *gemini.Client) *GeminiEngine {
	return &GeminiEngine{c: c}
}

func (e *GeminiEngine) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	res, err := e.c.GenerateContent(ctx, gemini.Params{
		Model:           req.Model,
		Messages:        req.Messages,
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		MaxOutputTokens: req.MaxTokens,
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
