package chat

import (
	"context"
	"time"

	"github.com/varsilias/portfolio-relay/pkg/types"
)

// CompletionRequest is the provider-neutral shape of one completion call.
type CompletionRequest struct {
	Model       string
	Messages    []types.Message
	Temperature float64
	TopP        float64
	MaxTokens   int64
}

type Completion struct {
	// Text of the first candidate, empty when the provider returned none.
	Text         string
	Choices      int
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
}

// Engine performs exactly one blocking completion call. Implementations
// must not retry.
type Engine interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
