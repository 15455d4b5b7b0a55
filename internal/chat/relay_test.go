package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsilias/portfolio-relay/internal/logging"
	"github.com/varsilias/portfolio-relay/pkg/types"
)

type fakeEngine struct {
	mu    sync.Mutex
	calls int
	last  CompletionRequest
	res   Completion
	err   error
}

func (f *fakeEngine) Complete(_ context.Context, req CompletionRequest) (Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.res, f.err
}

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newRelay(eng Engine, key string) *Relay {
	return NewRelay(logging.Discard(), eng, Options{
		APIKey:       key,
		Model:        "llama-3.3-70b-versatile",
		SystemPrompt: "You are a test assistant.",
	})
}

func TestReply_StripsEmphasisMarkers(t *testing.T) {
	eng := &fakeEngine{res: Completion{Text: "He knows **Go** and __Python__, also *single* and _single_.", Choices: 1}}
	r := newRelay(eng, "key")

	res, err := r.Reply(context.Background(), types.ChatRequest{Message: "skills?"})
	require.NoError(t, err)

	assert.Equal(t, "He knows Go and Python, also *single* and _single_.", res.Message)
	assert.NotContains(t, res.Message, "**")
	assert.NotContains(t, res.Message, "__")
	assert.Equal(t, 1, eng.Calls())
}

func TestReply_MissingCredentialSkipsEngine(t *testing.T) {
	for _, key := range []string{"", "   "} {
		eng := &fakeEngine{res: Completion{Text: "unused", Choices: 1}}
		r := newRelay(eng, key)

		res, err := r.Reply(context.Background(), types.ChatRequest{Message: "hi"})

		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Equal(t, MissingCredentialMessage, res.Message)
		assert.Equal(t, 0, eng.Calls())
	}
}

func TestReply_EngineFailureBecomesApology(t *testing.T) {
	eng := &fakeEngine{err: errors.New("dial tcp: connection refused")}
	r := newRelay(eng, "key")

	res, err := r.Reply(context.Background(), types.ChatRequest{Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "I'm having trouble connecting right now. Please try again later or explore Sharavana's portfolio to learn more about his skills and projects!", res.Message)
	assert.Equal(t, 1, eng.Calls())
}

func TestReply_EmptyCompletionFallback(t *testing.T) {
	tests := []struct {
		name string
		res  Completion
	}{
		{"no choices", Completion{}},
		{"empty text", Completion{Choices: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRelay(&fakeEngine{res: tc.res}, "key")

			res, err := r.Reply(context.Background(), types.ChatRequest{Message: "hi"})
			require.NoError(t, err)
			assert.Equal(t, "I'm sorry, I couldn't process that request.", res.Message)
		})
	}
}

func TestReply_MessageOrderAndParameters(t *testing.T) {
	eng := &fakeEngine{res: Completion{Text: "ok", Choices: 1}}
	r := newRelay(eng, "key")

	_, err := r.Reply(context.Background(), types.ChatRequest{
		Message: "What are your skills?",
		History: []types.Message{
			{Role: types.RoleUser, Content: "Hi"},
			{Role: types.RoleAssistant, Content: "Hello"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.Message{
		{Role: types.RoleSystem, Content: "You are a test assistant."},
		{Role: types.RoleUser, Content: "Hi"},
		{Role: types.RoleAssistant, Content: "Hello"},
		{Role: types.RoleUser, Content: "What are your skills?"},
	}, eng.last.Messages)

	assert.Equal(t, "llama-3.3-70b-versatile", eng.last.Model)
	assert.Equal(t, 1.0, eng.last.Temperature)
	assert.Equal(t, 1.0, eng.last.TopP)
	assert.Equal(t, int64(1024), eng.last.MaxTokens)
}

func TestMessages_NoHistory(t *testing.T) {
	r := newRelay(&fakeEngine{}, "key")

	msgs := r.Messages(types.ChatRequest{Message: "hey"})
	require.Len(t, msgs, 2)
	assert.Equal(t, types.RoleSystem, msgs[0].Role)
	assert.Equal(t, types.Message{Role: types.RoleUser, Content: "hey"}, msgs[1])
}

func TestMessages_DoesNotAliasHistory(t *testing.T) {
	r := newRelay(&fakeEngine{}, "key")
	history := make([]types.Message, 1, 8)
	history[0] = types.Message{Role: types.RoleUser, Content: "Hi"}

	msgs := r.Messages(types.ChatRequest{Message: "next", History: history})
	msgs[1].Content = "changed"

	assert.Equal(t, "Hi", history[0].Content)
}
