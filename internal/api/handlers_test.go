package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsilias/portfolio-relay/internal/chat"
	"github.com/varsilias/portfolio-relay/internal/contact"
	"github.com/varsilias/portfolio-relay/internal/logging"
	"github.com/varsilias/portfolio-relay/internal/middleware"
	"github.com/varsilias/portfolio-relay/internal/profile"
	"github.com/varsilias/portfolio-relay/pkg/types"
)

type stubEngine struct {
	calls int
	last  chat.CompletionRequest
	res   chat.Completion
	err   error
}

func (s *stubEngine) Complete(_ context.Context, req chat.CompletionRequest) (chat.Completion, error) {
	s.calls++
	s.last = req
	return s.res, s.err
}

type stubContact struct {
	calls int
	err   error
}

func (s *stubContact) Submit(context.Context, types.ContactRequest) error {
	s.calls++
	return s.err
}

func newTestRouter(t *testing.T, eng chat.Engine, key string, sub ContactSubmitter, limits Limits) http.Handler {
	t.Helper()
	p, err := profile.Default()
	require.NoError(t, err)

	relay := chat.NewRelay(logging.Discard(), eng, chat.Options{APIKey: key, Model: "test-model", SystemPrompt: "sys"})
	h, err := NewHandlers(logging.Discard(), relay, sub, p)
	require.NoError(t, err)

	mux := chi.NewRouter()
	RegisterRoutes(mux, h, limits)
	return mux
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr, out
}

func TestChat_Success(t *testing.T) {
	eng := &stubEngine{res: chat.Completion{Text: "He builds **AI** tools.", Choices: 1}}
	h := newTestRouter(t, eng, "key", &stubContact{}, Limits{})

	rr, out := post(t, h, "/api/chat", `{"message":"What does he do?","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "He builds AI tools.", out["message"])
	require.Equal(t, 1, eng.calls)
	require.Len(t, eng.last.Messages, 4)
	assert.Equal(t, types.RoleAssistant, eng.last.Messages[2].Role)
	assert.Equal(t, "What does he do?", eng.last.Messages[3].Content)
}

func TestChat_MissingCredential(t *testing.T) {
	eng := &stubEngine{}
	h := newTestRouter(t, eng, "", &stubContact{}, Limits{})

	rr, out := post(t, h, "/api/chat", `{"message":"hi","history":[]}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, chat.MissingCredentialMessage, out["message"])
	assert.Zero(t, eng.calls)
}

func TestChat_EngineFailure(t *testing.T) {
	eng := &stubEngine{err: errors.New("connection refused")}
	h := newTestRouter(t, eng, "key", &stubContact{}, Limits{})

	rr, out := post(t, h, "/api/chat", `{"message":"hi"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, chat.ConnectionApology, out["message"])
}

func TestChat_BadPayloads(t *testing.T) {
	bodies := map[string]string{
		"malformed":       `{"message":`,
		"missing message": `{"history":[]}`,
		"wrong type":      `{"message":42}`,
		"unknown role":    `{"message":"hi","history":[{"role":"tool","content":"x"}]}`,
		"too large":       `{"message":"` + strings.Repeat("a", 1<<20) + `"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			eng := &stubEngine{res: chat.Completion{Text: "unused", Choices: 1}}
			h := newTestRouter(t, eng, "key", &stubContact{}, Limits{})

			rr, out := post(t, h, "/api/chat", body)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, chat.ConnectionApology, out["message"])
			assert.Zero(t, eng.calls)
		})
	}
}

func TestChat_RateLimited(t *testing.T) {
	eng := &stubEngine{res: chat.Completion{Text: "ok", Choices: 1}}
	rl := middleware.NewRateLimiter(logging.Discard(), 1, time.Minute)
	h := newTestRouter(t, eng, "key", &stubContact{}, Limits{Chat: rl})

	rr, _ := post(t, h, "/api/chat", `{"message":"one"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = post(t, h, "/api/chat", `{"message":"two"}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 1, eng.calls)
}

func TestContact(t *testing.T) {
	valid := `{"name":"A","email":"a@example.com","subject":"Hi","message":"Hello there"}`

	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"forwarded", valid, nil, http.StatusOK},
		{"invalid json", `{`, nil, http.StatusBadRequest},
		{"invalid fields", valid, &contact.ValidationError{Fields: map[string]string{"email": "is required"}}, http.StatusBadRequest},
		{"relay rejected", valid, contact.ErrRelayRejected, http.StatusBadGateway},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := &stubContact{err: tc.err}
			h := newTestRouter(t, &stubEngine{}, "key", sub, Limits{})

			rr, out := post(t, h, "/api/contact", tc.body)
			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, true, out["ok"])
			}
			if tc.err != nil && tc.status == http.StatusBadRequest {
				assert.Contains(t, out["fields"], "email")
			}
		})
	}
}

func TestProfileHealthVersion(t *testing.T) {
	h := newTestRouter(t, &stubEngine{}, "key", &stubContact{}, Limits{})

	for _, path := range []string{"/api/profile", "/healthz", "/version"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	var p map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.NotEmpty(t, p["name"])
	assert.NotEmpty(t, p["projects"])
}
