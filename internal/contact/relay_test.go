package contact

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsilias/portfolio-relay/internal/logging"
	"github.com/varsilias/portfolio-relay/pkg/types"
)

func validRequest() types.ContactRequest {
	return types.ContactRequest{
		Name:    "Test User",
		Email:   "test@example.com",
		Subject: "Hello",
		Message: "I wanted to get in touch with you.",
	}
}

func TestValidate(t *testing.T) {
	r := NewRelay("http://unused", logging.Discard(), nil)

	tests := []struct {
		name   string
		mutate func(*types.ContactRequest)
		fields []string
	}{
		{"valid", func(*types.ContactRequest) {}, nil},
		{"missing name", func(c *types.ContactRequest) { c.Name = "" }, []string{"name"}},
		{"blank subject", func(c *types.ContactRequest) { c.Subject = "   " }, []string{"subject"}},
		{"bad email", func(c *types.ContactRequest) { c.Email = "not-an-email" }, []string{"email"}},
		{"long mobile", func(c *types.ContactRequest) { c.Mobile = strings.Repeat("9", 41) }, []string{"mobile"}},
		{"several", func(c *types.ContactRequest) { c.Name, c.Message = "", "" }, []string{"name", "message"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			err := r.Validate(req)
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Len(t, verr.Fields, len(tc.fields))
			for _, f := range tc.fields {
				assert.Contains(t, verr.Fields, f)
			}
		})
	}
}

func TestSubmit_Forwards(t *testing.T) {
	var got map[string]string
	var accept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, logging.Discard(), srv.Client())
	req := validRequest()
	req.Name = "  Test User  "

	require.NoError(t, r.Submit(context.Background(), req))
	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "Test User", got["name"])
	assert.Equal(t, "test@example.com", got["email"])
	assert.NotContains(t, got, "mobile")
}

func TestSubmit_RelayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"field":"email","message":"should be an email"}]}`))
	}))
	defer srv.Close()

	r := NewRelay(srv.URL, logging.Discard(), srv.Client())
	err := r.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrRelayRejected)
}

func TestSubmit_InvalidNeverCallsRelay(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	r := NewRelay(srv.URL, logging.Discard(), srv.Client())
	req := validRequest()
	req.Email = ""

	var verr *ValidationError
	assert.ErrorAs(t, r.Submit(context.Background(), req), &verr)
	assert.False(t, called)
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	r := NewRelay(url, logging.Discard(), nil)
	err := r.Submit(context.Background(), validRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRelayRejected)
}
