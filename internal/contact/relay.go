// Package contact forwards contact-form submissions to a hosted form
// relay (Formspree-compatible JSON endpoint).
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/varsilias/portfolio-relay/pkg/types"
)

var ErrRelayRejected = errors.New("contact: form relay rejected the submission")

// ValidationError lists offending fields by their JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	return "contact: invalid fields: " + strings.Join(names, ", ")
}

type Relay struct {
	log      *slog.Logger
	endpoint string
	client   *http.Client
	validate *validator.Validate
}

// NewRelay returns a relay posting to endpoint. A nil client gets a 15s
// timeout so a slow relay cannot pin handler goroutines.
func NewRelay(endpoint string, log *slog.Logger, client *http.Client) *Relay {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Relay{log: log, endpoint: endpoint, client: client, validate: v}
}

func (r *Relay) Validate(req types.ContactRequest) error {
	req = normalize(req)
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

// Submit validates req and forwards it. Validation problems come back as
// *ValidationError; relay failures wrap ErrRelayRejected or the transport
// error.
func (r *Relay) Submit(ctx context.Context, req types.ContactRequest) error {
	if err := r.Validate(req); err != nil {
		return err
	}
	req = normalize(req)

	b, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode contact submission: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	res, err := r.client.Do(hreq)
	if err != nil {
		return fmt.Errorf("form relay: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		r.log.WarnContext(ctx, "form relay rejected submission", "status", res.StatusCode, "body", string(body))
		return fmt.Errorf("%w: status %d", ErrRelayRejected, res.StatusCode)
	}
	_, _ = io.Copy(io.Discard, res.Body)

	r.log.InfoContext(ctx, "contact submission forwarded", "subject", req.Subject)
	return nil
}

func normalize(req types.ContactRequest) types.ContactRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
