package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/varsilias/portfolio-relay/internal/buildinfo"
	"github.com/varsilias/portfolio-relay/internal/chat"
	"github.com/varsilias/portfolio-relay/internal/contact"
	"github.com/varsilias/portfolio-relay/internal/profile"
	"github.com/varsilias/portfolio-relay/pkg/types"
	"github.com/varsilias/portfolio-relay/pkg/utils"
)

// ChatReplier answers one chat turn. *chat.Relay implements it.
type ChatReplier interface {
	Reply(ctx context.Context, req types.ChatRequest) (types.ChatResponse, error)
}

// ContactSubmitter forwards a contact form. *contact.Relay implements it.
type ContactSubmitter interface {
	Submit(ctx context.Context, req types.ContactRequest) error
}

type Handlers struct {
	log     *slog.Logger
	chat    ChatReplier
	contact ContactSubmitter
	profile *profile.Profile
	schema  *schemaValidator
}

func NewHandlers(log *slog.Logger, relay ChatReplier, contactRelay ContactSubmitter, p *profile.Profile) (*Handlers, error) {
	s, err := newChatSchema()
	if err != nil {
		return nil, err
	}
	return &Handlers{
		log:     log,
		chat:    relay,
		contact: contactRelay,
		profile: p,
		schema:  s,
	}, nil
}

// Health is a basic liveness endpoint.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"status":    true,
		"message":   "portfolio-relay",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	utils.JSON(w, http.StatusOK, res)
}

func (h *Handlers) Version(w http.ResponseWriter, r *http.Request) {
	res := map[string]any{
		"version":  buildinfo.Version,
		"commit":   buildinfo.Commit,
		"built_at": buildinfo.BuiltAt,
	}

	utils.JSON(w, http.StatusOK, res)
}

// Chat POST /api/chat { message, history }
//
// Bad payloads are answered like upstream failures: 200 with the apology,
// so the widget always has an assistant turn to show. Only a missing
// credential produces a non-200.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadBody(w, r, utils.MaxBodyBytes)
	if err == nil {
		err = h.schema.check(body)
	}
	var req types.ChatRequest
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		h.log.WarnContext(r.Context(), "chat payload rejected", "err", err)
		utils.JSON(w, http.StatusOK, types.ChatResponse{Message: chat.ConnectionApology})
		return
	}

	res, err := h.chat.Reply(r.Context(), req)
	if errors.Is(err, chat.ErrMissingCredential) {
		utils.JSON(w, http.StatusInternalServerError, types.ChatResponse{Message: chat.MissingCredentialMessage})
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "chat reply", "err", err)
		utils.JSON(w, http.StatusOK, types.ChatResponse{Message: chat.ConnectionApology})
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

// Profile GET /api/profile
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.profile)
}

// Contact POST /api/contact { name, email, mobile?, subject, message }
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var req types.ContactRequest
	if err := utils.DecodeJSON(w, r, utils.MaxBodyBytes, &req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}

	err := h.contact.Submit(r.Context(), req)
	var verr *contact.ValidationError
	switch {
	case err == nil:
		utils.JSON(w, http.StatusOK, map[string]any{"ok": true})
	case errors.As(err, &verr):
		utils.JSON(w, http.StatusBadRequest, map[string]any{"error": "invalid submission", "fields": verr.Fields})
	default:
		h.log.ErrorContext(r.Context(), "contact relay", "err", err)
		utils.JSON(w, http.StatusBadGateway, map[string]any{"error": "could not deliver your message, please try again later"})
	}
}
