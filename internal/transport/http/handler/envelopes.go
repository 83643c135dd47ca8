package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/validate"
	"github.com/internhub-api/internal/transport/http/middleware"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// AuthEnvelope wraps login responses.
type AuthEnvelope struct {
	Bearer    string    `json:"Bearer"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Account   any       `json:"account"`
}

// CountEnvelope answers bulk operations with how many records they touched.
type CountEnvelope struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

type URLEnvelope struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg, ErrorCode: status})
}

// decodeBody reads a JSON body into dst and runs its validate tags.
// It writes the error response itself and reports whether to continue.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func actorFrom(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return actor, ok
}

func recipientFrom(w http.ResponseWriter, r *http.Request) (domain.Recipient, bool) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return domain.Recipient{}, false
	}
	rc, err := domain.RecipientFromRole(actor.Role, actor.ID)
	if err != nil {
		httpError(w, err)
		return domain.Recipient{}, false
	}
	return rc, true
}
