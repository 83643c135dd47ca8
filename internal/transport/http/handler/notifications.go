package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/internhub-api/internal/application/notification"
)

const defaultNotificationLimit = 50

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	limit := defaultNotificationLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	page, err := h.svc.ListForRecipient(r.Context(), rc, limit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(r.Context(), chi.URLParam(r, "id"), rc); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification marked as read"})
}

func (h *NotificationHandler) MarkClicked(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.MarkClicked(r.Context(), chi.URLParam(r, "id"), rc); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification marked as clicked"})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	n, err := h.svc.MarkAllRead(r.Context(), rc)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Message: "notifications marked as read", Count: n})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOne(r.Context(), chi.URLParam(r, "id"), rc); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "notification deleted"})
}

func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	rc, ok := recipientFrom(w, r)
	if !ok {
		return
	}
	n, err := h.svc.DeleteAll(r.Context(), rc)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Message: "notifications deleted", Count: n})
}
