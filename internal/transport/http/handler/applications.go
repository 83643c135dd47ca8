package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/internhub-api/internal/application/lifecycle"
	"github.com/internhub-api/internal/domain"
)

// ApplicationHandler exposes the application lifecycle to students and recruiters.
type ApplicationHandler struct {
	svc    lifecycle.Service
	urlTTL int
}

func NewApplicationHandler(svc lifecycle.Service, urlTTLSeconds int) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, urlTTL: urlTTLSeconds}
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.SubmitApplicationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.Submit(r.Context(), actor.ID, req.InternshipID, req.CoverLetter)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListForStudent(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.Withdraw(r.Context(), chi.URLParam(r, "id"), actor.ID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "application withdrawn"})
}

func (h *ApplicationHandler) Received(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListForInternshipOwner(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ApplicationHandler) ForInternship(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListForInternship(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ApplicationHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.ChangeStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := h.svc.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status, actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ResumeURL signs the résumé captured when the application was submitted.
func (h *ApplicationHandler) ResumeURL(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	url, err := h.svc.SubmittedResumeURL(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, URLEnvelope{URL: url, ExpiresIn: h.urlTTL})
}
