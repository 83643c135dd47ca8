package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/internhub-api/internal/application/internship"
	"github.com/internhub-api/internal/domain"
)

// InternshipHandler serves the public catalog and recruiter posting management.
type InternshipHandler struct {
	svc internship.Service
}

func NewInternshipHandler(svc internship.Service) *InternshipHandler {
	return &InternshipHandler{svc: svc}
}

func (h *InternshipHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.ListPublic(r.Context(), domain.InternshipFilter{
		Category: domain.Category(q.Get("category")),
		Search:   q.Get("search"),
		WorkType: q.Get("work_type"),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *InternshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	i, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *InternshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in domain.InternshipInput
	if !decodeBody(w, r, &in) {
		return
	}
	i, err := h.svc.Create(r.Context(), actor.ID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, i)
}

func (h *InternshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var in domain.InternshipInput
	if !decodeBody(w, r, &in) {
		return
	}
	i, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), in, actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

func (h *InternshipHandler) Close(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	i, err := h.svc.Close(r.Context(), chi.URLParam(r, "id"), actor)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, i)
}

// Delete removes the posting and every application made to it.
func (h *InternshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "internship deleted"})
}

func (h *InternshipHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	list, err := h.svc.ListByOwner(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
