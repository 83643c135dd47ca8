package handler

import (
	"net/http"

	"github.com/internhub-api/internal/application/user"
	"github.com/internhub-api/internal/domain"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AccountHandler serves registration and the caller's own profile.
type AccountHandler struct {
	svc user.Service
}

func NewAccountHandler(svc user.Service) *AccountHandler { return &AccountHandler{svc: svc} }

func (h *AccountHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := h.svc.RegisterStudent(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (h *AccountHandler) RegisterRecruiter(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRecruiterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rc, err := h.svc.RegisterRecruiter(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

func (h *AccountHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	st, err := h.svc.GetStudent(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AccountHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	st, err := h.svc.UpdateStudent(r.Context(), actor.ID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AccountHandler) GetRecruiter(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	rc, err := h.svc.GetRecruiter(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (h *AccountHandler) UpdateRecruiter(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req domain.UpdateRecruiterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rc, err := h.svc.UpdateRecruiter(r.Context(), actor.ID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.svc.ChangePassword(r.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "password updated"})
}
