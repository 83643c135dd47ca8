package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	fileapp "github.com/internhub-api/internal/application/file"
)

const multipartMemory = 8 << 20

// FileHandler handles the student's résumé and certificate uploads.
type FileHandler struct {
	svc      fileapp.Service
	maxBytes int64
	urlTTL   int
}

func NewFileHandler(svc fileapp.Service, maxBytes int64, urlTTLSeconds int) *FileHandler {
	return &FileHandler{svc: svc, maxBytes: maxBytes, urlTTL: urlTTLSeconds}
}

func (h *FileHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	f, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing resume field")
		return
	}
	defer f.Close()

	resume, err := h.svc.UploadResume(r.Context(), actor.ID, uploadInput(f, header))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resume)
}

func (h *FileHandler) ResumeURL(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	url, err := h.svc.ResumeURL(r.Context(), actor.ID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, URLEnvelope{URL: url, ExpiresIn: h.urlTTL})
}

// AddCertificate takes a multipart form with name, issuer and an optional file.
func (h *FileHandler) AddCertificate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	in := fileapp.CertificateInput{
		Name:   r.FormValue("name"),
		Issuer: r.FormValue("issuer"),
	}
	f, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer f.Close()
		up := uploadInput(f, header)
		in.File = &up
	case err != http.ErrMissingFile:
		writeError(w, http.StatusBadRequest, "invalid file field")
		return
	}
	cert, err := h.svc.AddCertificate(r.Context(), actor.ID, in)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cert)
}

func (h *FileHandler) RemoveCertificate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.svc.RemoveCertificate(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "certificate removed"})
}

func (h *FileHandler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if h.maxBytes > 0 {
		// room for the other form fields on top of the file itself
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return false
	}
	return true
}

func uploadInput(f multipart.File, header *multipart.FileHeader) fileapp.UploadInput {
	return fileapp.UploadInput{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
}
