package file

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldResume       = "resume"
	fieldCertificates = "certificates"
)

var resumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

var certificateExtensions = map[string]bool{".pdf": true, ".png": true, ".jpg": true, ".jpeg": true}

type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type CertificateInput struct {
	Name   string `json:"name" validate:"required"`
	Issuer string `json:"issuer"`
	// File is optional; a certificate may be listed without a stored copy.
	File *UploadInput `json:"-"`
}

// Service stores a student's résumé and certificates. Uploaded objects are
// never overwritten: application snapshots keep pointing at the key they captured.
type Service interface {
	UploadResume(ctx context.Context, studentID string, in UploadInput) (*domain.ResumeFile, error)
	ResumeURL(ctx context.Context, studentID string) (string, error)
	AddCertificate(ctx context.Context, studentID string, in CertificateInput) (*domain.Certificate, error)
	RemoveCertificate(ctx context.Context, studentID, certificateID string) error
}

type studentStore interface {
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	Update(ctx context.Context, studentID string, updates map[string]interface{}) error
}

type blobStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	students studentStore
	blobs    blobStore
	maxBytes int64
	urlTTL   time.Duration
	now      func() time.Time
}

type ServiceDeps struct {
	StudentRepo    studentStore
	Blobs          blobStore
	MaxUploadBytes int64
	URLTTL         time.Duration
	Now            func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &service{
		students: deps.StudentRepo,
		blobs:    deps.Blobs,
		maxBytes: deps.MaxUploadBytes,
		urlTTL:   ttl,
		now:      now,
	}
}

func (s *service) UploadResume(ctx context.Context, studentID string, in UploadInput) (*domain.ResumeFile, error) {
	if err := s.checkUpload(in, resumeExtensions); err != nil {
		return nil, err
	}
	st, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	version := 1
	if st.Resume != nil {
		version = st.Resume.Version + 1
	}
	safeName := sanitizeFilename(in.Filename)
	key := fmt.Sprintf("resumes/%s/v%d-%s", studentID, version, safeName)
	if _, err := s.blobs.Upload(ctx, key, in.Reader, in.ContentType); err != nil {
		return nil, err
	}
	resume := &domain.ResumeFile{
		URL:          key,
		OriginalName: safeName,
		ContentType:  in.ContentType,
		Version:      version,
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.students.Update(ctx, studentID, map[string]interface{}{fieldResume: resume}); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	return resume, nil
}

func (s *service) ResumeURL(ctx context.Context, studentID string) (string, error) {
	st, err := s.students.Get(ctx, studentID)
	if err != nil {
		return "", err
	}
	if !st.HasResume() {
		return "", domain.ErrNoResume
	}
	return s.blobs.PresignedURL(ctx, st.Resume.URL, s.urlTTL)
}

func (s *service) AddCertificate(ctx context.Context, studentID string, in CertificateInput) (*domain.Certificate, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("certificate name is required: %w", domain.ErrBadRequest)
	}
	if in.File != nil {
		if err := s.checkUpload(*in.File, certificateExtensions); err != nil {
			return nil, err
		}
	}
	st, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	cert := domain.Certificate{
		CertificateID: id.New(),
		Name:          strings.TrimSpace(in.Name),
		Issuer:        in.Issuer,
		UploadedAt:    s.now().UTC(),
	}
	if in.File != nil {
		key := fmt.Sprintf("certificates/%s/%s-%s", studentID, cert.CertificateID, sanitizeFilename(in.File.Filename))
		if _, err := s.blobs.Upload(ctx, key, in.File.Reader, in.File.ContentType); err != nil {
			return nil, err
		}
		cert.URL = key
	}
	certs := append(append([]domain.Certificate{}, st.Certificates...), cert)
	if err := s.students.Update(ctx, studentID, map[string]interface{}{fieldCertificates: certs}); err != nil {
		if cert.URL != "" {
			s.discard(ctx, cert.URL)
		}
		return nil, err
	}
	return &cert, nil
}

// RemoveCertificate drops the certificate from the profile. The stored object
// stays because submitted applications may reference it.
func (s *service) RemoveCertificate(ctx context.Context, studentID, certificateID string) error {
	st, err := s.students.Get(ctx, studentID)
	if err != nil {
		return err
	}
	kept := make([]domain.Certificate, 0, len(st.Certificates))
	for _, c := range st.Certificates {
		if c.CertificateID != certificateID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(st.Certificates) {
		return fmt.Errorf("certificate not found: %w", domain.ErrNotFound)
	}
	return s.students.Update(ctx, studentID, map[string]interface{}{fieldCertificates: kept})
}

func (s *service) checkUpload(in UploadInput, allowed map[string]bool) error {
	if in.Reader == nil || in.Filename == "" {
		return fmt.Errorf("file is required: %w", domain.ErrBadRequest)
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return fmt.Errorf("file exceeds %d bytes: %w", s.maxBytes, domain.ErrBadRequest)
	}
	ext := strings.ToLower(path.Ext(in.Filename))
	if !allowed[ext] {
		return fmt.Errorf("file type %q is not accepted: %w", ext, domain.ErrBadRequest)
	}
	return nil
}

// discard removes an object whose profile update failed.
func (s *service) discard(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		slog.Warn("could not remove orphaned upload", "key", key, "err", err)
	}
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." && result != ".." {
		return result
	}
	return "_"
}
