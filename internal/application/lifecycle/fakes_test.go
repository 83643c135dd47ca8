package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

// In-memory stores with the same error contracts as the dynamo repos.

type memStudents struct {
	mu   sync.Mutex
	rows map[string]*domain.Student
}

func (m *memStudents) Get(_ context.Context, studentID string) (*domain.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[studentID]
	if !ok {
		return nil, fmt.Errorf("student not found: %w", domain.ErrNotFound)
	}
	cp := *s
	if s.Resume != nil {
		r := *s.Resume
		cp.Resume = &r
	}
	cp.Certificates = append([]domain.Certificate(nil), s.Certificates...)
	return &cp, nil
}

type memRecruiters struct{ rows map[string]*domain.Recruiter }

func (m *memRecruiters) Get(_ context.Context, recruiterID string) (*domain.Recruiter, error) {
	r, ok := m.rows[recruiterID]
	if !ok {
		return nil, fmt.Errorf("recruiter not found: %w", domain.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

type memInternships struct{ rows map[string]*domain.Internship }

func (m *memInternships) Get(_ context.Context, internshipID string) (*domain.Internship, error) {
	i, ok := m.rows[internshipID]
	if !ok {
		return nil, fmt.Errorf("internship not found: %w", domain.ErrNotFound)
	}
	cp := *i
	return &cp, nil
}

func (m *memInternships) ListByOwner(_ context.Context, recruiterID string) ([]domain.Internship, error) {
	var out []domain.Internship
	for _, i := range m.rows {
		if i.PostedBy == recruiterID {
			out = append(out, *i)
		}
	}
	return out, nil
}

type memApplications struct {
	mu   sync.Mutex
	rows map[[2]string]*domain.Application
}

func newMemApplications() *memApplications {
	return &memApplications{rows: map[[2]string]*domain.Application{}}
}

func (m *memApplications) Create(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{a.StudentID, a.InternshipID}
	if _, ok := m.rows[k]; ok {
		return domain.ErrDuplicateApplication
	}
	cp := *a
	m.rows[k] = &cp
	return nil
}

func (m *memApplications) Exists(_ context.Context, studentID, internshipID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[[2]string{studentID, internshipID}]
	return ok, nil
}

func (m *memApplications) GetByID(_ context.Context, applicationID string) (*domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.ApplicationID == applicationID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("application not found: %w", domain.ErrNotFound)
}

func (m *memApplications) UpdateStatus(_ context.Context, a *domain.Application, from, to domain.ApplicationStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[[2]string{a.StudentID, a.InternshipID}]
	if !ok || row.Status != from {
		return fmt.Errorf("application status changed concurrently: %w", domain.ErrConflict)
	}
	row.Status = to
	row.UpdatedAt = at
	return nil
}

func (m *memApplications) Delete(_ context.Context, a *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := [2]string{a.StudentID, a.InternshipID}
	row, ok := m.rows[k]
	if !ok || row.Status != a.Status {
		return fmt.Errorf("application changed concurrently: %w", domain.ErrConflict)
	}
	delete(m.rows, k)
	return nil
}

func (m *memApplications) ListByStudent(_ context.Context, studentID string) ([]domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, a := range m.rows {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memApplications) ListByInternship(_ context.Context, internshipID string) ([]domain.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Application
	for _, a := range m.rows {
		if a.InternshipID == internshipID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// memNotifications backs the real notification service in scenario tests.
type memNotifications struct {
	mu   sync.Mutex
	rows []domain.Notification
	fail bool
}

func (m *memNotifications) Put(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return fmt.Errorf("put notification: %w", domain.ErrStorage)
	}
	m.rows = append(m.rows, *n)
	return nil
}

func (m *memNotifications) ListForRecipient(_ context.Context, rc domain.Recipient, limit int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if m.rows[i].BelongsTo(rc) {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memNotifications) CountUnread(_ context.Context, rc domain.Recipient) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, row := range m.rows {
		if row.BelongsTo(rc) && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memNotifications) Mark(context.Context, string, domain.Recipient, map[string]interface{}) error {
	return nil
}
func (m *memNotifications) MarkAllRead(context.Context, domain.Recipient) (int, error) { return 0, nil }
func (m *memNotifications) Delete(context.Context, string, domain.Recipient) error     { return nil }
func (m *memNotifications) DeleteAll(context.Context, domain.Recipient) (int, error)   { return 0, nil }

func (m *memNotifications) forRecipient(rc domain.Recipient) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, row := range m.rows {
		if row.BelongsTo(rc) {
			out = append(out, row)
		}
	}
	return out
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, in notification.NotifyInput) *domain.Notification {
	args := m.Called(ctx, in)
	n, _ := args.Get(0).(*domain.Notification)
	return n
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, e domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
