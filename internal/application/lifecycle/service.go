package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
)

// statusApplied is the older name for pending still found on some records.
const statusApplied domain.ApplicationStatus = "applied"

// transitions lists the allowed target statuses per current status.
// accepted and rejected are terminal; pending is never a target.
var transitions = map[domain.ApplicationStatus][]domain.ApplicationStatus{
	domain.StatusPending:     {domain.StatusShortlisted, domain.StatusRejected, domain.StatusAccepted},
	domain.StatusShortlisted: {domain.StatusAccepted, domain.StatusRejected},
}

func canTransition(from, to domain.ApplicationStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func knownStatus(s domain.ApplicationStatus) bool {
	for _, v := range domain.ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Service interface {
	Submit(ctx context.Context, studentID, internshipID, coverLetter string) (*domain.Application, error)
	ChangeStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, actor domain.Actor) (*domain.Application, error)
	ListForStudent(ctx context.Context, studentID string) ([]domain.StudentApplication, error)
	ListForInternshipOwner(ctx context.Context, recruiterID string) ([]domain.ReceivedApplication, error)
	ListForInternship(ctx context.Context, internshipID string, actor domain.Actor) ([]domain.ReceivedApplication, error)
	SubmittedResumeURL(ctx context.Context, applicationID string, actor domain.Actor) (string, error)
	Withdraw(ctx context.Context, applicationID, studentID string) error
}

type studentStore interface {
	Get(ctx context.Context, studentID string) (*domain.Student, error)
}

type recruiterStore interface {
	Get(ctx context.Context, recruiterID string) (*domain.Recruiter, error)
}

type internshipStore interface {
	Get(ctx context.Context, internshipID string) (*domain.Internship, error)
	ListByOwner(ctx context.Context, recruiterID string) ([]domain.Internship, error)
}

type applicationStore interface {
	Create(ctx context.Context, a *domain.Application) error
	Exists(ctx context.Context, studentID, internshipID string) (bool, error)
	GetByID(ctx context.Context, applicationID string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, a *domain.Application, from, to domain.ApplicationStatus, at time.Time) error
	Delete(ctx context.Context, a *domain.Application) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Application, error)
	ListByInternship(ctx context.Context, internshipID string) ([]domain.Application, error)
}

type notifier interface {
	Notify(ctx context.Context, in notification.NotifyInput) *domain.Notification
}

type eventPublisher interface {
	Publish(ctx context.Context, e domain.Event) error
}

type blobSigner interface {
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type service struct {
	students     studentStore
	recruiters   recruiterStore
	internships  internshipStore
	applications applicationStore
	notifier     notifier
	events       eventPublisher
	blobs        blobSigner
	resumeURLTTL time.Duration
	now          func() time.Time
}

type ServiceDeps struct {
	StudentRepo     studentStore
	RecruiterRepo   recruiterStore
	InternshipRepo  internshipStore
	ApplicationRepo applicationStore
	Notifier        notifier
	Events          eventPublisher // optional
	Blobs           blobSigner     // optional; SubmittedResumeURL fails without it
	ResumeURLTTL    time.Duration
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	ttl := deps.ResumeURLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &service{
		students:     deps.StudentRepo,
		recruiters:   deps.RecruiterRepo,
		internships:  deps.InternshipRepo,
		applications: deps.ApplicationRepo,
		notifier:     deps.Notifier,
		events:       deps.Events,
		blobs:        deps.Blobs,
		resumeURLTTL: ttl,
		now:          now,
	}
}

func (s *service) Submit(ctx context.Context, studentID, internshipID, coverLetter string) (*domain.Application, error) {
	if studentID == "" || internshipID == "" {
		return nil, fmt.Errorf("student and internship are required: %w", domain.ErrInvalidRequest)
	}
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.HasResume() {
		return nil, domain.ErrNoResume
	}
	internship, err := s.internships.Get(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if internship.Owner, err = s.owner(ctx, internship.PostedBy); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if internship.DeadlinePassed(now) {
		return nil, domain.ErrDeadlinePassed
	}
	if internship.Status != domain.InternshipActive {
		return nil, domain.ErrInternshipNotOpen
	}
	exists, err := s.applications.Exists(ctx, studentID, internshipID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateApplication
	}

	app := &domain.Application{
		ApplicationID:         id.New(),
		StudentID:             studentID,
		InternshipID:          internshipID,
		Status:                domain.StatusPending,
		CoverLetter:           coverLetter,
		SubmittedResume:       snapshotResume(student.Resume),
		SubmittedCertificates: snapshotCertificates(student.Certificates),
		ResumeVersion:         student.Resume.Version,
		AppliedAt:             now,
		UpdatedAt:             now,
	}
	// The store rejects a second row for the pair even if Exists raced.
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	if internship.Owner == nil {
		slog.Warn("application owner missing, recruiter not notified", "internship_id", internship.InternshipID, "posted_by", internship.PostedBy)
	} else {
		s.notifyRecruiter(ctx, app, student, internship)
	}
	s.publish(ctx, domain.EventApplicationCreated, map[string]string{
		"application_id": app.ApplicationID,
		"internship_id":  app.InternshipID,
		"student_id":     app.StudentID,
		"recruiter_id":   internship.PostedBy,
	})
	return app, nil
}

func (s *service) notifyRecruiter(ctx context.Context, app *domain.Application, student *domain.Student, internship *domain.Internship) {
	s.notifier.Notify(ctx, notification.NotifyInput{
		Recipient: domain.Recipient{Kind: domain.RecipientRecruiter, ID: internship.Owner.RecruiterID},
		Type:      domain.NotifApplicationReceived,
		Title:     "New Application Received",
		Message:   fmt.Sprintf("%s applied for %s", student.Name, internship.Title),
		Data: map[string]string{
			"application_id": app.ApplicationID,
			"internship_id":  internship.InternshipID,
			"student_id":     student.StudentID,
		},
	})
}

func (s *service) ChangeStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, actor domain.Actor) (*domain.Application, error) {
	if applicationID == "" || !knownStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, domain.ErrInvalidRequest)
	}
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	internship, err := s.internships.Get(ctx, app.InternshipID)
	switch {
	case errors.Is(err, domain.ErrNotFound) && actor.IsAdmin():
		internship = nil
	case err != nil:
		return nil, err
	case !actor.IsAdmin() && !(actor.Role == domain.RoleRecruiter && internship.PostedBy == actor.ID):
		return nil, fmt.Errorf("only the internship owner can change this application: %w", domain.ErrForbidden)
	}
	if !canTransition(app.Status, status) {
		return nil, fmt.Errorf("cannot move application from %s to %s: %w", app.Status, status, domain.ErrInvalidTransition)
	}
	from, at := app.Status, s.now().UTC()
	if err := s.applications.UpdateStatus(ctx, app, from, status, at); err != nil {
		return nil, err
	}
	app.Status = status
	app.UpdatedAt = at

	title := "an internship"
	if internship != nil {
		title = internship.Title
	}
	s.notifier.Notify(ctx, notification.NotifyInput{
		Recipient: domain.Recipient{Kind: domain.RecipientStudent, ID: app.StudentID},
		Type:      domain.NotifApplicationStatusChange,
		Title:     "Application Status Updated",
		Message:   fmt.Sprintf("Your application for %s has been %s", title, status),
		Data: map[string]string{
			"application_id": app.ApplicationID,
			"internship_id":  app.InternshipID,
			"status":         string(status),
		},
	})
	s.publish(ctx, domain.EventApplicationStatusChanged, map[string]string{
		"application_id": app.ApplicationID,
		"internship_id":  app.InternshipID,
		"student_id":     app.StudentID,
		"from":           string(from),
		"to":             string(status),
	})
	return app, nil
}

func (s *service) ListForStudent(ctx context.Context, studentID string) ([]domain.StudentApplication, error) {
	apps, err := s.applications.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	cache := map[string]*domain.Internship{}
	out := make([]domain.StudentApplication, 0, len(apps))
	for _, a := range apps {
		internship, err := s.cachedInternship(ctx, cache, a.InternshipID)
		if err != nil {
			return nil, err
		}
		item := domain.StudentApplication{Application: a}
		if internship != nil {
			item.Internship = summarizeInternship(internship)
			item.Expired = internship.DeadlinePassed(now)
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (s *service) ListForInternshipOwner(ctx context.Context, recruiterID string) ([]domain.ReceivedApplication, error) {
	internships, err := s.internships.ListByOwner(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	applicants := map[string]*domain.ApplicantSummary{}
	var out []domain.ReceivedApplication
	for i := range internships {
		items, err := s.received(ctx, &internships[i], applicants)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	if out == nil {
		out = []domain.ReceivedApplication{}
	}
	return out, nil
}

func (s *service) ListForInternship(ctx context.Context, internshipID string, actor domain.Actor) ([]domain.ReceivedApplication, error) {
	internship, err := s.internships.Get(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && internship.PostedBy != actor.ID {
		return nil, fmt.Errorf("only the internship owner can view its applicants: %w", domain.ErrForbidden)
	}
	out, err := s.received(ctx, internship, map[string]*domain.ApplicantSummary{})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.ReceivedApplication{}
	}
	return out, nil
}

func (s *service) SubmittedResumeURL(ctx context.Context, applicationID string, actor domain.Actor) (string, error) {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return "", err
	}
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleStudent:
		if app.StudentID != actor.ID {
			return "", fmt.Errorf("application not found: %w", domain.ErrNotFound)
		}
	default:
		internship, err := s.internships.Get(ctx, app.InternshipID)
		if err != nil {
			return "", err
		}
		if internship.PostedBy != actor.ID {
			return "", fmt.Errorf("only the internship owner can view this résumé: %w", domain.ErrForbidden)
		}
	}
	if app.SubmittedResume.URL == "" {
		return "", fmt.Errorf("application has no résumé: %w", domain.ErrNotFound)
	}
	if s.blobs == nil {
		return "", fmt.Errorf("file storage not configured: %w", domain.ErrStorage)
	}
	return s.blobs.PresignedURL(ctx, app.SubmittedResume.URL, s.resumeURLTTL)
}

func (s *service) Withdraw(ctx context.Context, applicationID, studentID string) error {
	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.StudentID != studentID {
		return fmt.Errorf("application not found: %w", domain.ErrNotFound)
	}
	if app.Status != domain.StatusPending && app.Status != statusApplied {
		return fmt.Errorf("only pending applications can be withdrawn: %w", domain.ErrInvalidTransition)
	}
	return s.applications.Delete(ctx, app)
}

// received builds the recruiter-facing rows for one posting, resolving each
// applicant once per call through cache.
func (s *service) received(ctx context.Context, internship *domain.Internship, cache map[string]*domain.ApplicantSummary) ([]domain.ReceivedApplication, error) {
	apps, err := s.applications.ListByInternship(ctx, internship.InternshipID)
	if err != nil {
		return nil, err
	}
	summary := summarizeInternship(internship)
	out := make([]domain.ReceivedApplication, 0, len(apps))
	for _, a := range apps {
		applicant, ok := cache[a.StudentID]
		if !ok {
			st, err := s.students.Get(ctx, a.StudentID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
			case err != nil:
				return nil, err
			default:
				applicant = &domain.ApplicantSummary{
					StudentID: st.StudentID,
					Name:      st.Name,
					Email:     st.Email,
					Phone:     st.Phone,
					Skills:    st.Skills,
				}
			}
			cache[a.StudentID] = applicant
		}
		out = append(out, domain.ReceivedApplication{Application: a, Internship: summary, Applicant: applicant})
	}
	return out, nil
}

// owner resolves the posting's recruiter; a deleted recruiter yields nil.
func (s *service) owner(ctx context.Context, recruiterID string) (*domain.Recruiter, error) {
	r, err := s.recruiters.Get(ctx, recruiterID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return r, err
}

// cachedInternship returns nil without error when the posting has been deleted.
func (s *service) cachedInternship(ctx context.Context, cache map[string]*domain.Internship, internshipID string) (*domain.Internship, error) {
	if i, ok := cache[internshipID]; ok {
		return i, nil
	}
	i, err := s.internships.Get(ctx, internshipID)
	if errors.Is(err, domain.ErrNotFound) {
		i, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	cache[internshipID] = i
	return i, nil
}

func (s *service) publish(ctx context.Context, name string, payload map[string]string) {
	if s.events == nil {
		return
	}
	e := domain.Event{Name: name, OccurredAt: s.now().UTC(), Payload: payload}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event", "event", name, "err", err)
	}
}

func summarizeInternship(i *domain.Internship) *domain.InternshipSummary {
	return &domain.InternshipSummary{
		InternshipID: i.InternshipID,
		Title:        i.Title,
		CompanyName:  i.CompanyName,
		Location:     i.Location,
		WorkType:     i.WorkType,
		Stipend:      i.Stipend,
		Deadline:     i.Deadline,
		Status:       i.Status,
	}
}

// snapshotResume copies the live résumé field by field.
func snapshotResume(r *domain.ResumeFile) domain.SubmittedResume {
	name := r.OriginalName
	if name == "" {
		name = fileName(r.URL, "resume")
	}
	return domain.SubmittedResume{URL: r.URL, Filename: name, UploadedAt: r.UpdatedAt}
}

// snapshotCertificates copies only certificates that have a stored file.
func snapshotCertificates(certs []domain.Certificate) []domain.SubmittedCertificate {
	out := make([]domain.SubmittedCertificate, 0, len(certs))
	for _, c := range certs {
		if c.URL == "" {
			continue
		}
		name := c.Name
		if name == "" {
			name = "Certificate"
		}
		out = append(out, domain.SubmittedCertificate{
			Name:       name,
			URL:        c.URL,
			Filename:   fileName(c.URL, "certificate"),
			UploadedAt: c.UploadedAt,
		})
	}
	return out
}

// fileName returns the last path segment of url, or fallback when there is none.
func fileName(url, fallback string) string {
	base := path.Base(url)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	return base
}
