package internship

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
	"github.com/jinzhu/now"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle        = "title"
	fieldCompanyName  = "company_name"
	fieldLocation     = "location"
	fieldWorkType     = "work_type"
	fieldCategory     = "category"
	fieldStipend      = "stipend"
	fieldDuration     = "duration"
	fieldDescription  = "description"
	fieldSkills       = "skills_required"
	fieldRequirements = "requirements"
	fieldPerks        = "perks"
	fieldDeadline     = "deadline"
	fieldStatus       = "status"
	fieldReminderSent = "reminder_sent"
)

const deadlineLayout = "2006-01-02"

type Service interface {
	Create(ctx context.Context, recruiterID string, in domain.InternshipInput) (*domain.Internship, error)
	Update(ctx context.Context, internshipID string, in domain.InternshipInput, actor domain.Actor) (*domain.Internship, error)
	Close(ctx context.Context, internshipID string, actor domain.Actor) (*domain.Internship, error)
	// Delete removes a posting and every application made to it.
	Delete(ctx context.Context, internshipID string, actor domain.Actor) error
	Get(ctx context.Context, internshipID string) (*domain.Internship, error)
	ListPublic(ctx context.Context, f domain.InternshipFilter) ([]domain.Internship, error)
	ListByOwner(ctx context.Context, recruiterID string) ([]domain.Internship, error)
}

type internshipStore interface {
	Create(ctx context.Context, i *domain.Internship) error
	Get(ctx context.Context, internshipID string) (*domain.Internship, error)
	Update(ctx context.Context, internshipID string, updates map[string]interface{}) error
	Delete(ctx context.Context, internshipID string) error
	List(ctx context.Context, status domain.InternshipStatus) ([]domain.Internship, error)
	ListByOwner(ctx context.Context, recruiterID string) ([]domain.Internship, error)
}

type recruiterStore interface {
	Get(ctx context.Context, recruiterID string) (*domain.Recruiter, error)
}

type applicationStore interface {
	DeleteByInternship(ctx context.Context, internshipID string) (int, error)
}

type notifier interface {
	Notify(ctx context.Context, in notification.NotifyInput) *domain.Notification
}

type service struct {
	repo         internshipStore
	recruiters   recruiterStore
	applications applicationStore
	notifier     notifier
	now          func() time.Time
}

type ServiceDeps struct {
	InternshipRepo  internshipStore
	RecruiterRepo   recruiterStore
	ApplicationRepo applicationStore
	Notifier        notifier
	Now             func() time.Time
}

func NewService(deps ServiceDeps) Service {
	clock := deps.Now
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:         deps.InternshipRepo,
		recruiters:   deps.RecruiterRepo,
		applications: deps.ApplicationRepo,
		notifier:     deps.Notifier,
		now:          clock,
	}
}

func (s *service) Create(ctx context.Context, recruiterID string, in domain.InternshipInput) (*domain.Internship, error) {
	owner, err := s.recruiters.Get(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.InternshipActive
	}
	company := in.CompanyName
	if company == "" {
		company = owner.CompanyName
	}
	t := s.now().UTC()
	i := &domain.Internship{
		InternshipID: id.New(),
		Title:        in.Title,
		CompanyName:  company,
		Location:     in.Location,
		WorkType:     in.WorkType,
		Category:     in.Category,
		Stipend:      in.Stipend,
		Duration:     in.Duration,
		Description:  in.Description,
		Skills:       nonNil(in.Skills),
		Requirements: nonNil(in.Requirements),
		Perks:        nonNil(in.Perks),
		PostedBy:     recruiterID,
		Deadline:     deadline,
		Status:       status,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	if i.Status == domain.InternshipActive {
		s.notifyPublished(ctx, i)
	}
	i.Owner = owner
	return i, nil
}

func (s *service) Update(ctx context.Context, internshipID string, in domain.InternshipInput, actor domain.Actor) (*domain.Internship, error) {
	current, err := s.owned(ctx, internshipID, actor)
	if err != nil {
		return nil, err
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		fieldTitle:        in.Title,
		fieldLocation:     in.Location,
		fieldWorkType:     in.WorkType,
		fieldCategory:     in.Category,
		fieldStipend:      in.Stipend,
		fieldDuration:     in.Duration,
		fieldDescription:  in.Description,
		fieldSkills:       nonNil(in.Skills),
		fieldRequirements: nonNil(in.Requirements),
		fieldPerks:        nonNil(in.Perks),
	}
	if in.CompanyName != "" {
		updates[fieldCompanyName] = in.CompanyName
	}
	if in.Status != "" {
		updates[fieldStatus] = in.Status
	}
	if deadline != nil {
		updates[fieldDeadline] = *deadline
		if current.Deadline == nil || !current.Deadline.Equal(*deadline) {
			updates[fieldReminderSent] = false
		}
	}
	if err := s.repo.Update(ctx, internshipID, updates); err != nil {
		return nil, err
	}
	updated, err := s.repo.Get(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.InternshipActive && updated.Status == domain.InternshipActive {
		s.notifyPublished(ctx, updated)
	}
	return updated, nil
}

func (s *service) Close(ctx context.Context, internshipID string, actor domain.Actor) (*domain.Internship, error) {
	if _, err := s.owned(ctx, internshipID, actor); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, internshipID, map[string]interface{}{fieldStatus: domain.InternshipClosed}); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, internshipID)
}

func (s *service) Delete(ctx context.Context, internshipID string, actor domain.Actor) error {
	if _, err := s.owned(ctx, internshipID, actor); err != nil {
		return err
	}
	// Applications go first so a failed cascade leaves the posting in place
	// and the delete can be retried.
	n, err := s.applications.DeleteByInternship(ctx, internshipID)
	if err != nil {
		return fmt.Errorf("delete applications of %s: %w", internshipID, err)
	}
	if err := s.repo.Delete(ctx, internshipID); err != nil {
		return err
	}
	slog.Info("internship deleted", "internship_id", internshipID, "by", actor.ID, "applications_removed", n)
	return nil
}

func (s *service) Get(ctx context.Context, internshipID string) (*domain.Internship, error) {
	i, err := s.repo.Get(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	owner, err := s.recruiters.Get(ctx, i.PostedBy)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		i.Owner = owner
		i.CompanyName = owner.CompanyName
	}
	return i, nil
}

// ListPublic returns active postings whose deadline has not passed, newest first.
func (s *service) ListPublic(ctx context.Context, f domain.InternshipFilter) ([]domain.Internship, error) {
	list, err := s.repo.List(ctx, domain.InternshipActive)
	if err != nil {
		return nil, err
	}
	t := s.now().UTC()
	out := make([]domain.Internship, 0, len(list))
	for _, i := range list {
		if i.Open(t) && matches(&i, f) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (s *service) ListByOwner(ctx context.Context, recruiterID string) ([]domain.Internship, error) {
	list, err := s.repo.ListByOwner(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Internship{}
	}
	return list, nil
}

// owned loads a posting the actor may modify: its recruiter, or any admin.
func (s *service) owned(ctx context.Context, internshipID string, actor domain.Actor) (*domain.Internship, error) {
	i, err := s.repo.Get(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !(actor.Role == domain.RoleRecruiter && i.PostedBy == actor.ID) {
		return nil, fmt.Errorf("only the posting owner can modify it: %w", domain.ErrForbidden)
	}
	return i, nil
}

func (s *service) notifyPublished(ctx context.Context, i *domain.Internship) {
	s.notifier.Notify(ctx, notification.NotifyInput{
		Recipient: domain.Recipient{Kind: domain.RecipientRecruiter, ID: i.PostedBy},
		Type:      domain.NotifNewInternship,
		Title:     "Internship Published",
		Message:   fmt.Sprintf("%s is now live and accepting applications", i.Title),
		Data:      map[string]string{"internship_id": i.InternshipID},
	})
}

func matches(i *domain.Internship, f domain.InternshipFilter) bool {
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	if f.WorkType != "" && !strings.EqualFold(i.WorkType, f.WorkType) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{i.Title, i.CompanyName, i.Location, i.Description} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, sk := range i.Skills {
		if strings.Contains(strings.ToLower(sk.Name), q) {
			return true
		}
	}
	return false
}

// parseDeadline reads a YYYY-MM-DD date; applications stay open until the end of that day (UTC).
func parseDeadline(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	d, err := time.Parse(deadlineLayout, v)
	if err != nil {
		return nil, fmt.Errorf("deadline must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	end := now.With(d.UTC()).EndOfDay()
	return &end, nil
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
