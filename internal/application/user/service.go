package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldName         = "name"
	fieldPhone        = "phone"
	fieldLocation     = "location"
	fieldBio          = "bio"
	fieldSkills       = "skills"
	fieldEducation    = "education"
	fieldCompanyName  = "company_name"
	fieldWebsite      = "website"
	fieldDesignation  = "designation"
	fieldPasswordHash = "password_hash"
)

// Service manages student and recruiter accounts and their profiles.
type Service interface {
	RegisterStudent(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error)
	GetStudent(ctx context.Context, studentID string) (*domain.Student, error)
	UpdateStudent(ctx context.Context, studentID string, req domain.UpdateStudentRequest) (*domain.Student, error)
	RegisterRecruiter(ctx context.Context, req domain.CreateRecruiterRequest) (*domain.Recruiter, error)
	GetRecruiter(ctx context.Context, recruiterID string) (*domain.Recruiter, error)
	UpdateRecruiter(ctx context.Context, recruiterID string, req domain.UpdateRecruiterRequest) (*domain.Recruiter, error)
	ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error
}

type studentStore interface {
	Create(ctx context.Context, s *domain.Student) error
	Get(ctx context.Context, studentID string) (*domain.Student, error)
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
	Update(ctx context.Context, studentID string, updates map[string]interface{}) error
}

type recruiterStore interface {
	Create(ctx context.Context, r *domain.Recruiter) error
	Get(ctx context.Context, recruiterID string) (*domain.Recruiter, error)
	GetByEmail(ctx context.Context, email string) (*domain.Recruiter, error)
	Update(ctx context.Context, recruiterID string, updates map[string]interface{}) error
}

type service struct {
	students   studentStore
	recruiters recruiterStore
	now        func() time.Time
}

type ServiceDeps struct {
	StudentRepo   studentStore
	RecruiterRepo recruiterStore
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{students: deps.StudentRepo, recruiters: deps.RecruiterRepo, now: now}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) RegisterStudent(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error) {
	email := NormalizeEmail(req.Email)
	_, err := s.students.GetByEmail(ctx, email)
	if err := emailTaken(err); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	st := &domain.Student{
		StudentID:    id.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Skills:       []string{},
		Education:    []domain.Education{},
		Certificates: []domain.Certificate{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.students.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	return s.students.Get(ctx, studentID)
}

func (s *service) UpdateStudent(ctx context.Context, studentID string, req domain.UpdateStudentRequest) (*domain.Student, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Location != nil {
		updates[fieldLocation] = *req.Location
	}
	if req.Bio != nil {
		updates[fieldBio] = *req.Bio
	}
	if req.Skills != nil {
		updates[fieldSkills] = nonNil(*req.Skills)
	}
	if req.Education != nil {
		updates[fieldEducation] = nonNil(*req.Education)
	}
	if len(updates) == 0 {
		return s.students.Get(ctx, studentID)
	}
	if err := s.students.Update(ctx, studentID, updates); err != nil {
		return nil, err
	}
	return s.students.Get(ctx, studentID)
}

func (s *service) RegisterRecruiter(ctx context.Context, req domain.CreateRecruiterRequest) (*domain.Recruiter, error) {
	email := NormalizeEmail(req.Email)
	_, err := s.recruiters.GetByEmail(ctx, email)
	if err := emailTaken(err); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := &domain.Recruiter{
		RecruiterID:  id.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Website:      req.Website,
		Phone:        req.Phone,
		Designation:  req.Designation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.recruiters.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetRecruiter(ctx context.Context, recruiterID string) (*domain.Recruiter, error) {
	return s.recruiters.Get(ctx, recruiterID)
}

func (s *service) UpdateRecruiter(ctx context.Context, recruiterID string, req domain.UpdateRecruiterRequest) (*domain.Recruiter, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = strings.TrimSpace(*req.Name)
	}
	if req.CompanyName != nil {
		updates[fieldCompanyName] = strings.TrimSpace(*req.CompanyName)
	}
	if req.Website != nil {
		updates[fieldWebsite] = *req.Website
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Designation != nil {
		updates[fieldDesignation] = *req.Designation
	}
	if len(updates) == 0 {
		return s.recruiters.Get(ctx, recruiterID)
	}
	if err := s.recruiters.Update(ctx, recruiterID, updates); err != nil {
		return nil, err
	}
	return s.recruiters.Get(ctx, recruiterID)
}

func (s *service) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	var (
		hash   string
		update func(map[string]interface{}) error
	)
	switch actor.Role {
	case domain.RoleStudent:
		st, err := s.students.Get(ctx, actor.ID)
		if err != nil {
			return err
		}
		hash = st.PasswordHash
		update = func(u map[string]interface{}) error { return s.students.Update(ctx, actor.ID, u) }
	case domain.RoleRecruiter:
		r, err := s.recruiters.Get(ctx, actor.ID)
		if err != nil {
			return err
		}
		hash = r.PasswordHash
		update = func(u map[string]interface{}) error { return s.recruiters.Update(ctx, actor.ID, u) }
	default:
		return fmt.Errorf("password change is not available for %s accounts: %w", actor.Role, domain.ErrForbidden)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrUnauthorized)
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return update(map[string]interface{}{fieldPasswordHash: string(newHash)})
}

// emailTaken maps the error of an email lookup: nil when the address is unused.
func emailTaken(err error) error {
	switch {
	case err == nil:
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
