package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/internhub-api/internal/application/user"
	"github.com/internhub-api/internal/domain"
	"github.com/internhub-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Kind     string `json:"kind" validate:"required,oneof=student recruiter admin"`
}

type LoginResult struct {
	Bearer    string
	ExpiresAt time.Time
	Role      string
	Account   any
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// SeedAdmin creates the configured admin account if no admin with that email exists.
	SeedAdmin(ctx context.Context, email, password string) error
}

type studentStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Student, error)
}

type recruiterStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Recruiter, error)
}

type adminStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, a *domain.Admin) error
}

type jwtSigner interface {
	Sign(userID, role string) (string, error)
	Expiry() time.Duration
}

type service struct {
	students    studentStore
	recruiters  recruiterStore
	admins      adminStore
	jwtProvider jwtSigner
	now         func() time.Time
}

type ServiceDeps struct {
	StudentRepo   studentStore
	RecruiterRepo recruiterStore
	AdminRepo     adminStore
	JWTProvider   jwtSigner
	Now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		students:    deps.StudentRepo,
		recruiters:  deps.RecruiterRepo,
		admins:      deps.AdminRepo,
		jwtProvider: deps.JWTProvider,
		now:         now,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	subject, hash, account, err := s.lookup(ctx, req.Kind, user.NormalizeEmail(req.Email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, errInvalidCredentials
	}
	bearer, err := s.jwtProvider.Sign(subject, req.Kind)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Bearer:    bearer,
		ExpiresAt: s.now().UTC().Add(s.jwtProvider.Expiry()),
		Role:      req.Kind,
		Account:   account,
	}, nil
}

// lookup resolves the account of the given kind, returning its id and password hash.
func (s *service) lookup(ctx context.Context, kind, email string) (string, string, any, error) {
	switch kind {
	case domain.RoleStudent:
		st, err := s.students.GetByEmail(ctx, email)
		if err != nil {
			return "", "", nil, err
		}
		return st.StudentID, st.PasswordHash, st, nil
	case domain.RoleRecruiter:
		r, err := s.recruiters.GetByEmail(ctx, email)
		if err != nil {
			return "", "", nil, err
		}
		return r.RecruiterID, r.PasswordHash, r, nil
	case domain.RoleAdmin:
		a, err := s.admins.GetByEmail(ctx, email)
		if err != nil {
			return "", "", nil, err
		}
		return a.AdminID, a.PasswordHash, a, nil
	}
	return "", "", nil, fmt.Errorf("unknown account kind %q: %w", kind, domain.ErrBadRequest)
}

func (s *service) SeedAdmin(ctx context.Context, email, password string) error {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		slog.Info("admin seed skipped: no credentials configured")
		return nil
	}
	_, err := s.admins.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a := &domain.Admin{
		AdminID:      id.New(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.admins.Create(ctx, a); err != nil {
		return err
	}
	slog.Info("admin account seeded", "email", email)
	return nil
}
