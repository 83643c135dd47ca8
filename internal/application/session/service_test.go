package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/internhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mocks ---

type mockStudentStore struct{ mock.Mock }

func (m *mockStudentStore) GetByEmail(ctx context.Context, email string) (*domain.Student, error) {
	args := m.Called(ctx, email)
	if s, _ := args.Get(0).(*domain.Student); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRecruiterStore struct{ mock.Mock }

func (m *mockRecruiterStore) GetByEmail(ctx context.Context, email string) (*domain.Recruiter, error) {
	args := m.Called(ctx, email)
	if r, _ := args.Get(0).(*domain.Recruiter); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Admin); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAdminStore) Create(ctx context.Context, a *domain.Admin) error {
	return m.Called(ctx, a).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID, role string) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}
func (m *mockSigner) Expiry() time.Duration { return 7 * 24 * time.Hour }

// --- helpers ---

var fixedNow = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	students   *mockStudentStore
	recruiters *mockRecruiterStore
	admins     *mockAdminStore
	signer     *mockSigner
	svc        Service
}

func newFixture() *fixture {
	f := &fixture{
		students:   &mockStudentStore{},
		recruiters: &mockRecruiterStore{},
		admins:     &mockAdminStore{},
		signer:     &mockSigner{},
	}
	f.svc = NewService(ServiceDeps{
		StudentRepo:   f.students,
		RecruiterRepo: f.recruiters,
		AdminRepo:     f.admins,
		JWTProvider:   f.signer,
		Now:           func() time.Time { return fixedNow },
	})
	return f
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Login ---

func TestLogin_StudentSuccess(t *testing.T) {
	f := newFixture()
	f.students.On("GetByEmail", mock.Anything, "ann@example.com").
		Return(&domain.Student{StudentID: "s1", PasswordHash: hashOf(t, "password1")}, nil)
	f.signer.On("Sign", "s1", domain.RoleStudent).Return("jwt-token", nil)

	res, err := f.svc.Login(context.Background(), LoginRequest{Email: "Ann@Example.com", Password: "password1", Kind: domain.RoleStudent})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Bearer)
	assert.Equal(t, domain.RoleStudent, res.Role)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), res.ExpiresAt)
	st, ok := res.Account.(*domain.Student)
	require.True(t, ok)
	assert.Equal(t, "s1", st.StudentID)
}

func TestLogin_RecruiterWrongPassword(t *testing.T) {
	f := newFixture()
	f.recruiters.On("GetByEmail", mock.Anything, "hr@acme.io").
		Return(&domain.Recruiter{RecruiterID: "r1", PasswordHash: hashOf(t, "password1")}, nil)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "hr@acme.io", Password: "nope", Kind: domain.RoleRecruiter})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	f.signer.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmailIsUnauthorized(t *testing.T) {
	f := newFixture()
	f.admins.On("GetByEmail", mock.Anything, "root@internhub.io").Return(nil, domain.ErrNotFound)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "root@internhub.io", Password: "x", Kind: domain.RoleAdmin})

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_StorageErrorPropagates(t *testing.T) {
	f := newFixture()
	f.students.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrStorage)

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "a@b.io", Password: "x", Kind: domain.RoleStudent})

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestLogin_UnknownKind(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "a@b.io", Password: "x", Kind: "guest"})

	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestLogin_SignError(t *testing.T) {
	f := newFixture()
	f.admins.On("GetByEmail", mock.Anything, "root@internhub.io").
		Return(&domain.Admin{AdminID: "a1", PasswordHash: hashOf(t, "pw")}, nil)
	f.signer.On("Sign", "a1", domain.RoleAdmin).Return("", errors.New("no key"))

	_, err := f.svc.Login(context.Background(), LoginRequest{Email: "root@internhub.io", Password: "pw", Kind: domain.RoleAdmin})

	assert.EqualError(t, err, "no key")
}

// --- SeedAdmin ---

func TestSeedAdmin_SkipsWithoutCredentials(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.svc.SeedAdmin(context.Background(), "", ""))
	f.admins.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestSeedAdmin_ExistingIsLeftAlone(t *testing.T) {
	f := newFixture()
	f.admins.On("GetByEmail", mock.Anything, "root@internhub.io").Return(&domain.Admin{AdminID: "a1"}, nil)

	require.NoError(t, f.svc.SeedAdmin(context.Background(), "root@internhub.io", "pw"))
	f.admins.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeedAdmin_CreatesWhenMissing(t *testing.T) {
	f := newFixture()
	f.admins.On("GetByEmail", mock.Anything, "root@internhub.io").Return(nil, domain.ErrNotFound)
	f.admins.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Admin) bool {
		return a.Email == "root@internhub.io" && a.AdminID != "" &&
			bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("pw")) == nil
	})).Return(nil)

	require.NoError(t, f.svc.SeedAdmin(context.Background(), " Root@InternHub.io", "pw"))
	f.admins.AssertExpectations(t)
}
