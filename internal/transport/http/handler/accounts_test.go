package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/internhub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockUserSvc struct{ mock.Mock }

func (m *mockUserSvc) RegisterStudent(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error) {
	args := m.Called(ctx, req)
	if s, _ := args.Get(0).(*domain.Student); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) GetStudent(ctx context.Context, studentID string) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if s, _ := args.Get(0).(*domain.Student); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) UpdateStudent(ctx context.Context, studentID string, req domain.UpdateStudentRequest) (*domain.Student, error) {
	args := m.Called(ctx, studentID, req)
	if s, _ := args.Get(0).(*domain.Student); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) RegisterRecruiter(ctx context.Context, req domain.CreateRecruiterRequest) (*domain.Recruiter, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*domain.Recruiter); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) GetRecruiter(ctx context.Context, recruiterID string) (*domain.Recruiter, error) {
	args := m.Called(ctx, recruiterID)
	if r, _ := args.Get(0).(*domain.Recruiter); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) UpdateRecruiter(ctx context.Context, recruiterID string, req domain.UpdateRecruiterRequest) (*domain.Recruiter, error) {
	args := m.Called(ctx, recruiterID, req)
	if r, _ := args.Get(0).(*domain.Recruiter); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserSvc) ChangePassword(ctx context.Context, actor domain.Actor, currentPassword, newPassword string) error {
	return m.Called(ctx, actor, currentPassword, newPassword).Error(0)
}

// --- Register ---

func TestRegisterStudent_InvalidBody(t *testing.T) {
	h := NewAccountHandler(&mockUserSvc{})
	r := httptest.NewRequest(http.MethodPost, "/v1/students", bytes.NewBufferString("not-json"))
	rr := httptest.NewRecorder()
	h.RegisterStudent(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterStudent_ValidationFailure(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	body := mustJSON(t, domain.CreateStudentRequest{Name: "Ann"}) // missing email and password
	r := httptest.NewRequest(http.MethodPost, "/v1/students", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	h.RegisterStudent(rr, r)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	svc.AssertNotCalled(t, "RegisterStudent", mock.Anything, mock.Anything)
}

func TestRegisterStudent_Success(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	req := domain.CreateStudentRequest{Name: "Ann", Email: "ann@example.com", Password: "password1"}
	svc.On("RegisterStudent", mock.Anything, req).Return(&domain.Student{StudentID: "s1", Email: req.Email, PasswordHash: "hash"}, nil)

	r := httptest.NewRequest(http.MethodPost, "/v1/students", bytes.NewReader(mustJSON(t, req)))
	rr := httptest.NewRecorder()
	h.RegisterStudent(rr, r)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hash")
	var got domain.Student
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "s1", got.StudentID)
}

func TestRegisterRecruiter_EmailTaken(t *testing.T) {
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	req := domain.CreateRecruiterRequest{Name: "Bo", Email: "bo@acme.io", Password: "password1", CompanyName: "Acme"}
	svc.On("RegisterRecruiter", mock.Anything, req).Return(nil, domain.ErrConflict)

	r := httptest.NewRequest(http.MethodPost, "/v1/recruiters", bytes.NewReader(mustJSON(t, req)))
	rr := httptest.NewRecorder()
	h.RegisterRecruiter(rr, r)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

// --- profile ---

func TestGetStudent_Unauthenticated(t *testing.T) {
	h := NewAccountHandler(&mockUserSvc{})
	rr := httptest.NewRecorder()
	h.GetStudent(rr, httptest.NewRequest(http.MethodGet, "/v1/students/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetStudent_UsesTokenSubject(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	svc.On("GetStudent", mock.Anything, "s1").Return(&domain.Student{StudentID: "s1"}, nil)

	r := bearerReq(t, p, http.MethodGet, "/v1/students/me", "s1", domain.RoleStudent, nil)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.GetStudent), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestUpdateRecruiter_NotFound(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	svc.On("UpdateRecruiter", mock.Anything, "r1", mock.Anything).Return(nil, domain.ErrNotFound)

	r := bearerReq(t, p, http.MethodPut, "/v1/recruiters/me", "r1", domain.RoleRecruiter, []byte(`{"designation":"CTO"}`))
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.UpdateRecruiter), rr, r)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- ChangePassword ---

func TestChangePassword_Success(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	svc.On("ChangePassword", mock.Anything, domain.Actor{ID: "s1", Role: domain.RoleStudent}, "oldpass12", "newpass12").Return(nil)

	body := mustJSON(t, ChangePasswordRequest{CurrentPassword: "oldpass12", NewPassword: "newpass12"})
	r := bearerReq(t, p, http.MethodPut, "/v1/accounts/password", "s1", domain.RoleStudent, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ChangePassword), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockUserSvc{}
	h := NewAccountHandler(svc)
	svc.On("ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrUnauthorized)

	body := mustJSON(t, ChangePasswordRequest{CurrentPassword: "wrongpass", NewPassword: "newpass12"})
	r := bearerReq(t, p, http.MethodPut, "/v1/accounts/password", "s1", domain.RoleStudent, body)
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ChangePassword), rr, r)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
