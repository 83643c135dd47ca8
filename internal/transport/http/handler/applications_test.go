package handler

import (
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

type mockLifecycleSvc struct{ mock.Mock }

func (m *mockLifecycleSvc) Submit(ctx context.Context, studentID, internshipID, coverLetter string) (*domain.Application, error) {
	args := m.Called(ctx, studentID, internshipID, coverLetter)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLifecycleSvc) ChangeStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, actor domain.Actor) (*domain.Application, error) {
	args := m.Called(ctx, applicationID, status, actor)
	if a, _ := args.Get(0).(*domain.Application); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLifecycleSvc) ListForStudent(ctx context.Context, studentID string) ([]domain.StudentApplication, error) {
	args := m.Called(ctx, studentID)
	list, _ := args.Get(0).([]domain.StudentApplication)
	return list, args.Error(1)
}

func (m *mockLifecycleSvc) ListForInternshipOwner(ctx context.Context, recruiterID string) ([]domain.ReceivedApplication, error) {
	args := m.Called(ctx, recruiterID)
	list, _ := args.Get(0).([]domain.ReceivedApplication)
	return list, args.Error(1)
}

func (m *mockLifecycleSvc) ListForInternship(ctx context.Context, internshipID string, actor domain.Actor) ([]domain.ReceivedApplication, error) {
	args := m.Called(ctx, internshipID, actor)
	list, _ := args.Get(0).([]domain.ReceivedApplication)
	return list, args.Error(1)
}

func (m *mockLifecycleSvc) SubmittedResumeURL(ctx context.Context, applicationID string, actor domain.Actor) (string, error) {
	args := m.Called(ctx, applicationID, actor)
	return args.String(0), args.Error(1)
}

func (m *mockLifecycleSvc) Withdraw(ctx context.Context, applicationID, studentID string) error {
	return m.Called(ctx, applicationID, studentID).Error(0)
}

func TestSubmit_Created(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	svc.On("Submit", mock.Anything, "s1", "i1", "hello").
		Return(&domain.Application{ApplicationID: "a1", Status: domain.StatusPending}, nil)

	body := mustJSON(t, domain.SubmitApplicationRequest{InternshipID: "i1", CoverLetter: "hello"})
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, bearerReq(t, p, http.MethodPost, "/v1/applications", "s1", domain.RoleStudent, body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestSubmit_ErrorKinds(t *testing.T) {
	cases := map[error]int{
		domain.ErrNoResume:             http.StatusPreconditionFailed,
		domain.ErrDuplicateApplication: http.StatusConflict,
		domain.ErrDeadlinePassed:       http.StatusConflict,
		domain.ErrNotFound:             http.StatusNotFound,
	}
	p := newTestJWTProvider(t)
	for svcErr, code := range cases {
		svc := &mockLifecycleSvc{}
		h := NewApplicationHandler(svc, 900)
		svc.On("Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, svcErr)

		body := mustJSON(t, domain.SubmitApplicationRequest{InternshipID: "i1"})
		rr := httptest.NewRecorder()
		serveAuthed(p, http.HandlerFunc(h.Submit), rr, bearerReq(t, p, http.MethodPost, "/v1/applications", "s1", domain.RoleStudent, body))

		assert.Equal(t, code, rr.Code, svcErr.Error())
	}
}

func TestSubmit_MissingInternship(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Submit), rr, bearerReq(t, p, http.MethodPost, "/v1/applications", "s1", domain.RoleStudent, []byte(`{}`)))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestChangeStatus_PassesActor(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	actor := domain.Actor{ID: "r1", Role: domain.RoleRecruiter}
	svc.On("ChangeStatus", mock.Anything, "a1", domain.StatusShortlisted, actor).
		Return(&domain.Application{ApplicationID: "a1", Status: domain.StatusShortlisted}, nil)

	body := mustJSON(t, domain.ChangeStatusRequest{Status: domain.StatusShortlisted})
	r := withChiID(bearerReq(t, p, http.MethodPut, "/v1/applications/a1/status", "r1", domain.RoleRecruiter, body), "a1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ChangeStatus), rr, r)

	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestChangeStatus_InvalidTransition(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	svc.On("ChangeStatus", mock.Anything, "a1", domain.StatusPending, mock.Anything).Return(nil, domain.ErrInvalidTransition)

	body := mustJSON(t, domain.ChangeStatusRequest{Status: domain.StatusPending})
	r := withChiID(bearerReq(t, p, http.MethodPut, "/v1/applications/a1/status", "r1", domain.RoleRecruiter, body), "a1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ChangeStatus), rr, r)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestWithdraw_Forbidden(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	svc.On("Withdraw", mock.Anything, "a1", "s2").Return(domain.ErrForbidden)

	r := withChiID(bearerReq(t, p, http.MethodDelete, "/v1/applications/a1", "s2", domain.RoleStudent, nil), "a1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.Withdraw), rr, r)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestResumeURL_ReturnsSignedURL(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	svc.On("SubmittedResumeURL", mock.Anything, "a1", domain.Actor{ID: "r1", Role: domain.RoleRecruiter}).Return("https://signed", nil)

	r := withChiID(bearerReq(t, p, http.MethodGet, "/v1/applications/a1/resume", "r1", domain.RoleRecruiter, nil), "a1")
	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ResumeURL), rr, r)

	require.Equal(t, http.StatusOK, rr.Code)
	var env URLEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	assert.Equal(t, URLEnvelope{URL: "https://signed", ExpiresIn: 900}, env)
}

func TestListMine_EmptyIsArray(t *testing.T) {
	p := newTestJWTProvider(t)
	svc := &mockLifecycleSvc{}
	h := NewApplicationHandler(svc, 900)
	svc.On("ListForStudent", mock.Anything, "s1").Return([]domain.StudentApplication{}, nil)

	rr := httptest.NewRecorder()
	serveAuthed(p, http.HandlerFunc(h.ListMine), rr, bearerReq(t, p, http.MethodGet, "/v1/applications/me", "s1", domain.RoleStudent, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}
