package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInternshipStore struct{ mock.Mock }

func (m *mockInternshipStore) DueForReminder(ctx context.Context, from, until time.Time) ([]domain.Internship, error) {
	args := m.Called(ctx, from, until)
	list, _ := args.Get(0).([]domain.Internship)
	return list, args.Error(1)
}
func (m *mockInternshipStore) Update(ctx context.Context, internshipID string, updates map[string]interface{}) error {
	return m.Called(ctx, internshipID, updates).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, in notification.NotifyInput) *domain.Notification {
	args := m.Called(ctx, in)
	n, _ := args.Get(0).(*domain.Notification)
	return n
}

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func newJob(store *mockInternshipStore, n *mockNotifier) *Job {
	return NewJob(JobDeps{InternshipRepo: store, Notifier: n, Window: 48 * time.Hour, Now: func() time.Time { return fixedNow }})
}

func TestRun_RemindsEachDuePostingOnce(t *testing.T) {
	store := &mockInternshipStore{}
	n := &mockNotifier{}
	deadline := time.Date(2024, 6, 11, 23, 59, 59, 0, time.UTC)
	store.On("DueForReminder", mock.Anything, fixedNow, fixedNow.Add(48*time.Hour)).Return([]domain.Internship{
		{InternshipID: "i1", Title: "Go Intern", PostedBy: "r1", Deadline: &deadline},
		{InternshipID: "i2", Title: "UX Intern", PostedBy: "r2", Deadline: &deadline},
	}, nil)
	store.On("Update", mock.Anything, "i1", map[string]interface{}{fieldReminderSent: true}).Return(nil)
	store.On("Update", mock.Anything, "i2", map[string]interface{}{fieldReminderSent: true}).Return(nil)
	n.On("Notify", mock.Anything, mock.MatchedBy(func(in notification.NotifyInput) bool {
		return in.Type == domain.NotifInternshipExpiring &&
			in.Recipient == domain.Recipient{Kind: domain.RecipientRecruiter, ID: "r1"} &&
			in.Message == "Applications for Go Intern close on Jun 11, 2024"
	})).Return(nil).Once()
	n.On("Notify", mock.Anything, mock.MatchedBy(func(in notification.NotifyInput) bool {
		return in.Recipient.ID == "r2"
	})).Return(nil).Once()

	sent, err := newJob(store, n).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	store.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestRun_SkipsPostingThatCannotBeMarked(t *testing.T) {
	store := &mockInternshipStore{}
	n := &mockNotifier{}
	deadline := fixedNow.Add(time.Hour)
	store.On("DueForReminder", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Internship{
		{InternshipID: "i1", PostedBy: "r1", Deadline: &deadline},
	}, nil)
	store.On("Update", mock.Anything, "i1", mock.Anything).Return(domain.ErrStorage)

	sent, err := newJob(store, n).Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, sent)
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestRun_QueryError(t *testing.T) {
	store := &mockInternshipStore{}
	store.On("DueForReminder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := newJob(store, &mockNotifier{}).Run(context.Background())

	assert.Error(t, err)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	c := cron.New()
	job := newJob(&mockInternshipStore{}, &mockNotifier{})

	_, err := Schedule(c, "not a cron spec", job)
	assert.Error(t, err)

	entry, err := Schedule(c, "0 9 * * *", job)
	require.NoError(t, err)
	assert.NotZero(t, entry)
	assert.Len(t, c.Entries(), 1)
}
