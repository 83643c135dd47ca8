package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/domain"
	"github.com/robfig/cron/v3"
)

const (
	fieldReminderSent = "reminder_sent"
	runTimeout        = 5 * time.Minute
)

type internshipStore interface {
	DueForReminder(ctx context.Context, from, until time.Time) ([]domain.Internship, error)
	Update(ctx context.Context, internshipID string, updates map[string]interface{}) error
}

type notifier interface {
	Notify(ctx context.Context, in notification.NotifyInput) *domain.Notification
}

// Job warns recruiters about postings whose deadline falls inside the window.
// Each posting is reminded at most once per deadline.
type Job struct {
	internships internshipStore
	notifier    notifier
	window      time.Duration
	now         func() time.Time
}

type JobDeps struct {
	InternshipRepo internshipStore
	Notifier       notifier
	Window         time.Duration
	Now            func() time.Time
}

func NewJob(deps JobDeps) *Job {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	window := deps.Window
	if window <= 0 {
		window = 48 * time.Hour
	}
	return &Job{internships: deps.InternshipRepo, notifier: deps.Notifier, window: window, now: now}
}

// Run sends one internship_expiring notification per due posting and returns
// how many postings were reminded.
func (j *Job) Run(ctx context.Context) (int, error) {
	from := j.now().UTC()
	due, err := j.internships.DueForReminder(ctx, from, from.Add(j.window))
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, i := range due {
		// Marked before notifying: at most one reminder per deadline.
		if err := j.internships.Update(ctx, i.InternshipID, map[string]interface{}{fieldReminderSent: true}); err != nil {
			slog.Warn("could not mark internship reminded", "internship_id", i.InternshipID, "err", err)
			continue
		}
		j.notifier.Notify(ctx, notification.NotifyInput{
			Recipient: domain.Recipient{Kind: domain.RecipientRecruiter, ID: i.PostedBy},
			Type:      domain.NotifInternshipExpiring,
			Title:     "Internship Deadline Approaching",
			Message:   fmt.Sprintf("Applications for %s close on %s", i.Title, i.Deadline.UTC().Format("Jan 2, 2006")),
			Data:      map[string]string{"internship_id": i.InternshipID},
		})
		sent++
	}
	return sent, nil
}

// Schedule registers the job on c under a cron spec such as "0 9 * * *".
func Schedule(c *cron.Cron, spec string, job *Job) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		n, err := job.Run(ctx)
		if err != nil {
			slog.Warn("deadline reminder run failed", "err", err)
			return
		}
		slog.Info("deadline reminders sent", "count", n)
	})
}
