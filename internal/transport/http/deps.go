package http

import (
	"github.com/internhub-api/internal/application/file"
	"github.com/internhub-api/internal/application/internship"
	"github.com/internhub-api/internal/application/lifecycle"
	"github.com/internhub-api/internal/application/notification"
	"github.com/internhub-api/internal/application/report"
	"github.com/internhub-api/internal/application/session"
	"github.com/internhub-api/internal/application/user"
	"github.com/internhub-api/internal/config"
	"github.com/internhub-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/internhub-api/internal/infrastructure/jwt"
	s3infra "github.com/internhub-api/internal/infrastructure/s3"
	"github.com/internhub-api/internal/infrastructure/sns"
	"github.com/redis/go-redis/v9"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	StudentRepo      *dynamo.StudentRepo
	RecruiterRepo    *dynamo.RecruiterRepo
	AdminRepo        *dynamo.AdminRepo
	InternshipRepo   *dynamo.InternshipRepo
	ApplicationRepo  *dynamo.ApplicationRepo
	NotificationRepo *dynamo.NotificationRepo
	S3Store          *s3infra.Store
	Events           sns.EventPublisher // nil disables event publishing
	Redis            *redis.Client      // nil falls back to the in-process apply limiter
	JWTProvider      *jwtinfra.Provider
}

// Services is the application layer built on top of Deps. The reminder job and
// the admin seed share it with the router.
type Services struct {
	Users         user.Service
	Sessions      session.Service
	Internships   internship.Service
	Applications  lifecycle.Service
	Notifications notification.Service
	Files         file.Service
	Reports       report.Service
}

func NewServices(cfg *config.Config, deps *Deps) *Services {
	notifSvc := notification.NewService(notification.ServiceDeps{NotificationRepo: deps.NotificationRepo})

	lcDeps := lifecycle.ServiceDeps{
		StudentRepo:     deps.StudentRepo,
		RecruiterRepo:   deps.RecruiterRepo,
		InternshipRepo:  deps.InternshipRepo,
		ApplicationRepo: deps.ApplicationRepo,
		Notifier:        notifSvc,
		Blobs:           deps.S3Store,
		ResumeURLTTL:    cfg.ResumeURLTTL,
	}
	if deps.Events != nil {
		lcDeps.Events = deps.Events
	}

	return &Services{
		Users: user.NewService(user.ServiceDeps{
			StudentRepo:   deps.StudentRepo,
			RecruiterRepo: deps.RecruiterRepo,
		}),
		Sessions: session.NewService(session.ServiceDeps{
			StudentRepo:   deps.StudentRepo,
			RecruiterRepo: deps.RecruiterRepo,
			AdminRepo:     deps.AdminRepo,
			JWTProvider:   deps.JWTProvider,
		}),
		Internships: internship.NewService(internship.ServiceDeps{
			InternshipRepo:  deps.InternshipRepo,
			RecruiterRepo:   deps.RecruiterRepo,
			ApplicationRepo: deps.ApplicationRepo,
			Notifier:        notifSvc,
		}),
		Applications:  lifecycle.NewService(lcDeps),
		Notifications: notifSvc,
		Files: file.NewService(file.ServiceDeps{
			StudentRepo:    deps.StudentRepo,
			Blobs:          deps.S3Store,
			MaxUploadBytes: cfg.MaxUploadBytes,
			URLTTL:         cfg.ResumeURLTTL,
		}),
		Reports: report.NewService(report.ServiceDeps{
			StudentRepo:     deps.StudentRepo,
			RecruiterRepo:   deps.RecruiterRepo,
			InternshipRepo:  deps.InternshipRepo,
			ApplicationRepo: deps.ApplicationRepo,
		}),
	}
}
