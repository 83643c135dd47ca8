package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/internhub-api/internal/config"
	"github.com/internhub-api/internal/domain"
	redisinfra "github.com/internhub-api/internal/infrastructure/redis"
	"github.com/internhub-api/internal/transport/http/handler"
	appmiddleware "github.com/internhub-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps, svc *Services) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10, per client IP on public write endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)
	applyRL := appmiddleware.LimitBy(applyLimiter(cfg, deps), appmiddleware.CallerKey)

	urlTTL := int(cfg.ResumeURLTTL.Seconds())
	healthH := handler.NewHealthHandler()
	sessionH := handler.NewSessionHandler(svc.Sessions)
	accountH := handler.NewAccountHandler(svc.Users)
	fileH := handler.NewFileHandler(svc.Files, cfg.MaxUploadBytes, urlTTL)
	internshipH := handler.NewInternshipHandler(svc.Internships)
	appH := handler.NewApplicationHandler(svc.Applications, urlTTL)
	notifH := handler.NewNotificationHandler(svc.Notifications)
	reportH := handler.NewReportHandler(svc.Reports)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Get("/test", healthH.Test)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/students", accountH.RegisterStudent)
		r.With(sensitiveRL.Limit).Post("/recruiters", accountH.RegisterRecruiter)
		r.Get("/internships", internshipH.List)
		r.Get("/internships/{id}", internshipH.Get)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions/me", sessionH.Current)
			r.Put("/accounts/password", accountH.ChangePassword)

			// Students and recruiters; admins have no inbox.
			r.Get("/notifications", notifH.List)
			r.Put("/notifications/read-all", notifH.MarkAllRead)
			r.Put("/notifications/{id}/read", notifH.MarkRead)
			r.Put("/notifications/{id}/clicked", notifH.MarkClicked)
			r.Delete("/notifications/{id}", notifH.Delete)
			r.Delete("/notifications", notifH.DeleteAll)

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleStudent))

				r.Get("/students/me", accountH.GetStudent)
				r.Put("/students/me", accountH.UpdateStudent)
				r.Post("/students/me/resume", fileH.UploadResume)
				r.Get("/students/me/resume", fileH.ResumeURL)
				r.Post("/students/me/certificates", fileH.AddCertificate)
				r.Delete("/students/me/certificates/{id}", fileH.RemoveCertificate)

				r.With(applyRL).Post("/applications", appH.Submit)
				r.Get("/applications/me", appH.ListMine)
				r.Delete("/applications/{id}", appH.Withdraw)
			})

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleRecruiter))

				r.Get("/recruiters/me", accountH.GetRecruiter)
				r.Put("/recruiters/me", accountH.UpdateRecruiter)
				r.Get("/recruiters/me/internships", internshipH.ListMine)
				r.Post("/internships", internshipH.Create)
				r.Get("/applications/received", appH.Received)
			})

			// Owner checks happen in the services.
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))

				r.Put("/internships/{id}", internshipH.Update)
				r.Put("/internships/{id}/close", internshipH.Close)
				r.Delete("/internships/{id}", internshipH.Delete)
				r.Get("/internships/{id}/applications", appH.ForInternship)
				r.Put("/applications/{id}/status", appH.ChangeStatus)
			})

			// Students see their own submitted résumé; the service scopes the rest.
			r.With(appmiddleware.RequireRole(domain.RoleStudent, domain.RoleRecruiter, domain.RoleAdmin)).
				Get("/applications/{id}/resume", appH.ResumeURL)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/admin/dashboard", reportH.Dashboard)
				r.Get("/admin/reports/timeline", reportH.Timeline)
				r.Get("/admin/reports/trends", reportH.Trends)
				r.Delete("/admin/internships/{id}", internshipH.Delete)
			})
		})
	})

	return r
}

// applyLimiter shares the submission budget across instances through Redis
// when it is configured, and keeps it per process otherwise.
func applyLimiter(cfg *config.Config, deps *Deps) appmiddleware.Allower {
	if l := redisinfra.NewLimiter(deps.Redis, cfg.ApplyRateLimit, cfg.ApplyRateWindow, "apply"); l != nil {
		return l
	}
	perSecond := rate.Limit(float64(cfg.ApplyRateLimit) / cfg.ApplyRateWindow.Seconds())
	return appmiddleware.NewRateLimiter(perSecond, cfg.ApplyRateLimit)
}
