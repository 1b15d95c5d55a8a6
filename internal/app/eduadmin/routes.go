// Package eduadmin предоставляет маршруты для основного приложения.
package eduadmin

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/vv-overseas/edu-admin/internal/http/handlers/audit/auditlist"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/checklockout"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/forgotpassword"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/loginstep1"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/loginstep2"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/logout"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/me"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/auth/resetpassword"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/health"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/payment/paymentcreate"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/payment/paymentlist"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/registration/registrationcreate"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/registration/registrationlist"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/registration/registrationread"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/registration/registrationupdate"
	"github.com/vv-overseas/edu-admin/internal/http/handlers/users/unlock"
	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/lib/jwt"
	"github.com/vv-overseas/edu-admin/internal/lib/roleaccess"
	auditservice "github.com/vv-overseas/edu-admin/internal/services/audit"
	authservice "github.com/vv-overseas/edu-admin/internal/services/auth"
	paymentservice "github.com/vv-overseas/edu-admin/internal/services/payment"
	studentservice "github.com/vv-overseas/edu-admin/internal/services/student"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Services — зависимости маршрутов приложения.
type Services struct {
	Auth       *authservice.AuthService
	Students   *studentservice.Service
	Payments   *paymentservice.Service
	Audit      *auditservice.Service
	Recorder   *auditservice.Recorder
	JWTMaker   jwt.Maker
	Storage    *repository.Storage
	SessionTTL time.Duration
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	policy := roleaccess.Default()
	loginLimiter := rate.NewLimiter(1, 5)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки входа за общим лимитером
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(loginLimiter, logger))
			r.Post("/auth/login-step1", loginstep1.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/login-step2", loginstep2.New(logger, s.Auth, s.SessionTTL).ServeHTTP)
			r.Get("/auth/check-lockout", checklockout.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/forgot-password", forgotpassword.New(logger, s.Auth).ServeHTTP)
			r.Post("/auth/reset-password", resetpassword.New(logger, s.Auth).ServeHTTP)
		})
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией и ролевым доступом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.RoleAccessMiddleware(policy, logger))

			r.Get("/auth/me", me.New(logger, s.Auth).ServeHTTP)
			r.Patch("/users/unlock/{id}", unlock.New(logger, s.Auth, s.Recorder).ServeHTTP)

			r.Post("/registration", registrationcreate.New(logger, s.Students).ServeHTTP)
			r.Get("/registration", registrationlist.New(logger, s.Students).ServeHTTP)
			r.Get("/registration/{id}", registrationread.New(logger, s.Students).ServeHTTP)
			r.Put("/registration/{id}", registrationupdate.New(logger, s.Students).ServeHTTP)

			r.Post("/payment", paymentcreate.New(logger, s.Payments).ServeHTTP)
			r.Get("/payment", paymentlist.New(logger, s.Payments).ServeHTTP)

			r.Get("/audit", auditlist.New(logger, s.Audit).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, s.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
