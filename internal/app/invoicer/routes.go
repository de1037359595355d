// Package invoicer собирает HTTP-приложение: хранилище, сервисы и маршруты.
package invoicer

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/admin/userlist"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/admin/userrole"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/auth/setupadmin"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/health"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/logo/logoget"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/logo/logoremove"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/logo/logoupload"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource/create"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource/list"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource/read"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource/remove"
	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource/update"
	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/models"
	adminservice "github.com/magabrotheeeer/invoicer/internal/services/admin"
	authservice "github.com/magabrotheeeer/invoicer/internal/services/auth"
	logoservice "github.com/magabrotheeeer/invoicer/internal/services/logo"
	resourceservice "github.com/magabrotheeeer/invoicer/internal/services/resource"
)

// Services — зависимости маршрутов.
type Services struct {
	Auth      *authservice.AuthService
	Admin     *adminservice.Service
	Contacts  *resourceservice.Contacts
	Invoices  *resourceservice.Invoices
	Templates *resourceservice.Templates
	Catalog   *resourceservice.Catalog
	Logo      *logoservice.Service
	DB        health.Pinger // может быть nil
}

// RouteOptions — настройки маршрутизации.
type RouteOptions struct {
	Env          string
	CORSOrigin   string
	ErrorDetails bool
	AuthLimiter  *middlewarectx.RateLimiter
	Metrics      *middlewarectx.Metrics
	Gatherer     prometheus.Gatherer
	UploadsDir   string // каталог логотипов для раздачи; пусто, если логотипы в MinIO
	UploadsURL   string // публичный префикс логотипов, например "/uploads/"
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc Services, opts RouteOptions) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.CORS(opts.CORSOrigin),
		middlewarectx.ErrorDetails(opts.ErrorDetails),
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	authGate := middlewarectx.JWTMiddleware(logger, svc.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.New(logger, opts.Env, svc.DB).ServeHTTP)

		r.Route("/auth", func(r chi.Router) {
			// Открытые конечные точки
			r.Group(func(r chi.Router) {
				if opts.AuthLimiter != nil {
					r.Use(opts.AuthLimiter.Middleware(logger))
				}
				r.Post("/register", register.New(logger, svc.Auth).ServeHTTP)
				r.Post("/login", login.New(logger, svc.Auth).ServeHTTP)
				r.Post("/setup-admin", setupadmin.New(logger, svc.Auth).ServeHTTP)
			})
			r.With(authGate).Get("/me", me.New(logger, svc.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(authGate)

			r.Route("/address-book", func(r chi.Router) {
				mountResource(r, logger, resource.Contacts, svc.Contacts)
			})
			invoices := func(r chi.Router) {
				mountResource(r, logger, resource.Invoices, svc.Invoices)
			}
			r.Route("/invoices", invoices)
			r.Route("/invoice", invoices)
			r.Route("/templates", func(r chi.Router) {
				mountResource(r, logger, resource.Templates, svc.Templates)
			})
			r.Route("/catalog", func(r chi.Router) {
				mountResource(r, logger, resource.Catalog, svc.Catalog)
			})

			r.Route("/upload/logo", func(r chi.Router) {
				r.Get("/", logoget.New(logger, svc.Logo).ServeHTTP)
				r.Post("/", logoupload.New(logger, svc.Logo).ServeHTTP)
				r.Delete("/", logoremove.New(logger, svc.Logo).ServeHTTP)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, svc.Auth, models.RoleAdmin))
				r.Get("/users", userlist.New(logger, svc.Admin).ServeHTTP)
				r.Put("/users/{id}/role", userrole.New(logger, svc.Admin).ServeHTTP)
			})
		})
	})

	if opts.UploadsDir != "" && opts.UploadsURL != "" {
		r.Handle(opts.UploadsURL+"*", http.StripPrefix(opts.UploadsURL, http.FileServer(http.Dir(opts.UploadsDir))))
	}
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

// mountResource подключает пять операций коллекции к r.
func mountResource[T any, P resourceservice.Item[T]](r chi.Router, logger *slog.Logger, kind resource.Kind, store *resourceservice.Store[T, P]) {
	r.Get("/", list.New[T](logger, kind, store).ServeHTTP)
	r.Post("/", create.New[T](logger, kind, store).ServeHTTP)
	r.Get("/{id}", read.New[T](logger, kind, store).ServeHTTP)
	r.Put("/{id}", update.New[T](logger, kind, store).ServeHTTP)
	r.Delete("/{id}", remove.New(logger, kind, store).ServeHTTP)
}
