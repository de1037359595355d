package invoicer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-playground/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/invoicer/internal/cache"
	"github.com/magabrotheeeer/invoicer/internal/config"
	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/lib/jwt"
	"github.com/magabrotheeeer/invoicer/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/migrations"
	adminservice "github.com/magabrotheeeer/invoicer/internal/services/admin"
	authservice "github.com/magabrotheeeer/invoicer/internal/services/auth"
	logoservice "github.com/magabrotheeeer/invoicer/internal/services/logo"
	resourceservice "github.com/magabrotheeeer/invoicer/internal/services/resource"
	"github.com/magabrotheeeer/invoicer/internal/storage/objectstore"
	"github.com/magabrotheeeer/invoicer/internal/storage/repository"
)

// ShutdownTimeout — время на завершение активных запросов при остановке.
const ShutdownTimeout = 15 * time.Second

// userCache — кэш сводок пользователей: Redis или заглушка.
type userCache interface {
	authservice.Cache
	io.Closer
}

// eventPublisher — публикация событий: RabbitMQ или заглушка.
type eventPublisher interface {
	resourceservice.EventPublisher
	io.Closer
}

// App — HTTP-приложение со всеми зависимостями.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  userCache
	events eventPublisher
}

// New подключается к хранилищам, применяет миграции и собирает маршруты.
// Redis, RabbitMQ и MinIO необязательны: без настроек используются заглушки
// и локальный диск.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.invoicer.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString, cfg.StorageTimeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db, cache: cache.Nop{}, events: rabbitmq.Nop{}}

	if cfg.Redis.Address != "" {
		c, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.cache = c
	} else {
		logger.Info("redis is not configured, user cache disabled")
	}

	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.events = p
	} else {
		logger.Info("rabbitmq is not configured, domain events disabled")
	}

	store, uploadsDir, err := newObjectStore(ctx, cfg)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	validate := validator.New()
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.Secret, cfg.JWTToken.TokenTTL)

	svc := Services{
		Auth:      authservice.NewAuthService(logger, db, jwtMaker, app.cache, app.events),
		Admin:     adminservice.New(logger, db, app.cache, app.events),
		Contacts:  resourceservice.NewContacts(db, validate),
		Invoices:  resourceservice.NewInvoices(logger, db, validate, app.events),
		Templates: resourceservice.NewTemplates(db, validate),
		Catalog:   resourceservice.NewCatalog(db, validate),
		Logo:      logoservice.New(logger, db, store, app.cache, cfg.Uploads.MaxSize),
		DB:        db,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, svc, RouteOptions{
		Env:          cfg.Env,
		CORSOrigin:   cfg.CORS.AllowedOrigin,
		ErrorDetails: !cfg.IsProduction(),
		AuthLimiter:  middlewarectx.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Metrics:      middlewarectx.NewMetrics(reg, "invoicer"),
		Gatherer:     reg,
		UploadsDir:   uploadsDir,
		UploadsURL:   cfg.Uploads.PublicPrefix,
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// newObjectStore выбирает хранилище логотипов. Для диска возвращает
// каталог, который нужно раздавать по HTTP.
func newObjectStore(ctx context.Context, cfg *config.Config) (objectstore.Store, string, error) {
	if cfg.MinIO.Endpoint != "" {
		m, err := objectstore.NewMinIO(cfg.MinIO)
		if err != nil {
			return nil, "", err
		}
		if err = m.EnsureBucket(ctx); err != nil {
			return nil, "", err
		}
		return m, "", nil
	}
	d, err := objectstore.NewDisk(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
	if err != nil {
		return nil, "", err
	}
	return d, d.Dir(), nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает соединения; ошибки только логируются.
func (a *App) close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn("failed to close event publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
