// Package eduadmin собирает HTTP-приложение административной панели:
// хранилище, миграции, кэш, брокер событий, сервисы и маршруты.
package eduadmin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/vv-overseas/edu-admin/internal/cache"
	"github.com/vv-overseas/edu-admin/internal/config"
	"github.com/vv-overseas/edu-admin/internal/lib/jwt"
	"github.com/vv-overseas/edu-admin/internal/migrations"
	"github.com/vv-overseas/edu-admin/internal/rabbitmq"
	auditservice "github.com/vv-overseas/edu-admin/internal/services/audit"
	authservice "github.com/vv-overseas/edu-admin/internal/services/auth"
	paymentservice "github.com/vv-overseas/edu-admin/internal/services/payment"
	studentservice "github.com/vv-overseas/edu-admin/internal/services/student"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 3 * time.Second
)

// App — собранное HTTP-приложение административной панели.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает зависимости, прогоняет миграции и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitConnection, rabbitMaxRetries, rabbitRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetEventQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.SessionTokenTTL, cfg.ShortTokenTTL)
	recorder := auditservice.NewRecorder(ch, logger)

	authSvc := authservice.NewAuthService(db, cacheRedis, recorder, jwtMaker,
		cfg.Lockout.Threshold, cfg.Lockout.StatusCacheTTL, logger)
	studentSvc := studentservice.New(db, recorder, logger)
	paymentSvc := paymentservice.New(db, recorder, cfg.Invoice.Prefix, logger)
	auditSvc := auditservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:       authSvc,
		Students:   studentSvc,
		Payments:   paymentSvc,
		Audit:      auditSvc,
		Recorder:   recorder,
		JWTMaker:   jwtMaker,
		Storage:    db,
		SessionTTL: cfg.SessionTokenTTL,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и корректно завершает его по отмене контекста.
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
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.ch.Close()
		a.conn.Close()
		a.db.DB.Close()
		return err
	}
}
