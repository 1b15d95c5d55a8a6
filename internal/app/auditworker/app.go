// Package auditworker собирает фонового потребителя очередей событий:
// записи аудита дописываются в журнал, события блокировок уходят
// письмами администраторам.
package auditworker

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/vv-overseas/edu-admin/internal/config"
	"github.com/vv-overseas/edu-admin/internal/lib/smtp"
	"github.com/vv-overseas/edu-admin/internal/rabbitmq"
	alertservice "github.com/vv-overseas/edu-admin/internal/services/alert"
	auditservice "github.com/vv-overseas/edu-admin/internal/services/audit"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

const (
	rabbitMaxRetries = 5
	rabbitRetryDelay = 3 * time.Second
)

// App — собранный воркер очередей событий.
type App struct {
	conn         *amqp.Connection
	ch           *amqp.Channel
	auditService *auditservice.Service
	alertService *alertservice.Service
	logger       *slog.Logger
}

// New подключает зависимости и собирает воркер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	transport := smtp.NewTransport(cfg, logger)
	auditService := auditservice.New(db, logger)
	alertService := alertservice.New(transport, cfg.AlertRecipients, logger)

	return &App{
		conn:         conn,
		ch:           ch,
		auditService: auditService,
		alertService: alertService,
		logger:       logger,
	}, nil
}

// Run запускает потребителей обеих очередей и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueAuditRecords, a.auditService.HandleMessage)
	if err != nil {
		a.logger.Error("failed to start audit records consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.QueueSecurityAlerts, a.alertService.SendLockoutAlert)
	if err != nil {
		a.logger.Error("failed to start security alerts consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("audit worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
