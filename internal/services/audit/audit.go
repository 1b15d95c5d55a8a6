// Package audit реализует журнал аудита: публикацию записей в очередь
// из обработчиков запросов (best effort, не влияет на основную
// операцию), запись в хранилище на стороне воркера и чтение журнала.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/rabbitmq"
)

// Recorder публикует записи аудита и события безопасности в брокер.
// Ошибки публикации логируются и никогда не возвращаются вызывающему:
// неудавшаяся запись аудита не должна откатывать платёж или вход.
type Recorder struct {
	ch  *amqp.Channel
	log *slog.Logger
}

// NewRecorder создаёт новый Recorder.
func NewRecorder(ch *amqp.Channel, log *slog.Logger) *Recorder {
	return &Recorder{ch: ch, log: log}
}

// Record публикует запись журнала аудита.
func (r *Recorder) Record(entry models.AuditEntry) {
	if err := rabbitmq.PublishMessage(r.ch, rabbitmq.EventsExchange, rabbitmq.RoutingKeyAudit, entry); err != nil {
		r.log.Error("failed to publish audit entry",
			slog.String("module", entry.Module),
			slog.String("action", entry.Action),
			sl.Err(err))
	}
}

// PublishLockout публикует событие блокировки учётной записи.
func (r *Recorder) PublishLockout(alert models.SecurityAlert) {
	if err := rabbitmq.PublishMessage(r.ch, rabbitmq.EventsExchange, rabbitmq.RoutingKeyAlert, alert); err != nil {
		r.log.Error("failed to publish security alert",
			slog.String("email", alert.Email),
			sl.Err(err))
	}
}

// Repository описывает контракт хранилища журнала аудита.
type Repository interface {
	InsertAuditEntry(ctx context.Context, e models.AuditEntry) error
	ListAuditEntries(ctx context.Context, module, action string, limit, offset int) ([]*models.AuditEntry, error)
}

// Service читает журнал аудита и записывает в него сообщения из очереди.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// HandleMessage обрабатывает сообщение очереди audit.records: разбирает
// запись и дописывает её в журнал. Ошибка возвращает сообщение в очередь.
func (s *Service) HandleMessage(body []byte) error {
	var entry models.AuditEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		s.log.Error("failed to unmarshal audit entry", sl.Err(err))
		return fmt.Errorf("error unmarshalling audit entry: %w", err)
	}
	return s.repo.InsertAuditEntry(context.Background(), entry)
}

// List возвращает записи журнала с фильтрами по модулю и действию.
func (s *Service) List(ctx context.Context, module, action string, limit, offset int) ([]*models.AuditEntry, error) {
	return s.repo.ListAuditEntries(ctx, module, action, limit, offset)
}

// Snapshot сериализует запись в JSON-снимок для полей old/new журнала.
// Неудача сериализации не фатальна: возвращается nil.
func Snapshot(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
