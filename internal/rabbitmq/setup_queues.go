package rabbitmq

// EventsExchange — обменник, через который проходят все события приложения.
const EventsExchange = "events"

// Маршрутные ключи событий.
const (
	RoutingKeyAudit = "audit"
	RoutingKeyAlert = "alert"
)

// Очереди воркера событий.
const (
	QueueAuditRecords   = "audit.records"
	QueueSecurityAlerts = "security.alerts"
)

// QueueConfig описывает очередь и её маршрутный ключ.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetEventQueues возвращает очереди воркера: записи аудита и
// события безопасности.
func GetEventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueAuditRecords, RoutingKey: RoutingKeyAudit},
		{QueueName: QueueSecurityAlerts, RoutingKey: RoutingKeyAlert},
	}
}
