package models

import "time"

// Действия и модули, фиксируемые в журнале аудита.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionLogin  = "LOGIN"
	AuditActionUnlock = "UNLOCK"

	AuditModulePayment      = "Payment"
	AuditModuleRegistration = "StudentRegistration"
	AuditModuleAuth         = "Auth"
	AuditModuleUsers        = "Users"
)

// AuditEntry — запись журнала аудита. Журнал только дописывается:
// записи не изменяются и не удаляются. OldValues и NewValues хранят
// JSON-снимки записи до и после операции.
type AuditEntry struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Module    string    `json:"module"`
	RecordID  string    `json:"record_id,omitempty"`
	OldValues []byte    `json:"old_values,omitempty"`
	NewValues []byte    `json:"new_values,omitempty"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// SecurityAlert — событие безопасности (блокировка учётной записи),
// публикуемое в очередь для рассылки администраторам.
type SecurityAlert struct {
	Email      string    `json:"email"`
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	IPAddress  string    `json:"ip_address"`
	OccurredAt time.Time `json:"occurred_at"`
}
