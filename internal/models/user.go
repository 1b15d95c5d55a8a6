// Package models содержит доменные структуры сервиса: пользователи,
// регистрации студентов, платежи и записи аудита, а также вспомогательные
// типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли сотрудников. Роль определяет доступные разделы приложения.
const (
	RoleAdmin    = "Admin"
	RoleSubAdmin = "SubAdmin"
	RoleAccounts = "Accounts"
)

// User представляет учётную запись сотрудника.
// FailedAttempts и IsLocked образуют состояние блокировки: IsLocked
// выставляется только при достижении порога неудачных попыток входа и
// сбрасывается вместе со счётчиком при разблокировке.
type User struct {
	ID             string
	Name           string
	Email          string
	EmployeeID     string
	PasswordHash   string
	Role           string
	FailedAttempts int
	IsLocked       bool
	CreatedAt      time.Time
}
