// Package jwt реализует выпуск и разбор JWT токенов трёх видов:
// временный токен первого шага входа, сессионный токен и токен сброса
// пароля. Вид токена хранится в claims и проверяется при разборе, поэтому
// временный токен нельзя использовать вместо сессионного.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Виды выпускаемых токенов.
const (
	KindTemp    = "temp"    // после первого шага входа, личность не подтверждена
	KindSession = "session" // после второго шага входа, несёт роль
	KindReset   = "reset"   // для сброса пароля
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserID               string `json:"uid"`            // Идентификатор сотрудника
	Role                 string `json:"role,omitempty"` // Роль, только в сессионном токене
	Kind                 string `json:"kind"`           // Вид токена
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для выпуска и разбора токенов.
type Maker interface {
	// GenerateTempToken выпускает короткоживущий токен первого шага входа.
	GenerateTempToken(userID string) (string, error)
	// GenerateSessionToken выпускает сессионный токен с ролью.
	GenerateSessionToken(userID, role string) (string, error)
	// GenerateResetToken выпускает токен сброса пароля.
	GenerateResetToken(userID string) (string, error)
	// ParseToken разбирает токен и проверяет, что его вид равен wantKind.
	ParseToken(tokenStr, wantKind string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и отдельных сроков жизни для каждого вида токена.
type MakerImpl struct {
	secretKey  string
	sessionTTL time.Duration
	shortTTL   time.Duration // для временных токенов и токенов сброса
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, sessionTTL, shortTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		sessionTTL: sessionTTL,
		shortTTL:   shortTTL,
	}
}
