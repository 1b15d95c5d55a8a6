// Package auth реализует двухшаговый вход сотрудников с блокировкой
// после повторных неудач, проверку и снятие блокировки, а также сброс
// пароля по токену.
//
// Машина состояний входа: проверка пароля (шаг 1) выдаёт временный
// токен; подтверждение табельного номера (шаг 2) обменивает его на
// сессионный токен с ролью. Блокировка поглощает оба шага: даже верный
// пароль отклоняется, пока администратор не снимет блокировку.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vv-overseas/edu-admin/internal/lib/jwt"
	"github.com/vv-overseas/edu-admin/internal/lib/password"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/metrics"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Ошибки бизнес-уровня аутентификации.
var (
	// ErrInvalidCredentials намеренно не различает неизвестный email и
	// неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked означает, что учётная запись заблокирована и вход
	// невозможен до явной разблокировки.
	ErrAccountLocked = errors.New("account locked")
	// ErrInvalidToken — временный токен или токен сброса не прошёл проверку.
	ErrInvalidToken = jwt.ErrInvalidToken
)

// UserRepository описывает контракт для работы с учётными записями.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	RegisterFailedAttempt(ctx context.Context, userID string, threshold int) (int, bool, error)
	ResetFailedAttempts(ctx context.Context, userID string) error
	UnlockUser(ctx context.Context, userID string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
	GetLockStatus(ctx context.Context, email string) (bool, error)
}

// LockStatusCache кэширует статус блокировки для опроса клиентом.
type LockStatusCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// AlertPublisher публикует события безопасности. Публикация — best
// effort и не должна влиять на результат входа.
type AlertPublisher interface {
	PublishLockout(alert models.SecurityAlert)
}

// AuthService отвечает за вход, блокировку и сброс пароля.
type AuthService struct {
	users     UserRepository
	cache     LockStatusCache
	alerts    AlertPublisher
	jwtMaker  jwt.Maker
	threshold int
	cacheTTL  time.Duration
	log       *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, cache LockStatusCache, alerts AlertPublisher,
	jwtMaker jwt.Maker, threshold int, cacheTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		cache:     cache,
		alerts:    alerts,
		jwtMaker:  jwtMaker,
		threshold: threshold,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

func lockKey(email string) string {
	return "lockout:" + email
}

// LoginStep1 проверяет пароль. Неудача увеличивает счётчик попыток;
// достижение порога блокирует учётную запись, о чём сигнализирует
// ErrAccountLocked. При неверном пароле без блокировки attemptsLeft
// сообщает, сколько попыток осталось. Успех обнуляет счётчик и выдаёт
// временный токен для второго шага.
func (s *AuthService) LoginStep1(ctx context.Context, email, rawPassword, ip string) (tempToken string, attemptsLeft int, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		metrics.LoginAttempts.WithLabelValues("not_found").Inc()
		return "", 0, ErrInvalidCredentials
	}
	if err != nil {
		return "", 0, err
	}

	if user.IsLocked {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return "", 0, ErrAccountLocked
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		attempts, locked, ferr := s.users.RegisterFailedAttempt(ctx, user.ID, s.threshold)
		if ferr != nil {
			return "", 0, ferr
		}
		if locked {
			metrics.LoginAttempts.WithLabelValues("locked").Inc()
			s.invalidateLockStatus(ctx, email)
			s.alerts.PublishLockout(models.SecurityAlert{
				Email:      user.Email,
				EmployeeID: user.EmployeeID,
				Name:       user.Name,
				IPAddress:  ip,
				OccurredAt: time.Now().UTC(),
			})
			return "", 0, ErrAccountLocked
		}
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", s.threshold - attempts, ErrInvalidCredentials
	}

	if err := s.users.ResetFailedAttempts(ctx, user.ID); err != nil {
		return "", 0, err
	}
	tempToken, err = s.jwtMaker.GenerateTempToken(user.ID)
	if err != nil {
		return "", 0, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return tempToken, 0, nil
}

// LoginStep2 проверяет временный токен и табельный номер. Табельный
// номер обязан принадлежать тому же сотруднику, чей пароль был проверен
// на первом шаге. Успех выдаёт сессионный токен с ролью.
func (s *AuthService) LoginStep2(ctx context.Context, employeeID, tempToken string) (string, *models.User, error) {
	claims, err := s.jwtMaker.ParseToken(tempToken, jwt.KindTemp)
	if err != nil {
		return "", nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByEmployeeID(ctx, employeeID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if user.ID != claims.UserID {
		return "", nil, ErrInvalidCredentials
	}
	if user.IsLocked {
		return "", nil, ErrAccountLocked
	}

	finalToken, err := s.jwtMaker.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return finalToken, user, nil
}

// CheckLockout возвращает статус блокировки по email. Ответ кэшируется
// на короткий срок: клиент опрашивает этот метод со страницы
// заблокированного входа.
func (s *AuthService) CheckLockout(ctx context.Context, email string) (bool, error) {
	var locked bool
	found, err := s.cache.Get(ctx, lockKey(email), &locked)
	if err != nil {
		s.log.Warn("lock status cache read failed", sl.Err(err))
	}
	if found {
		return locked, nil
	}

	locked, err = s.users.GetLockStatus(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		// неизвестный email неотличим от незаблокированного
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := s.cache.Set(ctx, lockKey(email), locked, s.cacheTTL); err != nil {
		s.log.Warn("lock status cache write failed", sl.Err(err))
	}
	return locked, nil
}

// Unlock атомарно снимает блокировку: счётчик попыток и признак
// блокировки сбрасываются одним обновлением.
func (s *AuthService) Unlock(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.UnlockUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.invalidateLockStatus(ctx, user.Email)
	return user, nil
}

// ForgotPassword выдаёт короткоживущий токен сброса пароля по
// табельному номеру.
func (s *AuthService) ForgotPassword(ctx context.Context, employeeID string) (string, error) {
	user, err := s.users.GetUserByEmployeeID(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return s.jwtMaker.GenerateResetToken(user.ID)
}

// ResetPassword проверяет токен сброса и заменяет пароль.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.jwtMaker.ParseToken(resetToken, jwt.KindReset)
	if err != nil {
		return ErrInvalidToken
	}
	hash, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, claims.UserID, hash)
}

// Me возвращает профиль сотрудника по его ID из сессионного токена.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *AuthService) invalidateLockStatus(ctx context.Context, email string) {
	if err := s.cache.Invalidate(ctx, lockKey(email)); err != nil {
		s.log.Warn(fmt.Sprintf("failed to invalidate lock status for %s", email), sl.Err(err))
	}
}
