package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vv-overseas/edu-admin/internal/models"
)

const userColumns = `id, name, email, employee_id, password_hash, role,
			      failed_attempts, is_locked, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.EmployeeID, &u.PasswordHash,
		&u.Role, &u.FailedAttempts, &u.IsLocked, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser сохраняет нового сотрудника в базу данных и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (name, email, employee_id, password_hash, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.EmployeeID, user.PasswordHash,
		user.Role).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает сотрудника по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmployeeID возвращает сотрудника по его табельному номеру.
func (s *Storage) GetUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	const op = "storage.GetUserByEmployeeID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE employee_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, employeeID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает сотрудника по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// RegisterFailedAttempt увеличивает счётчик неудачных попыток входа одним
// запросом UPDATE и, если счётчик достиг порога, выставляет блокировку.
// Возвращает значение счётчика после инкремента и признак блокировки.
func (s *Storage) RegisterFailedAttempt(ctx context.Context, userID string, threshold int) (int, bool, error) {
	const op = "storage.RegisterFailedAttempt"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET failed_attempts = failed_attempts + 1,
			      is_locked = (failed_attempts + 1 >= $2)
			  WHERE id = $1
			  RETURNING failed_attempts, is_locked`
	var attempts int
	var locked bool
	err := s.DB.QueryRowContext(ctx, query, userID, threshold).Scan(&attempts, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return attempts, locked, nil
}

// ResetFailedAttempts обнуляет счётчик неудачных попыток после
// успешной проверки пароля. Блокировку не снимает.
func (s *Storage) ResetFailedAttempts(ctx context.Context, userID string) error {
	const op = "storage.ResetFailedAttempts"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET failed_attempts = 0
			  WHERE id = $1`
	_, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UnlockUser атомарно снимает блокировку: обнуляет счётчик попыток и
// признак блокировки одним запросом. Возвращает обновлённую запись.
func (s *Storage) UnlockUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.UnlockUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET failed_attempts = 0,
			      is_locked = false
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePasswordHash заменяет хэш пароля сотрудника.
func (s *Storage) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	const op = "storage.UpdatePasswordHash"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1
			  WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// GetLockStatus возвращает признак блокировки учётной записи по email.
func (s *Storage) GetLockStatus(ctx context.Context, email string) (bool, error) {
	const op = "storage.GetLockStatus"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT is_locked FROM users WHERE email = $1`
	var locked bool
	err := s.DB.QueryRowContext(ctx, query, email).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return locked, nil
}
