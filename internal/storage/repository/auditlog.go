package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vv-overseas/edu-admin/internal/models"
)

// InsertAuditEntry дописывает запись в журнал аудита. Журнал
// append-only: методов изменения и удаления у хранилища нет.
func (s *Storage) InsertAuditEntry(ctx context.Context, e models.AuditEntry) error {
	const op = "storage.InsertAuditEntry"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO audit_logs
			      (user_id, role, action, module, record_id,
			       old_values, new_values, ip_address, user_agent)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		e.UserID, e.Role, e.Action, e.Module, nullable(e.RecordID),
		nullableBytes(e.OldValues), nullableBytes(e.NewValues),
		e.IPAddress, e.UserAgent)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAuditEntries возвращает записи журнала с пагинацией, опционально
// отфильтрованные по модулю и действию.
func (s *Storage) ListAuditEntries(ctx context.Context, module, action string, limit, offset int) ([]*models.AuditEntry, error) {
	const op = "storage.ListAuditEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, role, action, module, record_id,
			      old_values, new_values, ip_address, user_agent, created_at
			  FROM audit_logs
			  WHERE ($1 = '' OR module = $1)
			    AND ($2 = '' OR action = $2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, module, action, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var recordID sql.NullString
		if err = rows.Scan(&e.ID, &e.UserID, &e.Role, &e.Action, &e.Module, &recordID,
			&e.OldValues, &e.NewValues, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		e.RecordID = recordID.String
		result = append(result, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
