// Package student реализует операции с регистрациями студентов:
// создание, чтение, списки и редактирование со сменой статуса.
package student

import (
	"context"
	"log/slog"

	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/services/audit"
)

// Repository описывает контракт хранилища регистраций.
type Repository interface {
	CreateStudent(ctx context.Context, st models.StudentRegistration) (string, error)
	GetStudent(ctx context.Context, id string) (*models.StudentRegistration, error)
	ListStudents(ctx context.Context, createdBy, status string, limit, offset int) ([]*models.StudentRegistration, error)
	UpdateStudent(ctx context.Context, id string, st models.StudentRegistration) (*models.StudentRegistration, error)
}

// Recorder публикует записи аудита.
type Recorder interface {
	Record(entry models.AuditEntry)
}

// Service реализует операции с регистрациями студентов.
type Service struct {
	repo     Repository
	recorder Recorder
	log      *slog.Logger
}

// New создаёт новый Service.
func New(repo Repository, recorder Recorder, log *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, log: log}
}

// Create сохраняет новую регистрацию от имени caller. Статус по
// умолчанию — Pending.
func (s *Service) Create(ctx context.Context, st models.StudentRegistration, caller *models.User, ip, userAgent string) (string, error) {
	if st.Status == "" {
		st.Status = models.StudentStatusPending
	}
	st.CreatedBy = caller.ID

	id, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		return "", err
	}
	st.ID = id

	s.recorder.Record(models.AuditEntry{
		UserID:    caller.ID,
		Role:      caller.Role,
		Action:    models.AuditActionCreate,
		Module:    models.AuditModuleRegistration,
		RecordID:  id,
		NewValues: audit.Snapshot(st),
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return id, nil
}

// Get возвращает регистрацию по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.StudentRegistration, error) {
	return s.repo.GetStudent(ctx, id)
}

// List возвращает регистрации с учётом роли: Admin и Accounts видят
// все, остальные — только заведённые ими.
func (s *Service) List(ctx context.Context, caller *models.User, status string, limit, offset int) ([]*models.StudentRegistration, error) {
	createdBy := ""
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleAccounts {
		createdBy = caller.ID
	}
	return s.repo.ListStudents(ctx, createdBy, status, limit, offset)
}

// Update заменяет изменяемые поля регистрации и пишет в аудит снимки
// до и после.
func (s *Service) Update(ctx context.Context, id string, st models.StudentRegistration, caller *models.User, ip, userAgent string) (*models.StudentRegistration, error) {
	old, err := s.repo.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStudent(ctx, id, st)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(models.AuditEntry{
		UserID:    caller.ID,
		Role:      caller.Role,
		Action:    models.AuditActionUpdate,
		Module:    models.AuditModuleRegistration,
		RecordID:  id,
		OldValues: audit.Snapshot(old),
		NewValues: audit.Snapshot(updated),
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return updated, nil
}
