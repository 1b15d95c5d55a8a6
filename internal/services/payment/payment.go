// Package payment реализует бизнес-правила приёма платежей: платёж
// возможен только по подтверждённой регистрации, сумма положительна и
// не превышает остаток по услуге, номер счёта выдаётся хранилищем
// внутри транзакции.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vv-overseas/edu-admin/internal/lib/fiscal"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/services/audit"
)

// Ошибки бизнес-правил платежей.
var (
	// ErrStudentNotConfirmed — регистрация студента не в статусе Confirmed.
	ErrStudentNotConfirmed = errors.New("payment allowed only for confirmed students")
	// ErrAlreadyFullyPaid — по регистрации уже выплачена вся сумма услуги.
	ErrAlreadyFullyPaid = errors.New("payment already exists for this student")
)

// BalanceError возвращается, когда платёж превышает остаток по услуге.
type BalanceError struct {
	Remaining float64
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("payment exceeds remaining amount. Remaining: %.2f", e.Remaining)
}

// Repository описывает контракт хранилища для платежей.
type Repository interface {
	GetStudent(ctx context.Context, id string) (*models.StudentRegistration, error)
	SumApprovedPayments(ctx context.Context, studentID string) (float64, error)
	CreatePayment(ctx context.Context, p models.Payment, bucket fiscal.Bucket) (*models.Payment, error)
	ListPayments(ctx context.Context, status, studentOwner string) ([]*models.PaymentWithStudent, error)
}

// Recorder публикует записи аудита.
type Recorder interface {
	Record(entry models.AuditEntry)
}

// Service реализует операции с платежами.
type Service struct {
	repo          Repository
	recorder      Recorder
	invoicePrefix string
	log           *slog.Logger
	now           func() time.Time
}

// New создаёт новый Service. Часы вынесены в поле, чтобы тесты могли
// фиксировать дату и проверять границы финансового года.
func New(repo Repository, recorder Recorder, invoicePrefix string, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		recorder:      recorder,
		invoicePrefix: invoicePrefix,
		log:           log,
		now:           time.Now,
	}
}

// SetNow заменяет источник времени. Используется в тестах для проверки
// границ финансового года.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Create проверяет бизнес-правила и создаёт платёж со сгенерированным
// номером счёта. Запись аудита публикуется после успешного создания.
func (s *Service) Create(ctx context.Context, p models.Payment, caller *models.User, ip, userAgent string) (*models.Payment, error) {
	student, err := s.repo.GetStudent(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Status != models.StudentStatusConfirmed {
		return nil, ErrStudentNotConfirmed
	}

	alreadyPaid, err := s.repo.SumApprovedPayments(ctx, p.StudentID)
	if err != nil {
		return nil, err
	}
	remaining := student.ServiceCharge - alreadyPaid
	if remaining <= 0 {
		return nil, ErrAlreadyFullyPaid
	}
	if p.Amount > remaining {
		return nil, &BalanceError{Remaining: remaining}
	}

	p.Status = models.PaymentStatusApproved
	p.CreatedBy = caller.ID

	bucket := fiscal.BucketFor(s.invoicePrefix, s.now())
	created, err := s.repo.CreatePayment(ctx, p, bucket)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(models.AuditEntry{
		UserID:    caller.ID,
		Role:      caller.Role,
		Action:    models.AuditActionCreate,
		Module:    models.AuditModulePayment,
		RecordID:  created.ID,
		NewValues: audit.Snapshot(created),
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return created, nil
}

// List возвращает платежи с учётом роли: Admin и Accounts видят все,
// остальные — только платежи по студентам, которых завели сами.
func (s *Service) List(ctx context.Context, caller *models.User, status string) ([]*models.PaymentWithStudent, error) {
	studentOwner := ""
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleAccounts {
		studentOwner = caller.ID
	}
	return s.repo.ListPayments(ctx, status, studentOwner)
}
