package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vv-overseas/edu-admin/internal/lib/fiscal"
	"github.com/vv-overseas/edu-admin/internal/metrics"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Ограничения цикла подбора номера счёта. Inner — число проверок
// кандидата внутри одной транзакции, outer — число перезапусков
// транзакции после нарушения уникального индекса. При одновременном
// всплеске из N транзакций проигравшие синхронизируются на индексе и
// сгорает по одному перезапуску на каждую волну коммитов, поэтому outer
// должен покрывать размер правдоподобного всплеска, а не единичную
// коллизию.
const (
	maxInvoiceProbes   = 20
	maxInvoiceRestarts = 20
)

// CreatePayment создаёт платёж, генерируя номер счёта внутри одной
// транзакции: находит последний выданный номер текущего полугодия
// (номера чужого формата игнорируются), вычисляет следующий, повторно
// проверяет его на коллизию и при занятости инкрементирует, пока не
// найдёт свободный. Уникальный индекс по invoice_number — финальный
// арбитр: если две транзакции всё же выбрали один номер, проигравшая
// перезапускается. Исчерпание попыток возвращает ErrInvoiceContention.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment, bucket fiscal.Bucket) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	for restart := 0; restart < maxInvoiceRestarts; restart++ {
		created, err := s.tryCreatePayment(ctx, p, bucket)
		if err == nil {
			metrics.InvoiceRestarts.Observe(float64(restart))
			return created, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			continue
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrInvoiceContention)
}

func (s *Storage) tryCreatePayment(ctx context.Context, p models.Payment, bucket fiscal.Bucket) (*models.Payment, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var last sql.NullString
	query := `SELECT invoice_number
			  FROM payments
			  WHERE invoice_number ~ $1
			  ORDER BY length(invoice_number) DESC, invoice_number DESC
			  LIMIT 1`
	err = tx.QueryRowContext(ctx, query, bucket.SeriesPattern()).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	candidate := bucket.Next(last.String)
	for probe := 0; ; probe++ {
		if probe >= maxInvoiceProbes {
			return nil, ErrInvoiceContention
		}
		var exists bool
		err = tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM payments WHERE invoice_number = $1)`,
			candidate).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		candidate = bucket.Next(candidate)
	}

	created := p
	created.InvoiceNumber = candidate
	insert := `INSERT INTO payments
			      (student_id, fee_type, sub_fee_type, payment_method, amount,
			       bank_details, reference_no, gst, gst_amount,
			       invoice_number, status, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id, created_at;`
	err = tx.QueryRowContext(ctx, insert,
		p.StudentID, p.FeeType, nullable(p.SubFeeType), p.PaymentMethod, p.Amount,
		p.BankDetails, nullable(p.ReferenceNo), nullable(p.GST), p.GSTAmount,
		candidate, p.Status, p.CreatedBy).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

// SumApprovedPayments возвращает сумму подтверждённых платежей студента.
func (s *Storage) SumApprovedPayments(ctx context.Context, studentID string) (float64, error) {
	const op = "storage.SumApprovedPayments"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM payments
			  WHERE student_id = $1 AND status = $2`
	var sum float64
	if err := s.DB.QueryRowContext(ctx, query, studentID, models.PaymentStatusApproved).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return sum, nil
}

// ListPayments возвращает платежи вместе с краткими данными студентов.
// Непустой status ограничивает выборку по статусу платежа, непустой
// studentOwner — платежами по студентам, заведённым этим сотрудником.
func (s *Storage) ListPayments(ctx context.Context, status, studentOwner string) ([]*models.PaymentWithStudent, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.student_id, p.fee_type, p.sub_fee_type, p.payment_method,
			      p.amount, p.bank_details, p.reference_no, p.gst, p.gst_amount,
			      p.invoice_number, p.status, p.created_by, p.created_at,
			      st.student_name, st.email, st.mobile_number,
			      st.counselor_name, st.office_city, st.created_by
			  FROM payments p
			  JOIN student_registrations st ON st.id = p.student_id
			  WHERE ($1 = '' OR p.status = $1)
			    AND ($2 = '' OR st.created_by::text = $2)
			  ORDER BY p.created_at ASC`
	rows, err := s.DB.QueryContext(ctx, query, status, studentOwner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PaymentWithStudent
	for rows.Next() {
		var p models.PaymentWithStudent
		var subFeeType, referenceNo, gst sql.NullString
		if err = rows.Scan(&p.ID, &p.StudentID, &p.FeeType, &subFeeType, &p.PaymentMethod,
			&p.Amount, &p.BankDetails, &referenceNo, &gst, &p.GSTAmount,
			&p.InvoiceNumber, &p.Status, &p.CreatedBy, &p.CreatedAt,
			&p.StudentName, &p.StudentEmail, &p.MobileNumber,
			&p.CounselorName, &p.OfficeCity, &p.StudentOwner,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.SubFeeType = subFeeType.String
		p.ReferenceNo = referenceNo.String
		p.GST = gst.String
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
