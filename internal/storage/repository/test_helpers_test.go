package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vv-overseas/edu-admin/internal/migrations"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// setupTestDatabase поднимает контейнер PostgreSQL, прогоняет миграции и
// возвращает хранилище с функцией очистки.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового сотрудника и возвращает его ID.
func (f *TestDataFactory) CreateUser(t *testing.T, email, employeeID, role string) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO users (name, email, employee_id, password_hash, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"Test Employee", email, employeeID, "hashedpassword", role).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateStudent создает тестовую регистрацию и возвращает её ID.
func (f *TestDataFactory) CreateStudent(t *testing.T, createdBy, status string, serviceCharge float64) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO student_registrations
		(student_name, fathers_name, nationality, date_of_birth, gender,
		 mobile_number, email, address_line1, country, state, city, district,
		 pincode, abroad_masters, course_name, academic_year, service_charge,
		 counselor_name, processed_by, office_city, assignee_name, status,
		 created_by, registration_date)
		VALUES ('Test Student', 'Test Father', 'Indian', '2004-06-15', 'Male',
		        '9876543210', $1, 'Street 1', 'India', 'Kerala', 'Kochi', 'Ernakulam',
		        '682001', 'No', 'MBBS Abroad', '2025-2026', $2,
		        'Counselor', 'Office', 'Kochi', 'Assignee', $3,
		        $4, '2025-06-01')
		RETURNING id`,
		uuid.New().String()+"@example.com", serviceCharge, status, createdBy).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertInvoice вставляет платёж с заданным номером счёта напрямую,
// минуя генерацию номера.
func (f *TestDataFactory) InsertInvoice(t *testing.T, studentID, createdBy, invoiceNumber string, amount float64) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO payments
		(student_id, fee_type, payment_method, amount, bank_details, invoice_number, status, created_by)
		VALUES ($1, 'Service Charge', 'Bank Transfer', $2, 'HDFC 1234', $3, 'Approved', $4)`,
		studentID, amount, invoiceNumber, createdBy)
	require.NoError(t, err)
}

// testPayment возвращает платёж с заполненными обязательными полями.
func testPayment(studentID, createdBy string, amount float64) models.Payment {
	return models.Payment{
		StudentID:     studentID,
		FeeType:       "Service Charge",
		PaymentMethod: "Bank Transfer",
		Amount:        amount,
		BankDetails:   "HDFC 1234",
		Status:        models.PaymentStatusApproved,
		CreatedBy:     createdBy,
	}
}
