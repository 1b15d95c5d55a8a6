package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vv-overseas/edu-admin/internal/models"
)

const studentColumns = `id, student_name, fathers_name, nationality, date_of_birth,
			      gender, mobile_number, parent_mobile, email,
			      address_line1, address_line2, country, state, city, district, pincode,
			      abroad_masters, course_name, academic_year, service_charge,
			      counselor_name, processed_by, office_city, assignee_name,
			      passport_number, status, created_by, registration_date, created_at`

func scanStudent(scan func(dest ...any) error) (*models.StudentRegistration, error) {
	st := &models.StudentRegistration{}
	var addressLine2, parentMobile, passportNumber sql.NullString
	err := scan(&st.ID, &st.StudentName, &st.FathersName, &st.Nationality, &st.DateOfBirth,
		&st.Gender, &st.MobileNumber, &parentMobile, &st.Email,
		&st.AddressLine1, &addressLine2, &st.Country, &st.State, &st.City, &st.District, &st.Pincode,
		&st.AbroadMasters, &st.CourseName, &st.AcademicYear, &st.ServiceCharge,
		&st.CounselorName, &st.ProcessedBy, &st.OfficeCity, &st.AssigneeName,
		&passportNumber, &st.Status, &st.CreatedBy, &st.RegistrationDate, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	st.AddressLine2 = addressLine2.String
	st.ParentMobile = parentMobile.String
	st.PassportNumber = passportNumber.String
	return st, nil
}

// CreateStudent сохраняет новую регистрацию студента и возвращает её ID.
func (s *Storage) CreateStudent(ctx context.Context, st models.StudentRegistration) (string, error) {
	const op = "storage.CreateStudent"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO student_registrations
			      (student_name, fathers_name, nationality, date_of_birth, gender,
			       mobile_number, parent_mobile, email,
			       address_line1, address_line2, country, state, city, district, pincode,
			       abroad_masters, course_name, academic_year, service_charge,
			       counselor_name, processed_by, office_city, assignee_name,
			       passport_number, status, created_by, registration_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			      $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		st.StudentName, st.FathersName, st.Nationality, st.DateOfBirth, st.Gender,
		st.MobileNumber, nullable(st.ParentMobile), st.Email,
		st.AddressLine1, nullable(st.AddressLine2), st.Country, st.State, st.City, st.District, st.Pincode,
		st.AbroadMasters, st.CourseName, st.AcademicYear, st.ServiceCharge,
		st.CounselorName, st.ProcessedBy, st.OfficeCity, st.AssigneeName,
		nullable(st.PassportNumber), st.Status, st.CreatedBy, st.RegistrationDate).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetStudent возвращает регистрацию студента по её ID.
func (s *Storage) GetStudent(ctx context.Context, id string) (*models.StudentRegistration, error) {
	const op = "storage.GetStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + `
			  FROM student_registrations
			  WHERE id = $1`
	st, err := scanStudent(s.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// ListStudents возвращает регистрации с пагинацией. Непустой createdBy
// ограничивает выборку регистрациями конкретного сотрудника, непустой
// status — регистрациями в этом статусе.
func (s *Storage) ListStudents(ctx context.Context, createdBy, status string, limit, offset int) ([]*models.StudentRegistration, error) {
	const op = "storage.ListStudents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + studentColumns + `
			  FROM student_registrations
			  WHERE ($1 = '' OR created_by::text = $1)
			    AND ($2 = '' OR status = $2)
			  ORDER BY created_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, createdBy, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.StudentRegistration
	for rows.Next() {
		st, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStudent обновляет изменяемые поля регистрации и возвращает
// обновлённую запись.
func (s *Storage) UpdateStudent(ctx context.Context, id string, st models.StudentRegistration) (*models.StudentRegistration, error) {
	const op = "storage.UpdateStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE student_registrations
			  SET student_name = $2, fathers_name = $3, nationality = $4,
			      date_of_birth = $5, gender = $6, mobile_number = $7,
			      parent_mobile = $8, email = $9,
			      address_line1 = $10, address_line2 = $11, country = $12,
			      state = $13, city = $14, district = $15, pincode = $16,
			      abroad_masters = $17, course_name = $18, academic_year = $19,
			      service_charge = $20, counselor_name = $21, processed_by = $22,
			      office_city = $23, assignee_name = $24, passport_number = $25,
			      status = $26, registration_date = $27
			  WHERE id = $1
			  RETURNING ` + studentColumns
	updated, err := scanStudent(s.DB.QueryRowContext(ctx, query, id,
		st.StudentName, st.FathersName, st.Nationality, st.DateOfBirth, st.Gender,
		st.MobileNumber, nullable(st.ParentMobile), st.Email,
		st.AddressLine1, nullable(st.AddressLine2), st.Country, st.State, st.City, st.District, st.Pincode,
		st.AbroadMasters, st.CourseName, st.AcademicYear, st.ServiceCharge,
		st.CounselorName, st.ProcessedBy, st.OfficeCity, st.AssigneeName,
		nullable(st.PassportNumber), st.Status, st.RegistrationDate).Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
