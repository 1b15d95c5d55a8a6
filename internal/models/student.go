package models

import (
	"fmt"
	"time"
)

// Статусы регистрации студента. Платежи принимаются только по
// регистрациям в статусе Confirmed.
const (
	StudentStatusPending   = "Pending"
	StudentStatusConfirmed = "Confirmed"
	StudentStatusRejected  = "Rejected"
	StudentStatusHold      = "Hold"
)

// StudentRegistration — основная модель регистрации студента,
// используемая в бизнес-логике и хранилище.
type StudentRegistration struct {
	ID               string
	StudentName      string
	FathersName      string
	Nationality      string
	DateOfBirth      time.Time
	Gender           string
	MobileNumber     string
	ParentMobile     string
	Email            string
	AddressLine1     string
	AddressLine2     string
	Country          string
	State            string
	City             string
	District         string
	Pincode          string
	AbroadMasters    string
	CourseName       string
	AcademicYear     string
	ServiceCharge    float64
	CounselorName    string
	ProcessedBy      string
	OfficeCity       string
	AssigneeName     string
	PassportNumber   string
	Status           string
	CreatedBy        string
	RegistrationDate time.Time
	CreatedAt        time.Time
}

// DummyStudentRegistration используется для приёма данных регистрации из
// JSON-запроса, прежде чем конвертировать их в StudentRegistration.
// Даты приходят строками в формате 2006-01-02, чтобы их можно было
// валидировать и парсить вручную.
type DummyStudentRegistration struct {
	StudentName      string  `json:"student_name" validate:"required,min=2"`
	FathersName      string  `json:"fathers_name" validate:"required"`
	Nationality      string  `json:"nationality" validate:"required"`
	DateOfBirth      string  `json:"date_of_birth" validate:"required"`
	Gender           string  `json:"gender" validate:"required"`
	MobileNumber     string  `json:"mobile_number" validate:"required,numeric,len=10"`
	ParentMobile     string  `json:"parent_mobile" validate:"omitempty,numeric,len=10"`
	Email            string  `json:"email" validate:"required,email"`
	AddressLine1     string  `json:"address_line1" validate:"required"`
	AddressLine2     string  `json:"address_line2"`
	Country          string  `json:"country" validate:"required"`
	State            string  `json:"state" validate:"required"`
	City             string  `json:"city" validate:"required"`
	District         string  `json:"district" validate:"required"`
	Pincode          string  `json:"pincode" validate:"required,numeric,len=6"`
	AbroadMasters    string  `json:"abroad_masters" validate:"required"`
	CourseName       string  `json:"course_name" validate:"required"`
	AcademicYear     string  `json:"academic_year" validate:"required"`
	ServiceCharge    float64 `json:"service_charge" validate:"gte=0"`
	CounselorName    string  `json:"counselor_name" validate:"required"`
	ProcessedBy      string  `json:"processed_by" validate:"required"`
	OfficeCity       string  `json:"office_city" validate:"required"`
	AssigneeName     string  `json:"assignee_name" validate:"required"`
	PassportNumber   string  `json:"passport_number"`
	Status           string  `json:"status" validate:"omitempty,oneof=Pending Confirmed Rejected Hold"`
	RegistrationDate string  `json:"registration_date" validate:"required"`
}

// StudentRegistrationView — представление регистрации для JSON-ответов.
type StudentRegistrationView struct {
	ID               string  `json:"id"`
	StudentName      string  `json:"student_name"`
	FathersName      string  `json:"fathers_name"`
	Nationality      string  `json:"nationality"`
	DateOfBirth      string  `json:"date_of_birth"`
	Gender           string  `json:"gender"`
	MobileNumber     string  `json:"mobile_number"`
	ParentMobile     string  `json:"parent_mobile,omitempty"`
	Email            string  `json:"email"`
	AddressLine1     string  `json:"address_line1"`
	AddressLine2     string  `json:"address_line2,omitempty"`
	Country          string  `json:"country"`
	State            string  `json:"state"`
	City             string  `json:"city"`
	District         string  `json:"district"`
	Pincode          string  `json:"pincode"`
	AbroadMasters    string  `json:"abroad_masters"`
	CourseName       string  `json:"course_name"`
	AcademicYear     string  `json:"academic_year"`
	ServiceCharge    float64 `json:"service_charge"`
	CounselorName    string  `json:"counselor_name"`
	ProcessedBy      string  `json:"processed_by"`
	OfficeCity       string  `json:"office_city"`
	AssigneeName     string  `json:"assignee_name"`
	PassportNumber   string  `json:"passport_number,omitempty"`
	Status           string  `json:"status"`
	CreatedBy        string  `json:"created_by"`
	RegistrationDate string  `json:"registration_date"`
	CreatedAt        string  `json:"created_at"`
}

// ToView конвертирует регистрацию в представление для JSON-ответа,
// форматируя даты строками 2006-01-02.
func (s StudentRegistration) ToView() StudentRegistrationView {
	return StudentRegistrationView{
		ID:               s.ID,
		StudentName:      s.StudentName,
		FathersName:      s.FathersName,
		Nationality:      s.Nationality,
		DateOfBirth:      s.DateOfBirth.Format("2006-01-02"),
		Gender:           s.Gender,
		MobileNumber:     s.MobileNumber,
		ParentMobile:     s.ParentMobile,
		Email:            s.Email,
		AddressLine1:     s.AddressLine1,
		AddressLine2:     s.AddressLine2,
		Country:          s.Country,
		State:            s.State,
		City:             s.City,
		District:         s.District,
		Pincode:          s.Pincode,
		AbroadMasters:    s.AbroadMasters,
		CourseName:       s.CourseName,
		AcademicYear:     s.AcademicYear,
		ServiceCharge:    s.ServiceCharge,
		CounselorName:    s.CounselorName,
		ProcessedBy:      s.ProcessedBy,
		OfficeCity:       s.OfficeCity,
		AssigneeName:     s.AssigneeName,
		PassportNumber:   s.PassportNumber,
		Status:           s.Status,
		CreatedBy:        s.CreatedBy,
		RegistrationDate: s.RegistrationDate.Format("2006-01-02"),
		CreatedAt:        s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ToRegistration конвертирует DTO в StudentRegistration, разбирая даты
// из формата 2006-01-02.
func (d DummyStudentRegistration) ToRegistration() (StudentRegistration, error) {
	dob, err := time.Parse("2006-01-02", d.DateOfBirth)
	if err != nil {
		return StudentRegistration{}, fmt.Errorf("invalid date of birth: %w", err)
	}
	regDate, err := time.Parse("2006-01-02", d.RegistrationDate)
	if err != nil {
		return StudentRegistration{}, fmt.Errorf("invalid registration date: %w", err)
	}
	return StudentRegistration{
		StudentName:      d.StudentName,
		FathersName:      d.FathersName,
		Nationality:      d.Nationality,
		DateOfBirth:      dob,
		Gender:           d.Gender,
		MobileNumber:     d.MobileNumber,
		ParentMobile:     d.ParentMobile,
		Email:            d.Email,
		AddressLine1:     d.AddressLine1,
		AddressLine2:     d.AddressLine2,
		Country:          d.Country,
		State:            d.State,
		City:             d.City,
		District:         d.District,
		Pincode:          d.Pincode,
		AbroadMasters:    d.AbroadMasters,
		CourseName:       d.CourseName,
		AcademicYear:     d.AcademicYear,
		ServiceCharge:    d.ServiceCharge,
		CounselorName:    d.CounselorName,
		ProcessedBy:      d.ProcessedBy,
		OfficeCity:       d.OfficeCity,
		AssigneeName:     d.AssigneeName,
		PassportNumber:   d.PassportNumber,
		Status:           d.Status,
		RegistrationDate: regDate,
	}, nil
}
