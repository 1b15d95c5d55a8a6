package models

import "time"

// Статусы платежа. Платёж, создаваемый сотрудником, сразу получает
// статус Approved; Pending и Failed зарезервированы за ручной сверкой.
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusApproved = "Approved"
	PaymentStatusFailed   = "Failed"
)

// Payment — запись об оплате услуг по регистрации студента.
// InvoiceNumber уникален и монотонно растёт внутри своего
// полугодия финансового года.
type Payment struct {
	ID            string
	StudentID     string
	FeeType       string
	SubFeeType    string
	PaymentMethod string
	Amount        float64
	BankDetails   string
	ReferenceNo   string
	GST           string
	GSTAmount     float64
	InvoiceNumber string
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
}

// PaymentWithStudent — платёж вместе с краткими данными студента,
// используется в списках для экранов транзакций.
type PaymentWithStudent struct {
	Payment
	StudentName   string
	StudentEmail  string
	MobileNumber  string
	CounselorName string
	OfficeCity    string
	StudentOwner  string
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
type DummyPayment struct {
	StudentID     string  `json:"student_id" validate:"required,uuid"`
	FeeType       string  `json:"fee_type" validate:"required"`
	SubFeeType    string  `json:"sub_fee_type"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	BankDetails   string  `json:"bank_details" validate:"required"`
	ReferenceNo   string  `json:"reference_no"`
	GST           string  `json:"gst"`
	GSTAmount     float64 `json:"gst_amount" validate:"gte=0"`
}

// ToPayment конвертирует DTO в Payment.
func (d DummyPayment) ToPayment() Payment {
	return Payment{
		StudentID:     d.StudentID,
		FeeType:       d.FeeType,
		SubFeeType:    d.SubFeeType,
		PaymentMethod: d.PaymentMethod,
		Amount:        d.Amount,
		BankDetails:   d.BankDetails,
		ReferenceNo:   d.ReferenceNo,
		GST:           d.GST,
		GSTAmount:     d.GSTAmount,
	}
}
