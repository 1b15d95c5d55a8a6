// Package paymentlist реализует HTTP-обработчик списка платежей для
// экранов транзакций. Список ограничивается ролью вызывающего.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Service описывает интерфейс чтения списка платежей.
type Service interface {
	List(ctx context.Context, caller *models.User, status string) ([]*models.PaymentWithStudent, error)
}

// Handler обрабатывает HTTP-запросы списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// item — элемент списка платежей в ответе.
type item struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	StudentEmail  string  `json:"student_email"`
	MobileNumber  string  `json:"mobile_number"`
	CounselorName string  `json:"counselor_name"`
	OfficeCity    string  `json:"office_city"`
	FeeType       string  `json:"fee_type"`
	SubFeeType    string  `json:"sub_fee_type,omitempty"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
	GSTAmount     float64 `json:"gst_amount"`
	InvoiceNumber string  `json:"invoice_number"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает платежи с данными студентов. Admin и Accounts видят все платежи, SubAdmin — только по своим студентам. Параметр status фильтрует по статусу платежа.
// @Tags Payments
// @Produce  json
// @Param status query string false "Статус платежа" Enums(Pending, Approved, Failed)
// @Success 200 {object} response.Response "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/payment [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	callerID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)
	caller := &models.User{ID: callerID, Role: callerRole}

	payments, err := h.service.List(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	items := make([]item, 0, len(payments))
	for _, p := range payments {
		items = append(items, item{
			ID:            p.ID,
			StudentID:     p.StudentID,
			StudentName:   p.StudentName,
			StudentEmail:  p.StudentEmail,
			MobileNumber:  p.MobileNumber,
			CounselorName: p.CounselorName,
			OfficeCity:    p.OfficeCity,
			FeeType:       p.FeeType,
			SubFeeType:    p.SubFeeType,
			PaymentMethod: p.PaymentMethod,
			Amount:        p.Amount,
			GSTAmount:     p.GSTAmount,
			InvoiceNumber: p.InvoiceNumber,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	log.Info("payments listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
