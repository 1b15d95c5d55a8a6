// Package paymentcreate реализует HTTP-обработчик приёма платежа.
//
// Обработчик декодирует и валидирует данные платежа, определяет
// вызывающего из контекста запроса и делегирует создание сервису
// платежей. Ошибки бизнес-правил (неподтверждённый студент, превышение
// остатка, полная оплата) транслируются в ответы 400.
package paymentcreate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/services/payment"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики приёма платежей.
type Service interface {
	Create(ctx context.Context, p models.Payment, caller *models.User, ip, userAgent string) (*models.Payment, error)
}

// Handler обрабатывает HTTP-запросы приёма платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Приём платежа
// @Description Создаёт платёж по подтверждённой регистрации студента. Сумма не может превышать остаток по услуге. Номер счёта присваивается автоматически в рамках текущего полугодия финансового года.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPayment true "Данные платежа"
// @Success 201 {object} response.Response "Платёж создан, выдан номер счёта"
// @Failure 400 {object} response.ErrorResponse "Нарушение бизнес-правил"
// @Failure 404 {object} response.ErrorResponse "Студент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	callerID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)
	caller := &models.User{ID: callerID, Role: callerRole}

	created, err := h.service.Create(r.Context(), req.ToPayment(), caller, middlewarectx.ClientIP(r), r.UserAgent())
	var balanceErr *payment.BalanceError
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		log.Warn("student not found", slog.String("student_id", req.StudentID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("student not found"))
		return
	case errors.Is(err, payment.ErrStudentNotConfirmed):
		log.Warn("payment for unconfirmed student", slog.String("student_id", req.StudentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(payment.ErrStudentNotConfirmed.Error()))
		return
	case errors.Is(err, payment.ErrAlreadyFullyPaid):
		log.Warn("student already fully paid", slog.String("student_id", req.StudentID))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(payment.ErrAlreadyFullyPaid.Error()))
		return
	case errors.As(err, &balanceErr):
		log.Warn("payment exceeds remaining amount",
			slog.String("student_id", req.StudentID),
			slog.Float64("remaining", balanceErr.Remaining))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithData(balanceErr.Error(), map[string]any{
			"remaining": balanceErr.Remaining,
		}))
		return
	case errors.Is(err, repository.ErrInvoiceContention):
		log.Error("invoice numbering contention", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("could not allocate invoice number, retry the payment"))
		return
	case err != nil:
		log.Error("failed to create payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("payment created",
		slog.String("payment_id", created.ID),
		slog.String("invoice_number", created.InvoiceNumber))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":             created.ID,
		"invoice_number": created.InvoiceNumber,
		"status":         created.Status,
		"amount":         created.Amount,
	}))
}
