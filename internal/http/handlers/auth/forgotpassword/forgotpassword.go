// Package forgotpassword реализует HTTP-обработчик запроса сброса
// пароля по идентификатору сотрудника.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Request — структура входных данных запроса сброса пароля.
type Request struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// Service описывает интерфейс выдачи токена сброса пароля.
type Service interface {
	ForgotPassword(ctx context.Context, employeeID string) (string, error)
}

// Handler обрабатывает HTTP-запросы сброса пароля.
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
// @Summary Запрос сброса пароля
// @Description Выдаёт короткоживущий токен сброса пароля по идентификатору сотрудника.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор сотрудника"
// @Success 200 {object} response.Response "Токен сброса выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Сотрудник не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/forgot-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	resetToken, err := h.service.ForgotPassword(r.Context(), req.EmployeeID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Warn("employee not found", slog.String("employee_id", req.EmployeeID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("employee not found"))
		return
	case err != nil:
		log.Error("failed to issue reset token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("reset token issued", slog.String("employee_id", req.EmployeeID))
	render.JSON(w, r, response.OKWithData(map[string]any{"reset_token": resetToken}))
}
