// Package loginstep2 реализует HTTP-обработчик второго шага входа:
// проверку временного токена и идентификатора сотрудника. При успехе
// выдаётся сессионный токен, который устанавливается в cookie и
// возвращается в теле ответа вместе со стартовой страницей роли.
package loginstep2

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/roleaccess"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/services/auth"
)

// Request — структура входных данных второго шага входа.
type Request struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	TempToken  string `json:"temp_token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики второго шага входа.
type Service interface {
	LoginStep2(ctx context.Context, employeeID, tempToken string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы второго шага входа.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessionTTL time.Duration
	validate   *validator.Validate
}

// New создает новый экземпляр Handler. sessionTTL задаёт срок жизни
// cookie с сессионным токеном.
func New(log *slog.Logger, service Service, sessionTTL time.Duration) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessionTTL: sessionTTL,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Второй шаг входа
// @Description Проверяет временный токен и идентификатор сотрудника. При успехе устанавливает cookie с сессионным токеном и возвращает его вместе со стартовой страницей роли.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор сотрудника и временный токен"
// @Success 200 {object} response.Response "Сессионный токен выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.Response "Невалидный токен, чужой сотрудник или блокировка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login-step2 [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginstep2"

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

	finalToken, user, err := h.service.LoginStep2(r.Context(), req.EmployeeID, req.TempToken)
	switch {
	case errors.Is(err, auth.ErrAccountLocked):
		log.Warn("login rejected, account locked", slog.String("employee_id", req.EmployeeID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Locked())
		return
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		log.Warn("login step2 rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	case err != nil:
		log.Error("login step2 failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.SessionCookie,
		Value:    finalToken,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("login step2 success", slog.String("employee_id", req.EmployeeID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"final_token": finalToken,
		"role":        user.Role,
		"name":        user.Name,
		"landing":     roleaccess.LandingPath(user.Role),
		"message":     "login successful",
	}))
}
