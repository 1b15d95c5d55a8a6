// Package loginstep1 реализует HTTP-обработчик первого шага входа.
//
// В нём определяется структура Request для входных данных, выполняется
// декодирование JSON, валидация полей и делегирование проверки пароля
// сервису аутентификации. При успехе возвращается временный токен для
// второго шага; при неверном пароле — число оставшихся попыток, при
// блокировке — признак locked.
package loginstep1

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
	"github.com/vv-overseas/edu-admin/internal/services/auth"
)

// Request — структура входных данных первого шага входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики первого шага входа.
type Service interface {
	LoginStep1(ctx context.Context, email, password, ip string) (string, int, error)
}

// Handler обрабатывает HTTP-запросы первого шага входа.
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
// @Summary Первый шаг входа
// @Description Проверяет email и пароль. При успехе возвращает временный токен для второго шага. При неверном пароле возвращает число оставшихся попыток, при блокировке учётной записи — признак locked.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и пароль"
// @Success 200 {object} response.Response "Временный токен выдан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверные учетные данные или блокировка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login-step1 [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.loginstep1"

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

	tempToken, attemptsLeft, err := h.service.LoginStep1(r.Context(), req.Email, req.Password, middlewarectx.ClientIP(r))
	switch {
	case errors.Is(err, auth.ErrAccountLocked):
		log.Warn("login rejected, account locked", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Locked())
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.Warn("invalid credentials", slog.String("email", req.Email))
		w.WriteHeader(http.StatusUnauthorized)
		// attempts_left есть только когда попытка была засчитана
		if attemptsLeft > 0 {
			render.JSON(w, r, response.ErrorWithData("invalid credentials", map[string]any{
				"attempts_left": attemptsLeft,
			}))
			return
		}
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	case err != nil:
		log.Error("login step1 failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("login step1 success", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"temp_token": tempToken,
		"message":    "password accepted, verify employee id",
	}))
}
