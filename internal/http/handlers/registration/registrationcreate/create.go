// Package registrationcreate реализует HTTP-обработчик создания
// регистрации студента.
package registrationcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Service описывает интерфейс создания регистрации.
type Service interface {
	Create(ctx context.Context, st models.StudentRegistration, caller *models.User, ip, userAgent string) (string, error)
}

// Handler обрабатывает HTTP-запросы создания регистрации.
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
// @Summary Создание регистрации студента
// @Description Сохраняет новую регистрацию. Статус по умолчанию — Pending.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Param request body models.DummyStudentRegistration true "Данные регистрации"
// @Success 201 {object} response.Response "Регистрация создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или даты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/registration [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyStudentRegistration
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

	st, err := req.ToRegistration()
	if err != nil {
		log.Error("failed to parse registration dates", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	callerID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)
	caller := &models.User{ID: callerID, Role: callerRole}

	id, err := h.service.Create(r.Context(), st, caller, middlewarectx.ClientIP(r), r.UserAgent())
	if err != nil {
		log.Error("failed to create registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("registration created", slog.String("registration_id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"id": id}))
}
