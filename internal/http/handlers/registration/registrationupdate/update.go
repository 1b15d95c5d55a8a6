// Package registrationupdate реализует HTTP-обработчик редактирования
// регистрации студента, включая смену статуса.
package registrationupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Service описывает интерфейс редактирования регистрации.
type Service interface {
	Update(ctx context.Context, id string, st models.StudentRegistration, caller *models.User, ip, userAgent string) (*models.StudentRegistration, error)
}

// Handler обрабатывает HTTP-запросы редактирования регистрации.
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
// @Summary Редактирование регистрации студента
// @Description Заменяет изменяемые поля регистрации, включая статус. Снимки до и после изменения попадают в журнал аудита.
// @Tags Registrations
// @Accept  json
// @Produce  json
// @Param id path string true "ID регистрации"
// @Param request body models.DummyStudentRegistration true "Новые данные регистрации"
// @Success 200 {object} response.Response "Обновлённая регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или даты"
// @Failure 404 {object} response.ErrorResponse "Регистрация не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/registration/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required,uuid"); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("path parameter id must be a valid uuid"))
		return
	}

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

	updated, err := h.service.Update(r.Context(), id, st, caller, middlewarectx.ClientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		log.Warn("registration not found", slog.String("registration_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("registration not found"))
		return
	case err != nil:
		log.Error("failed to update registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("registration updated", slog.String("registration_id", id))
	render.JSON(w, r, response.OKWithData(updated.ToView()))
}
