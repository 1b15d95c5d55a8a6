// Package registrationread реализует HTTP-обработчик чтения одной
// регистрации студента по ID.
package registrationread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Service описывает интерфейс чтения регистрации.
type Service interface {
	Get(ctx context.Context, id string) (*models.StudentRegistration, error)
}

// Handler обрабатывает HTTP-запросы чтения регистрации.
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
// @Summary Чтение регистрации студента
// @Description Возвращает регистрацию по ID.
// @Tags Registrations
// @Produce  json
// @Param id path string true "ID регистрации"
// @Success 200 {object} response.Response "Регистрация"
// @Failure 404 {object} response.ErrorResponse "Регистрация не найдена"
// @Failure 422 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/registration/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.read"

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

	student, err := h.service.Get(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrStudentNotFound):
		log.Warn("registration not found", slog.String("registration_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("registration not found"))
		return
	case err != nil:
		log.Error("failed to read registration", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(student.ToView()))
}
