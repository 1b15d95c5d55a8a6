// Package registrationlist реализует HTTP-обработчик списка регистраций
// студентов. Список ограничивается ролью вызывающего.
package registrationlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Service описывает интерфейс чтения списка регистраций.
type Service interface {
	List(ctx context.Context, caller *models.User, status string, limit, offset int) ([]*models.StudentRegistration, error)
}

// Handler обрабатывает HTTP-запросы списка регистраций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список регистраций студентов
// @Description Возвращает регистрации. Admin и Accounts видят все, SubAdmin — только заведённые им. Параметры: status, limit (по умолчанию 50), offset.
// @Tags Registrations
// @Produce  json
// @Param status query string false "Статус регистрации" Enums(Pending, Confirmed, Rejected, Hold)
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список регистраций"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/registration [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.registration.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	callerID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)
	caller := &models.User{ID: callerID, Role: callerRole}

	students, err := h.service.List(r.Context(), caller, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		log.Error("failed to list registrations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	views := make([]models.StudentRegistrationView, 0, len(students))
	for _, st := range students {
		views = append(views, st.ToView())
	}

	log.Info("registrations listed", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(views))
}
