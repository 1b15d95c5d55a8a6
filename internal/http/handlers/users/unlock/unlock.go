// Package unlock реализует HTTP-обработчик ручной разблокировки
// учётной записи администратором.
package unlock

import (
	"context"
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
	"github.com/vv-overseas/edu-admin/internal/services/audit"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Service описывает интерфейс разблокировки учётной записи.
type Service interface {
	Unlock(ctx context.Context, userID string) (*models.User, error)
}

// Recorder публикует записи аудита.
type Recorder interface {
	Record(entry models.AuditEntry)
}

// Handler обрабатывает HTTP-запросы разблокировки.
type Handler struct {
	log      *slog.Logger
	service  Service
	recorder Recorder
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, recorder Recorder) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		recorder: recorder,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Разблокировка учётной записи
// @Description Сбрасывает счётчик неудачных попыток и признак блокировки. Доступно только роли Admin.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Success 200 {object} response.Response "Учётная запись разблокирована"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/users/unlock/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.unlock"

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

	user, err := h.service.Unlock(r.Context(), id)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Warn("user not found", slog.String("user_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to unlock user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	callerID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	callerRole, _ := r.Context().Value(middlewarectx.Role).(string)
	h.recorder.Record(models.AuditEntry{
		UserID:    callerID,
		Role:      callerRole,
		Action:    models.AuditActionUnlock,
		Module:    models.AuditModuleUsers,
		RecordID:  user.ID,
		NewValues: audit.Snapshot(map[string]any{"failed_attempts": 0, "is_locked": false}),
		IPAddress: middlewarectx.ClientIP(r),
		UserAgent: r.UserAgent(),
	})

	log.Info("user unlocked", slog.String("user_id", user.ID), slog.String("email", user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "account unlocked",
		"email":   user.Email,
	}))
}
