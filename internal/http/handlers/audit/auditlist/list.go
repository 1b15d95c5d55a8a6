// Package auditlist реализует HTTP-обработчик чтения журнала аудита с
// фильтрами по модулю и действию.
package auditlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
)

// Service описывает интерфейс чтения журнала аудита.
type Service interface {
	List(ctx context.Context, module, action string, limit, offset int) ([]*models.AuditEntry, error)
}

// Handler обрабатывает HTTP-запросы чтения журнала аудита.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал аудита
// @Description Возвращает записи журнала аудита, новые сверху. Параметры: module, action, limit (по умолчанию 50), offset.
// @Tags Audit
// @Produce  json
// @Param module query string false "Модуль" Enums(Payment, StudentRegistration, Auth, Users)
// @Param action query string false "Действие" Enums(CREATE, UPDATE, LOGIN, UNLOCK)
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Записи журнала"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/audit [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.audit.list"

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

	entries, err := h.service.List(r.Context(),
		r.URL.Query().Get("module"),
		r.URL.Query().Get("action"),
		limit, offset)
	if err != nil {
		log.Error("failed to list audit entries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("audit entries listed", slog.Int("count", len(entries)))
	render.JSON(w, r, response.OKWithData(entries))
}
