// Package checklockout реализует HTTP-обработчик идемпотентной проверки
// блокировки учётной записи. Экран входа опрашивает его, чтобы показать
// состояние блокировки до ввода пароля.
package checklockout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
)

// Service описывает интерфейс проверки блокировки.
type Service interface {
	CheckLockout(ctx context.Context, email string) (bool, error)
}

// Handler обрабатывает HTTP-запросы проверки блокировки.
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
// @Summary Проверка блокировки учётной записи
// @Description Возвращает признак блокировки по email. Для неизвестного email возвращает locked=false, не раскрывая существование учётной записи.
// @Tags Auth
// @Produce  json
// @Param email query string true "Email пользователя"
// @Success 200 {object} response.Response "Признак блокировки"
// @Failure 422 {object} response.ErrorResponse "Некорректный email"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/check-lockout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checklockout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if err := h.validate.Var(email, "required,email"); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("query parameter email must be a valid email"))
		return
	}

	locked, err := h.service.CheckLockout(r.Context(), email)
	if err != nil {
		log.Error("failed to check lockout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"locked": locked}))
}
