// Package me реализует HTTP-обработчик сведений о текущем пользователе.
package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/roleaccess"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/storage/repository"
)

// Service описывает интерфейс чтения текущего пользователя.
type Service interface {
	Me(ctx context.Context, userID string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы сведений о текущем пользователе.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает профиль аутентифицированного пользователя и стартовую страницу его роли.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security CookieAuth
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	user, err := h.service.Me(r.Context(), userID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		log.Warn("user not found", slog.String("user_id", userID))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":          user.ID,
		"name":        user.Name,
		"email":       user.Email,
		"employee_id": user.EmployeeID,
		"role":        user.Role,
		"landing":     roleaccess.LandingPath(user.Role),
	}))
}
