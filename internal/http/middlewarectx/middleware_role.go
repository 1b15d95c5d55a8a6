package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/roleaccess"
)

// RoleAccessMiddleware создает middleware для проверки ролевого доступа
// к маршруту. Роль берётся из контекста (устанавливается JWTMiddleware),
// решение принимается политикой по пути запроса. При отказе возвращает
// HTTP 403 Forbidden.
func RoleAccessMiddleware(policy roleaccess.Policy, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RoleAccessMiddleware"

			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("user role missing in context",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if !policy.Allowed(role, r.URL.Path) {
				log.Warn("access denied by role policy",
					slog.String("op", op),
					slog.String("role", role),
					slog.String("path", r.URL.Path),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied for role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
