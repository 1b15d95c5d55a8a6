// Package middlewarectx содержит HTTP middleware для проверки JWT
// токенов и ролевого доступа.
//
// JWTMiddleware извлекает сессионный токен из cookie "token" или
// заголовка Authorization, валидирует его и кладёт в контекст запроса
// идентификатор пользователя и роль для дальнейшего использования в
// обработчиках.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с
// сообщением об ошибке.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vv-overseas/edu-admin/internal/http/response"
	"github.com/vv-overseas/edu-admin/internal/lib/jwt"
	"github.com/vv-overseas/edu-admin/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// SessionCookie — имя cookie с сессионным токеном.
const SessionCookie = "token"

// TokenParser описывает интерфейс для валидации токена.
type TokenParser interface {
	ParseToken(tokenStr string, wantKind string) (*jwt.CustomClaims, error)
}

// TokenFromRequest извлекает сессионный токен из cookie "token" либо,
// при его отсутствии, из заголовка Authorization (схема Bearer).
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// JWTMiddleware возвращает HTTP middleware, который проверяет сессионный JWT.
//
// Если токен валиден, добавляет идентификатор пользователя и роль в
// контекст запроса, иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func JWTMiddleware(parser TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				log.Error("missing session token")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing session token"))
				return
			}

			claims, err := parser.ParseToken(tokenStr, jwt.KindSession)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), UserUID, claims.UserID)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
