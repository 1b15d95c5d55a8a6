package loginstep2

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vv-overseas/edu-admin/internal/http/middlewarectx"
	"github.com/vv-overseas/edu-admin/internal/models"
	"github.com/vv-overseas/edu-admin/internal/services/auth"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) LoginStep2(ctx context.Context, employeeID, tempToken string) (string, *models.User, error) {
	args := m.Called(ctx, employeeID, tempToken)
	user, _ := args.Get(1).(*models.User)
	return args.String(0), user, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, handler *Handler, body Request) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login-step2", bytes.NewReader(bodyBytes))
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ServeHTTP_SetsSessionCookie(t *testing.T) {
	svcMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), svcMock, 12*time.Hour)

	user := &models.User{ID: "user-1", Name: "Test Employee", Role: "SubAdmin"}
	svcMock.On("LoginStep2", mock.Anything, "EMP001", "temp-token").
		Return("final-token", user, nil).Once()

	rec := doRequest(t, handler, Request{EmployeeID: "EMP001", TempToken: "temp-token"})

	assert.Equal(t, http.StatusOK, rec.Code)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middlewarectx.SessionCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "session cookie must be set")
	assert.Equal(t, "final-token", sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	data := got["data"].(map[string]any)
	assert.Equal(t, "final-token", data["final_token"])
	assert.Equal(t, "SubAdmin", data["role"])
	assert.Equal(t, "/student-registration", data["landing"])

	svcMock.AssertExpectations(t)
}

func TestHandler_ServeHTTP_InvalidToken(t *testing.T) {
	svcMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), svcMock, 12*time.Hour)

	svcMock.On("LoginStep2", mock.Anything, "EMP001", "expired-token").
		Return("", nil, auth.ErrInvalidToken).Once()

	rec := doRequest(t, handler, Request{EmployeeID: "EMP001", TempToken: "expired-token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Error", got["status"])
	assert.Equal(t, "invalid credentials", got["error"])
}

func TestHandler_ServeHTTP_LockedBetweenSteps(t *testing.T) {
	svcMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), svcMock, 12*time.Hour)

	svcMock.On("LoginStep2", mock.Anything, "EMP001", "temp-token").
		Return("", nil, auth.ErrAccountLocked).Once()

	rec := doRequest(t, handler, Request{EmployeeID: "EMP001", TempToken: "temp-token"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	data := got["data"].(map[string]any)
	assert.Equal(t, true, data["locked"])
}

func TestHandler_ServeHTTP_ValidationError(t *testing.T) {
	svcMock := new(AuthServiceMock)
	handler := New(newNoopLogger(), svcMock, 12*time.Hour)

	rec := doRequest(t, handler, Request{EmployeeID: "EMP001"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svcMock.AssertNotCalled(t, "LoginStep2", mock.Anything, mock.Anything, mock.Anything)
}
