package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]string{"id": "abc"})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]string{"id": "abc"}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestErrorWithData(t *testing.T) {
	resp := ErrorWithData("invalid credentials", map[string]any{"attempts_left": 3})

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "invalid credentials", resp.Error)
	assert.Equal(t, map[string]any{"attempts_left": 3}, resp.Data)
}

func TestLocked(t *testing.T) {
	resp := Locked()

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "account locked", resp.Error)
	assert.Equal(t, map[string]any{"locked": true}, resp.Data)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Email    string  `validate:"required,email"`
		Password string  `validate:"required,min=6"`
		Amount   float64 `validate:"gt=0"`
	}

	v := validator.New()

	tests := []struct {
		name    string
		req     request
		wantMsg string
	}{
		{
			name:    "missing required fields",
			req:     request{Amount: 10},
			wantMsg: "field Email is a required field, field Password is a required field",
		},
		{
			name:    "malformed email",
			req:     request{Email: "not-an-email", Password: "secret123", Amount: 10},
			wantMsg: "field Email must be a valid email",
		},
		{
			name:    "amount not positive",
			req:     request{Email: "user@example.com", Password: "secret123"},
			wantMsg: "field Amount must be greater than 0",
		},
		{
			name:    "unknown tag falls back to generic message",
			req:     request{Email: "user@example.com", Password: "123", Amount: 10},
			wantMsg: "field Password is not a valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))

			assert.Equal(t, StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}
