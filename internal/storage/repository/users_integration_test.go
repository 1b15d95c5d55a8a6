package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vv-overseas/edu-admin/internal/models"
)

const lockThreshold = 5

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "admin@example.com", "EMP001", "Admin")

	ctx := context.Background()

	user, err := storage.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "EMP001", user.EmployeeID)
	assert.Equal(t, "Admin", user.Role)
	assert.Equal(t, 0, user.FailedAttempts)
	assert.False(t, user.IsLocked)

	_, err = storage.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetUserByEmployeeID(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "admin@example.com", "EMP001", "Admin")

	ctx := context.Background()

	user, err := storage.GetUserByEmployeeID(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = storage.GetUserByEmployeeID(ctx, "EMP999")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_RegisterFailedAttempt_LocksAtThreshold(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "sub@example.com", "EMP001", "SubAdmin")

	ctx := context.Background()

	for want := 1; want < lockThreshold; want++ {
		attempts, locked, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
		require.NoError(t, err)
		assert.Equal(t, want, attempts)
		assert.False(t, locked, "attempt %d must not lock", want)
	}

	attempts, locked, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
	require.NoError(t, err)
	assert.Equal(t, lockThreshold, attempts)
	assert.True(t, locked, "threshold attempt must lock")

	user, err := storage.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.True(t, user.IsLocked)
	assert.Equal(t, lockThreshold, user.FailedAttempts)
}

func TestStorage_RegisterFailedAttempt_UnknownUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, _, err := storage.RegisterFailedAttempt(context.Background(),
		"00000000-0000-4000-8000-000000000000", lockThreshold)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ResetFailedAttempts(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "sub@example.com", "EMP001", "SubAdmin")

	ctx := context.Background()

	for range 3 {
		_, _, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
		require.NoError(t, err)
	}

	require.NoError(t, storage.ResetFailedAttempts(ctx, userID))

	user, err := storage.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedAttempts)
	assert.False(t, user.IsLocked)
}

func TestStorage_UnlockUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "sub@example.com", "EMP001", "SubAdmin")

	ctx := context.Background()

	for range lockThreshold {
		_, _, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
		require.NoError(t, err)
	}

	user, err := storage.UnlockUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, user.FailedAttempts)
	assert.False(t, user.IsLocked)
	assert.Equal(t, "sub@example.com", user.Email)

	// после разблокировки счётчик начинается заново
	attempts, locked, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, locked)

	_, err = storage.UnlockUser(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetLockStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "sub@example.com", "EMP001", "SubAdmin")

	ctx := context.Background()

	locked, err := storage.GetLockStatus(ctx, "sub@example.com")
	require.NoError(t, err)
	assert.False(t, locked)

	for range lockThreshold {
		_, _, err := storage.RegisterFailedAttempt(ctx, userID, lockThreshold)
		require.NoError(t, err)
	}

	locked, err = storage.GetLockStatus(ctx, "sub@example.com")
	require.NoError(t, err)
	assert.True(t, locked)

	_, err = storage.GetLockStatus(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdatePasswordHash(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "sub@example.com", "EMP001", "SubAdmin")

	ctx := context.Background()

	require.NoError(t, storage.UpdatePasswordHash(ctx, userID, "newhash"))

	user, err := storage.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", user.PasswordHash)

	err = storage.UpdatePasswordHash(ctx, "00000000-0000-4000-8000-000000000000", "newhash")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{
		Name:         "New Employee",
		Email:        "new@example.com",
		EmployeeID:   "EMP777",
		PasswordHash: "hash",
		Role:         "Accounts",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	user, err := storage.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New Employee", user.Name)
	assert.Equal(t, "Accounts", user.Role)
	assert.False(t, user.CreatedAt.IsZero())
}
