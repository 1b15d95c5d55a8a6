package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vv-overseas/edu-admin/internal/models"
)

func testAuditEntry(userID, action, module string) models.AuditEntry {
	return models.AuditEntry{
		UserID:    userID,
		Role:      "Accounts",
		Action:    action,
		Module:    module,
		NewValues: []byte(`{"amount": 1000}`),
		IPAddress: "10.0.0.1",
		UserAgent: "Mozilla/5.0",
	}
}

func TestStorage_InsertAndListAuditEntries(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "acc@example.com", "EMP001", "Accounts")

	ctx := context.Background()

	require.NoError(t, storage.InsertAuditEntry(ctx,
		testAuditEntry(userID, models.AuditActionCreate, models.AuditModulePayment)))
	require.NoError(t, storage.InsertAuditEntry(ctx,
		testAuditEntry(userID, models.AuditActionUpdate, models.AuditModuleRegistration)))
	require.NoError(t, storage.InsertAuditEntry(ctx,
		testAuditEntry(userID, models.AuditActionUnlock, models.AuditModuleUsers)))

	all, err := storage.ListAuditEntries(ctx, "", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.NotEmpty(t, all[0].ID)
	assert.False(t, all[0].CreatedAt.IsZero())

	byModule, err := storage.ListAuditEntries(ctx, models.AuditModulePayment, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, byModule, 1)
	assert.Equal(t, models.AuditActionCreate, byModule[0].Action)
	assert.JSONEq(t, `{"amount": 1000}`, string(byModule[0].NewValues))

	byAction, err := storage.ListAuditEntries(ctx, "", models.AuditActionUnlock, 50, 0)
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, models.AuditModuleUsers, byAction[0].Module)

	none, err := storage.ListAuditEntries(ctx, "Billing", "", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStorage_InsertAuditEntry_OptionalFieldsEmpty(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "acc@example.com", "EMP001", "Accounts")

	ctx := context.Background()

	entry := models.AuditEntry{
		UserID:    userID,
		Role:      "Accounts",
		Action:    models.AuditActionLogin,
		Module:    models.AuditModuleAuth,
		IPAddress: "10.0.0.1",
		UserAgent: "curl/8.0",
	}
	require.NoError(t, storage.InsertAuditEntry(ctx, entry))

	got, err := storage.ListAuditEntries(ctx, models.AuditModuleAuth, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].RecordID)
	assert.Empty(t, got[0].OldValues)
	assert.Empty(t, got[0].NewValues)
}
