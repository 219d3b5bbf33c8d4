package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/domain/sale"
)

func TestGormNotificationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, notification.New(tenantID, notification.KindSaleCreated, "New sale created", "m1", "tx_1", now)))
	require.NoError(t, repo.Create(ctx, notification.New(tenantID, notification.KindSalePaid, "Sale approved!", "m2", "tx_1", now.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, notification.New(uuid.New(), notification.KindSalePaid, "Sale approved!", "m3", "tx_1", now)))

	count, err := repo.CountBySale(ctx, tenantID, "tx_1", notification.KindSalePaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := repo.ListByTenant(ctx, tenantID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, notification.KindSalePaid, list[0].Type, "newest first")
	assert.False(t, list[0].Read)
}

func TestGormDeviceTokenRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDeviceTokenRepository(db)
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()

	require.NoError(t, repo.Register(ctx, notification.DeviceToken{TenantID: tenantID, UserID: userID, Token: "tok-1"}))
	require.NoError(t, repo.Register(ctx, notification.DeviceToken{TenantID: tenantID, UserID: userID, Token: "tok-1"}))
	require.NoError(t, repo.Register(ctx, notification.DeviceToken{TenantID: tenantID, UserID: uuid.New(), Token: "tok-2"}))
	require.NoError(t, repo.Register(ctx, notification.DeviceToken{TenantID: uuid.New(), UserID: userID, Token: "tok-3"}))

	tokens, err := repo.ListByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)
}

func TestGormWebhookLogRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWebhookLogRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	s := &sale.UnifiedSale{Gateway: sale.GatewayNova, ExternalID: "N-1"}
	now := time.Now().UTC()

	require.NoError(t, repo.Insert(ctx, sale.NewWebhookLogEntry(tenantID, s, map[string]string{"Content-Type": "application/json"}, []byte(`{"sale_id":"N-1","status":"PROCESSING"}`), now)))
	require.NoError(t, repo.Insert(ctx, sale.NewWebhookLogEntry(tenantID, s, nil, []byte(`{"sale_id":"N-1","status":"APPROVED"}`), now.Add(time.Second))))

	entries, err := repo.ListByExternalID(ctx, tenantID, sale.GatewayNova, "N-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "application/json", entries[0].Headers["Content-Type"])
	assert.JSONEq(t, `{"sale_id":"N-1","status":"APPROVED"}`, string(entries[1].Body))

	others, err := repo.ListByExternalID(ctx, uuid.New(), sale.GatewayNova, "N-1")
	require.NoError(t, err)
	assert.Empty(t, others)
}
