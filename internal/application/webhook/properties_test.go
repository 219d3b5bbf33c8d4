package webhook

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appnotification "github.com/salehub/backend/internal/application/notification"
	"github.com/salehub/backend/internal/domain/identity"
	"github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/infrastructure/gateway"
	"github.com/salehub/backend/internal/infrastructure/persistence"
	"github.com/salehub/backend/internal/infrastructure/persistence/models"
	"github.com/salehub/backend/internal/infrastructure/push"
)

// ingestionEnv is a processor wired to real repositories on in-memory sqlite
type ingestionEnv struct {
	db            *gorm.DB
	processor     *Processor
	sales         *persistence.GormSaleRepository
	notifications *persistence.GormNotificationRepository
	tick          time.Time
}

func newIngestionEnv(t *testing.T) *ingestionEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	env := &ingestionEnv{
		db:            db,
		sales:         persistence.NewGormSaleRepository(db),
		notifications: persistence.NewGormNotificationRepository(db),
		tick:          time.Date(2025, 4, 9, 12, 0, 0, 0, time.UTC),
	}
	// Every call advances the clock so history timestamps are distinct.
	clock := func() time.Time {
		env.tick = env.tick.Add(time.Second)
		return env.tick
	}

	env.processor = NewProcessor(ProcessorConfig{
		Adapters: gateway.DefaultRegistry(),
		Tenants:  NewTenantResolver(persistence.NewGormTenantRepository(db), zap.NewNop()),
		Sales:    env.sales,
		Logs:     persistence.NewGormWebhookLogRepository(db),
		Dispatcher: appnotification.NewDispatcher(appnotification.DispatcherConfig{
			Notifications: env.notifications,
			Tokens:        persistence.NewGormDeviceTokenRepository(db),
			Pusher:        push.NewLogSender(nil),
			Clock:         clock,
		}),
		Clock: clock,
	})
	return env
}

func (e *ingestionEnv) createTenant(t *testing.T, name, secret string) uuid.UUID {
	t.Helper()
	tenant, err := identity.NewTenant(name, secret, e.tick)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormTenantRepository(e.db).Create(context.Background(), tenant))
	return tenant.ID
}

func (e *ingestionEnv) deliver(t *testing.T, slug, secret, body string) *ProcessResult {
	t.Helper()
	return e.processor.Process(context.Background(), ProcessRequest{
		GatewaySlug:  slug,
		TenantSecret: secret,
		Payload:      []byte(body),
	})
}

func (e *ingestionEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func (e *ingestionEnv) notificationsOf(t *testing.T, tenantID uuid.UUID, externalID string, kind notification.Kind) int64 {
	t.Helper()
	n, err := e.notifications.CountBySale(context.Background(), tenantID, externalID, kind)
	require.NoError(t, err)
	return n
}

func vegaBody(externalID, status string, cents int64) string {
	return fmt.Sprintf(`{"event":"purchase.%s","data":{"transaction":%q,"status":%q,"amount":%d,"buyer":{"name":"Ana","email":"ana@example.com"},"offer":{"name":"Course"}}}`,
		status, externalID, status, cents)
}

const (
	secretA = "tenant-a-secret-0001"
	secretB = "tenant-b-secret-0002"
)

func TestProcessor_Idempotency(t *testing.T) {
	env := newIngestionEnv(t)
	tenantID := env.createTenant(t, "Acme", secretA)

	first := env.deliver(t, "vega", secretA, vegaBody("V-1", "paid", 1000))
	second := env.deliver(t, "vega", secretA, vegaBody("V-1", "paid", 1000))

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.Equal(t, sale.ActionCreated, first.Action)
	assert.Equal(t, sale.ActionUpdated, second.Action)
	assert.Equal(t, first.SaleID, second.SaleID)

	assert.Equal(t, int64(1), env.count(t, &models.SaleModel{}))
	record, err := env.sales.FindByKey(context.Background(), sale.IdempotencyKey{TenantID: tenantID, Gateway: sale.GatewayVega, ExternalID: "V-1"})
	require.NoError(t, err)
	assert.Len(t, record.History, 2)
	assert.Equal(t, "10.00", record.Sale.Amount.StringFixed(2))
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantID, "V-1", notification.KindSalePaid))
	assert.Equal(t, int64(2), env.count(t, &models.WebhookLogModel{}))
}

func TestProcessor_TransitionGatedNotification(t *testing.T) {
	env := newIngestionEnv(t)
	tenantID := env.createTenant(t, "Acme", secretA)

	statuses := []string{"pending", "pending", "paid", "paid", "refunded"}
	paidAfter := make([]int64, 0, len(statuses))
	for _, status := range statuses {
		result := env.deliver(t, "vega", secretA, vegaBody("V-2", status, 4990))
		require.True(t, result.Success, result.Message)
		paidAfter = append(paidAfter, env.notificationsOf(t, tenantID, "V-2", notification.KindSalePaid))
	}

	// exactly one paid notification, emitted by the third delivery
	assert.Equal(t, []int64{0, 0, 1, 1, 1}, paidAfter)
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantID, "V-2", notification.KindSaleCreated))
	assert.Equal(t, int64(2), env.count(t, &models.NotificationModel{}))

	record, err := env.sales.FindByKey(context.Background(), sale.IdempotencyKey{TenantID: tenantID, Gateway: sale.GatewayVega, ExternalID: "V-2"})
	require.NoError(t, err)
	require.Len(t, record.History, 5)
	for i, status := range statuses {
		assert.Equal(t, sale.Status(status), record.History[i].Status)
	}
	assert.Equal(t, sale.StatusRefunded, record.Sale.Status)
}

func TestProcessor_TenantIsolation(t *testing.T) {
	env := newIngestionEnv(t)
	tenantA := env.createTenant(t, "Acme", secretA)
	tenantB := env.createTenant(t, "Globex", secretB)

	a := env.deliver(t, "vega", secretA, vegaBody("SHARED", "paid", 100))
	b := env.deliver(t, "vega", secretB, vegaBody("SHARED", "paid", 100))

	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.Equal(t, sale.ActionCreated, a.Action)
	assert.Equal(t, sale.ActionCreated, b.Action)
	assert.NotEqual(t, a.SaleID, b.SaleID)
	assert.Equal(t, int64(2), env.count(t, &models.SaleModel{}))
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantA, "SHARED", notification.KindSalePaid))
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantB, "SHARED", notification.KindSalePaid))
}

func TestProcessor_UnauthorizedWritesNothing(t *testing.T) {
	env := newIngestionEnv(t)
	env.createTenant(t, "Acme", secretA)

	result := env.deliver(t, "vega", "doesnotexist", vegaBody("V-3", "paid", 100))

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindUnauthorized, result.ErrorKind)
	assert.Zero(t, env.count(t, &models.SaleModel{}))
	assert.Zero(t, env.count(t, &models.SaleStatusHistoryModel{}))
	assert.Zero(t, env.count(t, &models.WebhookLogModel{}))
	assert.Zero(t, env.count(t, &models.NotificationModel{}))
}

func TestProcessor_OrionEndToEnd(t *testing.T) {
	env := newIngestionEnv(t)
	tenantID := env.createTenant(t, "Acme", secretA)
	body := `{"transaction_id":"tx_1","status":"authorized","amount":2550}`

	first := env.deliver(t, "orion", secretA, body)
	require.True(t, first.Success, first.Message)
	assert.Equal(t, sale.ActionCreated, first.Action)

	key := sale.IdempotencyKey{TenantID: tenantID, Gateway: sale.GatewayOrion, ExternalID: "tx_1"}
	record, err := env.sales.FindByKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, sale.StatusPaid, record.Sale.Status)
	assert.Equal(t, "25.50", record.Sale.Amount.StringFixed(2))
	assert.Equal(t, "tx_1", record.Sale.ExternalID)
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantID, "tx_1", notification.KindSalePaid))

	second := env.deliver(t, "orion", secretA, body)
	require.True(t, second.Success)
	assert.Equal(t, sale.ActionUpdated, second.Action)
	assert.Equal(t, first.SaleID, second.SaleID)

	record, err = env.sales.FindByKey(context.Background(), key)
	require.NoError(t, err)
	assert.Len(t, record.History, 2)
	assert.Equal(t, int64(1), env.notificationsOf(t, tenantID, "tx_1", notification.KindSalePaid))
	assert.Equal(t, int64(1), env.count(t, &models.NotificationModel{}))
}
