package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salehub/backend/internal/domain/identity"
	"github.com/salehub/backend/internal/domain/shared"
)

// newMockTenantRepository creates a GormTenantRepository with a mocked SQL connection
func newMockTenantRepository(t *testing.T) (*GormTenantRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTenantRepository(gormDB), mock, mockDB
}

func TestGormTenantRepository_FindByWebhookSecret_Query(t *testing.T) {
	t.Run("queries by exact secret with limit", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "name", "webhook_secret"}).
			AddRow(tenantID.String(), now, now, "Acme", "secret-acme-000001")

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE webhook_secret = \$1 LIMIT \$2`).
			WithArgs("secret-acme-000001", 2).
			WillReturnRows(rows)

		tenants, err := repo.FindByWebhookSecret(context.Background(), "secret-acme-000001", 2)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, tenantID, tenants[0].ID)
		assert.Equal(t, "Acme", tenants[0].Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty secret issues no query", func(t *testing.T) {
		repo, mock, mockDB := newMockTenantRepository(t)
		defer mockDB.Close()

		tenants, err := repo.FindByWebhookSecret(context.Background(), "", 2)
		require.NoError(t, err)
		assert.Empty(t, tenants)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_SQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	tenant, err := identity.NewTenant("Acme", "secret-acme-000001", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, tenant))

	t.Run("finds by secret", func(t *testing.T) {
		tenants, err := repo.FindByWebhookSecret(ctx, "secret-acme-000001", 2)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, tenant.ID, tenants[0].ID)
	})

	t.Run("secret match is exact", func(t *testing.T) {
		for _, secret := range []string{"doesnotexist", "SECRET-ACME-000001", "secret-acme-00000", "secret-acme-000001 "} {
			tenants, err := repo.FindByWebhookSecret(ctx, secret, 2)
			require.NoError(t, err)
			assert.Empty(t, tenants, secret)
		}
	})

	t.Run("duplicate secret rejected", func(t *testing.T) {
		other, err := identity.NewTenant("Other", "secret-acme-000001", time.Now())
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, other), shared.ErrAlreadyExists)
	})

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, tenant.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme", found.Name)

		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
