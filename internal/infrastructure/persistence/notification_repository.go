package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/infrastructure/persistence/models"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(models.NotificationModelFromDomain(n)).Error
}

// ListByTenant returns the latest notifications of a tenant
func (r *GormNotificationRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var notificationModels []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Order("created_at DESC").
		Limit(limit).
		Find(&notificationModels).Error; err != nil {
		return nil, err
	}

	out := make([]notification.Notification, len(notificationModels))
	for i := range notificationModels {
		out[i] = *notificationModels[i].ToDomain()
	}
	return out, nil
}

// CountBySale counts the notifications of one kind for a vendor transaction
func (r *GormNotificationRepository) CountBySale(ctx context.Context, tenantID uuid.UUID, saleID string, kind notification.Kind) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(tenantScope(tenantID.String())).
		Where("sale_id = ? AND type = ?", saleID, string(kind)).
		Count(&count).Error
	return count, err
}

// GormDeviceTokenRepository implements notification.DeviceTokenRepository using GORM
type GormDeviceTokenRepository struct {
	db *gorm.DB
}

// NewGormDeviceTokenRepository creates a new GormDeviceTokenRepository
func NewGormDeviceTokenRepository(db *gorm.DB) *GormDeviceTokenRepository {
	return &GormDeviceTokenRepository{db: db}
}

// ListByTenant returns every token registered for the tenant's users
func (r *GormDeviceTokenRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]notification.DeviceToken, error) {
	var tokenModels []models.DeviceTokenModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Order("created_at ASC").
		Find(&tokenModels).Error; err != nil {
		return nil, err
	}

	out := make([]notification.DeviceToken, len(tokenModels))
	for i := range tokenModels {
		out[i] = tokenModels[i].ToDomain()
	}
	return out, nil
}

// Register stores a token; registering the same token twice is a no-op
func (r *GormDeviceTokenRepository) Register(ctx context.Context, token notification.DeviceToken) error {
	model := &models.DeviceTokenModel{
		ID:        uuid.New(),
		TenantID:  token.TenantID,
		UserID:    token.UserID,
		Token:     token.Token,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "user_id"}, {Name: "token"}},
			DoNothing: true,
		}).
		Create(model).Error
}

var (
	_ notification.Repository            = (*GormNotificationRepository)(nil)
	_ notification.DeviceTokenRepository = (*GormDeviceTokenRepository)(nil)
)
