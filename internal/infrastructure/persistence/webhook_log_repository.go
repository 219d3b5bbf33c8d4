package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/infrastructure/persistence/models"
)

// GormWebhookLogRepository stores webhook deliveries. Rows are never updated.
type GormWebhookLogRepository struct {
	db *gorm.DB
}

// NewGormWebhookLogRepository creates a new GormWebhookLogRepository
func NewGormWebhookLogRepository(db *gorm.DB) *GormWebhookLogRepository {
	return &GormWebhookLogRepository{db: db}
}

// Insert appends a log entry
func (r *GormWebhookLogRepository) Insert(ctx context.Context, entry *sale.WebhookLogEntry) error {
	model, err := models.WebhookLogModelFromDomain(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByExternalID returns the deliveries received for one vendor transaction, oldest first
func (r *GormWebhookLogRepository) ListByExternalID(ctx context.Context, tenantID uuid.UUID, gateway sale.Gateway, externalID string) ([]sale.WebhookLogEntry, error) {
	var logModels []models.WebhookLogModel
	if err := r.db.WithContext(ctx).
		Scopes(tenantScope(tenantID.String())).
		Where("gateway = ? AND external_id = ?", string(gateway), externalID).
		Order("received_at ASC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	entries := make([]sale.WebhookLogEntry, 0, len(logModels))
	for i := range logModels {
		e, err := logModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

// Ensure GormWebhookLogRepository implements sale.WebhookLogRepository
var _ sale.WebhookLogRepository = (*GormWebhookLogRepository)(nil)
