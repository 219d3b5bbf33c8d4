package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/salehub/backend/internal/domain/sale"
)

// WebhookLogModel is an immutable audit row for one authenticated delivery
type WebhookLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_webhook_logs_tenant_received,priority:1"`
	Gateway    string    `gorm:"type:varchar(50);not null"`
	ExternalID string    `gorm:"type:varchar(200);not null;index"`
	Headers    datatypes.JSON
	Body       string    `gorm:"type:text;not null"`
	ReceivedAt time.Time `gorm:"not null;index:idx_webhook_logs_tenant_received,priority:2"`
}

// TableName returns the table name for GORM
func (WebhookLogModel) TableName() string {
	return "webhook_logs"
}

// WebhookLogModelFromDomain creates a persistence model from a log entry
func WebhookLogModelFromDomain(e *sale.WebhookLogEntry) (*WebhookLogModel, error) {
	headers, err := json.Marshal(e.Headers)
	if err != nil {
		return nil, err
	}
	return &WebhookLogModel{
		ID:         e.ID,
		TenantID:   e.TenantID,
		Gateway:    string(e.Gateway),
		ExternalID: e.ExternalID,
		Headers:    datatypes.JSON(headers),
		Body:       string(e.Body),
		ReceivedAt: e.ReceivedAt,
	}, nil
}

// ToDomain converts the persistence model to a log entry
func (m *WebhookLogModel) ToDomain() (*sale.WebhookLogEntry, error) {
	var headers map[string]string
	if len(m.Headers) > 0 {
		if err := json.Unmarshal(m.Headers, &headers); err != nil {
			return nil, err
		}
	}
	return &sale.WebhookLogEntry{
		ID:         m.ID,
		TenantID:   m.TenantID,
		Gateway:    sale.Gateway(m.Gateway),
		ExternalID: m.ExternalID,
		Headers:    headers,
		Body:       json.RawMessage(m.Body),
		ReceivedAt: m.ReceivedAt,
	}, nil
}
