package sale

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Action tells whether a delivery created or updated a record
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// UpsertOutcome is the result of applying one delivery to the store
type UpsertOutcome struct {
	Record *Record
	Action Action
	// PreviousStatus is nil when the sale did not exist before the delivery
	PreviousStatus *Status
}

// Repository persists sale records.
//
// Upsert performs the lookup by idempotency key and the conditional create or
// update in one atomic unit, so concurrent deliveries of the same key never
// produce two records.
type Repository interface {
	FindByKey(ctx context.Context, key IdempotencyKey) (*Record, error)
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Record, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]Record, error)
	Upsert(ctx context.Context, tenantID uuid.UUID, s UnifiedSale, at time.Time) (*UpsertOutcome, error)
}

// WebhookLogEntry is the immutable audit record of one authenticated delivery
type WebhookLogEntry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Gateway    Gateway
	ExternalID string
	Headers    map[string]string
	Body       json.RawMessage
	ReceivedAt time.Time
}

// NewWebhookLogEntry creates a log entry for a delivery
func NewWebhookLogEntry(tenantID uuid.UUID, s *UnifiedSale, headers map[string]string, body []byte, at time.Time) *WebhookLogEntry {
	return &WebhookLogEntry{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Gateway:    s.Gateway,
		ExternalID: s.ExternalID,
		Headers:    headers,
		Body:       json.RawMessage(body),
		ReceivedAt: at,
	}
}

// WebhookLogRepository stores webhook log entries. It is insert-only.
type WebhookLogRepository interface {
	Insert(ctx context.Context, entry *WebhookLogEntry) error
}

// PayloadArchiver keeps a copy of raw delivery bodies outside the database
type PayloadArchiver interface {
	// Archive stores the entry body and returns its location
	Archive(ctx context.Context, entry *WebhookLogEntry) (string, error)
}
