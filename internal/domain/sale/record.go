package sale

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salehub/backend/internal/domain/shared"
)

// StatusEntry is one element of a sale's status history
type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is a persisted sale owned by a tenant.
// History is append-only and keeps repeated statuses.
type Record struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Sale     UnifiedSale
	History  []StatusEntry
}

// NewRecord creates a record for a sale seen for the first time
func NewRecord(tenantID uuid.UUID, s UnifiedSale, now time.Time) *Record {
	return &Record{
		BaseEntity: shared.NewBaseEntity(now),
		TenantID:   tenantID,
		Sale:       s,
		History:    []StatusEntry{{Status: s.Status, Timestamp: now}},
	}
}

// Apply overwrites the mutable fields with a newer delivery of the same sale
// and appends the new status to the history
func (r *Record) Apply(s UnifiedSale, now time.Time) {
	r.Sale.Status = s.Status
	r.Sale.Amount = s.Amount
	r.Sale.Customer = s.Customer
	r.Sale.Product = s.Product
	r.Sale.Tracking = s.Tracking
	r.Sale.OriginalPayload = s.OriginalPayload
	r.Sale.EventType = s.EventType
	r.History = append(r.History, StatusEntry{Status: s.Status, Timestamp: now})
	r.Touch(now)
}

// Key returns the idempotency key of the record
func (r *Record) Key() IdempotencyKey {
	return r.Sale.Key(r.TenantID)
}

// IdempotencyKey identifies a sale within a tenant
type IdempotencyKey struct {
	TenantID   uuid.UUID
	Gateway    Gateway
	ExternalID string
}

// String renders the key as tenant:gateway:external
func (k IdempotencyKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.TenantID, k.Gateway, k.ExternalID)
}
