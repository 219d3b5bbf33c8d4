package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/salehub/backend/internal/domain/shared"
)

// Kind is the notification type shown to the tenant
type Kind string

const (
	KindSalePaid    Kind = "sale_paid"
	KindSaleCreated Kind = "sale_created"
)

// IsValid checks if the kind is known
func (k Kind) IsValid() bool {
	return k == KindSalePaid || k == KindSaleCreated
}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// Notification is an in-app message produced by a sale transition
type Notification struct {
	shared.BaseEntity
	TenantID uuid.UUID
	Title    string
	Message  string
	Type     Kind
	// SaleID is the vendor's external transaction id
	SaleID string
	Read   bool
}

// New creates an unread notification
func New(tenantID uuid.UUID, kind Kind, title, message, saleID string, now time.Time) *Notification {
	return &Notification{
		BaseEntity: shared.NewBaseEntity(now),
		TenantID:   tenantID,
		Title:      title,
		Message:    message,
		Type:       kind,
		SaleID:     saleID,
	}
}

// Repository stores notifications
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit int) ([]Notification, error)
	CountBySale(ctx context.Context, tenantID uuid.UUID, saleID string, kind Kind) (int64, error)
}
