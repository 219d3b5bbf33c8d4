package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salehub/backend/internal/domain/shared"
)

var (
	ErrTenantNameRequired   = errors.New("identity: tenant name is required")
	ErrWebhookSecretTooWeak = errors.New("identity: webhook secret must be at least 16 characters")
)

// MinWebhookSecretLength is the minimum accepted length of a tenant webhook secret
const MinWebhookSecretLength = 16

// Tenant is an account that owns sales. WebhookSecret is the opaque token
// vendors embed in the webhook URL to identify the tenant.
type Tenant struct {
	shared.BaseEntity
	Name          string
	WebhookSecret string
}

// NewTenant creates a tenant
func NewTenant(name, secret string, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTenantNameRequired
	}
	if len(secret) < MinWebhookSecretLength {
		return nil, ErrWebhookSecretTooWeak
	}
	return &Tenant{
		BaseEntity:    shared.NewBaseEntity(now),
		Name:          name,
		WebhookSecret: secret,
	}, nil
}

// TenantRepository reads and stores tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// FindByWebhookSecret returns at most limit tenants holding the secret
	FindByWebhookSecret(ctx context.Context, secret string, limit int) ([]Tenant, error)
	Create(ctx context.Context, tenant *Tenant) error
}
