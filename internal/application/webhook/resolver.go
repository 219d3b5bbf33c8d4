package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salehub/backend/internal/domain/identity"
	"github.com/salehub/backend/internal/infrastructure/logger"
)

// ErrTenantNotFound is returned when a webhook secret does not identify exactly one tenant
var ErrTenantNotFound = errors.New("webhook: tenant not found for secret")

// TenantResolver maps the opaque secret of a webhook URL to a tenant id
type TenantResolver struct {
	tenants identity.TenantRepository
	logger  *zap.Logger
}

// NewTenantResolver creates a new TenantResolver
func NewTenantResolver(tenants identity.TenantRepository, log *zap.Logger) *TenantResolver {
	return &TenantResolver{
		tenants: tenants,
		logger:  logger.OrNop(log).Named("webhook.resolver"),
	}
}

// Resolve returns the id of the single tenant holding secret.
// Store failures are returned wrapped; every other miss is ErrTenantNotFound.
func (r *TenantResolver) Resolve(ctx context.Context, secret string) (uuid.UUID, error) {
	if secret == "" {
		return uuid.Nil, ErrTenantNotFound
	}

	// Two rows are enough to tell "unique" from "ambiguous".
	matches, err := r.tenants.FindByWebhookSecret(ctx, secret, 2)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up tenant: %w", err)
	}

	switch len(matches) {
	case 1:
		return matches[0].ID, nil
	case 0:
		return uuid.Nil, ErrTenantNotFound
	default:
		logger.Ctx(ctx, r.logger).Error("Webhook secret shared by several tenants",
			logger.SecretFingerprint(secret),
			zap.Int("matches", len(matches)),
		)
		return uuid.Nil, ErrTenantNotFound
	}
}
