// Package notification turns sale transitions into in-app and push notifications.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/domain/shared"
)

// Best-effort operation names reported by Dispatch
const (
	OpDispatch = "notification"
	OpStore    = "store"
	OpTokens   = "tokens"
	OpPush     = "push"
)

// Dispatcher stores a notification for the tenant and pushes it to every
// registered device
type Dispatcher struct {
	notifications domain.Repository
	tokens        domain.DeviceTokenRepository
	pusher        domain.PushSender
	link          string
	icon          string
	clock         func() time.Time
	logger        *zap.Logger
}

// DispatcherConfig contains configuration for Dispatcher
type DispatcherConfig struct {
	Notifications domain.Repository
	Tokens        domain.DeviceTokenRepository
	Pusher        domain.PushSender
	// Link and Icon are attached to web pushes when set
	Link   string
	Icon   string
	Clock  func() time.Time
	Logger *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		notifications: cfg.Notifications,
		tokens:        cfg.Tokens,
		pusher:        cfg.Pusher,
		link:          cfg.Link,
		icon:          cfg.Icon,
		clock:         clock,
		logger:        logger.Named("notification.dispatcher"),
	}
}

// Dispatch records one notification of kind for s. Nothing here can fail the
// delivery that triggered it: the outcome is returned for the caller to settle.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID uuid.UUID, s *sale.UnifiedSale, kind domain.Kind) shared.BestEffort {
	title, message := Compose(s, kind)

	n := domain.New(tenantID, kind, title, message, s.ExternalID, d.clock())
	if err := d.notifications.Create(ctx, n); err != nil {
		return shared.Join(OpDispatch, shared.Attempted(OpStore, err))
	}

	return shared.Join(OpDispatch, d.push(ctx, tenantID, title, message))
}

func (d *Dispatcher) push(ctx context.Context, tenantID uuid.UUID, title, body string) shared.BestEffort {
	if d.tokens == nil || d.pusher == nil {
		return shared.Succeeded(OpPush)
	}

	registered, err := d.tokens.ListByTenant(ctx, tenantID)
	if err != nil {
		return shared.Attempted(OpTokens, err)
	}
	tokens := domain.UniqueTokens(registered)
	if len(tokens) == 0 {
		return shared.Succeeded(OpPush)
	}

	report, err := d.pusher.Send(ctx, domain.PushMessage{
		Tokens: tokens,
		Title:  title,
		Body:   body,
		Link:   d.link,
		Icon:   d.icon,
	})
	if err != nil {
		return shared.Attempted(OpPush, err)
	}

	d.logger.Debug("Push sent",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("success", report.SuccessCount),
		zap.Int("failure", report.FailureCount),
	)
	return shared.Succeeded(OpPush)
}

// Compose returns the title and message shown for a notification of kind
func Compose(s *sale.UnifiedSale, kind domain.Kind) (title, message string) {
	amount := s.Amount.StringFixed(2)
	switch kind {
	case domain.KindSalePaid:
		return "Sale approved!", fmt.Sprintf("%s paid %s for %s", s.Customer.Name, amount, s.ProductName())
	default:
		return "New sale created", fmt.Sprintf("%s started a purchase of %s (%s)", s.Customer.Name, s.ProductName(), amount)
	}
}
