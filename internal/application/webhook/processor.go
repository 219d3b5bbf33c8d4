// Package webhook ingests payment gateway webhooks: it authenticates the
// tenant, normalizes the vendor payload and records the sale idempotently.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/salehub/backend/internal/domain/notification"
	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/domain/shared"
	"github.com/salehub/backend/internal/infrastructure/logger"
	"github.com/salehub/backend/internal/infrastructure/telemetry"
)

// ErrorKind classifies a failed delivery for the transport layer
type ErrorKind string

const (
	ErrorKindNone           ErrorKind = ""
	ErrorKindUnknownGateway ErrorKind = "unknown_gateway"
	ErrorKindValidation     ErrorKind = "validation"
	ErrorKindUnauthorized   ErrorKind = "unauthorized"
	ErrorKindInternal       ErrorKind = "internal"
)

// ErrUnknownGateway is returned for a slug with no registered adapter
var ErrUnknownGateway = errors.New("webhook: unknown gateway")

// Best-effort operation names
const (
	opLog      = "webhook_log"
	opArchive  = "archive"
	opLock     = "lock"
	opDispatch = "dispatch"
)

// AdapterLookup finds the adapter registered for a gateway slug
type AdapterLookup interface {
	Lookup(slug string) (sale.GatewayAdapter, bool)
}

// Resolver maps a webhook secret to a tenant id
type Resolver interface {
	Resolve(ctx context.Context, secret string) (uuid.UUID, error)
}

// Dispatcher emits the notification triggered by a sale transition
type Dispatcher interface {
	Dispatch(ctx context.Context, tenantID uuid.UUID, s *sale.UnifiedSale, kind notification.Kind) shared.BestEffort
}

// ProcessRequest is one inbound delivery
type ProcessRequest struct {
	GatewaySlug  string
	TenantSecret string
	// Adapter skips the registry lookup when the caller already resolved it
	Adapter sale.GatewayAdapter
	Payload []byte
	Headers map[string]string
}

// ProcessResult is the outcome of one delivery
type ProcessResult struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	SaleID    string      `json:"saleId,omitempty"`
	Action    sale.Action `json:"action,omitempty"`
	ErrorKind ErrorKind   `json:"-"`
	Err       error       `json:"-"`
}

func failure(kind ErrorKind, message string, err error) *ProcessResult {
	return &ProcessResult{Message: message, ErrorKind: kind, Err: err}
}

// Processor orchestrates webhook ingestion
type Processor struct {
	adapters   AdapterLookup
	tenants    Resolver
	sales      sale.Repository
	logs       sale.WebhookLogRepository
	dispatcher Dispatcher
	locker     shared.KeyLocker
	archiver   sale.PayloadArchiver
	metrics    *telemetry.WebhookMetrics
	clock      func() time.Time
	logger     *zap.Logger
}

// ProcessorConfig contains the collaborators of a Processor.
// Locker, Archiver and Metrics are optional.
type ProcessorConfig struct {
	Adapters   AdapterLookup
	Tenants    Resolver
	Sales      sale.Repository
	Logs       sale.WebhookLogRepository
	Dispatcher Dispatcher
	Locker     shared.KeyLocker
	Archiver   sale.PayloadArchiver
	Metrics    *telemetry.WebhookMetrics
	Clock      func() time.Time
	Logger     *zap.Logger
}

// NewProcessor creates a new Processor
func NewProcessor(cfg ProcessorConfig) *Processor {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Processor{
		adapters:   cfg.Adapters,
		tenants:    cfg.Tenants,
		sales:      cfg.Sales,
		logs:       cfg.Logs,
		dispatcher: cfg.Dispatcher,
		locker:     cfg.Locker,
		archiver:   cfg.Archiver,
		metrics:    cfg.Metrics,
		clock:      clock,
		logger:     logger.OrNop(cfg.Logger).Named("webhook.processor"),
	}
}

// Process handles one delivery. It never panics and never returns nil.
func (p *Processor) Process(ctx context.Context, req ProcessRequest) (result *ProcessResult) {
	started := p.clock()
	gateway := sale.NormalizeGateway(req.GatewaySlug)

	ctx, span := telemetry.StartSpan(ctx, "webhook.process",
		telemetry.WithSpanKind(trace.SpanKindServer),
		telemetry.WithAttribute(telemetry.SpanAttrGateway, gateway.String()),
	)
	defer span.End()

	log := logger.Ctx(ctx, p.logger).With(zap.String("gateway", gateway.String()))

	var effects []shared.BestEffort
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while processing webhook", zap.Any("panic", r), zap.Stack("stack"))
			result = failure(ErrorKindInternal, "internal processing error",
				fmt.Errorf("%w: panic: %v", sale.ErrInternalProcessing, r))
		}
		p.settle(ctx, log, effects)
		p.finish(ctx, log, span, gateway, result, started)
	}()

	return p.process(ctx, log, gateway, req, &effects)
}

func (p *Processor) process(ctx context.Context, log *zap.Logger, gateway sale.Gateway, req ProcessRequest, effects *[]shared.BestEffort) *ProcessResult {
	adapter := req.Adapter
	if adapter == nil {
		var ok bool
		if adapter, ok = p.adapters.Lookup(gateway.String()); !ok {
			return failure(ErrorKindUnknownGateway, "unknown gateway", ErrUnknownGateway)
		}
	}

	if !adapter.Validate(req.Payload) {
		return failure(ErrorKindValidation, "invalid payload", sale.ErrInvalidPayload)
	}

	tenantID, err := p.tenants.Resolve(ctx, req.TenantSecret)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			log.Warn("Rejected webhook with unknown tenant secret", logger.SecretFingerprint(req.TenantSecret))
			return failure(ErrorKindUnauthorized, "unauthorized", fmt.Errorf("%w: %w", sale.ErrUnauthorized, err))
		}
		return failure(ErrorKindInternal, "internal processing error", fmt.Errorf("%w: %w", sale.ErrInternalProcessing, err))
	}
	log = log.With(zap.String("tenant_id", tenantID.String()))
	telemetry.SetAttributes(trace.SpanFromContext(ctx), telemetry.SpanAttrTenantID, tenantID.String())

	// Validate already accepted the payload, so a failure here is ours.
	unified, err := adapter.Normalize(req.Payload)
	if err != nil {
		return failure(ErrorKindInternal, "internal processing error", fmt.Errorf("%w: %w", sale.ErrInternalProcessing, err))
	}
	telemetry.SetAttributes(trace.SpanFromContext(ctx),
		telemetry.SpanAttrExternalID, unified.ExternalID,
		telemetry.SpanAttrStatus, unified.Status.String(),
	)

	now := p.clock()
	entry := sale.NewWebhookLogEntry(tenantID, unified, req.Headers, req.Payload, now)
	*effects = append(*effects, p.writeLog(ctx, entry), p.archive(ctx, entry))

	key := unified.Key(tenantID)
	if p.locker != nil {
		unlock, err := p.locker.Lock(ctx, key.String())
		if err != nil {
			*effects = append(*effects, shared.Attempted(opLock, err))
		} else {
			defer unlock()
		}
	}

	outcome, err := p.sales.Upsert(ctx, tenantID, *unified, now)
	if err != nil {
		return failure(ErrorKindInternal, "internal processing error", fmt.Errorf("%w: %w", sale.ErrInternalProcessing, err))
	}

	if kind, notify := sale.DecideNotification(outcome.PreviousStatus, unified.Status); notify && p.dispatcher != nil {
		*effects = append(*effects, p.dispatch(ctx, tenantID, unified, kind))
	}

	return &ProcessResult{
		Success: true,
		Message: "webhook processed",
		SaleID:  outcome.Record.ID.String(),
		Action:  outcome.Action,
	}
}

func (p *Processor) writeLog(ctx context.Context, entry *sale.WebhookLogEntry) shared.BestEffort {
	if p.logs == nil {
		return shared.Succeeded(opLog)
	}
	return shared.Attempted(opLog, p.logs.Insert(ctx, entry))
}

func (p *Processor) archive(ctx context.Context, entry *sale.WebhookLogEntry) shared.BestEffort {
	if p.archiver == nil {
		return shared.Succeeded(opArchive)
	}
	_, err := p.archiver.Archive(ctx, entry)
	return shared.Attempted(opArchive, err)
}

// dispatch runs after the upsert committed. A panic here must not fail the
// delivery: the redelivery would see no transition and never notify.
func (p *Processor) dispatch(ctx context.Context, tenantID uuid.UUID, s *sale.UnifiedSale, kind notification.Kind) (outcome shared.BestEffort) {
	defer func() {
		if r := recover(); r != nil {
			outcome = shared.Attempted(opDispatch, fmt.Errorf("panic: %v", r))
		}
	}()
	return p.dispatcher.Dispatch(ctx, tenantID, s, kind)
}

// settle is the single place where best-effort failures are logged and dropped
func (p *Processor) settle(ctx context.Context, log *zap.Logger, effects []shared.BestEffort) {
	for _, e := range effects {
		if !e.Failed() {
			continue
		}
		log.Warn("Best-effort step failed", zap.String("operation", e.Operation), zap.Error(e.Err))
		p.metrics.RecordBestEffortFailure(ctx, e.Operation)
	}
}

func (p *Processor) finish(ctx context.Context, log *zap.Logger, span trace.Span, gateway sale.Gateway, result *ProcessResult, started time.Time) {
	outcome := "success"
	if !result.Success {
		outcome = string(result.ErrorKind)
		telemetry.RecordError(span, result.Err)
	} else {
		telemetry.SetAttributes(span,
			telemetry.SpanAttrSaleID, result.SaleID,
			telemetry.SpanAttrAction, string(result.Action),
		)
	}
	p.metrics.RecordDelivery(ctx, gateway.String(), string(result.Action), outcome, p.clock().Sub(started))

	switch result.ErrorKind {
	case ErrorKindNone:
		log.Info("Webhook processed", zap.String("sale_id", result.SaleID), zap.String("action", string(result.Action)))
	case ErrorKindInternal:
		log.Error("Webhook processing failed", zap.Error(result.Err))
	default:
		log.Info("Webhook rejected", zap.String("reason", string(result.ErrorKind)))
	}
}
