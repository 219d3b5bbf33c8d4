package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salehub/backend/internal/application/webhook"
	"github.com/salehub/backend/internal/infrastructure/logger"
	"github.com/salehub/backend/internal/interfaces/http/dto"
)

// TenantSecretQuery is the query parameter carrying the tenant secret
const TenantSecretQuery = "tenantSecret"

// Headers never forwarded to the processor or the webhook log
var droppedHeaders = map[string]struct{}{
	"authorization": {},
	"cookie":        {},
	"x-api-key":     {},
}

// WebhookProcessor runs one delivery through ingestion
type WebhookProcessor interface {
	Process(ctx context.Context, req webhook.ProcessRequest) *webhook.ProcessResult
}

// WebhookHandler receives gateway deliveries
type WebhookHandler struct {
	BaseHandler
	adapters  webhook.AdapterLookup
	processor WebhookProcessor
	logger    *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(adapters webhook.AdapterLookup, processor WebhookProcessor, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		adapters:  adapters,
		processor: processor,
		logger:    logger.OrNop(log).Named("http.webhook"),
	}
}

// Receive godoc
//
//	@Summary		Receive a payment gateway webhook
//	@Description	Normalizes the vendor payload and records the sale for the tenant owning the secret.
//	@Description	Gateways retry on non-2xx, so only a processed delivery answers 200.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			gateway			path		string					true	"Gateway slug"	Enums(vega, orion, lyra, nova)
//	@Param			secret			path		string					false	"Tenant webhook secret"
//	@Param			tenantSecret	query		string					false	"Tenant webhook secret, when not in the path"
//	@Param			payload			body		object					true	"Vendor webhook body"
//	@Success		200				{object}	dto.WebhookResponse
//	@Failure		400				{object}	dto.WebhookResponse
//	@Failure		401				{object}	dto.WebhookResponse
//	@Failure		404				{object}	dto.WebhookResponse
//	@Failure		413				{object}	dto.WebhookResponse
//	@Failure		429				{object}	dto.WebhookResponse
//	@Failure		500				{object}	dto.WebhookResponse
//	@Router			/webhook/{gateway} [post]
//	@Router			/webhook/{gateway}/{secret} [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	slug := c.Param("gateway")
	adapter, ok := h.adapters.Lookup(slug)
	if !ok {
		h.WebhookError(c, dto.ErrCodeUnknownGateway, "unknown gateway")
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.WebhookError(c, dto.ErrCodePayloadTooLarge, "payload too large")
			return
		}
		logger.Ctx(c.Request.Context(), h.logger).Warn("Failed to read webhook body", zap.Error(err))
		h.WebhookError(c, dto.ErrCodeInvalidPayload, "invalid payload")
		return
	}

	result := h.processor.Process(c.Request.Context(), webhook.ProcessRequest{
		GatewaySlug:  slug,
		TenantSecret: tenantSecret(c),
		Adapter:      adapter,
		Payload:      payload,
		Headers:      flattenHeaders(c.Request.Header),
	})

	switch result.ErrorKind {
	case webhook.ErrorKindNone:
		c.JSON(http.StatusOK, dto.WebhookResponse{
			Success:   true,
			Message:   result.Message,
			SaleID:    result.SaleID,
			Action:    string(result.Action),
			RequestID: getRequestID(c),
		})
	case webhook.ErrorKindUnknownGateway:
		h.WebhookError(c, dto.ErrCodeUnknownGateway, "unknown gateway")
	case webhook.ErrorKindValidation:
		h.WebhookError(c, dto.ErrCodeInvalidPayload, "invalid payload")
	case webhook.ErrorKindUnauthorized:
		h.WebhookError(c, dto.ErrCodeUnauthorized, "unauthorized")
	default:
		h.WebhookError(c, dto.ErrCodeInternal, "internal error")
	}
}

// tenantSecret prefers the path segment over the query parameter
func tenantSecret(c *gin.Context) string {
	if s := c.Param("secret"); s != "" {
		return s
	}
	return c.Query(TenantSecretQuery)
}

// flattenHeaders keeps the first value of each header under a lowercase key
func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		key := strings.ToLower(k)
		if _, drop := droppedHeaders[key]; drop || len(v) == 0 {
			continue
		}
		out[key] = v[0]
	}
	return out
}
