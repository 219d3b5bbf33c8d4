package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/salehub/backend/internal/domain/sale"
	"github.com/salehub/backend/internal/interfaces/http/dto"
)

// GatewayCatalog lists the registered gateway adapters
type GatewayCatalog interface {
	All() []sale.GatewayAdapter
}

// GatewayHandler exposes the supported gateways
type GatewayHandler struct {
	BaseHandler
	catalog GatewayCatalog
}

// NewGatewayHandler creates a new GatewayHandler
func NewGatewayHandler(catalog GatewayCatalog) *GatewayHandler {
	return &GatewayHandler{catalog: catalog}
}

// List godoc
//
//	@ID				listGateways
//	@Summary		List supported gateways
//	@Description	Returns every registered gateway with the webhook path to configure at the vendor
//	@Tags			gateways
//	@Produce		json
//	@Success		200	{object}	dto.Response{data=[]dto.GatewayInfo}
//	@Router			/api/v1/gateways [get]
func (h *GatewayHandler) List(c *gin.Context) {
	adapters := h.catalog.All()
	out := make([]dto.GatewayInfo, 0, len(adapters))
	for _, a := range adapters {
		slug := a.Gateway().String()
		out = append(out, dto.GatewayInfo{
			Slug:        slug,
			Name:        a.DisplayName(),
			WebhookPath: "/webhook/" + slug,
		})
	}
	h.Success(c, out)
}
