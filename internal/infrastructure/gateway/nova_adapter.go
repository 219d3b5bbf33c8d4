package gateway

import (
	"github.com/salehub/backend/internal/domain/sale"
)

// NovaAdapter normalizes Nova webhooks
type NovaAdapter struct{}

// NewNovaAdapter creates a new Nova adapter
func NewNovaAdapter() *NovaAdapter {
	return &NovaAdapter{}
}

// Gateway returns the gateway slug
func (a *NovaAdapter) Gateway() sale.Gateway {
	return sale.GatewayNova
}

// DisplayName returns the human readable vendor name
func (a *NovaAdapter) DisplayName() string {
	return "Nova"
}

// Validate checks the payload shape
func (a *NovaAdapter) Validate(payload []byte) bool {
	return decodePayload(payload, &novaPayload{}) == nil
}

// Normalize converts the payload into a UnifiedSale
func (a *NovaAdapter) Normalize(payload []byte) (*sale.UnifiedSale, error) {
	return normalizeWith(payload, func(p *novaPayload) *sale.UnifiedSale {
		s := &sale.UnifiedSale{
			Gateway:    sale.GatewayNova,
			ExternalID: p.SaleID,
			Status:     mapNovaStatus(p.Status),
			Amount:     saleAmount(*p.Value),
			Customer:   sale.NewCustomer(p.Client.Name, p.Client.Email, p.Client.Cellphone, p.Client.Document),
			EventType:  p.Type,
		}

		// Nova omits the product on some subscription events
		s.Product = &sale.Product{Name: sale.UnknownProductName}
		if pr := p.Product; pr != nil {
			s.Product.Name = firstNonBlank(pr.Name, sale.UnknownProductName)
			s.Product.Quantity = pr.Quantity
			s.Product.Price = minorUnitsPrice(pr.Price)
		}

		if t := p.Tracking; t != nil {
			s.Tracking = trackingFrom(t.UTMSource, t.UTMMedium, t.UTMCampaign, t.UTMContent, t.UTMTerm, t.Src, t.Sck)
		}
		return s
	})
}

// mapNovaStatus maps Nova status to our status
func mapNovaStatus(status string) sale.Status {
	switch status {
	case "APPROVED":
		return sale.StatusPaid
	case "REFUSED":
		return sale.StatusRefused
	case "REFUNDED":
		return sale.StatusRefunded
	case "CHARGEBACK":
		return sale.StatusChargeback
	case "PROCESSING", "IN_ANALYSIS":
		return sale.StatusProcessing
	default:
		return sale.StatusPending
	}
}

// Ensure NovaAdapter implements GatewayAdapter interface
var _ sale.GatewayAdapter = (*NovaAdapter)(nil)
