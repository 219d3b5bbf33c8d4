package gateway

import (
	"github.com/salehub/backend/internal/domain/sale"
)

// VegaAdapter normalizes Vega webhooks. Vega nests the transaction under "data"
// and only reports paid, refused and refunded as final states.
type VegaAdapter struct{}

// NewVegaAdapter creates a new Vega adapter
func NewVegaAdapter() *VegaAdapter {
	return &VegaAdapter{}
}

// Gateway returns the gateway slug
func (a *VegaAdapter) Gateway() sale.Gateway {
	return sale.GatewayVega
}

// DisplayName returns the human readable vendor name
func (a *VegaAdapter) DisplayName() string {
	return "Vega"
}

// Validate checks the payload shape
func (a *VegaAdapter) Validate(payload []byte) bool {
	return decodePayload(payload, &vegaPayload{}) == nil
}

// Normalize converts the payload into a UnifiedSale
func (a *VegaAdapter) Normalize(payload []byte) (*sale.UnifiedSale, error) {
	return normalizeWith(payload, func(p *vegaPayload) *sale.UnifiedSale {
		d := p.Data
		s := &sale.UnifiedSale{
			Gateway:    sale.GatewayVega,
			ExternalID: d.Transaction,
			Status:     mapVegaStatus(d.Status),
			Amount:     saleAmount(*d.Amount),
			EventType:  p.Event,
		}

		if d.Buyer != nil {
			s.Customer = sale.NewCustomer(d.Buyer.Name, d.Buyer.Email, d.Buyer.Phone, d.Buyer.Document)
		} else {
			s.Customer = sale.NewCustomer("", "", "", "")
		}

		if d.Offer != nil {
			s.Product = &sale.Product{
				Name:     firstNonBlank(d.Offer.Name, sale.UnknownProductName),
				Quantity: d.Offer.Quantity,
				Price:    minorUnitsPrice(d.Offer.Price),
			}
		}

		if t := d.Tracking; t != nil {
			s.Tracking = trackingFrom(t.Source, t.Medium, t.Campaign, t.Content, t.Term, t.Src, t.Sck)
		}
		return s
	})
}

// mapVegaStatus maps Vega status to our status
func mapVegaStatus(status string) sale.Status {
	switch status {
	case "paid":
		return sale.StatusPaid
	case "refused":
		return sale.StatusRefused
	case "refunded":
		return sale.StatusRefunded
	default:
		return sale.StatusPending
	}
}

// Ensure VegaAdapter implements GatewayAdapter interface
var _ sale.GatewayAdapter = (*VegaAdapter)(nil)
