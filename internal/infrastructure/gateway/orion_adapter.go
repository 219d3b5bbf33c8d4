package gateway

import (
	"github.com/salehub/backend/internal/domain/sale"
)

// Orion reports many vendor statuses; each canonical status owns a bucket
var (
	orionPaidStatuses       = statusSet("paid", "approved", "authorized", "completed")
	orionRefusedStatuses    = statusSet("refused", "declined", "cancelled", "canceled", "antifraud", "failed")
	orionRefundedStatuses   = statusSet("refunded")
	orionChargebackStatuses = statusSet("chargeback", "chargedback")
)

// OrionAdapter normalizes Orion webhooks
type OrionAdapter struct{}

// NewOrionAdapter creates a new Orion adapter
func NewOrionAdapter() *OrionAdapter {
	return &OrionAdapter{}
}

// Gateway returns the gateway slug
func (a *OrionAdapter) Gateway() sale.Gateway {
	return sale.GatewayOrion
}

// DisplayName returns the human readable vendor name
func (a *OrionAdapter) DisplayName() string {
	return "Orion"
}

// Validate checks the payload shape
func (a *OrionAdapter) Validate(payload []byte) bool {
	return decodePayload(payload, &orionPayload{}) == nil
}

// Normalize converts the payload into a UnifiedSale
func (a *OrionAdapter) Normalize(payload []byte) (*sale.UnifiedSale, error) {
	return normalizeWith(payload, func(p *orionPayload) *sale.UnifiedSale {
		s := &sale.UnifiedSale{
			Gateway:    sale.GatewayOrion,
			ExternalID: p.TransactionID,
			Status:     mapOrionStatus(p.Status),
			Amount:     saleAmount(*p.Amount),
			EventType:  p.Event,
		}

		if c := p.Customer; c != nil {
			s.Customer = sale.NewCustomer(c.Name, c.Email, firstNonBlank(c.PhoneNumber, c.Mobile), c.Document)
		} else {
			s.Customer = sale.NewCustomer("", "", "", "")
		}

		s.Product = orionProduct(p)

		if u := p.UTM; u != nil {
			s.Tracking = trackingFrom(u.Source, u.Medium, u.Campaign, u.Content, u.Term, u.Src, u.Sck)
		}
		return s
	})
}

// orionProduct prefers the offer, then the first cart item
func orionProduct(p *orionPayload) *sale.Product {
	var first *orionCartItem
	if len(p.CartItems) > 0 {
		first = &p.CartItems[0]
	}

	product := &sale.Product{}
	var offerTitle, itemTitle string
	if p.Offer != nil {
		offerTitle = p.Offer.Title
		product.Quantity = p.Offer.Quantity
		product.Price = minorUnitsPrice(p.Offer.Price)
	}
	if first != nil {
		itemTitle = first.Title
		if product.Quantity == nil {
			product.Quantity = first.Quantity
		}
		if product.Price == nil {
			product.Price = minorUnitsPrice(first.Price)
		}
	}
	product.Name = firstNonBlank(offerTitle, itemTitle, sale.UnknownProductName)
	return product
}

// mapOrionStatus maps Orion status to our status, ignoring case
func mapOrionStatus(status string) sale.Status {
	folded := foldStatus(status)
	switch {
	case orionPaidStatuses[folded]:
		return sale.StatusPaid
	case orionRefusedStatuses[folded]:
		return sale.StatusRefused
	case orionRefundedStatuses[folded]:
		return sale.StatusRefunded
	case orionChargebackStatuses[folded]:
		return sale.StatusChargeback
	default:
		// processing, waiting_payment and anything new
		return sale.StatusPending
	}
}

func statusSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[foldStatus(v)] = true
	}
	return set
}

// Ensure OrionAdapter implements GatewayAdapter interface
var _ sale.GatewayAdapter = (*OrionAdapter)(nil)
