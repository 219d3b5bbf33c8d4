package gateway

import (
	"strings"
	"unicode"

	"github.com/salehub/backend/internal/domain/sale"
)

// LyraAdapter normalizes Lyra webhooks. Lyra has no stable status enum, so the
// status is inferred from keywords in the event name, then the payment status.
type LyraAdapter struct{}

// NewLyraAdapter creates a new Lyra adapter
func NewLyraAdapter() *LyraAdapter {
	return &LyraAdapter{}
}

// Gateway returns the gateway slug
func (a *LyraAdapter) Gateway() sale.Gateway {
	return sale.GatewayLyra
}

// DisplayName returns the human readable vendor name
func (a *LyraAdapter) DisplayName() string {
	return "Lyra"
}

// Validate checks the payload shape
func (a *LyraAdapter) Validate(payload []byte) bool {
	return decodePayload(payload, &lyraPayload{}) == nil
}

// Normalize converts the payload into a UnifiedSale
func (a *LyraAdapter) Normalize(payload []byte) (*sale.UnifiedSale, error) {
	return normalizeWith(payload, func(p *lyraPayload) *sale.UnifiedSale {
		s := &sale.UnifiedSale{
			Gateway:    sale.GatewayLyra,
			ExternalID: p.Payment.ID,
			Status:     mapLyraStatus(p.Event, p.Payment.Status),
			Amount:     saleAmount(*p.Payment.Amount),
			EventType:  p.Event,
		}

		if c := p.Customer; c != nil {
			s.Customer = sale.NewCustomer(c.Name, c.Email, c.Phone, c.Document)
		} else {
			s.Customer = sale.NewCustomer("", "", "", "")
		}

		if pr := p.Product; pr != nil {
			s.Product = &sale.Product{
				Name:     firstNonBlank(pr.Name, sale.UnknownProductName),
				Quantity: pr.Quantity,
				Price:    minorUnitsPrice(pr.Price),
			}
		}

		s.Tracking = trackingFrom(p.UTMSource, p.UTMMedium, p.UTMCampaign, p.UTMContent, p.UTMTerm, p.Src, p.Sck)
		return s
	})
}

// lyraKeywords are matched as whole tokens, in order. Refunds and chargebacks
// come first: Lyra keeps the payment status "paid" on those events.
var lyraKeywords = []struct {
	token  string
	status sale.Status
}{
	{"chargeback", sale.StatusChargeback},
	{"refund", sale.StatusRefunded},
	{"refunded", sale.StatusRefunded},
	{"refused", sale.StatusRefused},
	{"rejected", sale.StatusRefused},
	{"approved", sale.StatusPaid},
	{"paid", sale.StatusPaid},
}

// mapLyraStatus infers the status from the event name, falling back to the
// payment status when the event carries no keyword
func mapLyraStatus(event, status string) sale.Status {
	if s, ok := matchLyraKeyword(event); ok {
		return s
	}
	if s, ok := matchLyraKeyword(status); ok {
		return s
	}
	return sale.StatusPending
}

func matchLyraKeyword(text string) (sale.Status, bool) {
	tokens := make(map[string]struct{})
	for _, t := range strings.FieldsFunc(foldStatus(text), func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
	}) {
		tokens[t] = struct{}{}
	}
	for _, kw := range lyraKeywords {
		if _, ok := tokens[kw.token]; ok {
			return kw.status, true
		}
	}
	return "", false
}

// Ensure LyraAdapter implements GatewayAdapter interface
var _ sale.GatewayAdapter = (*LyraAdapter)(nil)
