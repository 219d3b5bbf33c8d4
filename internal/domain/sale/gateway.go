package sale

import "strings"

// Gateway is the slug identifying a payment vendor
type Gateway string

const (
	GatewayVega  Gateway = "vega"
	GatewayOrion Gateway = "orion"
	GatewayLyra  Gateway = "lyra"
	GatewayNova  Gateway = "nova"
)

// String returns the string representation of the gateway
func (g Gateway) String() string {
	return string(g)
}

// IsBuiltIn reports whether the gateway is one of the vendors shipped with the service
func (g Gateway) IsBuiltIn() bool {
	switch g {
	case GatewayVega, GatewayOrion, GatewayLyra, GatewayNova:
		return true
	}
	return false
}

// NormalizeGateway converts a raw slug (path segment, config value) into its
// canonical lower-case form
func NormalizeGateway(slug string) Gateway {
	return Gateway(strings.ToLower(strings.TrimSpace(slug)))
}

// GatewayAdapter translates one vendor's webhook body into a UnifiedSale.
//
// Validate must never panic and must return false for malformed input.
// Normalize is only called after Validate returned true.
type GatewayAdapter interface {
	Gateway() Gateway
	DisplayName() string
	Validate(payload []byte) bool
	Normalize(payload []byte) (*UnifiedSale, error)
}
