package sale

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Placeholder values used when a vendor omits customer or product fields
const (
	UnknownCustomerName  = "Unknown customer"
	UnknownCustomerEmail = "unknown@unknown.invalid"
	UnknownProductName   = "Product"
)

// Column limits of a stored sale. External ids longer than MaxExternalIDLength
// are rejected by the adapters; free text is clipped.
const (
	MaxExternalIDLength       = 200
	MaxEventTypeLength        = 100
	MaxCustomerNameLength     = 200
	MaxCustomerEmailLength    = 200
	MaxCustomerPhoneLength    = 50
	MaxCustomerDocumentLength = 50
	MaxProductNameLength      = 300
)

// Customer is the buyer as reported by the vendor
type Customer struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Document *string `json:"document,omitempty"`
}

// Product is the purchased item, best effort
type Product struct {
	Name     string           `json:"name"`
	Quantity *int             `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

// Tracking holds marketing attribution parameters
type Tracking struct {
	Source   *string `json:"source,omitempty"`
	Medium   *string `json:"medium,omitempty"`
	Campaign *string `json:"campaign,omitempty"`
	Content  *string `json:"content,omitempty"`
	Term     *string `json:"term,omitempty"`
	Src      *string `json:"src,omitempty"`
	Sck      *string `json:"sck,omitempty"`
}

// IsEmpty reports whether no tracking parameter is set
func (t *Tracking) IsEmpty() bool {
	if t == nil {
		return true
	}
	for _, v := range []*string{t.Source, t.Medium, t.Campaign, t.Content, t.Term, t.Src, t.Sck} {
		if v != nil {
			return false
		}
	}
	return true
}

// UnifiedSale is the vendor-independent representation of one webhook delivery
type UnifiedSale struct {
	Gateway         Gateway         `json:"gateway"`
	ExternalID      string          `json:"externalId"`
	Status          Status          `json:"status"`
	Amount          decimal.Decimal `json:"amount"`
	Customer        Customer        `json:"customer"`
	Product         *Product        `json:"product,omitempty"`
	Tracking        *Tracking       `json:"tracking,omitempty"`
	OriginalPayload json.RawMessage `json:"originalPayload"`
	EventType       string          `json:"eventType"`
}

// AmountFromMinorUnits converts an integer amount in minor units (cents) into
// major units with two decimal places. The conversion is exact.
func AmountFromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// NewCustomer builds a Customer applying the placeholder fallbacks for name and
// email. Blank phone or document values are dropped and long values clipped.
func NewCustomer(name, email, phone, document string) Customer {
	c := Customer{
		Name:  clipText(name, MaxCustomerNameLength),
		Email: clipText(email, MaxCustomerEmailLength),
	}
	if c.Name == "" {
		c.Name = UnknownCustomerName
	}
	if c.Email == "" {
		c.Email = UnknownCustomerEmail
	}
	c.Phone = OptionalString(clipText(phone, MaxCustomerPhoneLength))
	c.Document = OptionalString(clipText(document, MaxCustomerDocumentLength))
	return c
}

// OptionalString returns nil for a blank string. NUL characters are removed.
func OptionalString(s string) *string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	if s == "" {
		return nil
	}
	return &s
}

// clipText trims s, drops NUL characters and cuts it to max characters
func clipText(s string, max int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}

// FitStorage clips the free-text fields set by adapters outside NewCustomer
func (s *UnifiedSale) FitStorage() {
	s.EventType = clipText(s.EventType, MaxEventTypeLength)
	if s.Product != nil {
		s.Product.Name = clipText(s.Product.Name, MaxProductNameLength)
		if s.Product.Name == "" {
			s.Product.Name = UnknownProductName
		}
	}
}

// Key returns the idempotency key of the sale within a tenant
func (s *UnifiedSale) Key(tenantID uuid.UUID) IdempotencyKey {
	return IdempotencyKey{TenantID: tenantID, Gateway: s.Gateway, ExternalID: s.ExternalID}
}

// ProductName returns the product name or the placeholder
func (s *UnifiedSale) ProductName() string {
	if s.Product == nil || strings.TrimSpace(s.Product.Name) == "" {
		return UnknownProductName
	}
	return s.Product.Name
}
