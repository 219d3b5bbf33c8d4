package sale

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountFromMinorUnits(t *testing.T) {
	tests := []struct {
		minor    int64
		expected string
	}{
		{1000, "10.00"},
		{0, "0.00"},
		{2550, "25.50"},
		{1, "0.01"},
		{99, "0.99"},
		{-150, "-1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			amount := AmountFromMinorUnits(tt.minor)
			assert.Equal(t, tt.expected, amount.StringFixed(2))
			assert.True(t, amount.Mul(decimal.NewFromInt(100)).Equal(decimal.NewFromInt(tt.minor)))
		})
	}
}

func TestNewCustomer(t *testing.T) {
	t.Run("applies placeholders", func(t *testing.T) {
		c := NewCustomer("  ", "", "", " ")
		assert.Equal(t, UnknownCustomerName, c.Name)
		assert.Equal(t, UnknownCustomerEmail, c.Email)
		assert.Nil(t, c.Phone)
		assert.Nil(t, c.Document)
	})

	t.Run("keeps values", func(t *testing.T) {
		c := NewCustomer("Ana", "ana@example.com", "+5511999", "123")
		assert.Equal(t, "Ana", c.Name)
		assert.Equal(t, "ana@example.com", c.Email)
		if assert.NotNil(t, c.Phone) {
			assert.Equal(t, "+5511999", *c.Phone)
		}
		if assert.NotNil(t, c.Document) {
			assert.Equal(t, "123", *c.Document)
		}
	})
}

func TestNewCustomer_FitsColumns(t *testing.T) {
	c := NewCustomer(strings.Repeat("ã", MaxCustomerNameLength+5), "a\x00na@example.com", strings.Repeat("9", 70), "\x00")
	assert.Equal(t, MaxCustomerNameLength, utf8.RuneCountInString(c.Name))
	assert.Equal(t, "ana@example.com", c.Email)
	if assert.NotNil(t, c.Phone) {
		assert.Len(t, *c.Phone, MaxCustomerPhoneLength)
	}
	assert.Nil(t, c.Document)
}

func TestUnifiedSale_FitStorage(t *testing.T) {
	s := &UnifiedSale{
		EventType: strings.Repeat("e", MaxEventTypeLength*2),
		Product:   &Product{Name: "\x00 "},
	}
	s.FitStorage()
	assert.Len(t, s.EventType, MaxEventTypeLength)
	assert.Equal(t, UnknownProductName, s.Product.Name)

	s = &UnifiedSale{Product: &Product{Name: strings.Repeat("p", MaxProductNameLength+1)}}
	s.FitStorage()
	assert.Len(t, s.Product.Name, MaxProductNameLength)
}

func TestUnifiedSale_ProductName(t *testing.T) {
	s := &UnifiedSale{}
	assert.Equal(t, UnknownProductName, s.ProductName())

	s.Product = &Product{Name: "Course"}
	assert.Equal(t, "Course", s.ProductName())
}

func TestTracking_IsEmpty(t *testing.T) {
	var nilTracking *Tracking
	assert.True(t, nilTracking.IsEmpty())
	assert.True(t, (&Tracking{}).IsEmpty())
	assert.False(t, (&Tracking{Sck: OptionalString("x")}).IsEmpty())
}

func TestIdempotencyKey_String(t *testing.T) {
	tenantID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	s := &UnifiedSale{Gateway: GatewayOrion, ExternalID: "tx_1"}
	assert.Equal(t, "11111111-1111-1111-1111-111111111111:orion:tx_1", s.Key(tenantID).String())
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("waiting").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestNormalizeGateway(t *testing.T) {
	assert.Equal(t, GatewayOrion, NormalizeGateway("  ORION "))
	assert.True(t, NormalizeGateway("Nova").IsBuiltIn())
	assert.False(t, NormalizeGateway("unknown").IsBuiltIn())
}
