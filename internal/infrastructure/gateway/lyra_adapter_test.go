package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehub/backend/internal/domain/sale"
)

func TestLyraAdapter_Normalize(t *testing.T) {
	payload := `{
		"event": "payment.approved",
		"payment": {"id": "pay_9", "status": "approved", "amount": 19990, "method": "pix"},
		"customer": {"name": "Carla", "email": "carla@example.com"},
		"product": {"name": "Mentorship", "quantity": 1, "price": 19990},
		"utm_source": "newsletter",
		"utm_term": "mentor",
		"sck": "xyz"
	}`

	a := NewLyraAdapter()
	require.True(t, a.Validate([]byte(payload)))

	s, err := a.Normalize([]byte(payload))
	require.NoError(t, err)

	assert.Equal(t, sale.GatewayLyra, s.Gateway)
	assert.Equal(t, "pay_9", s.ExternalID)
	assert.Equal(t, sale.StatusPaid, s.Status)
	assert.Equal(t, "199.90", s.Amount.StringFixed(2))
	assert.Equal(t, "payment.approved", s.EventType)
	assert.Equal(t, "Mentorship", s.Product.Name)
	require.NotNil(t, s.Tracking)
	assert.Equal(t, "newsletter", *s.Tracking.Source)
	assert.Equal(t, "mentor", *s.Tracking.Term)
	assert.Equal(t, "xyz", *s.Tracking.Sck)
	assert.Nil(t, s.Tracking.Campaign)
}

func TestMapLyraStatus(t *testing.T) {
	tests := []struct {
		event  string
		status string
		want   sale.Status
	}{
		{"payment.approved", "", sale.StatusPaid},
		{"payment.updated", "paid", sale.StatusPaid},
		{"payment.refused", "", sale.StatusRefused},
		{"payment.updated", "REJECTED", sale.StatusRefused},
		{"payment.refunded", "", sale.StatusRefunded},
		{"payment.chargeback", "", sale.StatusChargeback},
		{"payment.created", "waiting", sale.StatusPending},
		{"", "", sale.StatusPending},
		{"payment.updated", "unpaid", sale.StatusPending},
		{"payment.chargeback", "paid", sale.StatusChargeback},
		{"payment.refunded", "approved", sale.StatusRefunded},
		{"payment_refund", "paid", sale.StatusRefunded},
		{"payment.updated", "partially paid", sale.StatusPaid},
		{"payment.unapproved", "", sale.StatusPending},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapLyraStatus(tt.event, tt.status), "%s/%s", tt.event, tt.status)
	}
}

func TestLyraAdapter_Validate(t *testing.T) {
	a := NewLyraAdapter()
	assert.False(t, a.Validate([]byte(`{"event":"payment.approved"}`)))
	assert.False(t, a.Validate([]byte(`{"event":"payment.approved","payment":{"amount":1}}`)))
	assert.False(t, a.Validate([]byte(`{"payment":{"id":"1","amount":1}}`)))
	assert.True(t, a.Validate([]byte(`{"event":"x","payment":{"id":"1","amount":1}}`)))
}

func TestLyraAdapter_EventOverridesPaymentStatus(t *testing.T) {
	a := NewLyraAdapter()
	tests := []struct {
		payload string
		want    sale.Status
	}{
		{`{"event":"payment.updated","payment":{"id":"p1","status":"unpaid","amount":100}}`, sale.StatusPending},
		{`{"event":"payment.chargeback","payment":{"id":"p1","status":"paid","amount":100}}`, sale.StatusChargeback},
		{`{"event":"payment.refunded","payment":{"id":"p1","status":"approved","amount":100}}`, sale.StatusRefunded},
	}
	for _, tt := range tests {
		s, err := a.Normalize([]byte(tt.payload))
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.Status, tt.payload)
	}
}
