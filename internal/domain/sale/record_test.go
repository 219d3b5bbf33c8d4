package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salehub/backend/internal/domain/notification"
)

func TestRecord_Apply(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	tenantID := uuid.New()

	first := UnifiedSale{Gateway: GatewayVega, ExternalID: "A1", Status: StatusPending, Amount: AmountFromMinorUnits(1000)}
	r := NewRecord(tenantID, first, t0)
	require.Len(t, r.History, 1)
	assert.Equal(t, StatusPending, r.History[0].Status)
	assert.Equal(t, t0, r.CreatedAt)

	t1 := t0.Add(time.Minute)
	second := first
	second.Status = StatusPending
	r.Apply(second, t1)

	t2 := t1.Add(time.Minute)
	third := first
	third.Status = StatusPaid
	third.Amount = AmountFromMinorUnits(1200)
	r.Apply(third, t2)

	require.Len(t, r.History, 3)
	assert.Equal(t, StatusPending, r.History[1].Status, "duplicates are kept")
	assert.Equal(t, StatusPaid, r.History[2].Status)
	assert.Equal(t, StatusPaid, r.Sale.Status)
	assert.Equal(t, "12.00", r.Sale.Amount.StringFixed(2))
	assert.Equal(t, t0, r.CreatedAt)
	assert.Equal(t, t2, r.UpdatedAt)
	assert.Equal(t, first.Key(tenantID), r.Key())
}

func statusPtr(s Status) *Status {
	return &s
}

func TestDecideNotification(t *testing.T) {
	tests := []struct {
		name     string
		previous *Status
		current  Status
		kind     notification.Kind
		notify   bool
	}{
		{"new paid", nil, StatusPaid, notification.KindSalePaid, true},
		{"new pending", nil, StatusPending, notification.KindSaleCreated, true},
		{"new refused", nil, StatusRefused, "", false},
		{"new processing", nil, StatusProcessing, "", false},
		{"pending to paid", statusPtr(StatusPending), StatusPaid, notification.KindSalePaid, true},
		{"processing to paid", statusPtr(StatusProcessing), StatusPaid, notification.KindSalePaid, true},
		{"refused to paid", statusPtr(StatusRefused), StatusPaid, notification.KindSalePaid, true},
		{"paid to paid", statusPtr(StatusPaid), StatusPaid, "", false},
		{"paid to refunded", statusPtr(StatusPaid), StatusRefunded, "", false},
		{"pending to pending", statusPtr(StatusPending), StatusPending, "", false},
		{"paid to chargeback", statusPtr(StatusPaid), StatusChargeback, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, notify := DecideNotification(tt.previous, tt.current)
			assert.Equal(t, tt.notify, notify)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestDecideNotification_Sequence(t *testing.T) {
	sequence := []Status{StatusPending, StatusPending, StatusPaid, StatusPaid, StatusRefunded}

	var previous *Status
	var kinds []notification.Kind
	paidAt := -1
	for i, s := range sequence {
		if kind, ok := DecideNotification(previous, s); ok {
			kinds = append(kinds, kind)
			if kind == notification.KindSalePaid {
				paidAt = i
			}
		}
		previous = statusPtr(s)
	}

	assert.Equal(t, []notification.Kind{notification.KindSaleCreated, notification.KindSalePaid}, kinds)
	assert.Equal(t, 2, paidAt)
}
