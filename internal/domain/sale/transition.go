package sale

import "github.com/salehub/backend/internal/domain/notification"

// DecideNotification returns the notification a delivery triggers, given the
// status stored before it (nil when the sale was not seen yet) and its new status.
//
// Only three edges notify: not-seen to paid, not-seen to pending, and any
// non-paid status to paid.
func DecideNotification(previous *Status, current Status) (notification.Kind, bool) {
	if previous == nil {
		switch current {
		case StatusPaid:
			return notification.KindSalePaid, true
		case StatusPending:
			return notification.KindSaleCreated, true
		}
		return "", false
	}
	if current == StatusPaid && *previous != StatusPaid {
		return notification.KindSalePaid, true
	}
	return "", false
}
