package sale

// Status is the canonical payment status every vendor status is mapped into
type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusRefused    Status = "refused"
	StatusRefunded   Status = "refunded"
	StatusChargeback Status = "chargeback"
	StatusProcessing Status = "processing"
)

// IsValid checks if the status is one of the canonical statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusRefused, StatusRefunded, StatusChargeback, StatusProcessing:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// AllStatuses returns every canonical status
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPaid,
		StatusRefused,
		StatusRefunded,
		StatusChargeback,
		StatusProcessing,
	}
}
