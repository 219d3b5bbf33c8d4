package shared

// BestEffort is the outcome of a side effect whose failure must never abort
// the operation that triggered it (audit logging, notifications, archiving).
//
// Callers collect BestEffort values and hand them to a single settling point
// that logs failures and drops them. A zero value is a success.
type BestEffort struct {
	Operation string
	Err       error
}

// Succeeded returns a successful outcome for the named operation
func Succeeded(operation string) BestEffort {
	return BestEffort{Operation: operation}
}

// Attempted wraps the error returned by a best-effort operation
func Attempted(operation string, err error) BestEffort {
	return BestEffort{Operation: operation, Err: err}
}

// Failed reports whether the side effect failed
func (b BestEffort) Failed() bool {
	return b.Err != nil
}

// Join combines several outcomes under one operation name, keeping the first failure
func Join(operation string, outcomes ...BestEffort) BestEffort {
	for _, o := range outcomes {
		if o.Failed() {
			return BestEffort{Operation: operation + "." + o.Operation, Err: o.Err}
		}
	}
	return Succeeded(operation)
}
