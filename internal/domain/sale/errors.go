package sale

import "errors"

var (
	// ErrInvalidPayload is returned when a webhook body fails vendor validation
	ErrInvalidPayload = errors.New("sale: invalid webhook payload")
	// ErrUnauthorized is returned when the tenant secret does not resolve to a tenant
	ErrUnauthorized = errors.New("sale: unauthorized")
	// ErrInternalProcessing is returned for store or unexpected failures
	ErrInternalProcessing = errors.New("sale: internal processing error")
	// ErrRecordNotFound is returned by repositories when no sale matches a key
	ErrRecordNotFound = errors.New("sale: record not found")
)
