package notification

import (
	"context"

	"github.com/google/uuid"
)

// DeviceToken is a push registration for one user device of a tenant
type DeviceToken struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Token    string
}

// DeviceTokenRepository reads push registrations
type DeviceTokenRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]DeviceToken, error)
	Register(ctx context.Context, token DeviceToken) error
}

// PushMessage is one multicast push sent to every token of a tenant
type PushMessage struct {
	Tokens []string
	Title  string
	Body   string
	Link   string
	Icon   string
}

// PushReport summarizes the delivery of a multicast push
type PushReport struct {
	SuccessCount int
	FailureCount int
}

// PushSender delivers push messages
type PushSender interface {
	Send(ctx context.Context, msg PushMessage) (PushReport, error)
}

// UniqueTokens returns the token strings without duplicates or blanks,
// preserving first-seen order
func UniqueTokens(tokens []DeviceToken) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.Token == "" {
			continue
		}
		if _, ok := seen[t.Token]; ok {
			continue
		}
		seen[t.Token] = struct{}{}
		out = append(out, t.Token)
	}
	return out
}
