package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued   EventType = "token_issued"
	EventTokenRenewed  EventType = "token_renewed"
	EventTokenRevoked  EventType = "token_revoked"
	EventTokensCleaned EventType = "tokens_cleaned"
	EventUserFrozen    EventType = "user_frozen"
	EventUserDeleted   EventType = "user_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	ExpiresAt int64 `json:"expires_at"`
}

// TokenRenewedPayload payload. OldID is present because renewal rotates ids.
type TokenRenewedPayload struct {
	ExpiresAt int64 `json:"expires_at"`
}

// TokensRevokedPayload payload for single and bulk revocations.
type TokensRevokedPayload struct {
	Count  int    `json:"count"`
	Reason string `json:"reason,omitempty"`
}

// TokensCleanedPayload payload.
type TokensCleanedPayload struct {
	Count int `json:"count"`
}
