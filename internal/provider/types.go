// Package provider abstracts the remote messaging gateway.
package provider

import (
	"context"
	"time"
)

// Event is one message-shaped payload fetched from the gateway, either from
// the recent-changes feed or from a history page.
type Event struct {
	ProviderMessageID string    `json:"id"`
	RawIdentifier     string    `json:"chat_id"`
	DisplayName       string    `json:"push_name,omitempty"`
	FromMe            bool      `json:"from_me"`
	Content           string    `json:"body"`
	MediaURL          string    `json:"media_url,omitempty"`
	DeliveryStatus    string    `json:"ack,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// SendResult is the gateway's acknowledgment of an outbound message.
type SendResult struct {
	ProviderMessageID string `json:"id"`
}

// Client is the only surface the engine uses to talk to the gateway.
// FetchHistoryPage returns fewer than pageSize events exactly when history is
// exhausted.
type Client interface {
	FetchRecentChanges(ctx context.Context, limit int) ([]Event, error)
	FetchHistoryPage(ctx context.Context, scopeID string, pageOffset, pageSize int) ([]Event, error)
	SendMessage(ctx context.Context, rawIdentifier, text string) (SendResult, error)
}
