package message

import "time"

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Delivery statuses, in transition order.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Message is a single stored message. Immutable after insert except for
// delivery status transitions.
type Message struct {
	ID                string    `json:"id"`
	ConversationKey   string    `json:"conversation_key"`
	RawIdentifier     string    `json:"raw_identifier"`
	ProviderMessageID string    `json:"provider_message_id,omitempty"`
	Direction         string    `json:"direction"`
	Content           string    `json:"content"`
	MediaURL          string    `json:"media_url,omitempty"`
	DeliveryStatus    string    `json:"delivery_status"`
	CreatedAt         time.Time `json:"created_at"`
}

// AppendInput is the input for appending a message.
type AppendInput struct {
	ConversationKey   string
	RawIdentifier     string
	ProviderMessageID string
	Direction         string
	Content           string
	MediaURL          string
	DeliveryStatus    string
	CreatedAt         time.Time
}

// Summary is the latest message observed for one raw identifier, the unit the
// conversation aggregator folds over.
type Summary struct {
	RawIdentifier string
	LastContent   string
	LastCreatedAt time.Time
	Direction     string
}

// StatusRank orders delivery statuses for monotonic transitions; unknown
// statuses rank lowest.
func StatusRank(status string) int {
	switch status {
	case StatusSent:
		return 1
	case StatusDelivered:
		return 2
	case StatusRead:
		return 3
	default:
		return 0
	}
}
