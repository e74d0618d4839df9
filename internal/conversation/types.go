package conversation

import "time"

// Conversation is the materialized view of one contact's message stream,
// merged across every identifier variant that resolves to its key. An
// unresolved identifier stays a singleton conversation keyed by its raw form.
type Conversation struct {
	Key           string    `json:"key"`
	DisplayName   string    `json:"display_name,omitempty"`
	Variants      []string  `json:"variants,omitempty"`
	LastContent   string    `json:"last_content"`
	LastCreatedAt time.Time `json:"last_created_at"`
	Direction     string    `json:"direction"`
	IsWaiting     bool      `json:"is_waiting"`
	Unresolved    bool      `json:"unresolved,omitempty"`
}

// KeyFunc maps a raw identifier to its conversation key; "" means
// unresolvable.
type KeyFunc func(rawIdentifier string) (string, error)
