package contacts

import "time"

// Contact is one canonical subscriber: a canonical key plus every raw
// identifier variant ever observed for it. Contacts grow monotonically and
// are never split once created.
type Contact struct {
	ID           string    `json:"id"`
	CanonicalKey string    `json:"canonical_key"`
	DisplayName  string    `json:"display_name,omitempty"`
	Variants     []string  `json:"variants,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Observation is one sighting of a raw identifier in provider payloads,
// optionally carrying a display name.
type Observation struct {
	CanonicalKey  string
	RawIdentifier string
	DisplayName   string
}
