// Package conversation builds the canonical conversation list by folding
// per-identifier message summaries through identity resolution.
package conversation

import (
	"sort"

	"github.com/zaplinkhq/zaplink/internal/message"
)

// Aggregate groups summaries by conversation key. Summaries sharing a
// non-empty key merge into one conversation whose last message is the
// chronologically latest across the whole group; isWaiting derives from that
// globally-latest message, never from a single variant. Summaries with an
// empty key stay one singleton conversation per distinct raw identifier, so
// unrelated aliases are never collapsed together.
func Aggregate(summaries []message.Summary, keyOf KeyFunc) ([]Conversation, error) {
	merged := make(map[string]*Conversation)
	order := make([]string, 0, len(summaries))

	for _, summary := range summaries {
		key, err := keyOf(summary.RawIdentifier)
		if err != nil {
			return nil, err
		}
		unresolved := key == ""
		groupKey := key
		if unresolved {
			groupKey = "raw:" + summary.RawIdentifier
		}
		conv, ok := merged[groupKey]
		if !ok {
			conv = &Conversation{
				Key:        key,
				Unresolved: unresolved,
			}
			if unresolved {
				conv.Key = summary.RawIdentifier
			}
			merged[groupKey] = conv
			order = append(order, groupKey)
		}
		if conv.LastCreatedAt.IsZero() || summary.LastCreatedAt.After(conv.LastCreatedAt) {
			conv.LastContent = summary.LastContent
			conv.LastCreatedAt = summary.LastCreatedAt
			conv.Direction = summary.Direction
			conv.IsWaiting = summary.Direction == message.DirectionInbound
		}
	}

	conversations := make([]Conversation, 0, len(merged))
	for _, groupKey := range order {
		conversations = append(conversations, *merged[groupKey])
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastCreatedAt.After(conversations[j].LastCreatedAt)
	})
	return conversations, nil
}
