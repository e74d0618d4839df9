package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zaplinkhq/zaplink/internal/message"
)

func staticKeys(mapping map[string]string) KeyFunc {
	return func(raw string) (string, error) {
		return mapping[raw], nil
	}
}

func TestAggregateMergesVariantsOfOneSubscriber(t *testing.T) {
	t1 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	summaries := []message.Summary{
		{RawIdentifier: "5511987654321", LastContent: "sent earlier", LastCreatedAt: t1, Direction: message.DirectionOutbound},
		{RawIdentifier: "11987654321", LastContent: "reply", LastCreatedAt: t2, Direction: message.DirectionInbound},
	}
	keys := staticKeys(map[string]string{
		"5511987654321": "1187654321",
		"11987654321":   "1187654321",
	})

	conversations, err := Aggregate(summaries, keys)
	assert.NoError(t, err)
	assert.Len(t, conversations, 1)
	assert.Equal(t, "1187654321", conversations[0].Key)
	assert.Equal(t, "reply", conversations[0].LastContent)
	assert.Equal(t, t2, conversations[0].LastCreatedAt)
	assert.True(t, conversations[0].IsWaiting, "latest message is inbound, conversation awaits a reply")
	assert.False(t, conversations[0].Unresolved)
}

func TestAggregateIsWaitingFollowsGloballyLatest(t *testing.T) {
	t1 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// Inbound on one variant, then a later outbound on another: not waiting.
	summaries := []message.Summary{
		{RawIdentifier: "a", LastContent: "question", LastCreatedAt: t1, Direction: message.DirectionInbound},
		{RawIdentifier: "b", LastContent: "answer", LastCreatedAt: t2, Direction: message.DirectionOutbound},
	}
	keys := staticKeys(map[string]string{"a": "k", "b": "k"})

	conversations, err := Aggregate(summaries, keys)
	assert.NoError(t, err)
	assert.Len(t, conversations, 1)
	assert.False(t, conversations[0].IsWaiting)
	assert.Equal(t, "answer", conversations[0].LastContent)
}

func TestAggregateKeepsUnresolvedAsSingletons(t *testing.T) {
	t1 := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	summaries := []message.Summary{
		{RawIdentifier: "alias-one@broadcast", LastContent: "x", LastCreatedAt: t1, Direction: message.DirectionInbound},
		{RawIdentifier: "alias-two@broadcast", LastContent: "y", LastCreatedAt: t1.Add(time.Minute), Direction: message.DirectionInbound},
	}
	keys := staticKeys(map[string]string{})

	conversations, err := Aggregate(summaries, keys)
	assert.NoError(t, err)
	assert.Len(t, conversations, 2, "unresolved identifiers must never merge with each other")
	for _, conv := range conversations {
		assert.True(t, conv.Unresolved)
		assert.NotEmpty(t, conv.Key)
	}
}

func TestAggregateSortsByRecency(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	summaries := []message.Summary{
		{RawIdentifier: "old", LastContent: "old", LastCreatedAt: base, Direction: message.DirectionInbound},
		{RawIdentifier: "new", LastContent: "new", LastCreatedAt: base.Add(time.Hour), Direction: message.DirectionInbound},
		{RawIdentifier: "mid", LastContent: "mid", LastCreatedAt: base.Add(time.Minute), Direction: message.DirectionInbound},
	}
	keys := staticKeys(map[string]string{"old": "old", "new": "new", "mid": "mid"})

	conversations, err := Aggregate(summaries, keys)
	assert.NoError(t, err)
	assert.Len(t, conversations, 3)
	assert.Equal(t, "new", conversations[0].LastContent)
	assert.Equal(t, "mid", conversations[1].LastContent)
	assert.Equal(t, "old", conversations[2].LastContent)
}
