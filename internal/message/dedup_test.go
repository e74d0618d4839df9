package message

import (
	"testing"
	"time"
)

func TestDedupKeyPrefersProviderID(t *testing.T) {
	a := AppendInput{
		ConversationKey:   "1187654321",
		ProviderMessageID: "3EB0ABC123",
		Direction:         DirectionInbound,
		Content:           "hello",
		CreatedAt:         time.Now(),
	}
	b := AppendInput{
		ConversationKey:   "2112345678",
		ProviderMessageID: "3EB0ABC123",
		Direction:         DirectionOutbound,
		Content:           "different body",
		CreatedAt:         time.Now().Add(time.Hour),
	}
	if DedupKey(a) != "pmid:3EB0ABC123" {
		t.Fatalf("unexpected key: %s", DedupKey(a))
	}
	if DedupKey(a) != DedupKey(b) {
		t.Error("same provider id must produce the same key regardless of other fields")
	}
}

func TestDedupKeyFallbackCollapsesSameSecond(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	base := AppendInput{
		ConversationKey: "1187654321",
		Direction:       DirectionInbound,
		Content:         "oi",
		CreatedAt:       at,
	}
	sameSecond := base
	sameSecond.CreatedAt = at.Add(700 * time.Millisecond)
	if DedupKey(base) != DedupKey(sameSecond) {
		t.Error("identical content in the same second must collapse")
	}

	nextSecond := base
	nextSecond.CreatedAt = at.Add(time.Second)
	if DedupKey(base) == DedupKey(nextSecond) {
		t.Error("a different second must produce a different key")
	}
}

func TestDedupKeyFallbackIsConversationScoped(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	a := AppendInput{ConversationKey: "1187654321", Direction: DirectionInbound, Content: "oi", CreatedAt: at}
	b := a
	b.ConversationKey = "2112345678"
	if DedupKey(a) == DedupKey(b) {
		t.Error("identical fallback messages in different conversations must not collapse")
	}

	c := a
	c.Direction = DirectionOutbound
	if DedupKey(a) == DedupKey(c) {
		t.Error("direction must participate in the fallback key")
	}
}
