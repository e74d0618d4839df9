package identity

import (
	"testing"

	"github.com/zaplinkhq/zaplink/internal/config"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(config.IdentityConfig{})
}

func TestNormalizeVariantsShareOneKey(t *testing.T) {
	n := newTestNormalizer()

	variants := []string{
		"+55 11 98765-4321",
		"5511987654321",
		"11987654321",
		"1187654321",
	}
	for _, raw := range variants {
		if got := n.Normalize(raw); got != "1187654321" {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, "1187654321")
		}
	}
}

func TestNormalizeTable(t *testing.T) {
	n := newTestNormalizer()

	cases := []struct {
		raw  string
		want string
	}{
		{"987654321", "987654321"},    // no area code: kept as-is for suffix matching
		{"(11) 98765-4321", "1187654321"},
		{"5521912345678", "2112345678"},
		{"123456789012345678", ""},    // provider-internal id, too long
		{"1234567", ""},               // below minimum digits
		{"", ""},
		{"abc@g.us", ""},              // no digits at all
		{"55998877", "55998877"},      // short number starting with country code is untouched
	}
	for _, tc := range cases {
		if got := n.Normalize(tc.raw); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := newTestNormalizer()

	for _, raw := range []string{"+55 11 98765-4321", "987654321", "11987654321", "something-123"} {
		once := n.Normalize(raw)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestSubscriberSuffix(t *testing.T) {
	n := newTestNormalizer()

	cases := []struct {
		key  string
		want string
	}{
		{"1187654321", "87654321"},
		{"987654321", "87654321"}, // mobile ninth digit without area code sheds first
		{"87654321", "87654321"},
	}
	for _, tc := range cases {
		if got := n.SubscriberSuffix(tc.key); got != tc.want {
			t.Errorf("SubscriberSuffix(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestHasAreaCode(t *testing.T) {
	n := newTestNormalizer()

	if !n.HasAreaCode("1187654321") {
		t.Error("expected 1187654321 to carry an area code")
	}
	if n.HasAreaCode("987654321") {
		t.Error("expected 987654321 to lack an area code")
	}
}

func TestLooksLikeIdentifier(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"+55 11 98765-4321", true},
		{"123456789@g.us", true},
		{"", true},
		{"Maria Silva", false},
		{"Jo 123", false},
	}
	for _, tc := range cases {
		if got := LooksLikeIdentifier(tc.name); got != tc.want {
			t.Errorf("LooksLikeIdentifier(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
