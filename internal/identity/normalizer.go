// Package identity normalizes raw provider identifiers into canonical matching keys.
package identity

import (
	"strings"

	"github.com/zaplinkhq/zaplink/internal/config"
)

// Normalizer folds the identifier variants the provider emits for one
// subscriber (with/without country code, with/without the mobile ninth digit)
// into a single canonical digit key. All thresholds come from configuration;
// the defaults describe the Brazilian numbering plan.
type Normalizer struct {
	countryCode       string
	nationalLength    int
	mobilePrefixDigit byte
	maxDigits         int
	minDigits         int
}

// NewNormalizer builds a Normalizer from identity config, applying defaults
// for zero values.
func NewNormalizer(cfg config.IdentityConfig) *Normalizer {
	n := &Normalizer{
		countryCode:       strings.TrimSpace(cfg.CountryCode),
		nationalLength:    cfg.NationalLength,
		mobilePrefixDigit: '9',
		maxDigits:         cfg.MaxDigits,
		minDigits:         cfg.MinDigits,
	}
	if n.countryCode == "" {
		n.countryCode = config.DefaultCountryCode
	}
	if n.nationalLength <= 0 {
		n.nationalLength = config.DefaultNationalLength
	}
	if prefix := strings.TrimSpace(cfg.MobilePrefixDigit); prefix != "" {
		n.mobilePrefixDigit = prefix[0]
	}
	if n.maxDigits <= 0 {
		n.maxDigits = config.DefaultMaxDigits
	}
	if n.minDigits <= 0 {
		n.minDigits = config.DefaultMinDigits
	}
	return n
}

// Normalize converts a raw identifier into its canonical key, or "" when the
// identifier is not phone-number-shaped. The result is deterministic and
// idempotent: feeding a canonical key back in returns it unchanged.
func (n *Normalizer) Normalize(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	// Identifiers longer than the ceiling are provider-internal ids
	// (broadcasts, groups, status): never phone numbers.
	if len(digits) > n.maxDigits {
		return ""
	}
	if strings.HasPrefix(digits, n.countryCode) && len(digits) > n.nationalLength {
		digits = digits[len(n.countryCode):]
	}
	// An 11-digit national number carrying the mobile ninth digit collapses
	// to its 10-digit base, so both forms of the same subscriber share a key.
	if len(digits) == n.nationalLength+1 && digits[2] == n.mobilePrefixDigit {
		digits = digits[:2] + digits[3:]
	}
	if len(digits) < n.minDigits {
		return ""
	}
	return digits
}

// SubscriberSuffix returns the area-code-free subscriber part of a canonical
// key, used for matching identifiers that arrive without an area code. A key
// one digit longer than the subscriber length that starts with the mobile
// prefix digit sheds it first.
func (n *Normalizer) SubscriberSuffix(key string) string {
	subscriberLen := n.nationalLength - 2
	if len(key) == subscriberLen+1 && key[0] == n.mobilePrefixDigit {
		key = key[1:]
	}
	if len(key) > subscriberLen {
		key = key[len(key)-subscriberLen:]
	}
	return key
}

// HasAreaCode reports whether a canonical key carries an area code.
func (n *Normalizer) HasAreaCode(key string) bool {
	return len(key) >= n.nationalLength
}

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// LooksLikeIdentifier reports whether a display name is indistinguishable from
// a raw identifier (digits/punctuation only, or an @-suffixed alias). Such
// names are placeholders that a later real name may replace.
func LooksLikeIdentifier(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return true
	}
	if strings.Contains(trimmed, "@") {
		return true
	}
	for i := 0; i < len(trimmed); i++ {
		switch c := trimmed[i]; {
		case c >= '0' && c <= '9':
		case c == '+' || c == '-' || c == '(' || c == ')' || c == ' ' || c == '.':
		default:
			return false
		}
	}
	return true
}
