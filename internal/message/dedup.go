package message

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// DedupKey derives the uniqueness key enforced on insert. Messages with a
// provider id are keyed by it alone. Messages without one fall back to a
// conversation-scoped composite of content, direction, and the createdAt
// truncated to the second. The truncation is deliberately coarse: two
// distinct messages with identical text in the same second and direction
// collapse to one, an accepted loss because the provider offers no better
// key for them.
func DedupKey(input AppendInput) string {
	if id := strings.TrimSpace(input.ProviderMessageID); id != "" {
		return "pmid:" + id
	}
	sum := sha256.Sum256([]byte(input.Content))
	return fmt.Sprintf("fp:%s:%s:%d:%s",
		input.ConversationKey,
		input.Direction,
		input.CreatedAt.Truncate(time.Second).Unix(),
		hex.EncodeToString(sum[:8]),
	)
}
