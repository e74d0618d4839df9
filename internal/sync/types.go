// Package sync drives incremental polling and deep-history backfill against
// the remote provider.
package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zaplinkhq/zaplink/internal/provider"
)

// GlobalScope is the mutual-exclusion scope of the incremental poll. Every
// other scope is one canonical key.
const GlobalScope = "global"

// ErrSyncInFlight reports that a sync is already running for the scope. The
// trigger is dropped, not queued: sync is idempotent and cheap to repeat on
// the next tick, while queuing risks unbounded backlog under a flaky remote.
var ErrSyncInFlight = errors.New("sync already running for scope")

// Cursor is the per-scope synchronization position. It advances monotonically
// and is never rolled back except by an explicit reset.
type Cursor struct {
	Scope            string    `json:"scope"`
	LastSyncedAt     time.Time `json:"last_synced_at,omitempty"`
	LastPageOffset   int       `json:"last_page_offset"`
	HistoryExhausted bool      `json:"history_exhausted"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// PollResult summarizes one incremental poll run.
type PollResult struct {
	Fetched     int      `json:"fetched"`
	Inserted    int      `json:"inserted"`
	ChangedKeys []string `json:"changed_keys,omitempty"`
}

// BackfillResult summarizes one per-conversation backfill run.
type BackfillResult struct {
	Scope            string `json:"scope"`
	PagesFetched     int    `json:"pages_fetched"`
	MessagesInserted int    `json:"messages_inserted"`
	HistoryExhausted bool   `json:"history_exhausted"`
}

// TargetResult is one target's outcome inside a bulk backfill. Failures are
// reported per target; a bulk run never raises a single error for the batch.
type TargetResult struct {
	Scope            string `json:"scope"`
	PagesFetched     int    `json:"pages_fetched"`
	MessagesInserted int    `json:"messages_inserted"`
	HistoryExhausted bool   `json:"history_exhausted"`
	Error            string `json:"error,omitempty"`
}

// IngestResult reports what one ingested event changed.
type IngestResult struct {
	ConversationKey string
	Inserted        bool
	StatusAdvanced  bool
}

// Ingestor writes a fetched provider event through identity resolution into
// the message store.
type Ingestor interface {
	Ingest(ctx context.Context, event provider.Event) (IngestResult, error)
}

// CursorStore persists per-scope cursors. Get returns a zero-valued cursor
// (not an error) for a scope that was never synced.
type CursorStore interface {
	Get(ctx context.Context, scope string) (Cursor, error)
	Put(ctx context.Context, cursor Cursor) (Cursor, error)
	Reset(ctx context.Context, scope string) (Cursor, error)
}

// Counter reports how many messages are stored locally for a conversation.
type Counter interface {
	CountByConversation(ctx context.Context, conversationKey string) (int64, error)
}

// Notifier receives the canonical keys touched by a poll, for downstream
// consumers such as contact scoring.
type Notifier interface {
	KeysChanged(ctx context.Context, keys []string)
}

// LogNotifier is the default Notifier: it only records which conversations
// changed, as a seam for future downstream consumers.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{logger: log.With(slog.String("service", "sync"))}
}

// KeysChanged logs the changed conversation keys.
func (n *LogNotifier) KeysChanged(_ context.Context, keys []string) {
	n.logger.Info("conversations changed", slog.Int("count", len(keys)), slog.Any("keys", keys))
}
