package sync

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/zaplinkhq/zaplink/internal/config"
	"github.com/zaplinkhq/zaplink/internal/provider"
)

// Coordinator owns every sync trigger: the scheduled incremental poll, manual
// and automatic per-conversation backfills, and bulk backfill fan-out. One
// coordinator runs per process; the scope guard serializes work per scope.
type Coordinator struct {
	cfg      config.SyncConfig
	client   provider.Client
	ingestor Ingestor
	cursors  CursorStore
	counter  Counter
	notifier Notifier
	guard    *scopeGuard
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewCoordinator creates a sync coordinator.
func NewCoordinator(log *slog.Logger, cfg config.SyncConfig, client provider.Client, ingestor Ingestor, cursors CursorStore, counter Counter) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	if cfg.PollPattern == "" {
		cfg.PollPattern = config.DefaultPollPattern
	}
	if cfg.PollPageSize <= 0 {
		cfg.PollPageSize = config.DefaultPollPageSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = config.DefaultPageSize
	}
	if cfg.BulkConcurrency <= 0 {
		cfg.BulkConcurrency = config.DefaultBulkConcurrency
	}
	if cfg.LowWatermark < 0 {
		cfg.LowWatermark = config.DefaultLowWatermark
	}
	return &Coordinator{
		cfg:      cfg,
		client:   client,
		ingestor: ingestor,
		cursors:  cursors,
		counter:  counter,
		guard:    newScopeGuard(),
		logger:   log.With(slog.String("service", "sync")),
	}
}

// SetNotifier registers the changed-keys hook. Optional.
func (c *Coordinator) SetNotifier(n Notifier) {
	c.notifier = n
}

// Start schedules the incremental poll on the configured cron pattern.
func (c *Coordinator) Start() error {
	c.cron = cron.New()
	_, err := c.cron.AddFunc(c.cfg.PollPattern, func() {
		if _, err := c.PollOnce(context.Background()); err != nil && !errors.Is(err, ErrSyncInFlight) {
			c.logger.Error("scheduled poll failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return err
	}
	c.cron.Start()
	c.logger.Info("poll scheduler started", slog.String("pattern", c.cfg.PollPattern))
	return nil
}

// Stop halts the scheduler. Running jobs finish on their own.
func (c *Coordinator) Stop() {
	if c.cron != nil {
		c.cron.Stop()
	}
}

// PollOnce fetches the recent-changes feed and ingests it. A failure on one
// event is logged and skipped so one malformed payload cannot stall the feed.
// Returns ErrSyncInFlight when a poll is already running.
func (c *Coordinator) PollOnce(ctx context.Context) (PollResult, error) {
	if !c.guard.begin(GlobalScope) {
		return PollResult{}, ErrSyncInFlight
	}
	defer c.guard.end(GlobalScope)

	events, err := c.client.FetchRecentChanges(ctx, c.cfg.PollPageSize)
	if err != nil {
		return PollResult{}, err
	}

	result := PollResult{Fetched: len(events)}
	changed := map[string]bool{}
	for _, event := range events {
		res, err := c.ingestor.Ingest(ctx, event)
		if err != nil {
			c.logger.Error("poll ingest failed",
				slog.String("provider_message_id", event.ProviderMessageID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if res.Inserted {
			result.Inserted++
		}
		if res.Inserted || res.StatusAdvanced {
			changed[res.ConversationKey] = true
		}
	}

	cursor, err := c.cursors.Get(ctx, GlobalScope)
	if err != nil {
		return result, err
	}
	cursor.Scope = GlobalScope
	cursor.LastSyncedAt = time.Now()
	if _, err := c.cursors.Put(ctx, cursor); err != nil {
		return result, err
	}

	result.ChangedKeys = sortedKeys(changed)
	if c.notifier != nil && len(result.ChangedKeys) > 0 {
		c.notifier.KeysChanged(ctx, result.ChangedKeys)
	}
	c.autoBackfill(result.ChangedKeys)
	return result, nil
}

// Backfill pulls history pages for one conversation, oldest known page first,
// until history is exhausted or ctx is cancelled. An exhausted cursor makes
// the call a no-op. Returns ErrSyncInFlight when the scope is busy.
func (c *Coordinator) Backfill(ctx context.Context, scope string) (BackfillResult, error) {
	if !c.guard.begin(scope) {
		return BackfillResult{}, ErrSyncInFlight
	}
	defer c.guard.end(scope)

	cursor, err := c.cursors.Get(ctx, scope)
	if err != nil {
		return BackfillResult{}, err
	}
	return c.runPages(ctx, scope, cursor)
}

// ManualBackfill is the user-facing trigger. Before paging it escalates the
// cursor so the next fetched page is at least localCount/pageSize + 1, which
// jumps past pages whose contents are already stored locally.
func (c *Coordinator) ManualBackfill(ctx context.Context, scope string) (BackfillResult, error) {
	if !c.guard.begin(scope) {
		return BackfillResult{}, ErrSyncInFlight
	}
	defer c.guard.end(scope)

	cursor, err := c.cursors.Get(ctx, scope)
	if err != nil {
		return BackfillResult{}, err
	}
	if !cursor.HistoryExhausted {
		localCount, err := c.counter.CountByConversation(ctx, scope)
		if err != nil {
			return BackfillResult{}, err
		}
		if skipTo := int(localCount) / c.cfg.PageSize; skipTo > cursor.LastPageOffset {
			cursor.Scope = scope
			cursor.LastPageOffset = skipTo
			if cursor, err = c.cursors.Put(ctx, cursor); err != nil {
				return BackfillResult{}, err
			}
		}
	}
	return c.runPages(ctx, scope, cursor)
}

// BulkBackfill backfills many conversations with bounded concurrency. Each
// target succeeds or fails on its own; the slice always has one entry per
// scope, in input order.
func (c *Coordinator) BulkBackfill(ctx context.Context, scopes []string) []TargetResult {
	results := make([]TargetResult, len(scopes))
	var g errgroup.Group
	g.SetLimit(c.cfg.BulkConcurrency)
	for i, scope := range scopes {
		g.Go(func() error {
			res, err := c.Backfill(ctx, scope)
			results[i] = TargetResult{
				Scope:            scope,
				PagesFetched:     res.PagesFetched,
				MessagesInserted: res.MessagesInserted,
				HistoryExhausted: res.HistoryExhausted,
			}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	g.Wait()
	return results
}

// Cursor returns the stored cursor for a scope.
func (c *Coordinator) Cursor(ctx context.Context, scope string) (Cursor, error) {
	return c.cursors.Get(ctx, scope)
}

// ResetCursor rewinds a scope to page zero and clears the exhausted flag.
// This is the recovery path when remote history grew after exhaustion.
func (c *Coordinator) ResetCursor(ctx context.Context, scope string) (Cursor, error) {
	return c.cursors.Reset(ctx, scope)
}

// runPages is the paging loop shared by the backfill entry points. The cursor
// advances only after every event of a full page is ingested; a short page
// marks history exhausted. Cancellation keeps already-persisted pages.
func (c *Coordinator) runPages(ctx context.Context, scope string, cursor Cursor) (BackfillResult, error) {
	result := BackfillResult{Scope: scope, HistoryExhausted: cursor.HistoryExhausted}
	for !cursor.HistoryExhausted {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		page := cursor.LastPageOffset + 1
		events, err := c.client.FetchHistoryPage(ctx, scope, page, c.cfg.PageSize)
		if err != nil {
			return result, err
		}
		for _, event := range events {
			res, err := c.ingestor.Ingest(ctx, event)
			if err != nil {
				return result, err
			}
			if res.Inserted {
				result.MessagesInserted++
			}
		}
		cursor.Scope = scope
		cursor.LastPageOffset = page
		cursor.LastSyncedAt = time.Now()
		cursor.HistoryExhausted = len(events) < c.cfg.PageSize
		if cursor, err = c.cursors.Put(ctx, cursor); err != nil {
			return result, err
		}
		result.PagesFetched++
		result.HistoryExhausted = cursor.HistoryExhausted
	}
	return result, nil
}

// autoBackfill starts background backfills for conversations whose local
// message count sits below the low watermark. Busy scopes are skipped.
func (c *Coordinator) autoBackfill(keys []string) {
	if c.cfg.LowWatermark == 0 || c.counter == nil {
		return
	}
	for _, key := range keys {
		count, err := c.counter.CountByConversation(context.Background(), key)
		if err != nil {
			c.logger.Error("count failed", slog.String("scope", key), slog.String("error", err.Error()))
			continue
		}
		if count >= int64(c.cfg.LowWatermark) {
			continue
		}
		go func(scope string) {
			if _, err := c.Backfill(context.Background(), scope); err != nil && !errors.Is(err, ErrSyncInFlight) {
				c.logger.Error("auto backfill failed", slog.String("scope", scope), slog.String("error", err.Error()))
			}
		}(key)
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
