// Package message provides the append-only, deduplicating message store.
package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	dbpkg "github.com/zaplinkhq/zaplink/internal/db"
	"github.com/zaplinkhq/zaplink/internal/db/sqlc"
)

// DBService persists and reads messages.
type DBService struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a message service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *DBService {
	if log == nil {
		log = slog.Default()
	}
	return &DBService{
		queries: queries,
		logger:  log.With(slog.String("service", "message")),
	}
}

// Append inserts a message unless its dedup key is already stored. The
// returned bool reports whether a row was inserted; a duplicate is a silent
// no-op, never an error, which makes Append safe under concurrent and
// overlapping sync operations.
func (s *DBService) Append(ctx context.Context, input AppendInput) (Message, bool, error) {
	if s.queries == nil {
		return Message{}, false, fmt.Errorf("message queries not configured")
	}
	if strings.TrimSpace(input.ConversationKey) == "" {
		return Message{}, false, fmt.Errorf("conversation key is required")
	}
	if input.Direction != DirectionInbound && input.Direction != DirectionOutbound {
		return Message{}, false, fmt.Errorf("invalid direction: %q", input.Direction)
	}
	status := input.DeliveryStatus
	if StatusRank(status) == 0 {
		status = StatusSent
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = time.Now()
	}
	row, err := s.queries.CreateMessage(ctx, sqlc.CreateMessageParams{
		ConversationKey:   input.ConversationKey,
		RawIdentifier:     input.RawIdentifier,
		ProviderMessageID: dbpkg.TextFromString(input.ProviderMessageID),
		DedupKey:          DedupKey(input),
		Direction:         input.Direction,
		Content:           input.Content,
		MediaUrl:          dbpkg.TextFromString(input.MediaURL),
		DeliveryStatus:    status,
		CreatedAt:         dbpkg.TimeToPg(input.CreatedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, false, nil
		}
		return Message{}, false, err
	}
	return toMessage(row), true, nil
}

// ListByConversation returns all messages of a conversation ascending by
// createdAt, regardless of insertion order.
func (s *DBService) ListByConversation(ctx context.Context, conversationKey string) ([]Message, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("message queries not configured")
	}
	rows, err := s.queries.ListMessagesByConversation(ctx, conversationKey)
	if err != nil {
		return nil, err
	}
	messages := make([]Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, toMessage(row))
	}
	return messages, nil
}

// CountByConversation returns how many messages are stored for a conversation.
func (s *DBService) CountByConversation(ctx context.Context, conversationKey string) (int64, error) {
	if s.queries == nil {
		return 0, fmt.Errorf("message queries not configured")
	}
	return s.queries.CountMessagesByConversation(ctx, conversationKey)
}

// Summaries returns the latest message per raw identifier, the aggregator's
// input.
func (s *DBService) Summaries(ctx context.Context) ([]Summary, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("message queries not configured")
	}
	rows, err := s.queries.ListConversationSummaries(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, Summary{
			RawIdentifier: row.RawIdentifier,
			LastContent:   row.Content,
			LastCreatedAt: dbpkg.TimeFromPg(row.CreatedAt),
			Direction:     row.Direction,
		})
	}
	return summaries, nil
}

// UpdateDeliveryStatus advances the delivery status of a message by provider
// id. Transitions are monotonic (sent -> delivered -> read); stale updates
// are dropped silently.
func (s *DBService) UpdateDeliveryStatus(ctx context.Context, providerMessageID, status string) error {
	if s.queries == nil {
		return fmt.Errorf("message queries not configured")
	}
	if StatusRank(status) == 0 {
		return fmt.Errorf("invalid delivery status: %q", status)
	}
	_, err := s.queries.UpdateDeliveryStatus(ctx, sqlc.UpdateDeliveryStatusParams{
		ProviderMessageID: dbpkg.TextFromString(providerMessageID),
		DeliveryStatus:    status,
	})
	return err
}

// Rekey moves all messages of a raw identifier to a new conversation key,
// used when a manual resolution folds a former singleton into a contact.
func (s *DBService) Rekey(ctx context.Context, rawIdentifier, conversationKey string) (int64, error) {
	if s.queries == nil {
		return 0, fmt.Errorf("message queries not configured")
	}
	moved, err := s.queries.RekeyMessagesByRawIdentifier(ctx, sqlc.RekeyMessagesByRawIdentifierParams{
		RawIdentifier:   rawIdentifier,
		ConversationKey: conversationKey,
	})
	if err != nil {
		return 0, err
	}
	if moved > 0 {
		s.logger.Info("messages rekeyed",
			slog.String("raw_identifier", rawIdentifier),
			slog.String("conversation_key", conversationKey),
			slog.Int64("moved", moved),
		)
	}
	return moved, nil
}

func toMessage(row sqlc.Message) Message {
	return Message{
		ID:                dbpkg.UUIDToString(row.ID),
		ConversationKey:   row.ConversationKey,
		RawIdentifier:     row.RawIdentifier,
		ProviderMessageID: dbpkg.TextToString(row.ProviderMessageID),
		Direction:         row.Direction,
		Content:           row.Content,
		MediaURL:          dbpkg.TextToString(row.MediaUrl),
		DeliveryStatus:    row.DeliveryStatus,
		CreatedAt:         dbpkg.TimeFromPg(row.CreatedAt),
	}
}
