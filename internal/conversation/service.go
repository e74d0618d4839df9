package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/message"
)

// Service computes the conversation list from the current message store and
// variant index snapshot. Conversations are recomputed on read, not on write.
type Service struct {
	messages *message.DBService
	contacts *contacts.Service
	resolver *identity.Resolver
	logger   *slog.Logger
}

// NewService creates a conversation service.
func NewService(log *slog.Logger, messages *message.DBService, contactsService *contacts.Service, resolver *identity.Resolver) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		messages: messages,
		contacts: contactsService,
		resolver: resolver,
		logger:   log.With(slog.String("service", "conversation")),
	}
}

// List returns the merged conversation list, most recent first. The variant
// index reverse lookup wins over re-normalizing, so identifiers that joined a
// contact by suffix match stay on that contact's key.
func (s *Service) List(ctx context.Context) ([]Conversation, error) {
	if s.messages == nil {
		return nil, fmt.Errorf("message service not configured")
	}
	summaries, err := s.messages.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	conversations, err := Aggregate(summaries, s.keyFunc(ctx))
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		if conversations[i].Unresolved {
			continue
		}
		contact, err := s.contacts.ByCanonicalKey(ctx, conversations[i].Key)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		conversations[i].DisplayName = contact.DisplayName
		conversations[i].Variants = contact.Variants
	}
	return conversations, nil
}

// Messages returns the chronologically ordered message stream for a
// conversation key.
func (s *Service) Messages(ctx context.Context, key string) ([]message.Message, error) {
	if s.messages == nil {
		return nil, fmt.Errorf("message service not configured")
	}
	return s.messages.ListByConversation(ctx, key)
}

func (s *Service) keyFunc(ctx context.Context) KeyFunc {
	return func(rawIdentifier string) (string, error) {
		contact, err := s.contacts.ByRawIdentifier(ctx, rawIdentifier)
		if err == nil {
			return contact.CanonicalKey, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		return s.resolver.Resolve(ctx, rawIdentifier)
	}
}
