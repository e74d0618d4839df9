// Package outbound sends messages through the gateway and records them in the
// local store.
package outbound

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/message"
	"github.com/zaplinkhq/zaplink/internal/provider"
)

// Service sends outbound messages. Sends to an unresolvable identifier fail
// fast and are parked in an in-process queue; registering a manual resolution
// for that identifier retries them once.
type Service struct {
	resolver *identity.Resolver
	contacts *contacts.Service
	messages *message.DBService
	client   provider.Client
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string][]string
}

// NewService creates an outbound service.
func NewService(log *slog.Logger, resolver *identity.Resolver, contactsService *contacts.Service, messages *message.DBService, client provider.Client) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		resolver: resolver,
		contacts: contactsService,
		messages: messages,
		client:   client,
		logger:   log.With(slog.String("service", "outbound")),
		pending:  map[string][]string{},
	}
}

// Send resolves the recipient, pushes the message to the gateway, and appends
// the outbound record. An unresolvable recipient returns
// identity.ErrUnresolvedIdentifier before any network call; the text is
// queued for retry after a manual resolution arrives.
func (s *Service) Send(ctx context.Context, rawIdentifier, text string) (message.Message, error) {
	key, err := s.resolver.Resolve(ctx, rawIdentifier)
	if err != nil {
		return message.Message{}, err
	}
	if key == "" {
		s.park(rawIdentifier, text)
		return message.Message{}, fmt.Errorf("%w: %q", identity.ErrUnresolvedIdentifier, rawIdentifier)
	}

	contact, err := s.contacts.Observe(ctx, contacts.Observation{
		CanonicalKey:  key,
		RawIdentifier: rawIdentifier,
	})
	if err != nil {
		return message.Message{}, err
	}

	result, err := s.client.SendMessage(ctx, rawIdentifier, text)
	if err != nil {
		return message.Message{}, fmt.Errorf("gateway send: %w", err)
	}

	msg, _, err := s.messages.Append(ctx, message.AppendInput{
		ConversationKey:   contact.CanonicalKey,
		RawIdentifier:     rawIdentifier,
		ProviderMessageID: result.ProviderMessageID,
		Direction:         message.DirectionOutbound,
		Content:           text,
		DeliveryStatus:    message.StatusSent,
		CreatedAt:         time.Now(),
	})
	if err != nil {
		return message.Message{}, err
	}
	return msg, nil
}

// RetryPending retries every parked send for a raw identifier, in arrival
// order. Called after a manual resolution makes the identifier routable.
// Returns how many sends went through; failures are logged and dropped
// except unresolvable ones, which Send parks again.
func (s *Service) RetryPending(ctx context.Context, rawIdentifier string) int {
	s.mu.Lock()
	queued := s.pending[rawIdentifier]
	delete(s.pending, rawIdentifier)
	s.mu.Unlock()

	sent := 0
	for _, text := range queued {
		if _, err := s.Send(ctx, rawIdentifier, text); err != nil {
			s.logger.Error("pending send retry failed",
				slog.String("raw_identifier", rawIdentifier),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}
	return sent
}

// PendingCount reports how many sends are parked for a raw identifier.
func (s *Service) PendingCount(rawIdentifier string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[rawIdentifier])
}

func (s *Service) park(rawIdentifier, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[rawIdentifier] = append(s.pending[rawIdentifier], text)
	s.logger.Warn("send parked for unresolved identifier",
		slog.String("raw_identifier", rawIdentifier),
		slog.Int("queued", len(s.pending[rawIdentifier])),
	)
}
