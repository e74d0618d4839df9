package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/message"
	"github.com/zaplinkhq/zaplink/internal/provider"
)

// Ingester turns one fetched provider event into at most one stored message:
// it resolves the raw identifier, records the sighting in the variant index,
// and appends through the dedup gate. Events whose identifier is unresolvable
// keep the raw identifier as their conversation key so no inbound traffic is
// ever dropped.
type Ingester struct {
	resolver *identity.Resolver
	contacts *contacts.Service
	messages *message.DBService
	logger   *slog.Logger
}

// NewIngester creates an Ingester.
func NewIngester(log *slog.Logger, resolver *identity.Resolver, contactsService *contacts.Service, messages *message.DBService) *Ingester {
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{
		resolver: resolver,
		contacts: contactsService,
		messages: messages,
		logger:   log.With(slog.String("service", "ingest")),
	}
}

// Ingest writes one event. A duplicate that carries a provider message id and
// a delivery status is treated as a status notification and advances the
// stored message's status instead.
func (in *Ingester) Ingest(ctx context.Context, event provider.Event) (IngestResult, error) {
	key, err := in.resolver.Resolve(ctx, event.RawIdentifier)
	if err != nil {
		return IngestResult{}, fmt.Errorf("resolve %q: %w", event.RawIdentifier, err)
	}

	conversationKey := event.RawIdentifier
	if key != "" {
		// Observe may land the key on an existing contact whose canonical
		// key differs (suffix match), so the contact's key wins.
		contact, err := in.contacts.Observe(ctx, contacts.Observation{
			CanonicalKey:  key,
			RawIdentifier: event.RawIdentifier,
			DisplayName:   event.DisplayName,
		})
		if err != nil {
			return IngestResult{}, fmt.Errorf("observe %q: %w", event.RawIdentifier, err)
		}
		conversationKey = contact.CanonicalKey
	} else {
		in.logger.Debug("unresolvable identifier kept as singleton",
			slog.String("raw_identifier", event.RawIdentifier))
	}

	direction := message.DirectionInbound
	if event.FromMe {
		direction = message.DirectionOutbound
	}

	_, inserted, err := in.messages.Append(ctx, message.AppendInput{
		ConversationKey:   conversationKey,
		RawIdentifier:     event.RawIdentifier,
		ProviderMessageID: event.ProviderMessageID,
		Direction:         direction,
		Content:           event.Content,
		MediaURL:          event.MediaURL,
		DeliveryStatus:    event.DeliveryStatus,
		CreatedAt:         event.Timestamp,
	})
	if err != nil {
		return IngestResult{}, err
	}

	result := IngestResult{ConversationKey: conversationKey, Inserted: inserted}
	if !inserted && event.ProviderMessageID != "" && message.StatusRank(event.DeliveryStatus) > 0 {
		if err := in.messages.UpdateDeliveryStatus(ctx, event.ProviderMessageID, event.DeliveryStatus); err != nil {
			return result, err
		}
		result.StatusAdvanced = true
	}
	return result, nil
}
