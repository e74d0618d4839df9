package sync_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaplinkhq/zaplink/internal/config"
	"github.com/zaplinkhq/zaplink/internal/contacts"
	"github.com/zaplinkhq/zaplink/internal/db/sqlc"
	"github.com/zaplinkhq/zaplink/internal/identity"
	"github.com/zaplinkhq/zaplink/internal/message"
	"github.com/zaplinkhq/zaplink/internal/provider"
	syncpkg "github.com/zaplinkhq/zaplink/internal/sync"
)

type ingestFixture struct {
	ingester *syncpkg.Ingester
	messages *message.DBService
	contacts *contacts.Service
	cleanup  func()
}

func setupIngestIntegrationTest(t *testing.T) ingestFixture {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("skip integration test: TEST_POSTGRES_DSN is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("skip integration test: cannot connect to database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("skip integration test: database ping failed: %v", err)
	}

	queries := sqlc.New(pool)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	normalizer := identity.NewNormalizer(config.IdentityConfig{})
	registry := identity.NewRegistry(logger, queries, normalizer)
	resolver := identity.NewResolver(normalizer, registry)
	contactsService := contacts.NewService(logger, queries, normalizer)
	messageService := message.NewService(logger, queries)
	ingester := syncpkg.NewIngester(logger, resolver, contactsService, messageService)

	return ingestFixture{
		ingester: ingester,
		messages: messageService,
		contacts: contactsService,
		cleanup:  func() { pool.Close() },
	}
}

// One subscriber appears under four raw forms: full international, national
// with the ninth digit, the bare canonical key, and a form without the area
// code. All of them must land in one conversation under one contact.
func TestIntegrationIngestMergesIdentifierVariants(t *testing.T) {
	fixture := setupIngestIntegrationTest(t)
	defer fixture.cleanup()

	ctx := context.Background()
	subscriber := fmt.Sprintf("9%07d", time.Now().UnixNano()%10000000)
	canonical := "11" + subscriber

	variants := []string{
		"55119" + subscriber, // international with ninth digit
		"119" + subscriber,   // national with ninth digit
		canonical,            // canonical form
		"9" + subscriber,     // no area code, suffix match
	}

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, raw := range variants {
		result, err := fixture.ingester.Ingest(ctx, provider.Event{
			ProviderMessageID: fmt.Sprintf("pm_%s_%d", subscriber, i),
			RawIdentifier:     raw,
			DisplayName:       "Maria Silva",
			Content:           fmt.Sprintf("message %d", i),
			Timestamp:         base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("ingest %q failed: %v", raw, err)
		}
		if !result.Inserted {
			t.Fatalf("ingest %q did not insert", raw)
		}
		if result.ConversationKey != canonical {
			t.Fatalf("ingest %q landed on %q, want %q", raw, result.ConversationKey, canonical)
		}
	}

	stored, err := fixture.messages.ListByConversation(ctx, canonical)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != len(variants) {
		t.Fatalf("expected %d messages in one conversation, got %d", len(variants), len(stored))
	}
	for i := 1; i < len(stored); i++ {
		if stored[i].CreatedAt.Before(stored[i-1].CreatedAt) {
			t.Fatal("messages must be chronologically ordered")
		}
	}

	contact, err := fixture.contacts.ByCanonicalKey(ctx, canonical)
	if err != nil {
		t.Fatalf("contact lookup failed: %v", err)
	}
	if contact.DisplayName != "Maria Silva" {
		t.Errorf("unexpected display name: %q", contact.DisplayName)
	}
	if len(contact.Variants) != len(variants) {
		t.Errorf("expected %d variants, got %v", len(variants), contact.Variants)
	}
}

// A duplicate event carrying a higher delivery status advances the stored
// message instead of inserting a second row.
func TestIntegrationIngestDuplicateAdvancesStatus(t *testing.T) {
	fixture := setupIngestIntegrationTest(t)
	defer fixture.cleanup()

	ctx := context.Background()
	subscriber := fmt.Sprintf("9%07d", time.Now().UnixNano()%10000000)
	raw := "119" + subscriber
	canonical := "11" + subscriber
	providerID := fmt.Sprintf("pm_%s_status", subscriber)

	event := provider.Event{
		ProviderMessageID: providerID,
		RawIdentifier:     raw,
		FromMe:            true,
		Content:           "ping",
		Timestamp:         time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if _, err := fixture.ingester.Ingest(ctx, event); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	event.DeliveryStatus = message.StatusRead
	result, err := fixture.ingester.Ingest(ctx, event)
	if err != nil {
		t.Fatalf("duplicate ingest failed: %v", err)
	}
	if result.Inserted {
		t.Fatal("duplicate must not insert")
	}
	if !result.StatusAdvanced {
		t.Fatal("duplicate with status must advance")
	}

	stored, err := fixture.messages.ListByConversation(ctx, canonical)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 || stored[0].DeliveryStatus != message.StatusRead {
		t.Fatalf("expected one read message, got %+v", stored)
	}
}
