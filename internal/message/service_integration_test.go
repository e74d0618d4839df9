package message_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zaplinkhq/zaplink/internal/db/sqlc"
	"github.com/zaplinkhq/zaplink/internal/message"
)

func setupMessageIntegrationTest(t *testing.T) (*message.DBService, func()) {
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

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := message.NewService(logger, sqlc.New(pool))

	return svc, func() { pool.Close() }
}

func TestIntegrationAppendDeduplicates(t *testing.T) {
	svc, cleanup := setupMessageIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	key := fmt.Sprintf("conv_%d", time.Now().UnixNano())
	input := message.AppendInput{
		ConversationKey:   key,
		RawIdentifier:     key,
		ProviderMessageID: fmt.Sprintf("pm_%d", time.Now().UnixNano()),
		Direction:         message.DirectionInbound,
		Content:           "hello",
		CreatedAt:         time.Now(),
	}

	_, inserted, err := svc.Append(ctx, input)
	if err != nil {
		t.Fatalf("first append failed: %v", err)
	}
	if !inserted {
		t.Fatal("first append must insert")
	}

	_, inserted, err = svc.Append(ctx, input)
	if err != nil {
		t.Fatalf("duplicate append must not error: %v", err)
	}
	if inserted {
		t.Fatal("duplicate append must not insert")
	}

	count, err := svc.CountByConversation(ctx, key)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 stored message, got %d", count)
	}
}

func TestIntegrationDeliveryStatusMonotonic(t *testing.T) {
	svc, cleanup := setupMessageIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	key := fmt.Sprintf("conv_%d", time.Now().UnixNano())
	providerID := fmt.Sprintf("pm_%d", time.Now().UnixNano())

	_, _, err := svc.Append(ctx, message.AppendInput{
		ConversationKey:   key,
		RawIdentifier:     key,
		ProviderMessageID: providerID,
		Direction:         message.DirectionOutbound,
		Content:           "status test",
		CreatedAt:         time.Now(),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	if err := svc.UpdateDeliveryStatus(ctx, providerID, message.StatusRead); err != nil {
		t.Fatalf("advance to read failed: %v", err)
	}
	// Stale notification arriving late must not regress the status.
	if err := svc.UpdateDeliveryStatus(ctx, providerID, message.StatusDelivered); err != nil {
		t.Fatalf("stale update must not error: %v", err)
	}

	stored, err := svc.ListByConversation(ctx, key)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 || stored[0].DeliveryStatus != message.StatusRead {
		t.Fatalf("expected status read, got %+v", stored)
	}
}

func TestIntegrationRekeyMovesMessages(t *testing.T) {
	svc, cleanup := setupMessageIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	raw := fmt.Sprintf("alias_%d@broadcast", time.Now().UnixNano())
	target := fmt.Sprintf("conv_%d", time.Now().UnixNano())

	_, _, err := svc.Append(ctx, message.AppendInput{
		ConversationKey: raw,
		RawIdentifier:   raw,
		Direction:       message.DirectionInbound,
		Content:         "pre-resolution",
		CreatedAt:       time.Now(),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	moved, err := svc.Rekey(ctx, raw, target)
	if err != nil {
		t.Fatalf("rekey failed: %v", err)
	}
	if moved != 1 {
		t.Fatalf("expected 1 moved message, got %d", moved)
	}

	stored, err := svc.ListByConversation(ctx, target)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 || stored[0].RawIdentifier != raw {
		t.Fatalf("expected the moved message under %s, got %+v", target, stored)
	}
}
