package outbound

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/zaplinkhq/zaplink/internal/config"
	"github.com/zaplinkhq/zaplink/internal/identity"
)

func newTestService() *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	normalizer := identity.NewNormalizer(config.IdentityConfig{})
	resolver := identity.NewResolver(normalizer, nil)
	return NewService(log, resolver, nil, nil, nil)
}

func TestSendUnresolvableFailsFastAndParks(t *testing.T) {
	svc := newTestService()

	_, err := svc.Send(context.Background(), "opaque-alias@broadcast", "hello")
	if !errors.Is(err, identity.ErrUnresolvedIdentifier) {
		t.Fatalf("expected ErrUnresolvedIdentifier, got %v", err)
	}
	if got := svc.PendingCount("opaque-alias@broadcast"); got != 1 {
		t.Fatalf("expected 1 parked send, got %d", got)
	}

	// A second send to the same alias queues behind the first.
	_, _ = svc.Send(context.Background(), "opaque-alias@broadcast", "are you there?")
	if got := svc.PendingCount("opaque-alias@broadcast"); got != 2 {
		t.Fatalf("expected 2 parked sends, got %d", got)
	}
}

func TestRetryPendingReparksWhileStillUnresolved(t *testing.T) {
	svc := newTestService()

	_, _ = svc.Send(context.Background(), "opaque-alias@broadcast", "hello")

	sent := svc.RetryPending(context.Background(), "opaque-alias@broadcast")
	if sent != 0 {
		t.Fatalf("expected 0 sends while unresolved, got %d", sent)
	}
	if got := svc.PendingCount("opaque-alias@broadcast"); got != 1 {
		t.Fatalf("retry must park the send again, got %d queued", got)
	}
}

func TestRetryPendingEmptyQueue(t *testing.T) {
	svc := newTestService()
	if sent := svc.RetryPending(context.Background(), "nobody"); sent != 0 {
		t.Fatalf("expected 0, got %d", sent)
	}
}
