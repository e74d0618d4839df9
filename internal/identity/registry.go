package identity

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

// ErrUnresolvedIdentifier marks an identifier the normalizer could not map to
// a phone-number-shaped key. Callers surface it as a manual-resolution prompt.
var ErrUnresolvedIdentifier = errors.New("identifier cannot be resolved to a phone number")

// ManualResolution is a human-supplied override mapping an opaque raw
// identifier to a canonical key. Once created it is permanent.
type ManualResolution struct {
	RawIdentifier string    `json:"raw_identifier"`
	CanonicalKey  string    `json:"canonical_key"`
	CreatedAt     time.Time `json:"created_at"`
}

// Registry persists manual identifier resolutions.
type Registry struct {
	queries    *sqlc.Queries
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewRegistry creates a manual resolution registry.
func NewRegistry(log *slog.Logger, queries *sqlc.Queries, normalizer *Normalizer) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		queries:    queries,
		normalizer: normalizer,
		logger:     log.With(slog.String("service", "resolutions")),
	}
}

// Resolve looks up the override for the exact raw identifier. It returns ""
// (not an error) when no override exists.
func (r *Registry) Resolve(ctx context.Context, rawIdentifier string) (string, error) {
	if r.queries == nil {
		return "", fmt.Errorf("resolution queries not configured")
	}
	row, err := r.queries.GetManualResolution(ctx, strings.TrimSpace(rawIdentifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return row.CanonicalKey, nil
}

// Register stores a human-entered phone number for an otherwise-unresolvable
// raw identifier. The phone digits are normalized before storage; digits that
// do not normalize are rejected. An existing override is left untouched.
func (r *Registry) Register(ctx context.Context, rawIdentifier, phoneDigits string) (ManualResolution, error) {
	if r.queries == nil {
		return ManualResolution{}, fmt.Errorf("resolution queries not configured")
	}
	raw := strings.TrimSpace(rawIdentifier)
	if raw == "" {
		return ManualResolution{}, fmt.Errorf("raw identifier is required")
	}
	key := r.normalizer.Normalize(phoneDigits)
	if key == "" {
		return ManualResolution{}, fmt.Errorf("register %q: %w", phoneDigits, ErrUnresolvedIdentifier)
	}
	if _, err := r.queries.CreateManualResolution(ctx, sqlc.CreateManualResolutionParams{
		RawIdentifier: raw,
		CanonicalKey:  key,
	}); err != nil {
		return ManualResolution{}, err
	}
	row, err := r.queries.GetManualResolution(ctx, raw)
	if err != nil {
		return ManualResolution{}, err
	}
	r.logger.Info("manual resolution registered",
		slog.String("raw_identifier", raw),
		slog.String("canonical_key", row.CanonicalKey),
	)
	return toManualResolution(row), nil
}

// List returns all manual resolutions, newest first.
func (r *Registry) List(ctx context.Context) ([]ManualResolution, error) {
	if r.queries == nil {
		return nil, fmt.Errorf("resolution queries not configured")
	}
	rows, err := r.queries.ListManualResolutions(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]ManualResolution, 0, len(rows))
	for _, row := range rows {
		items = append(items, toManualResolution(row))
	}
	return items, nil
}

func toManualResolution(row sqlc.ManualResolution) ManualResolution {
	return ManualResolution{
		RawIdentifier: row.RawIdentifier,
		CanonicalKey:  row.CanonicalKey,
		CreatedAt:     dbpkg.TimeFromPg(row.CreatedAt),
	}
}
