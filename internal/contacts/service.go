// Package contacts maintains the variant index: canonical contacts and the
// raw identifier variants observed for each of them.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	dbpkg "github.com/zaplinkhq/zaplink/internal/db"
	"github.com/zaplinkhq/zaplink/internal/db/sqlc"
	"github.com/zaplinkhq/zaplink/internal/identity"
)

// Service maintains contacts keyed by canonical key.
type Service struct {
	queries    *sqlc.Queries
	normalizer *identity.Normalizer
	logger     *slog.Logger
}

// NewService creates a contacts service.
func NewService(log *slog.Logger, queries *sqlc.Queries, normalizer *identity.Normalizer) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries:    queries,
		normalizer: normalizer,
		logger:     log.With(slog.String("service", "contacts")),
	}
}

// Resolve maps a canonical key to its contact, creating the contact when it
// does not exist. A key arriving without an area code is matched against
// existing contacts by subscriber suffix before a new contact is created, so
// progressively stripped forms of one number land on one contact.
func (s *Service) Resolve(ctx context.Context, canonicalKey string) (Contact, error) {
	if s.queries == nil {
		return Contact{}, fmt.Errorf("contacts queries not configured")
	}
	key := strings.TrimSpace(canonicalKey)
	if key == "" {
		return Contact{}, fmt.Errorf("canonical key is required")
	}
	row, err := s.queries.GetContactByCanonicalKey(ctx, key)
	if err == nil {
		return s.withVariants(ctx, row)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Contact{}, err
	}
	if !s.normalizer.HasAreaCode(key) {
		match, err := s.queries.GetContactByCanonicalSuffix(ctx, s.normalizer.SubscriberSuffix(key))
		if err == nil {
			return s.withVariants(ctx, match)
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, err
		}
	}
	created, err := s.queries.UpsertContact(ctx, sqlc.UpsertContactParams{CanonicalKey: key})
	if err != nil {
		return Contact{}, err
	}
	return s.withVariants(ctx, created)
}

// Observe records a raw identifier sighting under its canonical key. The
// variant set grows monotonically; the display name follows the naming
// policy: the first real name wins, and a placeholder name (one that is
// itself identifier-shaped) is replaced by a later real name.
func (s *Service) Observe(ctx context.Context, obs Observation) (Contact, error) {
	contact, err := s.Resolve(ctx, obs.CanonicalKey)
	if err != nil {
		return Contact{}, err
	}
	pgContactID, err := dbpkg.ParseUUID(contact.ID)
	if err != nil {
		return Contact{}, err
	}
	raw := strings.TrimSpace(obs.RawIdentifier)
	if raw != "" {
		if _, err := s.queries.UpsertContactVariant(ctx, sqlc.UpsertContactVariantParams{
			ContactID:     pgContactID,
			RawIdentifier: raw,
		}); err != nil {
			return Contact{}, err
		}
	}
	if name := PreferredName(contact.DisplayName, obs.DisplayName); name != contact.DisplayName {
		updated, err := s.queries.UpdateContactDisplayName(ctx, sqlc.UpdateContactDisplayNameParams{
			ID:          pgContactID,
			DisplayName: dbpkg.TextFromString(name),
		})
		if err != nil {
			return Contact{}, err
		}
		return s.withVariants(ctx, updated)
	}
	return s.withVariants(ctx, toContactRow(contact))
}

// ByRawIdentifier is the reverse lookup from an observed raw identifier to
// its contact. Returns pgx.ErrNoRows when the raw form was never observed.
func (s *Service) ByRawIdentifier(ctx context.Context, rawIdentifier string) (Contact, error) {
	if s.queries == nil {
		return Contact{}, fmt.Errorf("contacts queries not configured")
	}
	row, err := s.queries.GetContactByRawIdentifier(ctx, strings.TrimSpace(rawIdentifier))
	if err != nil {
		return Contact{}, err
	}
	return s.withVariants(ctx, row)
}

// ByCanonicalKey returns the contact for an exact canonical key.
func (s *Service) ByCanonicalKey(ctx context.Context, canonicalKey string) (Contact, error) {
	if s.queries == nil {
		return Contact{}, fmt.Errorf("contacts queries not configured")
	}
	row, err := s.queries.GetContactByCanonicalKey(ctx, strings.TrimSpace(canonicalKey))
	if err != nil {
		return Contact{}, err
	}
	return s.withVariants(ctx, row)
}

// List returns all contacts, most recently updated first.
func (s *Service) List(ctx context.Context) ([]Contact, error) {
	if s.queries == nil {
		return nil, fmt.Errorf("contacts queries not configured")
	}
	rows, err := s.queries.ListContacts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]Contact, 0, len(rows))
	for _, row := range rows {
		contact, err := s.withVariants(ctx, row)
		if err != nil {
			return nil, err
		}
		items = append(items, contact)
	}
	return items, nil
}

// PreferredName applies the display-name policy: keep the current name unless
// it is identifier-shaped and the candidate is a real name.
func PreferredName(current, candidate string) string {
	current = strings.TrimSpace(current)
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || identity.LooksLikeIdentifier(candidate) {
		return current
	}
	if current == "" || identity.LooksLikeIdentifier(current) {
		return candidate
	}
	return current
}

func (s *Service) withVariants(ctx context.Context, row sqlc.Contact) (Contact, error) {
	contact := toContact(row)
	variants, err := s.queries.ListContactVariants(ctx, row.ID)
	if err != nil {
		return Contact{}, err
	}
	contact.Variants = make([]string, 0, len(variants))
	for _, v := range variants {
		contact.Variants = append(contact.Variants, v.RawIdentifier)
	}
	return contact, nil
}

func toContact(row sqlc.Contact) Contact {
	return Contact{
		ID:           dbpkg.UUIDToString(row.ID),
		CanonicalKey: row.CanonicalKey,
		DisplayName:  dbpkg.TextToString(row.DisplayName),
		CreatedAt:    dbpkg.TimeFromPg(row.CreatedAt),
		UpdatedAt:    dbpkg.TimeFromPg(row.UpdatedAt),
	}
}

func toContactRow(contact Contact) sqlc.Contact {
	pgID, _ := dbpkg.ParseUUID(contact.ID)
	return sqlc.Contact{
		ID:           pgID,
		CanonicalKey: contact.CanonicalKey,
		DisplayName:  dbpkg.TextFromString(contact.DisplayName),
		CreatedAt:    dbpkg.TimeToPg(contact.CreatedAt),
		UpdatedAt:    dbpkg.TimeToPg(contact.UpdatedAt),
	}
}
