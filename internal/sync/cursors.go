package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	dbpkg "github.com/zaplinkhq/zaplink/internal/db"
	"github.com/zaplinkhq/zaplink/internal/db/sqlc"
)

// DBCursorStore persists cursors in the sync_cursors table.
type DBCursorStore struct {
	queries *sqlc.Queries
}

// NewCursorStore creates a database-backed cursor store.
func NewCursorStore(queries *sqlc.Queries) *DBCursorStore {
	return &DBCursorStore{queries: queries}
}

// Get returns the cursor for a scope. A scope that was never synced yields a
// zero-valued cursor, not an error; the row is created lazily on first Put.
func (s *DBCursorStore) Get(ctx context.Context, scope string) (Cursor, error) {
	if s.queries == nil {
		return Cursor{}, fmt.Errorf("cursor queries not configured")
	}
	row, err := s.queries.GetSyncCursor(ctx, scope)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cursor{Scope: scope}, nil
		}
		return Cursor{}, err
	}
	return toCursor(row), nil
}

// Put upserts the cursor and returns the stored state.
func (s *DBCursorStore) Put(ctx context.Context, cursor Cursor) (Cursor, error) {
	if s.queries == nil {
		return Cursor{}, fmt.Errorf("cursor queries not configured")
	}
	row, err := s.queries.UpsertSyncCursor(ctx, sqlc.UpsertSyncCursorParams{
		Scope:            cursor.Scope,
		LastSyncedAt:     dbpkg.TimeToPg(cursor.LastSyncedAt),
		LastPageOffset:   int32(cursor.LastPageOffset),
		HistoryExhausted: cursor.HistoryExhausted,
	})
	if err != nil {
		return Cursor{}, err
	}
	return toCursor(row), nil
}

// Reset clears the page offset and the exhausted flag so the next backfill
// starts over from page one. This is the only way a cursor moves backwards.
func (s *DBCursorStore) Reset(ctx context.Context, scope string) (Cursor, error) {
	if s.queries == nil {
		return Cursor{}, fmt.Errorf("cursor queries not configured")
	}
	row, err := s.queries.ResetSyncCursor(ctx, scope)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return s.Put(ctx, Cursor{Scope: scope})
		}
		return Cursor{}, err
	}
	return toCursor(row), nil
}

func toCursor(row sqlc.SyncCursor) Cursor {
	return Cursor{
		Scope:            row.Scope,
		LastSyncedAt:     dbpkg.TimeFromPg(row.LastSyncedAt),
		LastPageOffset:   int(row.LastPageOffset),
		HistoryExhausted: row.HistoryExhausted,
		UpdatedAt:        dbpkg.TimeFromPg(row.UpdatedAt),
	}
}
