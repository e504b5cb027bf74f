package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache for raw provider responses.
// Keys are expected to be consistent (e.g., already normalized)
// by the caller.
type SqliteProviderCache struct {
	DB *sql.DB
}

func NewSqliteProviderCache(db *sql.DB) *SqliteProviderCache {
	return &SqliteProviderCache{DB: db}
}

// Fetch one cached payload.
func (s *SqliteProviderCache) Get(ctx context.Context, kind, key string) ([]byte, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("provider cache: db is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get provider cache: kind and key must not be empty")
	}

	q := `
	SELECT payload
    FROM provider_cache
    WHERE kind = ?
        AND cache_key = ?;
	`

	var payload []byte
	if err := s.DB.QueryRowContext(ctx, q, kind, key).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get provider cache: query provider_cache table: %w", err)
	}

	return payload, true, nil
}

// Store one payload, replacing any previous value for the same key.
func (s *SqliteProviderCache) Put(ctx context.Context, kind, key string, payload []byte) error {
	if s.DB == nil {
		return errors.New("provider cache: db is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return errors.New("insert provider cache: kind and key must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO provider_cache (
        kind,
        cache_key,
        payload
    )
    VALUES (?, ?, ?)
	`, kind, key, payload)
	if err != nil {
		return fmt.Errorf("insert provider cache kind=%q: %w", kind, err)
	}

	return nil
}
