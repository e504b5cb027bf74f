package cache

import (
	"context"
	"database/sql"
	"dispatch-simulation-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

// SQLProviderCache is a Postgres-backed cache for raw provider responses.
type SQLProviderCache struct {
	DB *sql.DB
}

func NewSQLProviderCache(db *sql.DB) *SQLProviderCache {
	return &SQLProviderCache{DB: db}
}

// Fetch one cached payload.
func (s *SQLProviderCache) Get(
	ctx context.Context,
	kind string,
	key string,
) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "provider.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("provider cache: db is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get provider cache: kind and key must not be empty")
	}

	q := `
	SELECT payload
    FROM provider_cache
    WHERE kind = $1
        AND cache_key = $2;
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
func (s *SQLProviderCache) Put(
	ctx context.Context,
	kind string,
	key string,
	payload []byte,
) (err error) {
	defer obs.Time(ctx, "provider.cache.Put")(&err)

	if s.DB == nil {
		return errors.New("provider cache: db is nil")
	}
	if strings.TrimSpace(kind) == "" || strings.TrimSpace(key) == "" {
		return errors.New("insert provider cache: kind and key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO provider_cache (kind, cache_key, payload)
    VALUES ($1, $2, $3::jsonb)
	ON CONFLICT (kind, cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = now();
	`, kind, key, string(payload))
	if err != nil {
		return fmt.Errorf("insert provider cache kind=%q: %w", kind, err)
	}

	return nil
}
