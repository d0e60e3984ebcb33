package db

import (
	"context"
	"fmt"
	"time"
)

// EnsureTransientSchema - transients 테이블 생성 (없으면)
func (db *Postgres) EnsureTransientSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transients (
			key        TEXT        PRIMARY KEY,
			expires_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create transients table: %w", err)
	}
	return nil
}

// Exists - 만료되지 않은 transient가 있는지 확인
func (db *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transients WHERE key = $1 AND expires_at > NOW()
		)
	`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transient: %w", err)
	}
	return exists, nil
}

// Set - transient 저장 (같은 key가 있으면 만료 시각만 갱신)
func (db *Postgres) Set(ctx context.Context, key string, ttl time.Duration) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO transients (key, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`, key, time.Now().Add(ttl))
	if err != nil {
		return fmt.Errorf("failed to store transient: %w", err)
	}
	return nil
}

func (db *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM transients WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete transient: %w", err)
	}
	return nil
}

// PurgeExpiredTransients - 만료된 transient 정리
func (db *Postgres) PurgeExpiredTransients(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM transients WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge transients: %w", err)
	}
	return tag.RowsAffected(), nil
}
