package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresStore struct {
	db        *sql.DB
	namespace string
}

// NewPostgresStore stores values in the device_storage table, scoped by
// namespace. The table is created by the database migrations.
func NewPostgresStore(db *sql.DB, namespace string) KeyValueStore {
	return &postgresStore{db: db, namespace: namespace}
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM device_storage WHERE namespace = $1 AND key = $2`

	var value string
	err := s.db.QueryRowContext(ctx, query, s.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO device_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, s.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `DELETE FROM device_storage WHERE namespace = $1 AND key = $2`
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, query, s.namespace, k); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *postgresStore) Clear(ctx context.Context) error {
	query := `DELETE FROM device_storage WHERE namespace = $1`

	if _, err := s.db.ExecContext(ctx, query, s.namespace); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

func (s *postgresStore) Keys(ctx context.Context) ([]string, error) {
	query := `SELECT key FROM device_storage WHERE namespace = $1 ORDER BY key`

	rows, err := s.db.QueryContext(ctx, query, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}
	return keys, nil
}
