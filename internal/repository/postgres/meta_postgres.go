package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"attachapi/internal/repository"
)

// MetaPostgres is a PostgreSQL implementation of repository.MetaRepository backed by
// the entity_meta table.
type MetaPostgres struct {
	db *sql.DB
}

// NewMetaPostgres creates a new MetaPostgres repository.
func NewMetaPostgres(db *sql.DB) *MetaPostgres {
	return &MetaPostgres{db: db}
}

var _ repository.MetaRepository = (*MetaPostgres)(nil)

// Get returns the oldest value stored under key.
func (r *MetaPostgres) Get(ctx context.Context, entityID int64, key string) (string, bool, error) {
	const q = `
		SELECT meta_value
		FROM entity_meta
		WHERE entity_id = $1 AND meta_key = $2
		ORDER BY meta_id
		LIMIT 1
	`
	var v string
	if err := r.db.QueryRowContext(ctx, q, entityID, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// GetAll returns all values stored under key in insertion order.
func (r *MetaPostgres) GetAll(ctx context.Context, entityID int64, key string) ([]string, error) {
	const q = `
		SELECT meta_value
		FROM entity_meta
		WHERE entity_id = $1 AND meta_key = $2
		ORDER BY meta_id
	`
	rows, err := r.db.QueryContext(ctx, q, entityID, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// GetMany returns the oldest value under key for each entity, in one query.
func (r *MetaPostgres) GetMany(ctx context.Context, entityIDs []int64, key string) (map[int64]string, error) {
	out := make(map[int64]string, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}

	q := `
		SELECT DISTINCT ON (entity_id) entity_id, meta_value
		FROM entity_meta
		WHERE meta_key = $1 AND entity_id IN (` + placeholders(2, len(entityIDs)) + `)
		ORDER BY entity_id, meta_id
	`
	rows, err := r.db.QueryContext(ctx, q, int64Args([]any{key}, entityIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id int64
			v  string
		)
		if err := rows.Scan(&id, &v); err != nil {
			return nil, err
		}
		out[id] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Set updates the existing rows under key, or inserts one when there are none.
// The two statements are not wrapped in a transaction; concurrent writers may interleave.
func (r *MetaPostgres) Set(ctx context.Context, entityID int64, key, value string) error {
	const qUpdate = `UPDATE entity_meta SET meta_value = $3 WHERE entity_id = $1 AND meta_key = $2`
	res, err := r.db.ExecContext(ctx, qUpdate, entityID, key, value)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return r.Add(ctx, entityID, key, value)
}

// Add appends a row under key.
func (r *MetaPostgres) Add(ctx context.Context, entityID int64, key, value string) error {
	const q = `INSERT INTO entity_meta (entity_id, meta_key, meta_value) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, q, entityID, key, value)
	return err
}

// DeleteValue removes matching rows. Removing a value that is not stored is not an error.
func (r *MetaPostgres) DeleteValue(ctx context.Context, entityID int64, key, value string) error {
	const q = `DELETE FROM entity_meta WHERE entity_id = $1 AND meta_key = $2 AND meta_value = $3`
	_, err := r.db.ExecContext(ctx, q, entityID, key, value)
	return err
}

// Replace deletes every row under key and inserts values in order, inside one transaction.
func (r *MetaPostgres) Replace(ctx context.Context, entityID int64, key string, values []string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qDelete = `DELETE FROM entity_meta WHERE entity_id = $1 AND meta_key = $2`
	if _, err = tx.ExecContext(ctx, qDelete, entityID, key); err != nil {
		return err
	}

	const qInsert = `INSERT INTO entity_meta (entity_id, meta_key, meta_value) VALUES ($1, $2, $3)`
	for _, v := range values {
		if _, err = tx.ExecContext(ctx, qInsert, entityID, key, v); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
