package repository

import "context"

// MetaRepository is the generic per-entity key-value store. A key may hold several
// rows; rows keep their insertion order.
type MetaRepository interface {
	// Get returns the first value stored under key. ok is false when there is none.
	Get(ctx context.Context, entityID int64, key string) (value string, ok bool, err error)

	// GetAll returns every value stored under key, in insertion order.
	GetAll(ctx context.Context, entityID int64, key string) ([]string, error)

	// GetMany returns the first value stored under key for each of the given entities.
	// Entities without the key are absent from the map.
	GetMany(ctx context.Context, entityIDs []int64, key string) (map[int64]string, error)

	// Set overwrites every row under key with value, inserting one if none exists.
	Set(ctx context.Context, entityID int64, key, value string) error

	// Add appends a new row under key.
	Add(ctx context.Context, entityID int64, key, value string) error

	// DeleteValue removes the rows under key whose value equals value.
	DeleteValue(ctx context.Context, entityID int64, key, value string) error

	// Replace atomically swaps all rows under key for values, in the given order.
	Replace(ctx context.Context, entityID int64, key string, values []string) error
}
