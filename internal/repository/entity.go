package repository

import (
	"context"

	"attachapi/internal/model"
)

// EntityRepository defines data access for content items and attachments using SQL queries only.
// Persistence only; no business logic.
type EntityRepository interface {
	// Create inserts a new entity and returns the stored row, including the generated ID.
	Create(ctx context.Context, e *model.Entity) (*model.Entity, error)

	// FindByID returns an entity of any kind. It returns sql.ErrNoRows when the ID is unknown.
	FindByID(ctx context.Context, id int64) (*model.Entity, error)

	// FindByIDs returns the entities of the given kind among ids in one query.
	// IDs that are unknown or of another kind are silently absent from the result.
	FindByIDs(ctx context.Context, kind string, ids []int64) ([]model.Entity, error)

	// List returns a page of entities of one kind, newest first, with the total count.
	List(ctx context.Context, kind string, pq PageQuery) (*PageResult[model.Entity], error)

	// Delete removes an entity and its metadata. Missing rows are not an error.
	Delete(ctx context.Context, id int64) error
}
