package postgres

import (
	"context"
	"database/sql"

	"attachapi/internal/model"
	"attachapi/internal/repository"
)

// EntityPostgres is a PostgreSQL implementation of repository.EntityRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type EntityPostgres struct {
	db *sql.DB
}

// NewEntityPostgres creates a new EntityPostgres repository.
func NewEntityPostgres(db *sql.DB) *EntityPostgres {
	return &EntityPostgres{db: db}
}

var _ repository.EntityRepository = (*EntityPostgres)(nil)

const entityColumns = `id, kind, title, mime_type, parent_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntity(s rowScanner) (*model.Entity, error) {
	var (
		e      model.Entity
		parent sql.NullInt64
	)
	if err := s.Scan(&e.ID, &e.Kind, &e.Title, &e.MimeType, &parent, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ParentID = parent.Int64
	return &e, nil
}

// Create inserts a new entity row and returns the stored record.
func (r *EntityPostgres) Create(ctx context.Context, e *model.Entity) (*model.Entity, error) {
	const q = `
		INSERT INTO entities (kind, title, mime_type, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + entityColumns
	row := r.db.QueryRowContext(ctx, q,
		e.Kind,
		e.Title,
		e.MimeType,
		nullInt64(e.ParentID),
		e.CreatedAt,
	)
	return scanEntity(row)
}

// FindByID fetches a single entity by its ID.
func (r *EntityPostgres) FindByID(ctx context.Context, id int64) (*model.Entity, error) {
	const q = `SELECT ` + entityColumns + ` FROM entities WHERE id = $1`
	return scanEntity(r.db.QueryRowContext(ctx, q, id))
}

// FindByIDs fetches every entity of kind whose ID is in ids with a single IN query.
func (r *EntityPostgres) FindByIDs(ctx context.Context, kind string, ids []int64) ([]model.Entity, error) {
	items := make([]model.Entity, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	q := `SELECT ` + entityColumns + ` FROM entities WHERE kind = $1 AND id IN (` + placeholders(2, len(ids)) + `)`
	rows, err := r.db.QueryContext(ctx, q, int64Args([]any{kind}, ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns entities of one kind using LIMIT/OFFSET pagination and a total count.
func (r *EntityPostgres) List(ctx context.Context, kind string, pq repository.PageQuery) (*repository.PageResult[model.Entity], error) {
	const qCount = `SELECT COUNT(*) FROM entities WHERE kind = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, kind).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + entityColumns + `
		FROM entities
		WHERE kind = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, kind, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Entity]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes the entity row; entity_meta rows go with it through ON DELETE CASCADE.
func (r *EntityPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM entities WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
