package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// The schema mirrors a generic host content store: typed entities plus an
// ordered key-value metadata table per entity.
var steps = []migrationStep{
	{
		Name: "create_table_entities",
		SQL: `CREATE TABLE IF NOT EXISTS entities (
  id         BIGSERIAL   PRIMARY KEY,
  kind       TEXT        NOT NULL,
  title      TEXT        NOT NULL DEFAULT '',
  mime_type  TEXT        NOT NULL DEFAULT '',
  parent_id  BIGINT      NULL REFERENCES entities (id) ON DELETE SET NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_entities_kind",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities (kind, created_at DESC);`,
	},
	{
		Name: "create_table_entity_meta",
		SQL: `CREATE TABLE IF NOT EXISTS entity_meta (
  meta_id    BIGSERIAL PRIMARY KEY,
  entity_id  BIGINT    NOT NULL REFERENCES entities (id) ON DELETE CASCADE,
  meta_key   TEXT      NOT NULL,
  meta_value TEXT      NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_entity_meta_lookup",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_entity_meta_lookup ON entity_meta (entity_id, meta_key, meta_id);`,
	},
}

// EnsureMigrated checks if the 'entity_meta' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(slog.String("component", "database"), slog.String("db_host", dbHost))

	log.Info("db_migration_check", slog.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public.entity_meta') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			slog.String("status", "success"),
			slog.String("detail", "schema already exists, skipping migration"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", slog.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
