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

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  guid          UUID        PRIMARY KEY,
  company       TEXT        NOT NULL,
  object_type   TEXT        NOT NULL,
  document_type TEXT        NOT NULL,
  object_id     BIGINT      NOT NULL,
  culture       TEXT        NOT NULL DEFAULT 'nl',
  name          TEXT        NOT NULL,
  mime_type     TEXT        NOT NULL,
  extension     TEXT        NOT NULL DEFAULT '',
  item_num      INTEGER     NOT NULL DEFAULT 1,
  size          BIGINT      NOT NULL CHECK (size >= 0),
  size_class    TEXT        NOT NULL DEFAULT 'any',
  max_age       INTEGER     NOT NULL DEFAULT 3600,
  last_changed  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_key",
		SQL: `CREATE INDEX IF NOT EXISTS idx_documents_key
  ON documents (company, object_type, document_type, object_id, culture);`,
	},
	{
		Name: "create_index_documents_mime_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_mime_type ON documents (mime_type);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)

	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.InfoContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
