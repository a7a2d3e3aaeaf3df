package postgres

import (
	"context"
	"fmt"
	"strings"

	"arbor/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the folder and file tables and their indexes if
// they do not exist yet.
//
// path is the materialized id chain of a folder ("/1/2/"); the
// text_pattern_ops index serves the LIKE 'prefix%' scans used by moves and
// subtree deletes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT NOT NULL,
			parent_id   BIGINT REFERENCES ` + tables.Folders + `(id),
			path        TEXT NOT NULL DEFAULT '',
			depth       INTEGER NOT NULL DEFAULT 0 CHECK (depth >= 0),
			order_index INTEGER NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at  TIMESTAMPTZ,
			CHECK (parent_id IS NULL OR parent_id <> id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id         BIGSERIAL PRIMARY KEY,
			folder_id  BIGINT REFERENCES ` + tables.Folders + `(id),
			name       TEXT NOT NULL,
			size       BIGINT CHECK (size IS NULL OR size >= 0),
			mime_type  TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_parent_order ON ` + tables.Folders + `(parent_id, order_index) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_path ON ` + tables.Folders + `(path text_pattern_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Files + `_folder_name ON ` + tables.Files + `(folder_id, name) WHERE deleted_at IS NULL`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropTables drops the folder and file tables
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s, %s CASCADE`, tables.Files, tables.Folders)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// ClearData removes every row, files first, and restarts the id sequences
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := fmt.Sprintf(`TRUNCATE %s, %s RESTART IDENTITY`, tables.Files, tables.Folders)
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns a path prefix into a LIKE pattern matching every path
// that starts with it. An empty prefix is rejected since it would match
// every row.
func likePrefix(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty path prefix: %w", domain.ErrValidation)
	}
	return likeEscaper.Replace(prefix) + "%", nil
}
