package postgres

import (
	"context"
	"fmt"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, folder_id, name, size, mime_type, created_at, updated_at, deleted_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByFolder lists live files in folderID (nil = root level) by name
func (r *PostgresFileRepository) GetByFolder(ctx context.Context, folderID *int64) ([]models.File, error) {
	var query string
	var args []any

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE folder_id IS NULL AND deleted_at IS NULL
			ORDER BY name ASC, id ASC
		`, fileColumns, r.tables.Files)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE folder_id = $1 AND deleted_at IS NULL
			ORDER BY name ASC, id ASC
		`, fileColumns, r.tables.Files)
		args = append(args, *folderID)
	}

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []models.File{}
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

// GetByID retrieves a file by ID, soft-deleted rows included
func (r *PostgresFileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, fileColumns, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// Create inserts a file record
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (folder_id, name, size, mime_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.FolderID,
		file.Name,
		file.Size,
		file.MimeType,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("create file %q: %w", file.Name, domain.ErrParentNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// SoftDelete soft-deletes the live files among ids
func (r *PostgresFileRepository) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, r.tables.Files)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("soft delete files: %w", err)
	}

	return result.RowsAffected(), nil
}

// SoftDeleteInSubtree soft-deletes every live file held by a folder under
// pathPrefix
func (r *PostgresFileRepository) SoftDeleteInSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	pattern, err := likePrefix(pathPrefix)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE deleted_at IS NULL
		  AND folder_id IN (SELECT id FROM %s WHERE path LIKE $1)
	`, r.tables.Files, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, pattern)
	if err != nil {
		return 0, fmt.Errorf("soft delete files under %s: %w", pathPrefix, err)
	}

	return result.RowsAffected(), nil
}

func scanFile(row rowScanner) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.FolderID,
		&file.Name,
		&file.Size,
		&file.MimeType,
		&file.CreatedAt,
		&file.UpdatedAt,
		&file.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
