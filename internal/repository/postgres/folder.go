package postgres

import (
	"context"
	"fmt"
	"strings"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/treepath"

	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `id, name, parent_id, path, depth, order_index, created_at, updated_at, deleted_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetRoots lists live root folders
func (r *PostgresFolderRepository) GetRoots(ctx context.Context) ([]models.Folder, error) {
	return r.GetChildren(ctx, nil)
}

// GetChildren lists live direct children of parentID (nil = roots)
func (r *PostgresFolderRepository) GetChildren(ctx context.Context, parentID *int64) ([]models.Folder, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id IS NULL AND deleted_at IS NULL
			ORDER BY order_index ASC, id ASC
		`, folderColumns, r.tables.Folders)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE parent_id = $1 AND deleted_at IS NULL
			ORDER BY order_index ASC, id ASC
		`, folderColumns, r.tables.Folders)
		args = append(args, *parentID)
	}

	return r.queryFolders(ctx, "list folder children", query, args...)
}

// GetByID retrieves a folder by ID, soft-deleted rows included
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, folderColumns, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return folder, nil
}

// GetByIDs retrieves the live folders among ids, shallowest first
func (r *PostgresFolderRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Folder, error) {
	if len(ids) == 0 {
		return []models.Folder{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = ANY($1) AND deleted_at IS NULL
		ORDER BY depth ASC
	`, folderColumns, r.tables.Folders)

	return r.queryFolders(ctx, "get folders by ids", query, ids)
}

// Create inserts a folder. Path and depth come from the caller.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, parent_id, path, depth, order_index)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.Path,
		folder.Depth,
		folder.OrderIndex,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("create folder %q: %w", folder.Name, domain.ErrParentNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// Update applies a partial update and returns the stored row
func (r *PostgresFolderRepository) Update(ctx context.Context, id int64, patch *models.FolderPatch) (*models.Folder, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Path != nil {
		set("path", *patch.Path)
	}
	if patch.Depth != nil {
		set("depth", *patch.Depth)
	}
	if patch.OrderIndex != nil {
		set("order_index", *patch.OrderIndex)
	}
	if patch.ParentID.Set {
		set("parent_id", patch.ParentID.Value)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, r.tables.Folders, strings.Join(sets, ", "), len(args), folderColumns)

	executor := GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("update folder %d: %w", id, domain.ErrParentNotFound)
		}
		return nil, fmt.Errorf("update folder: %w", err)
	}

	return folder, nil
}

// SoftDelete soft-deletes the live folders among ids
func (r *PostgresFolderRepository) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE id = ANY($1) AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("soft delete folders: %w", err)
	}

	return result.RowsAffected(), nil
}

// SoftDeleteSubtree soft-deletes every live folder under pathPrefix,
// the subtree root included
func (r *PostgresFolderRepository) SoftDeleteSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	pattern, err := likePrefix(pathPrefix)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = NOW()
		WHERE path LIKE $1 AND deleted_at IS NULL
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, pattern)
	if err != nil {
		return 0, fmt.Errorf("soft delete folder subtree %s: %w", pathPrefix, err)
	}

	return result.RowsAffected(), nil
}

// RewriteDescendantPaths moves every strict descendant of oldPrefix under
// newPrefix in a single UPDATE. Soft-deleted descendants are rewritten too
// so their paths stay consistent if they are ever restored.
func (r *PostgresFolderRepository) RewriteDescendantPaths(ctx context.Context, oldPrefix, newPrefix string) (int64, error) {
	pattern, err := likePrefix(oldPrefix)
	if err != nil {
		return 0, err
	}
	if newPrefix == "" {
		return 0, fmt.Errorf("rewrite descendant paths: empty target prefix: %w", domain.ErrValidation)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $2::text || substring(path FROM char_length($1::text) + 1),
			depth = depth + $3::int,
			updated_at = NOW()
		WHERE path LIKE $4 AND path <> $1::text
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		oldPrefix,
		newPrefix,
		treepath.DepthDelta(oldPrefix, newPrefix),
		pattern,
	)
	if err != nil {
		return 0, fmt.Errorf("rewrite descendant paths %s -> %s: %w", oldPrefix, newPrefix, err)
	}

	return result.RowsAffected(), nil
}

// MaxDepthUnder returns the deepest live folder under pathPrefix, or -1 if
// there is none
func (r *PostgresFolderRepository) MaxDepthUnder(ctx context.Context, pathPrefix string) (int, error) {
	pattern, err := likePrefix(pathPrefix)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(depth), -1)
		FROM %s
		WHERE path LIKE $1 AND deleted_at IS NULL
	`, r.tables.Folders)

	var depth int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, pattern).Scan(&depth); err != nil {
		return 0, fmt.Errorf("max depth under %s: %w", pathPrefix, err)
	}

	return depth, nil
}

func (r *PostgresFolderRepository) queryFolders(ctx context.Context, op, query string, args ...any) ([]models.Folder, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	folders := []models.Folder{}
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.Path,
		&folder.Depth,
		&folder.OrderIndex,
		&folder.CreatedAt,
		&folder.UpdatedAt,
		&folder.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}
