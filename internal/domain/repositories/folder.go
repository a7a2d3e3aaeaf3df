package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Path and depth are supplied by callers; the repository never computes them.
type FolderRepository interface {
	// GetRoots lists live folders without a parent, ordered by order_index
	GetRoots(ctx context.Context) ([]models.Folder, error)

	// GetChildren lists live direct children ordered by order_index.
	// A nil parentID selects the root folders.
	GetChildren(ctx context.Context, parentID *int64) ([]models.Folder, error)

	// GetByID retrieves a folder by ID, soft-deleted rows included.
	// Returns domain.ErrNotFound when no row exists.
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// GetByIDs retrieves the live folders among ids, ordered by depth
	GetByIDs(ctx context.Context, ids []int64) ([]models.Folder, error)

	// Create inserts a folder and fills in its ID and timestamps
	Create(ctx context.Context, folder *models.Folder) error

	// Update applies patch to the folder with the given id and returns the
	// stored row. Returns domain.ErrNotFound when no row matches.
	Update(ctx context.Context, id int64, patch *models.FolderPatch) (*models.Folder, error)

	// SoftDelete stamps deleted_at on the live rows among ids
	SoftDelete(ctx context.Context, ids []int64) (int64, error)

	// SoftDeleteSubtree stamps deleted_at on every live folder whose path
	// starts with pathPrefix
	SoftDeleteSubtree(ctx context.Context, pathPrefix string) (int64, error)

	// RewriteDescendantPaths replaces oldPrefix with newPrefix on every
	// strict descendant of oldPrefix and shifts depth by the segment
	// difference, in one set-based statement
	RewriteDescendantPaths(ctx context.Context, oldPrefix, newPrefix string) (int64, error)

	// MaxDepthUnder returns the greatest depth among folders whose path
	// starts with pathPrefix
	MaxDepthUnder(ctx context.Context, pathPrefix string) (int, error)
}
