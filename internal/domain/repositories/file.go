package repositories

import (
	"context"

	"arbor/internal/domain/models"
)

// FileRepository defines data access operations for file metadata
type FileRepository interface {
	// GetByFolder lists live files in a folder ordered by name.
	// A nil folderID selects root-level files.
	GetByFolder(ctx context.Context, folderID *int64) ([]models.File, error)

	// GetByID retrieves a file by ID, soft-deleted rows included
	GetByID(ctx context.Context, id int64) (*models.File, error)

	// Create inserts a file and fills in its ID and timestamps
	Create(ctx context.Context, file *models.File) error

	// SoftDelete stamps deleted_at on the live rows among ids
	SoftDelete(ctx context.Context, ids []int64) (int64, error)

	// SoftDeleteInSubtree stamps deleted_at on every live file whose folder
	// path starts with pathPrefix
	SoftDeleteInSubtree(ctx context.Context, pathPrefix string) (int64, error)
}
