package services

import (
	"context"

	"arbor/internal/domain/models"
)

// HierarchyService owns folder paths. It is the only component that
// computes or rewrites path and depth.
type HierarchyService interface {
	// ListRootFolders lists live folders without a parent
	ListRootFolders(ctx context.Context) ([]models.Folder, error)

	// ListChildren lists live direct children of a folder (nil = roots)
	ListChildren(ctx context.Context, parentID *int64) ([]models.Folder, error)

	// GetFolder retrieves a live folder
	GetFolder(ctx context.Context, id int64) (*models.Folder, error)

	// ListAncestors returns the live ancestors of a folder, root first
	ListAncestors(ctx context.Context, id int64) ([]models.Folder, error)

	// CreateFolder inserts a folder and assigns its path in one unit of work
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// MoveFolder reparents a folder and rewrites its whole subtree atomically.
	// A nil newParentID moves the folder to the root level.
	MoveFolder(ctx context.Context, id int64, newParentID *int64) (*models.MoveResult, error)

	// UpdateFolder renames or reorders a folder. Path and depth are untouched.
	UpdateFolder(ctx context.Context, id int64, req *UpdateFolderRequest) (*models.Folder, error)

	// DeleteFolder soft-deletes a folder, its descendants and their files
	DeleteFolder(ctx context.Context, id int64) (*models.DeleteResult, error)

	// EnsureFolderPath resolves a chain of folder names ("A/B/C") from the
	// root level, creating the missing folders, and returns the last one
	EnsureFolderPath(ctx context.Context, namePath string) (*models.Folder, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name       string `json:"name"`
	ParentID   *int64 `json:"parentId,omitempty"` // nil for root folders
	OrderIndex *int   `json:"orderIndex,omitempty"`
}

// UpdateFolderRequest represents a rename/reorder request
type UpdateFolderRequest struct {
	Name       *string `json:"name,omitempty"`
	OrderIndex *int    `json:"orderIndex,omitempty"`
}
