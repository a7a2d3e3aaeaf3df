package services

import (
	"context"

	"arbor/internal/domain/models"
)

// FileService handles file metadata. Results are already in wire shape.
type FileService interface {
	// ListFiles lists live files in a folder by name (nil = root level)
	ListFiles(ctx context.Context, folderID *int64) ([]models.FileRecord, error)

	// GetFile retrieves a live file
	GetFile(ctx context.Context, id int64) (*models.FileRecord, error)

	// CreateFile stores file metadata inside a unit of work
	CreateFile(ctx context.Context, req *CreateFileRequest) (*models.FileRecord, error)

	// DeleteFile soft-deletes a file
	DeleteFile(ctx context.Context, id int64) error
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	FolderID *int64  `json:"folderId,omitempty"` // nil for root-level files
	Name     string  `json:"name"`
	Size     *int64  `json:"size,omitempty"`
	MimeType *string `json:"mimeType,omitempty"`
}
