package models

import (
	"time"
)

// File is a metadata-only file record. Content is not stored.
type File struct {
	ID        int64      `json:"id" db:"id"`
	FolderID  *int64     `json:"folder_id" db:"folder_id"` // NULL = root level
	Name      string     `json:"name" db:"name"`
	Size      *int64     `json:"size,omitempty" db:"size"`
	MimeType  *string    `json:"mime_type,omitempty" db:"mime_type"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the file has been soft-deleted
func (f *File) IsDeleted() bool {
	return f.DeletedAt != nil
}
