package models

import (
	"strconv"
	"time"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// FolderRecord is the wire shape of a folder. Ids are decimal strings so
// clients never lose precision on large integers.
type FolderRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parentId"`
	Path       *string `json:"path"`
	Depth      *int    `json:"depth"`
	OrderIndex *int    `json:"orderIndex"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	DeletedAt  *string `json:"deletedAt"`
}

// FileRecord is the wire shape of a file
type FileRecord struct {
	ID        string  `json:"id"`
	FolderID  *string `json:"folderId"`
	Name      string  `json:"name"`
	Size      *string `json:"size"`
	MimeType  *string `json:"mimeType"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
	DeletedAt *string `json:"deletedAt"`
}

// MoveResult confirms a folder move
type MoveResult struct {
	Moved       bool    `json:"moved"`
	FolderID    string  `json:"folderId"`
	NewParentID *string `json:"newParentId"`
}

// DeleteResult reports a cascading folder delete
type DeleteResult struct {
	Deleted        bool   `json:"deleted"`
	FolderID       string `json:"folderId"`
	FoldersDeleted int64  `json:"foldersDeleted"`
	FilesDeleted   int64  `json:"filesDeleted"`
}

// ToFolderRecord converts a folder to its wire shape. A folder still
// carrying the placeholder (empty) path serializes path and depth as null.
func ToFolderRecord(f *Folder) FolderRecord {
	rec := FolderRecord{
		ID:         FormatID(f.ID),
		Name:       f.Name,
		ParentID:   FormatOptionalID(f.ParentID),
		OrderIndex: &f.OrderIndex,
		CreatedAt:  FormatTime(f.CreatedAt),
		UpdatedAt:  FormatTime(f.UpdatedAt),
		DeletedAt:  formatOptionalTime(f.DeletedAt),
	}
	if f.Path != "" {
		path, depth := f.Path, f.Depth
		rec.Path = &path
		rec.Depth = &depth
	}
	return rec
}

// ToFolderRecords converts a slice of folders, never returning nil
func ToFolderRecords(folders []Folder) []FolderRecord {
	records := make([]FolderRecord, 0, len(folders))
	for i := range folders {
		records = append(records, ToFolderRecord(&folders[i]))
	}
	return records
}

// ToFileRecord converts a file to its wire shape
func ToFileRecord(f *File) FileRecord {
	rec := FileRecord{
		ID:        FormatID(f.ID),
		FolderID:  FormatOptionalID(f.FolderID),
		Name:      f.Name,
		MimeType:  f.MimeType,
		CreatedAt: FormatTime(f.CreatedAt),
		UpdatedAt: FormatTime(f.UpdatedAt),
		DeletedAt: formatOptionalTime(f.DeletedAt),
	}
	if f.Size != nil {
		size := strconv.FormatInt(*f.Size, 10)
		rec.Size = &size
	}
	return rec
}

// ToFileRecords converts a slice of files, never returning nil
func ToFileRecords(files []File) []FileRecord {
	records := make([]FileRecord, 0, len(files))
	for i := range files {
		records = append(records, ToFileRecord(&files[i]))
	}
	return records
}

// FormatID renders an id as a decimal string
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// FormatOptionalID renders a nullable id
func FormatOptionalID(id *int64) *string {
	if id == nil {
		return nil
	}
	s := FormatID(*id)
	return &s
}

// FormatTime renders a timestamp in TimestampFormat
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(*t)
	return &s
}
