package models

import (
	"time"
)

// Folder is a node of the folder forest. Path and Depth are the materialized
// ancestor chain ("/1/2/3/") and the number of ancestors.
type Folder struct {
	ID         int64      `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	ParentID   *int64     `json:"parent_id" db:"parent_id"` // NULL = root level
	Path       string     `json:"path" db:"path"`
	Depth      int        `json:"depth" db:"depth"`
	OrderIndex int        `json:"order_index" db:"order_index"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted reports whether the folder has been soft-deleted
func (f *Folder) IsDeleted() bool {
	return f.DeletedAt != nil
}

// IsRoot reports whether the folder has no parent
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// NullableID distinguishes "leave unchanged" (Set=false) from
// "set to NULL" (Set=true, Value=nil) in partial updates.
type NullableID struct {
	Set   bool
	Value *int64
}

// SetID returns a NullableID that assigns the given id (nil = NULL)
func SetID(id *int64) NullableID {
	return NullableID{Set: true, Value: id}
}

// FolderPatch lists the folder fields an update may touch. Nil fields
// are left unchanged.
type FolderPatch struct {
	Name       *string
	Path       *string
	Depth      *int
	OrderIndex *int
	ParentID   NullableID
}

// IsEmpty reports whether the patch changes nothing
func (p *FolderPatch) IsEmpty() bool {
	return p.Name == nil && p.Path == nil && p.Depth == nil && p.OrderIndex == nil && !p.ParentID.Set
}

// Apply copies the patched fields onto f
func (p *FolderPatch) Apply(f *Folder) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Path != nil {
		f.Path = *p.Path
	}
	if p.Depth != nil {
		f.Depth = *p.Depth
	}
	if p.OrderIndex != nil {
		f.OrderIndex = *p.OrderIndex
	}
	if p.ParentID.Set {
		if p.ParentID.Value == nil {
			f.ParentID = nil
		} else {
			id := *p.ParentID.Value
			f.ParentID = &id
		}
	}
}
