package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFolderRecord(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("CET", 3600))
	parent := int64(9007199254740993) // beyond float64 precision

	rec := ToFolderRecord(&Folder{
		ID:         9007199254740995,
		Name:       "B",
		ParentID:   &parent,
		Path:       "/9007199254740993/9007199254740995/",
		Depth:      1,
		OrderIndex: 3,
		CreatedAt:  created,
		UpdatedAt:  created,
	})

	assert.Equal(t, "9007199254740995", rec.ID)
	require.NotNil(t, rec.ParentID)
	assert.Equal(t, "9007199254740993", *rec.ParentID)
	require.NotNil(t, rec.Path)
	assert.Equal(t, "/9007199254740993/9007199254740995/", *rec.Path)
	require.NotNil(t, rec.Depth)
	assert.Equal(t, 1, *rec.Depth)
	assert.Equal(t, "2025-03-04T04:06:07.891Z", rec.CreatedAt)
	assert.Nil(t, rec.DeletedAt)
}

func TestToFolderRecord_PlaceholderPathIsNull(t *testing.T) {
	rec := ToFolderRecord(&Folder{ID: 1, Name: "A"})
	assert.Nil(t, rec.Path)
	assert.Nil(t, rec.Depth)
	assert.Nil(t, rec.ParentID)

	payload, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"path":null`)
	assert.Contains(t, string(payload), `"parentId":null`)
}

func TestToFileRecord(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	folderID := int64(4)
	size := int64(1234)
	deleted := now.Add(time.Hour)

	rec := ToFileRecord(&File{
		ID:        7,
		FolderID:  &folderID,
		Name:      "readme.md",
		Size:      &size,
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: &deleted,
	})

	assert.Equal(t, "7", rec.ID)
	require.NotNil(t, rec.FolderID)
	assert.Equal(t, "4", *rec.FolderID)
	require.NotNil(t, rec.Size)
	assert.Equal(t, "1234", *rec.Size)
	assert.Nil(t, rec.MimeType)
	require.NotNil(t, rec.DeletedAt)
	assert.Equal(t, "2025-01-01T01:00:00.000Z", *rec.DeletedAt)
}

func TestFolderPatch_Apply(t *testing.T) {
	parent := int64(2)
	f := Folder{ID: 5, Name: "old", ParentID: &parent, Path: "/2/5/", Depth: 1}

	name := "new"
	path := "/5/"
	depth := 0
	patch := FolderPatch{Name: &name, Path: &path, Depth: &depth, ParentID: SetID(nil)}
	patch.Apply(&f)

	assert.Equal(t, "new", f.Name)
	assert.Equal(t, "/5/", f.Path)
	assert.Equal(t, 0, f.Depth)
	assert.Nil(t, f.ParentID)
	assert.False(t, patch.IsEmpty())
	assert.True(t, (&FolderPatch{}).IsEmpty())
}
