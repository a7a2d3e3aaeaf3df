package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

// FileRepository implements repositories.FileRepository on a Store
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a file repository backed by store
func NewFileRepository(store *Store) repositories.FileRepository {
	return &FileRepository{store: store}
}

// GetByFolder lists live files in folderID (nil = root level) by name
func (r *FileRepository) GetByFolder(ctx context.Context, folderID *int64) ([]models.File, error) {
	files := []models.File{}
	err := r.store.read(ctx, func(st *state) error {
		for _, f := range st.files {
			if f.DeletedAt == nil && sameID(f.FolderID, folderID) {
				files = append(files, copyFile(f))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].ID < files[j].ID
	})
	return files, nil
}

// GetByID retrieves a file by ID, soft-deleted rows included
func (r *FileRepository) GetByID(ctx context.Context, id int64) (*models.File, error) {
	var file models.File
	err := r.store.read(ctx, func(st *state) error {
		f, ok := st.files[id]
		if !ok {
			return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		file = copyFile(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Create inserts a file record and assigns the next id
func (r *FileRepository) Create(ctx context.Context, file *models.File) error {
	return r.store.write(ctx, func(st *state) error {
		if file.FolderID != nil {
			if _, ok := st.folders[*file.FolderID]; !ok {
				return fmt.Errorf("create file %q: %w", file.Name, domain.ErrParentNotFound)
			}
		}

		now := r.store.now()
		file.ID = st.nextFileID
		file.CreatedAt = now
		file.UpdatedAt = now
		file.DeletedAt = nil
		st.nextFileID++

		st.files[file.ID] = copyFile(*file)
		return nil
	})
}

// SoftDelete soft-deletes the live files among ids
func (r *FileRepository) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		for _, id := range ids {
			f, ok := st.files[id]
			if !ok || f.DeletedAt != nil {
				continue
			}
			deletedAt := now
			f.DeletedAt = &deletedAt
			st.files[id] = f
			count++
		}
		return nil
	})
	return count, err
}

// SoftDeleteInSubtree soft-deletes every live file held by a folder under
// pathPrefix
func (r *FileRepository) SoftDeleteInSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	if pathPrefix == "" {
		return 0, fmt.Errorf("empty path prefix: %w", domain.ErrValidation)
	}

	var count int64
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		for id, f := range st.files {
			if f.DeletedAt != nil || f.FolderID == nil {
				continue
			}
			folder, ok := st.folders[*f.FolderID]
			if !ok || !strings.HasPrefix(folder.Path, pathPrefix) {
				continue
			}
			deletedAt := now
			f.DeletedAt = &deletedAt
			st.files[id] = f
			count++
		}
		return nil
	})
	return count, err
}
