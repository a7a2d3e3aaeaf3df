package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/treepath"
)

// FolderRepository implements repositories.FolderRepository on a Store
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a folder repository backed by store
func NewFolderRepository(store *Store) repositories.FolderRepository {
	return &FolderRepository{store: store}
}

// GetRoots lists live root folders
func (r *FolderRepository) GetRoots(ctx context.Context) ([]models.Folder, error) {
	return r.GetChildren(ctx, nil)
}

// GetChildren lists live direct children of parentID (nil = roots)
func (r *FolderRepository) GetChildren(ctx context.Context, parentID *int64) ([]models.Folder, error) {
	folders := []models.Folder{}
	err := r.store.read(ctx, func(st *state) error {
		for _, f := range st.folders {
			if f.DeletedAt == nil && sameID(f.ParentID, parentID) {
				folders = append(folders, copyFolder(f))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}

	sort.Slice(folders, func(i, j int) bool {
		if folders[i].OrderIndex != folders[j].OrderIndex {
			return folders[i].OrderIndex < folders[j].OrderIndex
		}
		return folders[i].ID < folders[j].ID
	})
	return folders, nil
}

// GetByID retrieves a folder by ID, soft-deleted rows included
func (r *FolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	var folder models.Folder
	err := r.store.read(ctx, func(st *state) error {
		f, ok := st.folders[id]
		if !ok {
			return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		folder = copyFolder(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// GetByIDs retrieves the live folders among ids, shallowest first
func (r *FolderRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Folder, error) {
	folders := []models.Folder{}
	err := r.store.read(ctx, func(st *state) error {
		seen := make(map[int64]bool, len(ids))
		for _, id := range ids {
			f, ok := st.folders[id]
			if !ok || f.DeletedAt != nil || seen[id] {
				continue
			}
			seen[id] = true
			folders = append(folders, copyFolder(f))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get folders by ids: %w", err)
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Depth < folders[j].Depth
	})
	return folders, nil
}

// Create inserts a folder and assigns the next id
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, func(st *state) error {
		if folder.ParentID != nil {
			if _, ok := st.folders[*folder.ParentID]; !ok {
				return fmt.Errorf("create folder %q: %w", folder.Name, domain.ErrParentNotFound)
			}
		}

		now := r.store.now()
		folder.ID = st.nextFolderID
		folder.CreatedAt = now
		folder.UpdatedAt = now
		folder.DeletedAt = nil
		st.nextFolderID++

		st.folders[folder.ID] = copyFolder(*folder)
		return nil
	})
}

// Update applies a partial update and returns the stored row
func (r *FolderRepository) Update(ctx context.Context, id int64, patch *models.FolderPatch) (*models.Folder, error) {
	var updated models.Folder
	err := r.store.write(ctx, func(st *state) error {
		f, ok := st.folders[id]
		if !ok {
			return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		if patch.IsEmpty() {
			updated = copyFolder(f)
			return nil
		}
		if patch.ParentID.Set && patch.ParentID.Value != nil {
			if _, ok := st.folders[*patch.ParentID.Value]; !ok {
				return fmt.Errorf("update folder %d: %w", id, domain.ErrParentNotFound)
			}
		}

		patch.Apply(&f)
		f.UpdatedAt = r.store.now()
		st.folders[id] = f
		updated = copyFolder(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SoftDelete soft-deletes the live folders among ids
func (r *FolderRepository) SoftDelete(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		for _, id := range ids {
			f, ok := st.folders[id]
			if !ok || f.DeletedAt != nil {
				continue
			}
			deletedAt := now
			f.DeletedAt = &deletedAt
			st.folders[id] = f
			count++
		}
		return nil
	})
	return count, err
}

// SoftDeleteSubtree soft-deletes every live folder under pathPrefix
func (r *FolderRepository) SoftDeleteSubtree(ctx context.Context, pathPrefix string) (int64, error) {
	if pathPrefix == "" {
		return 0, fmt.Errorf("empty path prefix: %w", domain.ErrValidation)
	}

	var count int64
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		for id, f := range st.folders {
			if f.DeletedAt != nil || !strings.HasPrefix(f.Path, pathPrefix) {
				continue
			}
			deletedAt := now
			f.DeletedAt = &deletedAt
			st.folders[id] = f
			count++
		}
		return nil
	})
	return count, err
}

// RewriteDescendantPaths rebases every strict descendant of oldPrefix onto
// newPrefix, soft-deleted rows included
func (r *FolderRepository) RewriteDescendantPaths(ctx context.Context, oldPrefix, newPrefix string) (int64, error) {
	if oldPrefix == "" || newPrefix == "" {
		return 0, fmt.Errorf("rewrite descendant paths: empty prefix: %w", domain.ErrValidation)
	}

	delta := treepath.DepthDelta(oldPrefix, newPrefix)
	var count int64
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		for id, f := range st.folders {
			if f.Path == oldPrefix || !strings.HasPrefix(f.Path, oldPrefix) {
				continue
			}
			f.Path = treepath.Rebase(f.Path, oldPrefix, newPrefix)
			f.Depth += delta
			f.UpdatedAt = now
			st.folders[id] = f
			count++
		}
		return nil
	})
	return count, err
}

// MaxDepthUnder returns the deepest live folder under pathPrefix, or -1
func (r *FolderRepository) MaxDepthUnder(ctx context.Context, pathPrefix string) (int, error) {
	if pathPrefix == "" {
		return 0, fmt.Errorf("empty path prefix: %w", domain.ErrValidation)
	}

	depth := -1
	err := r.store.read(ctx, func(st *state) error {
		for _, f := range st.folders {
			if f.DeletedAt == nil && strings.HasPrefix(f.Path, pathPrefix) && f.Depth > depth {
				depth = f.Depth
			}
		}
		return nil
	})
	return depth, err
}
