package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
	"arbor/internal/treepath"
)

type hierarchyService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewHierarchyService creates a new hierarchy service
func NewHierarchyService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.HierarchyService {
	return &hierarchyService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListRootFolders lists live folders without a parent
func (s *hierarchyService) ListRootFolders(ctx context.Context) ([]models.Folder, error) {
	folders, err := s.folderRepo.GetRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	return folders, nil
}

// ListChildren lists live direct children of parentID
func (s *hierarchyService) ListChildren(ctx context.Context, parentID *int64) ([]models.Folder, error) {
	folders, err := s.folderRepo.GetChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w", describeID(parentID), err)
	}
	return folders, nil
}

// GetFolder retrieves a live folder
func (s *hierarchyService) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	return s.loadFolder(ctx, "get folder", id)
}

// ListAncestors resolves the ancestor ids embedded in the folder's path
// with a single lookup
func (s *hierarchyService) ListAncestors(ctx context.Context, id int64) ([]models.Folder, error) {
	folder, err := s.loadFolder(ctx, "list ancestors", id)
	if err != nil {
		return nil, err
	}

	ids := treepath.AncestorIDs(folder.Path)
	if folder.IsRoot() || len(ids) == 0 {
		return []models.Folder{}, nil
	}

	ancestors, err := s.folderRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list ancestors of folder %d: %w", id, err)
	}
	return ancestors, nil
}

// CreateFolder inserts the folder with a placeholder path to learn its id,
// then patches in the real path and depth. Both statements share one
// transaction so the placeholder is never visible.
func (s *hierarchyService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	var created *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.createFolder(txCtx, req)
		created = folder
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logCreated(created)
	return created, nil
}

// createFolder runs the two-phase insert inside the caller's transaction.
// req is left untouched; the trimmed name is validated on a copy.
func (s *hierarchyService) createFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	checked := *req
	checked.Name = strings.TrimSpace(req.Name)
	if err := validateCreateFolder(&checked); err != nil {
		return nil, err
	}

	var parent *models.Folder
	if checked.ParentID != nil {
		p, err := s.loadParent(ctx, "create folder", *checked.ParentID)
		if err != nil {
			return nil, err
		}
		if p.Depth+1 > config.MaxFolderDepth {
			return nil, depthLimitError(p.Depth + 1)
		}
		parent = p
	}

	folder := &models.Folder{
		Name:     checked.Name,
		ParentID: checked.ParentID,
	}
	if checked.OrderIndex != nil {
		folder.OrderIndex = *checked.OrderIndex
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("create folder %q: %w", checked.Name, err)
	}

	path, depth := treepath.ForCreate(parent, folder.ID)
	updated, err := s.folderRepo.Update(ctx, folder.ID, &models.FolderPatch{
		Path:  &path,
		Depth: &depth,
	})
	if err != nil {
		return nil, fmt.Errorf("assign path to folder %d: %w", folder.ID, err)
	}
	return updated, nil
}

func (s *hierarchyService) logCreated(folder *models.Folder) {
	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"path", folder.Path,
	)
}

// MoveFolder reparents a folder. Every check runs before the first write:
// existence of both folders, cycle freedom and the depth limit for the
// deepest folder of the moved subtree.
func (s *hierarchyService) MoveFolder(ctx context.Context, id int64, newParentID *int64) (*models.MoveResult, error) {
	var oldPath, newPath string
	var rewritten int64

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.loadFolder(txCtx, "move folder", id)
		if err != nil {
			return err
		}
		if folder.Path == "" {
			return fmt.Errorf("move folder %d: folder has no path", id)
		}

		var newParent *models.Folder
		if newParentID != nil {
			newParent, err = s.loadParent(txCtx, "move folder", *newParentID)
			if err != nil {
				return err
			}
			if newParent.Path == "" {
				return fmt.Errorf("move folder %d: parent folder %d has no path", id, *newParentID)
			}
			if treepath.IsDescendant(folder.Path, newParent.Path) {
				return fmt.Errorf("move folder %d under folder %d: %w", id, *newParentID, domain.ErrInvalidMove)
			}
		}

		oldPath = treepath.Normalize(folder.Path)
		var newDepth int
		newPath, newDepth = treepath.ForMove(newParent, folder.ID)

		deepest, err := s.folderRepo.MaxDepthUnder(txCtx, oldPath)
		if err != nil {
			return fmt.Errorf("move folder %d: %w", id, err)
		}
		if deepest < folder.Depth {
			deepest = folder.Depth
		}
		if d := deepest + newDepth - folder.Depth; d > config.MaxFolderDepth {
			return depthLimitError(d)
		}

		if _, err := s.folderRepo.Update(txCtx, id, &models.FolderPatch{
			ParentID: models.SetID(newParentID),
			Path:     &newPath,
			Depth:    &newDepth,
		}); err != nil {
			return fmt.Errorf("move folder %d: %w", id, err)
		}

		rewritten, err = s.folderRepo.RewriteDescendantPaths(txCtx, oldPath, newPath)
		if err != nil {
			return fmt.Errorf("move folder %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder moved",
		"id", id,
		"new_parent_id", newParentID,
		"old_path", oldPath,
		"new_path", newPath,
		"descendants", rewritten,
	)

	return &models.MoveResult{
		Moved:       true,
		FolderID:    models.FormatID(id),
		NewParentID: models.FormatOptionalID(newParentID),
	}, nil
}

// UpdateFolder renames or reorders a folder
func (s *hierarchyService) UpdateFolder(ctx context.Context, id int64, req *services.UpdateFolderRequest) (*models.Folder, error) {
	checked := *req
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		checked.Name = &name
	}
	if err := validateUpdateFolder(&checked); err != nil {
		return nil, err
	}

	var updated *models.Folder
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.loadFolder(txCtx, "update folder", id); err != nil {
			return err
		}

		folder, err := s.folderRepo.Update(txCtx, id, &models.FolderPatch{
			Name:       checked.Name,
			OrderIndex: checked.OrderIndex,
		})
		if err != nil {
			return fmt.Errorf("update folder %d: %w", id, err)
		}
		updated = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder updated",
		"id", updated.ID,
		"name", updated.Name,
		"order_index", updated.OrderIndex,
	)

	return updated, nil
}

// DeleteFolder soft-deletes the folder's whole subtree and every file in it
// in one transaction
func (s *hierarchyService) DeleteFolder(ctx context.Context, id int64) (*models.DeleteResult, error) {
	result := &models.DeleteResult{FolderID: models.FormatID(id)}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.loadFolder(txCtx, "delete folder", id)
		if err != nil {
			return err
		}

		prefix := treepath.Normalize(folder.Path)
		if prefix == "" {
			return fmt.Errorf("delete folder %d: folder has no path", id)
		}

		if result.FilesDeleted, err = s.fileRepo.SoftDeleteInSubtree(txCtx, prefix); err != nil {
			return fmt.Errorf("delete folder %d: %w", id, err)
		}
		if result.FoldersDeleted, err = s.folderRepo.SoftDeleteSubtree(txCtx, prefix); err != nil {
			return fmt.Errorf("delete folder %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Deleted = true

	s.logger.Info("folder deleted",
		"id", id,
		"folders", result.FoldersDeleted,
		"files", result.FilesDeleted,
	)

	return result, nil
}

// loadFolder returns the live folder with the given id
func (s *hierarchyService) loadFolder(ctx context.Context, op string, id int64) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", op, id, err)
	}
	if folder.IsDeleted() {
		return nil, fmt.Errorf("%s %d: folder %d: %w", op, id, id, domain.ErrNotFound)
	}
	return folder, nil
}

// loadParent is loadFolder for a referenced parent: a missing or deleted
// row fails with ErrParentNotFound
func (s *hierarchyService) loadParent(ctx context.Context, op string, id int64) (*models.Folder, error) {
	parent, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %d: %w", op, id, domain.ErrParentNotFound)
		}
		return nil, fmt.Errorf("%s: load parent %d: %w", op, id, err)
	}
	if parent.IsDeleted() {
		return nil, fmt.Errorf("%s: %d: %w", op, id, domain.ErrParentNotFound)
	}
	return parent, nil
}

func describeID(id *int64) string {
	if id == nil {
		return "root"
	}
	return "folder " + models.FormatID(*id)
}
