package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
)

type fileService struct {
	fileRepo   repositories.FileRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListFiles lists live files in folderID ordered by name
func (s *fileService) ListFiles(ctx context.Context, folderID *int64) ([]models.FileRecord, error) {
	files, err := s.fileRepo.GetByFolder(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", describeID(folderID), err)
	}
	return models.ToFileRecords(files), nil
}

// GetFile retrieves a live file
func (s *fileService) GetFile(ctx context.Context, id int64) (*models.FileRecord, error) {
	file, err := s.loadFile(ctx, "get file", id)
	if err != nil {
		return nil, err
	}
	rec := models.ToFileRecord(file)
	return &rec, nil
}

// CreateFile stores file metadata. The owning folder, if any, must be live.
func (s *fileService) CreateFile(ctx context.Context, req *services.CreateFileRequest) (*models.FileRecord, error) {
	checked := *req
	checked.Name = strings.TrimSpace(req.Name)
	if err := validateCreateFile(&checked); err != nil {
		return nil, err
	}
	req = &checked

	file := &models.File{
		FolderID: req.FolderID,
		Name:     req.Name,
		Size:     req.Size,
		MimeType: req.MimeType,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.FolderID != nil {
			folder, err := s.folderRepo.GetByID(txCtx, *req.FolderID)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("create file %q: %d: %w", req.Name, *req.FolderID, domain.ErrParentNotFound)
				}
				return fmt.Errorf("create file %q: %w", req.Name, err)
			}
			if folder.IsDeleted() {
				return fmt.Errorf("create file %q: %d: %w", req.Name, *req.FolderID, domain.ErrParentNotFound)
			}
		}

		if err := s.fileRepo.Create(txCtx, file); err != nil {
			return fmt.Errorf("create file %q: %w", req.Name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("file created",
		"id", file.ID,
		"name", file.Name,
		"folder_id", file.FolderID,
	)

	rec := models.ToFileRecord(file)
	return &rec, nil
}

// DeleteFile soft-deletes a live file
func (s *fileService) DeleteFile(ctx context.Context, id int64) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.loadFile(txCtx, "delete file", id); err != nil {
			return err
		}
		if _, err := s.fileRepo.SoftDelete(txCtx, []int64{id}); err != nil {
			return fmt.Errorf("delete file %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("file deleted", "id", id)
	return nil
}

func (s *fileService) loadFile(ctx context.Context, op string, id int64) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", op, id, err)
	}
	if file.IsDeleted() {
		return nil, fmt.Errorf("%s %d: file %d: %w", op, id, id, domain.ErrNotFound)
	}
	return file, nil
}
