package service

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
)

// EnsureFolderPath resolves a slash-separated chain of folder names from
// the root level ("Projects/2024/Reports"), creating every missing folder
// along the way. Existing folders are matched by exact name among live
// siblings; the first match in sibling order wins.
func (s *hierarchyService) EnsureFolderPath(ctx context.Context, namePath string) (*models.Folder, error) {
	segments, err := splitNamePath(namePath)
	if err != nil {
		return nil, err
	}
	if len(segments)-1 > config.MaxFolderDepth {
		return nil, depthLimitError(len(segments) - 1)
	}

	var current *models.Folder
	var created []*models.Folder
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		created = created[:0]
		for _, name := range segments {
			var parentID *int64
			if current != nil {
				parentID = &current.ID
			}

			existing, err := s.findChild(txCtx, parentID, name)
			if err != nil {
				return err
			}
			if existing != nil {
				current = existing
				continue
			}

			folder, err := s.createFolder(txCtx, &services.CreateFolderRequest{
				Name:     name,
				ParentID: parentID,
			})
			if err != nil {
				return err
			}
			created = append(created, folder)
			current = folder
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, folder := range created {
		s.logCreated(folder)
	}
	return current, nil
}

func (s *hierarchyService) findChild(ctx context.Context, parentID *int64, name string) (*models.Folder, error) {
	children, err := s.folderRepo.GetChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("resolve %q under %s: %w", name, describeID(parentID), err)
	}
	for i := range children {
		if children[i].Name == name {
			return &children[i], nil
		}
	}
	return nil, nil
}

// splitNamePath trims the surrounding slashes and splits the chain into
// trimmed folder names
func splitNamePath(namePath string) ([]string, error) {
	namePath = strings.Trim(strings.TrimSpace(namePath), "/")

	err := validation.Validate(namePath,
		validation.Required.Error("path cannot be blank"),
		validation.RuneLength(1, config.MaxNamePathLength),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: "path: " + err.Error()}
	}

	parts := strings.Split(namePath, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, &domain.ValidationError{Message: "path: cannot contain empty segments"}
		}
		if len([]rune(name)) > config.MaxFolderNameLength {
			return nil, &domain.ValidationError{
				Message: fmt.Sprintf("path: folder name %q exceeds maximum length of %d", name, config.MaxFolderNameLength),
			}
		}
		segments = append(segments, name)
	}
	return segments, nil
}
