package service

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/services"
)

// validateCreateFolder validates a folder creation request. Name is
// expected to be trimmed already.
func validateCreateFolder(req *services.CreateFolderRequest) error {
	return asValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
		validation.Field(&req.ParentID, validation.NilOrNotEmpty, validation.Min(int64(1))),
	))
}

// validateUpdateFolder validates a rename/reorder request
func validateUpdateFolder(req *services.UpdateFolderRequest) error {
	if req.Name == nil && req.OrderIndex == nil {
		return &domain.ValidationError{Message: "at least one of name, orderIndex must be provided"}
	}

	return asValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.NilOrNotEmpty.Error("cannot be blank"),
			validation.RuneLength(1, config.MaxFolderNameLength),
		),
	))
}

// validateCreateFile validates file metadata. Name is expected to be
// trimmed already.
func validateCreateFile(req *services.CreateFileRequest) error {
	return asValidationError(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.RuneLength(1, config.MaxFileNameLength),
		),
		validation.Field(&req.FolderID, validation.NilOrNotEmpty, validation.Min(int64(1))),
		validation.Field(&req.Size, validation.Min(int64(0))),
		validation.Field(&req.MimeType, validation.RuneLength(0, config.MaxMimeTypeLength)),
	))
}

// asValidationError turns ozzo field errors into a domain validation error
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return fmt.Errorf("validate request: %w", internal.InternalError())
	}
	return &domain.ValidationError{Message: err.Error()}
}

func depthLimitError(depth int) error {
	return &domain.ValidationError{
		Message: fmt.Sprintf("folder depth %d exceeds the maximum of %d", depth, config.MaxFolderDepth),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
