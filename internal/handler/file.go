package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// FileHandler handles file metadata HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

type createFileBody struct {
	FolderID httputil.OptionalID    `json:"folderId"`
	Name     string                 `json:"name"`
	Size     httputil.OptionalInt64 `json:"size"`
	MimeType *string                `json:"mimeType"`
}

// ListFiles lists files of a folder, or root-level files without folderId
// GET /v1/files?folderId=
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	folderID, err := httputil.ParseOptionalID(r.URL.Query().Get("folderId"))
	if err != nil {
		httputil.RespondRequestError(w, r, http.StatusBadRequest, "folderId must be a positive integer")
		return
	}

	files, err := h.fileService.ListFiles(r.Context(), folderID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

// GetFile retrieves a file
// GET /v1/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "File")
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// CreateFile stores file metadata
// POST /v1/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var body createFileBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, r, err)
		return
	}

	file, err := h.fileService.CreateFile(r.Context(), &services.CreateFileRequest{
		FolderID: body.FolderID.Value,
		Name:     body.Name,
		Size:     body.Size.Value,
		MimeType: body.MimeType,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// DeleteFile soft-deletes a file
// DELETE /v1/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "File")
	if !ok {
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), id); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
