package handler

import (
	"log/slog"
	"net/http"

	"arbor/internal/domain/models"
	"arbor/internal/domain/services"
	"arbor/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	hierarchy services.HierarchyService
	logger    *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(hierarchy services.HierarchyService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

type createFolderBody struct {
	Name       string              `json:"name"`
	ParentID   httputil.OptionalID `json:"parentId"`
	OrderIndex *int                `json:"orderIndex"`
}

type moveFolderBody struct {
	ParentID httputil.OptionalID `json:"parentId"`
}

type updateFolderBody struct {
	Name       *string `json:"name"`
	OrderIndex *int    `json:"orderIndex"`
}

type ensureFolderPathBody struct {
	Path string `json:"path"`
}

// ListRootFolders lists the root folders
// GET /v1/folders
func (h *FolderHandler) ListRootFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.hierarchy.ListRootFolders(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecords(folders))
}

// GetFolder retrieves a folder
// GET /v1/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	folder, err := h.hierarchy.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecord(folder))
}

// ListChildren lists the direct children of a folder
// GET /v1/folders/{id}/children
func (h *FolderHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	folders, err := h.hierarchy.ListChildren(r.Context(), &id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecords(folders))
}

// ListAncestors returns the breadcrumb of a folder, root first
// GET /v1/folders/{id}/ancestors
func (h *FolderHandler) ListAncestors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	folders, err := h.hierarchy.ListAncestors(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecords(folders))
}

// CreateFolder creates a folder
// POST /v1/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var body createFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, r, err)
		return
	}

	folder, err := h.hierarchy.CreateFolder(r.Context(), &services.CreateFolderRequest{
		Name:       body.Name,
		ParentID:   body.ParentID.Value,
		OrderIndex: body.OrderIndex,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, models.ToFolderRecord(folder))
}

// EnsureFolderPath resolves a chain of folder names, creating what is missing
// POST /v1/folders/ensure
func (h *FolderHandler) EnsureFolderPath(w http.ResponseWriter, r *http.Request) {
	var body ensureFolderPathBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, r, err)
		return
	}

	folder, err := h.hierarchy.EnsureFolderPath(r.Context(), body.Path)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecord(folder))
}

// MoveFolder reparents a folder. A null or absent parentId moves the folder
// to the root level.
// PUT /v1/folders/{id}/move
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	var body moveFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, r, err)
		return
	}

	result, err := h.hierarchy.MoveFolder(r.Context(), id, body.ParentID.Value)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdateFolder renames or reorders a folder
// PATCH /v1/folders/{id}
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	var body updateFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		handleBodyError(w, r, err)
		return
	}

	folder, err := h.hierarchy.UpdateFolder(r.Context(), id, &services.UpdateFolderRequest{
		Name:       body.Name,
		OrderIndex: body.OrderIndex,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, models.ToFolderRecord(folder))
}

// DeleteFolder soft-deletes a folder with its subtree and files
// DELETE /v1/folders/{id}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Folder")
	if !ok {
		return
	}

	result, err := h.hierarchy.DeleteFolder(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
