package handler

import (
	"net/http"
)

// NewRouter registers every route on a Go 1.22 pattern mux
func NewRouter(health *HealthHandler, folders *FolderHandler, files *FileHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.HealthCheck)

	// Folder routes
	mux.HandleFunc("GET /v1/folders", folders.ListRootFolders)
	mux.HandleFunc("POST /v1/folders", folders.CreateFolder)
	mux.HandleFunc("POST /v1/folders/ensure", folders.EnsureFolderPath)
	mux.HandleFunc("GET /v1/folders/{id}", folders.GetFolder)
	mux.HandleFunc("PATCH /v1/folders/{id}", folders.UpdateFolder)
	mux.HandleFunc("DELETE /v1/folders/{id}", folders.DeleteFolder)
	mux.HandleFunc("GET /v1/folders/{id}/children", folders.ListChildren)
	mux.HandleFunc("GET /v1/folders/{id}/ancestors", folders.ListAncestors)
	mux.HandleFunc("PUT /v1/folders/{id}/move", folders.MoveFolder)

	// File routes
	mux.HandleFunc("GET /v1/files", files.ListFiles)
	mux.HandleFunc("POST /v1/files", files.CreateFile)
	mux.HandleFunc("GET /v1/files/{id}", files.GetFile)
	mux.HandleFunc("DELETE /v1/files/{id}", files.DeleteFile)

	return mux
}
