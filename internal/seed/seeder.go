package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"arbor/internal/domain/services"
)

// Result counts what a seed run touched
type Result struct {
	Folders int // folder paths ensured
	Files   int // files created
}

// Seeder builds a fixture through the services so every folder gets its
// path the same way API clients do
type Seeder struct {
	hierarchy services.HierarchyService
	files     services.FileService
	logger    *slog.Logger
}

// NewSeeder creates a seeder
func NewSeeder(hierarchy services.HierarchyService, files services.FileService, logger *slog.Logger) *Seeder {
	return &Seeder{
		hierarchy: hierarchy,
		files:     files,
		logger:    logger,
	}
}

// Seed ensures every folder of the fixture and creates its files. Folders
// that already exist are reused, files are always created.
func (s *Seeder) Seed(ctx context.Context, fixture *Fixture) (*Result, error) {
	result := &Result{}

	for _, namePath := range fixture.Folders {
		folder, err := s.hierarchy.EnsureFolderPath(ctx, namePath)
		if err != nil {
			return result, fmt.Errorf("seed folder %q: %w", namePath, err)
		}
		result.Folders++
		s.logger.Debug("seeded folder", "path", namePath, "id", folder.ID, "materialized_path", folder.Path)
	}

	for _, f := range fixture.Files {
		dir, name := splitFilePath(f.Path)

		var folderID *int64
		if dir != "" {
			folder, err := s.hierarchy.EnsureFolderPath(ctx, dir)
			if err != nil {
				return result, fmt.Errorf("seed file %q: %w", f.Path, err)
			}
			folderID = &folder.ID
		}

		file, err := s.files.CreateFile(ctx, &services.CreateFileRequest{
			FolderID: folderID,
			Name:     name,
			Size:     f.Size,
			MimeType: f.MimeType,
		})
		if err != nil {
			return result, fmt.Errorf("seed file %q: %w", f.Path, err)
		}
		result.Files++
		s.logger.Debug("seeded file", "path", f.Path, "id", file.ID)
	}

	s.logger.Info("seed complete", "folders", result.Folders, "files", result.Files)
	return result, nil
}

// splitFilePath splits "a/b/c.txt" into ("a/b", "c.txt")
func splitFilePath(p string) (dir, name string) {
	p = strings.Trim(p, "/")
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
