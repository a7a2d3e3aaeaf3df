package postgres

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// INTEGRATION TESTS - require TEST_DATABASE_URL
// ============================================================================

type testRepos struct {
	folders repositories.FolderRepository
	files   repositories.FileRepository
	tx      repositories.TransactionManager
}

// setupRepos creates a throwaway pair of tables under a random prefix and
// drops them when the test ends
func setupRepos(t *testing.T) testRepos {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := CreateConnectionPool(ctx, databaseURL)
	require.NoError(t, err)

	prefix := "t" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12] + "_"
	tables := NewTableNames(prefix)
	require.NoError(t, EnsureSchema(ctx, pool, tables))

	t.Cleanup(func() {
		_ = DropTables(context.Background(), pool, tables)
		pool.Close()
	})

	cfg := &RepositoryConfig{Pool: pool, Tables: tables}
	return testRepos{
		folders: NewFolderRepository(cfg),
		files:   NewFileRepository(cfg),
		tx:      NewTransactionManager(cfg),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func createFolder(t *testing.T, repo repositories.FolderRepository, name string, parentID *int64, path string, depth int) models.Folder {
	t.Helper()
	f := &models.Folder{Name: name, ParentID: parentID, Path: path, Depth: depth}
	require.NoError(t, repo.Create(context.Background(), f))
	return *f
}

func TestPostgresFolderRepository_CreateAndPatchPath(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	root := createFolder(t, r.folders, "root", nil, "", 0)
	assert.Greater(t, root.ID, int64(0))

	path := "/" + models.FormatID(root.ID) + "/"
	depth := 0
	updated, err := r.folders.Update(ctx, root.ID, &models.FolderPatch{Path: &path, Depth: &depth})
	require.NoError(t, err)
	assert.Equal(t, path, updated.Path)

	_, err = r.folders.GetByID(ctx, root.ID+1000)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = r.folders.Create(ctx, &models.Folder{Name: "orphan", ParentID: int64Ptr(root.ID + 1000)})
	assert.ErrorIs(t, err, domain.ErrParentNotFound)
}

func TestPostgresFolderRepository_RewriteDescendantPaths(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	// ids are 1..4 on fresh tables
	a := createFolder(t, r.folders, "A", nil, "/1/", 0)
	b := createFolder(t, r.folders, "B", int64Ptr(a.ID), "/1/2/", 1)
	c := createFolder(t, r.folders, "C", int64Ptr(b.ID), "/1/2/3/", 2)
	createFolder(t, r.folders, "D", nil, "/4/", 0)

	n, err := r.folders.RewriteDescendantPaths(ctx, "/1/2/", "/4/2/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	gotC, err := r.folders.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "/4/2/3/", gotC.Path)
	assert.Equal(t, 2, gotC.Depth)

	gotB, err := r.folders.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "/1/2/", gotB.Path)

	depth, err := r.folders.MaxDepthUnder(ctx, "/4/")
	require.NoError(t, err)
	assert.Equal(t, 2, depth)
}

func TestPostgresRepositories_SubtreeDeleteInTransaction(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()

	a := createFolder(t, r.folders, "A", nil, "/1/", 0)
	b := createFolder(t, r.folders, "B", int64Ptr(a.ID), "/1/2/", 1)
	require.NoError(t, r.files.Create(ctx, &models.File{Name: "f", FolderID: int64Ptr(b.ID)}))

	// rolled back
	boom := errors.New("boom")
	err := r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := r.folders.SoftDeleteSubtree(txCtx, "/1/"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	roots, err := r.folders.GetRoots(ctx)
	require.NoError(t, err)
	assert.Len(t, roots, 1)

	var folders, files int64
	err = r.tx.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		if files, err = r.files.SoftDeleteInSubtree(txCtx, "/1/"); err != nil {
			return err
		}
		folders, err = r.folders.SoftDeleteSubtree(txCtx, "/1/")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), folders)
	assert.Equal(t, int64(1), files)

	children, err := r.folders.GetChildren(ctx, int64Ptr(a.ID))
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestLikePrefix(t *testing.T) {
	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{prefix: "/1/2/", want: "/1/2/%"},
		{prefix: "/a_b%/", want: `/a\_b\%/%`},
		{prefix: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := likePrefix(tt.prefix)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
