package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"arbor/internal/config"
	"arbor/internal/domain"
	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
	"arbor/internal/domain/services"
	"arbor/internal/repository/memory"
	"arbor/internal/treepath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	folders   repositories.FolderRepository
	files     repositories.FileRepository
	hierarchy services.HierarchyService
	fileSvc   services.FileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	folders := memory.NewFolderRepository(store)
	files := memory.NewFileRepository(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &fixture{
		store:     store,
		folders:   folders,
		files:     files,
		hierarchy: NewHierarchyService(folders, files, store, logger),
		fileSvc:   NewFileService(files, folders, store, logger),
	}
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) create(t *testing.T, name string, parentID *int64) *models.Folder {
	t.Helper()
	folder, err := f.hierarchy.CreateFolder(context.Background(), &services.CreateFolderRequest{
		Name:     name,
		ParentID: parentID,
	})
	require.NoError(t, err)
	return folder
}

func (f *fixture) get(t *testing.T, id int64) *models.Folder {
	t.Helper()
	folder, err := f.folders.GetByID(context.Background(), id)
	require.NoError(t, err)
	return folder
}

// snapshot returns every folder row with ids 1..n, deleted ones included
func (f *fixture) snapshot(t *testing.T, n int64) []models.Folder {
	t.Helper()
	var out []models.Folder
	for id := int64(1); id <= n; id++ {
		out = append(out, *f.get(t, id))
	}
	return out
}

// assertPathsConsistent walks the live forest and checks every folder's
// path and depth against its parent
func (f *fixture) assertPathsConsistent(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	var walk func(parent *models.Folder)
	walk = func(parent *models.Folder) {
		var parentID *int64
		if parent != nil {
			parentID = &parent.ID
		}
		children, err := f.folders.GetChildren(ctx, parentID)
		require.NoError(t, err)
		for i := range children {
			child := &children[i]
			assert.Truef(t, treepath.IsConsistent(child, parent),
				"folder %d has path %q depth %d", child.ID, child.Path, child.Depth)
			walk(child)
		}
	}
	walk(nil)
}

// buildABCD runs scenarios 1 and the first half of 2: A(1) > B(2) > C(3),
// and a separate root D(4)
func (f *fixture) buildABCD(t *testing.T) (a, b, c, d *models.Folder) {
	t.Helper()
	a = f.create(t, "A", nil)
	b = f.create(t, "B", &a.ID)
	c = f.create(t, "C", &b.ID)
	d = f.create(t, "D", nil)
	return a, b, c, d
}

func TestHierarchy_Scenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1. create chain
	a, b, c, d := f.buildABCD(t)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, "/1/", a.Path)
	assert.Equal(t, 0, a.Depth)
	assert.Equal(t, "/1/2/", b.Path)
	assert.Equal(t, 1, b.Depth)
	assert.Equal(t, "/1/2/3/", c.Path)
	assert.Equal(t, 2, c.Depth)
	assert.Equal(t, "/4/", d.Path)
	assert.Equal(t, 0, d.Depth)

	// 2. move B (with C) under D
	res, err := f.hierarchy.MoveFolder(ctx, b.ID, &d.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.MoveResult{Moved: true, FolderID: "2", NewParentID: ptr("4")}, res)

	gotB := f.get(t, b.ID)
	assert.Equal(t, "/4/2/", gotB.Path)
	assert.Equal(t, 1, gotB.Depth)
	assert.Equal(t, d.ID, *gotB.ParentID)
	gotC := f.get(t, c.ID)
	assert.Equal(t, "/4/2/3/", gotC.Path)
	assert.Equal(t, 2, gotC.Depth)

	children, err := f.hierarchy.ListChildren(ctx, &a.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
	f.assertPathsConsistent(t)

	// 3. a folder under its own descendant is rejected and nothing changes.
	// C is no longer below A at this point, so B under C stands in for it.
	before := f.snapshot(t, 4)
	_, err = f.hierarchy.MoveFolder(ctx, b.ID, &c.ID)
	require.ErrorIs(t, err, domain.ErrInvalidMove)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, f.snapshot(t, 4))

	// 4. B back to the root level
	res, err = f.hierarchy.MoveFolder(ctx, b.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, res.NewParentID)

	gotB = f.get(t, b.ID)
	assert.Equal(t, "/2/", gotB.Path)
	assert.Equal(t, 0, gotB.Depth)
	assert.Nil(t, gotB.ParentID)
	gotC = f.get(t, c.ID)
	assert.Equal(t, "/2/3/", gotC.Path)
	assert.Equal(t, 1, gotC.Depth)
	f.assertPathsConsistent(t)

	// 5. soft-delete A
	del, err := f.hierarchy.DeleteFolder(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, del.Deleted)
	assert.Equal(t, int64(1), del.FoldersDeleted)

	roots, err := f.hierarchy.ListRootFolders(ctx)
	require.NoError(t, err)
	var rootIDs []int64
	for _, r := range roots {
		rootIDs = append(rootIDs, r.ID)
	}
	assert.Equal(t, []int64{2, 4}, rootIDs)

	gotA := f.get(t, a.ID)
	assert.NotNil(t, gotA.DeletedAt)
}

func TestHierarchy_MoveUnderOwnGrandchildRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c, _ := f.buildABCD(t)

	before := f.snapshot(t, 4)

	tests := []struct {
		name     string
		folderID int64
		parentID int64
	}{
		{name: "grandchild", folderID: a.ID, parentID: c.ID},
		{name: "child", folderID: a.ID, parentID: b.ID},
		{name: "self", folderID: b.ID, parentID: b.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.hierarchy.MoveFolder(ctx, tt.folderID, &tt.parentID)
			assert.ErrorIs(t, err, domain.ErrInvalidMove)
			assert.Equal(t, before, f.snapshot(t, 4))
		})
	}
}

func TestHierarchy_MoveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, _, d := f.buildABCD(t)

	_, err := f.hierarchy.DeleteFolder(ctx, d.ID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		folderID int64
		parentID *int64
		want     error
	}{
		{name: "missing folder", folderID: 99, parentID: nil, want: domain.ErrNotFound},
		{name: "deleted folder", folderID: d.ID, parentID: &a.ID, want: domain.ErrNotFound},
		{name: "missing parent", folderID: b.ID, parentID: ptr(int64(99)), want: domain.ErrParentNotFound},
		{name: "deleted parent", folderID: b.ID, parentID: &d.ID, want: domain.ErrParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.hierarchy.MoveFolder(ctx, tt.folderID, tt.parentID)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, domain.ErrValidation)
		})
	}

	assert.Equal(t, "/1/2/", f.get(t, b.ID).Path)
}

func TestHierarchy_MoveToSameParentIsHarmless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c, _ := f.buildABCD(t)

	_, err := f.hierarchy.MoveFolder(ctx, b.ID, &a.ID)
	require.NoError(t, err)

	assert.Equal(t, "/1/2/", f.get(t, b.ID).Path)
	assert.Equal(t, "/1/2/3/", f.get(t, c.ID).Path)
	assert.Equal(t, 2, f.get(t, c.ID).Depth)
}

func TestHierarchy_MovePreservesSubtreeShape(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// X(1) > {Y(2) > Z(3) > W(4), V(5)}, target T(6) > U(7)
	x := f.create(t, "X", nil)
	y := f.create(t, "Y", &x.ID)
	z := f.create(t, "Z", &y.ID)
	f.create(t, "W", &z.ID)
	f.create(t, "V", &x.ID)
	tt := f.create(t, "T", nil)
	u := f.create(t, "U", &tt.ID)

	before := f.snapshot(t, 7)
	oldX := f.get(t, x.ID)

	_, err := f.hierarchy.MoveFolder(ctx, x.ID, &u.ID)
	require.NoError(t, err)

	newX := f.get(t, x.ID)
	delta := newX.Depth - oldX.Depth
	assert.Equal(t, 2, delta)

	for _, old := range before {
		if old.ID == x.ID {
			continue
		}
		got := f.get(t, old.ID)
		if treepath.IsDescendant(oldX.Path, old.Path) {
			assert.Equal(t, newX.Path+strings.TrimPrefix(old.Path, oldX.Path), got.Path)
			assert.Equal(t, old.Depth+delta, got.Depth)
		} else {
			assert.Equal(t, old.Path, got.Path, "folder %d outside the subtree moved", old.ID)
		}
	}
	f.assertPathsConsistent(t)
}

func TestHierarchy_IDPrefixIsNotDescendant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// ids 1..12; folder 1 must not treat 12 as part of its subtree
	var last *models.Folder
	for i := 0; i < 12; i++ {
		last = f.create(t, "r", nil)
	}
	require.Equal(t, int64(12), last.ID)
	child := f.create(t, "child of 12", &last.ID)

	_, err := f.hierarchy.MoveFolder(ctx, 1, &last.ID)
	require.NoError(t, err)
	assert.Equal(t, "/12/1/", f.get(t, 1).Path)
	assert.Equal(t, "/12/13/", f.get(t, child.ID).Path)
}

type failingRewriteRepo struct {
	repositories.FolderRepository
}

func (failingRewriteRepo) RewriteDescendantPaths(context.Context, string, string) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestHierarchy_MoveIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, b, _, d := f.buildABCD(t)
	before := f.snapshot(t, 4)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broken := NewHierarchyService(failingRewriteRepo{f.folders}, f.files, f.store, logger)

	_, err := broken.MoveFolder(ctx, b.ID, &d.ID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrValidation)

	// the own-row update issued before the failure is rolled back too
	assert.Equal(t, before, f.snapshot(t, 4))
}

func TestHierarchy_CreateFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "A", nil)

	_, err := f.hierarchy.DeleteFolder(ctx, a.ID)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  services.CreateFolderRequest
		want error
	}{
		{name: "missing parent", req: services.CreateFolderRequest{Name: "x", ParentID: ptr(int64(42))}, want: domain.ErrParentNotFound},
		{name: "deleted parent", req: services.CreateFolderRequest{Name: "x", ParentID: &a.ID}, want: domain.ErrParentNotFound},
		{name: "blank name", req: services.CreateFolderRequest{Name: "   "}, want: domain.ErrValidation},
		{name: "long name", req: services.CreateFolderRequest{Name: strings.Repeat("n", config.MaxFolderNameLength+1)}, want: domain.ErrValidation},
		{name: "non-positive parent id", req: services.CreateFolderRequest{Name: "x", ParentID: ptr(int64(-3))}, want: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.hierarchy.CreateFolder(ctx, &req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// failed creates leave no placeholder rows behind
	_, err = f.folders.GetByID(ctx, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	folder, err := f.hierarchy.CreateFolder(ctx, &services.CreateFolderRequest{Name: "  Trimmed  ", OrderIndex: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, "Trimmed", folder.Name)
	assert.Equal(t, 3, folder.OrderIndex)
	assert.Equal(t, "/2/", folder.Path)
}

func TestHierarchy_DepthLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// a chain reaching exactly the maximum depth
	deepest, err := f.hierarchy.EnsureFolderPath(ctx, strings.Repeat("d/", config.MaxFolderDepth+1))
	require.NoError(t, err)
	assert.Equal(t, config.MaxFolderDepth, deepest.Depth)

	_, err = f.hierarchy.CreateFolder(ctx, &services.CreateFolderRequest{Name: "too deep", ParentID: &deepest.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// a two-level subtree cannot go under a folder at MaxFolderDepth-1
	top := f.create(t, "top", nil)
	f.create(t, "below", &top.ID)
	parent, err := f.folders.GetByID(ctx, *deepest.ParentID)
	require.NoError(t, err)

	_, err = f.hierarchy.MoveFolder(ctx, top.ID, &parent.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "/"+models.FormatID(top.ID)+"/", f.get(t, top.ID).Path)
}

func TestHierarchy_UpdateFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, _, _ := f.buildABCD(t)

	updated, err := f.hierarchy.UpdateFolder(ctx, b.ID, &services.UpdateFolderRequest{
		Name:       ptr(" Renamed "),
		OrderIndex: ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 5, updated.OrderIndex)
	assert.Equal(t, "/1/2/", updated.Path)
	assert.Equal(t, a.ID, *updated.ParentID)

	_, err = f.hierarchy.UpdateFolder(ctx, b.ID, &services.UpdateFolderRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.hierarchy.UpdateFolder(ctx, b.ID, &services.UpdateFolderRequest{Name: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.hierarchy.UpdateFolder(ctx, 99, &services.UpdateFolderRequest{OrderIndex: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHierarchy_GetAndAncestors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c, _ := f.buildABCD(t)

	got, err := f.hierarchy.GetFolder(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Name)

	ancestors, err := f.hierarchy.ListAncestors(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, a.ID, ancestors[0].ID)
	assert.Equal(t, b.ID, ancestors[1].ID)

	ancestors, err = f.hierarchy.ListAncestors(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ancestors)

	_, err = f.hierarchy.DeleteFolder(ctx, c.ID)
	require.NoError(t, err)
	_, err = f.hierarchy.GetFolder(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHierarchy_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, c, d := f.buildABCD(t)

	for _, folderID := range []*int64{&b.ID, &c.ID, &d.ID, nil} {
		_, err := f.fileSvc.CreateFile(ctx, &services.CreateFileRequest{Name: "f.txt", FolderID: folderID})
		require.NoError(t, err)
	}

	res, err := f.hierarchy.DeleteFolder(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.DeleteResult{Deleted: true, FolderID: "2", FoldersDeleted: 2, FilesDeleted: 2}, res)

	assert.False(t, f.get(t, a.ID).IsDeleted())
	assert.True(t, f.get(t, c.ID).IsDeleted())

	files, err := f.fileSvc.ListFiles(ctx, &d.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)
	files, err = f.fileSvc.ListFiles(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	// second delete of the same folder is NotFound and changes nothing
	_, err = f.hierarchy.DeleteFolder(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFolderStore_SoftDeleteIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b, _, _ := f.buildABCD(t)

	n, err := f.folders.SoftDelete(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	deletedAt := *f.get(t, a.ID).DeletedAt

	n, err = f.folders.SoftDelete(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, deletedAt, *f.get(t, a.ID).DeletedAt)

	roots, err := f.hierarchy.ListRootFolders(ctx)
	require.NoError(t, err)
	for _, r := range roots {
		assert.Nil(t, r.ParentID)
		assert.Nil(t, r.DeletedAt)
	}
}

func TestHierarchy_EnsureFolderPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reports, err := f.hierarchy.EnsureFolderPath(ctx, "/Projects/2024/Reports/")
	require.NoError(t, err)
	assert.Equal(t, "Reports", reports.Name)
	assert.Equal(t, "/1/2/3/", reports.Path)

	// existing prefix is reused
	drafts, err := f.hierarchy.EnsureFolderPath(ctx, "Projects/ 2024 /Drafts")
	require.NoError(t, err)
	assert.Equal(t, "/1/2/4/", drafts.Path)

	again, err := f.hierarchy.EnsureFolderPath(ctx, "Projects/2024/Reports")
	require.NoError(t, err)
	assert.Equal(t, reports.ID, again.ID)

	for _, bad := range []string{"", "/", "a//b", "a/ /b"} {
		_, err := f.hierarchy.EnsureFolderPath(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrValidation, "path %q", bad)
	}
	f.assertPathsConsistent(t)
}

func TestHierarchy_MultibyteNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cjk := strings.Repeat("文", 100)
	folder, err := f.hierarchy.CreateFolder(ctx, &services.CreateFolderRequest{Name: cjk})
	require.NoError(t, err)
	assert.Equal(t, cjk, folder.Name)

	atLimit := strings.Repeat("é", config.MaxFolderNameLength)
	_, err = f.hierarchy.CreateFolder(ctx, &services.CreateFolderRequest{Name: atLimit, ParentID: &folder.ID})
	require.NoError(t, err)

	_, err = f.hierarchy.CreateFolder(ctx, &services.CreateFolderRequest{Name: atLimit + "é"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	renamed, err := f.hierarchy.UpdateFolder(ctx, folder.ID, &services.UpdateFolderRequest{Name: ptr(strings.Repeat("名", 200))})
	require.NoError(t, err)
	assert.Equal(t, 200, len([]rune(renamed.Name)))

	nested, err := f.hierarchy.EnsureFolderPath(ctx, cjk+"/"+strings.Repeat("子", 120))
	require.NoError(t, err)
	assert.Equal(t, folder.ID, *nested.ParentID)
}

func TestHierarchy_RequestsAreNotModified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	createReq := &services.CreateFolderRequest{Name: "  Docs  "}
	folder, err := f.hierarchy.CreateFolder(ctx, createReq)
	require.NoError(t, err)
	assert.Equal(t, "Docs", folder.Name)
	assert.Equal(t, "  Docs  ", createReq.Name)

	updateReq := &services.UpdateFolderRequest{Name: ptr(" Notes ")}
	updated, err := f.hierarchy.UpdateFolder(ctx, folder.ID, updateReq)
	require.NoError(t, err)
	assert.Equal(t, "Notes", updated.Name)
	assert.Equal(t, " Notes ", *updateReq.Name)
}

type failingCreateRepo struct {
	repositories.FolderRepository
	failName string
}

func (r failingCreateRepo) Create(ctx context.Context, folder *models.Folder) error {
	if folder.Name == r.failName {
		return errors.New("disk full")
	}
	return r.FolderRepository.Create(ctx, folder)
}

func TestHierarchy_EnsureFolderPathLogsOnlyCommittedFolders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	svc := NewHierarchyService(failingCreateRepo{f.folders, "boom"}, f.files, f.store, logger)

	_, err := svc.EnsureFolderPath(ctx, "Projects/boom")
	require.Error(t, err)
	assert.NotContains(t, logs.String(), "folder created")

	roots, err := f.hierarchy.ListRootFolders(ctx)
	require.NoError(t, err)
	assert.Empty(t, roots)

	_, err = svc.EnsureFolderPath(ctx, "Projects/2024")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(logs.String(), "folder created"))
}
