// Package treepath computes materialized folder paths.
//
// A path is the slash-delimited chain of ids from a root folder down to and
// including the folder itself, with a leading and a trailing slash:
//
//	root 1        → "/1/"      depth 0
//	child 2 of 1  → "/1/2/"    depth 1
//	grandchild 3  → "/1/2/3/"  depth 2
//
// Every id is enclosed by slashes on both sides, so a plain string prefix test
// is enough to decide descendancy: "/1/" is a prefix of "/1/2/" but not of
// "/12/".
package treepath

import (
	"strconv"
	"strings"

	"arbor/internal/domain/models"
)

// Separator delimits path segments
const Separator = "/"

// Root is the path prefix shared by every folder
const Root = Separator

// ForCreate returns the path and depth of a new folder with the given id.
// parent is nil for root folders.
func ForCreate(parent *models.Folder, id int64) (string, int) {
	if parent == nil {
		return Root + segment(id), 0
	}
	return Normalize(parent.Path) + segment(id), parent.Depth + 1
}

// ForMove returns the path and depth a folder takes when reparented under
// newParent (nil = move to root).
func ForMove(newParent *models.Folder, movedID int64) (string, int) {
	path, depth := ForCreate(newParent, movedID)
	return Normalize(path), depth
}

// IsDescendant reports whether path lies inside the subtree rooted at
// ancestorPath. A path is its own descendant.
//
// Examples:
//   - IsDescendant("/1/", "/1/2/") → true
//   - IsDescendant("/1/", "/1/") → true
//   - IsDescendant("/1/", "/12/") → false
func IsDescendant(ancestorPath, path string) bool {
	if ancestorPath == "" {
		return false
	}
	return strings.HasPrefix(path, ancestorPath)
}

// Normalize collapses any run of trailing slashes to exactly one.
// An empty path stays empty.
func Normalize(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimRight(path, Separator) + Separator
}

// Depth returns the number of ancestors encoded in path: its segment count
// minus one. Returns -1 for the empty path.
func Depth(path string) int {
	return len(IDs(path)) - 1
}

// DepthDelta returns how much the depth of every folder under oldPrefix
// changes when that prefix is replaced by newPrefix.
func DepthDelta(oldPrefix, newPrefix string) int {
	return Depth(newPrefix) - Depth(oldPrefix)
}

// Rebase replaces oldPrefix with newPrefix at the start of path. path is
// returned unchanged when it does not start with oldPrefix.
func Rebase(path, oldPrefix, newPrefix string) string {
	if !IsDescendant(oldPrefix, path) {
		return path
	}
	return newPrefix + path[len(oldPrefix):]
}

// IDs returns the ids encoded in path, root first. Segments that are not
// decimal ids are skipped.
func IDs(path string) []int64 {
	var ids []int64
	for _, seg := range strings.Split(path, Separator) {
		if seg == "" {
			continue
		}
		id, err := strconv.ParseInt(seg, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// AncestorIDs returns the ids of every ancestor in path, root first,
// excluding the folder itself.
func AncestorIDs(path string) []int64 {
	ids := IDs(path)
	if len(ids) == 0 {
		return nil
	}
	return ids[:len(ids)-1]
}

// IsConsistent reports whether folder's path and depth agree with its parent
// (nil for roots).
func IsConsistent(folder, parent *models.Folder) bool {
	want, depth := ForCreate(parent, folder.ID)
	return folder.Path == want && folder.Depth == depth
}

func segment(id int64) string {
	return strconv.FormatInt(id, 10) + Separator
}
