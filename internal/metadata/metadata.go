// Package metadata provides typed access to persisted File and Folder
// records. The service layer depends on the FileStore and FolderStore
// interfaces only, so the backing engine can be swapped for the in-memory
// implementation in tests.
package metadata

import (
	"context"
	"errors"

	"github.com/Yash-Soni1/vectra-backend/model"
)

// ErrNotFound is returned when a record is absent or owned by another user.
var ErrNotFound = errors.New("record not found")

// FolderScope selects either the root level (no folder) or one specific
// folder. Root matching translates to an IS NULL test, never an equality
// comparison against null.
type FolderScope struct {
	folderID *uint64
}

// RootScope selects entities with no parent folder.
func RootScope() FolderScope {
	return FolderScope{}
}

// InFolder selects entities inside the given folder.
func InFolder(id uint64) FolderScope {
	return FolderScope{folderID: &id}
}

// ScopeFromID builds a scope from a nullable folder reference.
func ScopeFromID(id *uint64) FolderScope {
	if id == nil {
		return RootScope()
	}
	return InFolder(*id)
}

// FolderID returns the selected folder id and whether one is set; unset
// means root.
func (s FolderScope) FolderID() (uint64, bool) {
	if s.folderID == nil {
		return 0, false
	}
	return *s.folderID, true
}

// ListOptions controls pagination and ordering of file listings.
type ListOptions struct {
	Limit     int
	Offset    int
	OrderBy   string
	Ascending bool
}

// sortColumns is the order-by whitelist; anything else falls back to
// created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"size":       "size",
	"type":       "type",
}

// SortColumn maps a caller-chosen sort field to a safe column name.
func SortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return "created_at"
}

// FileStore is the metadata client for File rows. Every query is scoped by
// owner except the folder-emptiness guard, which checks global linkage.
type FileStore interface {
	Create(ctx context.Context, file *model.File) error
	GetByID(ctx context.Context, ownerID, fileID uint64) (*model.File, error)
	List(ctx context.Context, ownerID uint64, scope FolderScope, opts ListOptions) ([]model.File, int64, error)
	Search(ctx context.Context, ownerID uint64, scope FolderScope, query string) ([]model.File, error)
	Delete(ctx context.Context, ownerID, fileID uint64) (bool, error)
	CountInFolder(ctx context.Context, folderID uint64) (int64, error)
	ExistsByPath(ctx context.Context, path string) (bool, error)
	ListPaths(ctx context.Context, offset, limit int) ([]string, error)
}

// FolderStore is the metadata client for Folder rows.
type FolderStore interface {
	Create(ctx context.Context, folder *model.Folder) error
	GetByID(ctx context.Context, ownerID, folderID uint64) (*model.Folder, error)
	List(ctx context.Context, ownerID uint64, scope FolderScope) ([]model.Folder, error)
	Rename(ctx context.Context, ownerID, folderID uint64, name string) (bool, error)
	Delete(ctx context.Context, ownerID, folderID uint64) (bool, error)
	CountChildren(ctx context.Context, parentID uint64) (int64, error)
}
