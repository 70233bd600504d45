package metadata

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Yash-Soni1/vectra-backend/model"
)

// MemoryStore is an in-memory FileStore. Together with MemoryFolderStore it
// backs the unit tests and local development; ids are assigned sequentially.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint64
	files  map[uint64]model.File
}

// NewMemoryStore builds an empty in-memory file store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		files:  make(map[uint64]model.File),
	}
}

func matchesScope(folderID *uint64, scope FolderScope) bool {
	want, ok := scope.FolderID()
	if !ok {
		return folderID == nil
	}
	return folderID != nil && *folderID == want
}

// Create inserts a file record and assigns its id and creation time.
func (s *MemoryStore) Create(ctx context.Context, file *model.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file.ID = s.nextID
	s.nextID++
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	s.files[file.ID] = *file
	return nil
}

// GetByID returns a file scoped by id and owner.
func (s *MemoryStore) GetByID(ctx context.Context, ownerID, fileID uint64) (*model.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[fileID]
	if !ok || file.UserID != ownerID {
		return nil, ErrNotFound
	}
	out := file
	return &out, nil
}

func (s *MemoryStore) filtered(ownerID uint64, scope FolderScope) []model.File {
	var out []model.File
	for _, file := range s.files {
		if file.UserID == ownerID && matchesScope(file.FolderID, scope) {
			out = append(out, file)
		}
	}
	return out
}

// List returns one page of a user's files plus the full filtered count.
func (s *MemoryStore) List(ctx context.Context, ownerID uint64, scope FolderScope, opts ListOptions) ([]model.File, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := s.filtered(ownerID, scope)
	total := int64(len(files))

	column := SortColumn(opts.OrderBy)
	sort.SliceStable(files, func(i, j int) bool {
		var less bool
		switch column {
		case "name":
			less = files[i].Name < files[j].Name
		case "size":
			less = files[i].Size < files[j].Size
		case "type":
			less = files[i].Type < files[j].Type
		default:
			if files[i].CreatedAt.Equal(files[j].CreatedAt) {
				less = files[i].ID < files[j].ID
			} else {
				less = files[i].CreatedAt.Before(files[j].CreatedAt)
			}
		}
		if opts.Ascending {
			return less
		}
		return !less
	})

	if opts.Offset >= len(files) {
		return nil, total, nil
	}
	files = files[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(files) {
		files = files[:opts.Limit]
	}
	return files, total, nil
}

// Search matches display names case-insensitively within the scope, newest
// first.
func (s *MemoryStore) Search(ctx context.Context, ownerID uint64, scope FolderScope, query string) ([]model.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []model.File
	for _, file := range s.filtered(ownerID, scope) {
		if strings.Contains(strings.ToLower(file.Name), needle) {
			out = append(out, file)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a file record scoped by id and owner.
func (s *MemoryStore) Delete(ctx context.Context, ownerID, fileID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	file, ok := s.files[fileID]
	if !ok || file.UserID != ownerID {
		return false, nil
	}
	delete(s.files, fileID)
	return true, nil
}

// CountInFolder counts files linked to a folder, unfiltered by owner.
func (s *MemoryStore) CountInFolder(ctx context.Context, folderID uint64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, file := range s.files {
		if file.FolderID != nil && *file.FolderID == folderID {
			return 1, nil
		}
	}
	return 0, nil
}

// ExistsByPath reports whether any file record references a blob path.
func (s *MemoryStore) ExistsByPath(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, file := range s.files {
		if file.Path == path {
			return true, nil
		}
	}
	return false, nil
}

// ListPaths returns a batch of blob paths ordered by id.
func (s *MemoryStore) ListPaths(ctx context.Context, offset, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]uint64, 0, len(s.files))
	for id := range s.files {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var paths []string
	for i, id := range ids {
		if i < offset {
			continue
		}
		if limit > 0 && len(paths) >= limit {
			break
		}
		paths = append(paths, s.files[id].Path)
	}
	return paths, nil
}

// MemoryFolderStore is an in-memory FolderStore.
type MemoryFolderStore struct {
	mu      sync.RWMutex
	nextID  uint64
	folders map[uint64]model.Folder
}

// NewMemoryFolderStore builds an empty in-memory folder store.
func NewMemoryFolderStore() *MemoryFolderStore {
	return &MemoryFolderStore{
		nextID:  1,
		folders: make(map[uint64]model.Folder),
	}
}

// Create inserts a folder record and assigns its id and creation time.
func (s *MemoryFolderStore) Create(ctx context.Context, folder *model.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder.ID = s.nextID
	s.nextID++
	if folder.CreatedAt.IsZero() {
		folder.CreatedAt = time.Now()
	}
	s.folders[folder.ID] = *folder
	return nil
}

// GetByID returns a folder scoped by id and owner.
func (s *MemoryFolderStore) GetByID(ctx context.Context, ownerID, folderID uint64) (*model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != ownerID {
		return nil, ErrNotFound
	}
	out := folder
	return &out, nil
}

// List returns a user's folders under the given scope.
func (s *MemoryFolderStore) List(ctx context.Context, ownerID uint64, scope FolderScope) ([]model.Folder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Folder
	for _, folder := range s.folders {
		if folder.UserID == ownerID && matchesScope(folder.ParentID, scope) {
			out = append(out, folder)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Rename updates a folder name scoped by id and owner.
func (s *MemoryFolderStore) Rename(ctx context.Context, ownerID, folderID uint64, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != ownerID {
		return false, nil
	}
	folder.Name = name
	s.folders[folderID] = folder
	return true, nil
}

// Delete removes a folder record scoped by id and owner.
func (s *MemoryFolderStore) Delete(ctx context.Context, ownerID, folderID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != ownerID {
		return false, nil
	}
	delete(s.folders, folderID)
	return true, nil
}

// CountChildren counts direct child folders, unfiltered by owner.
func (s *MemoryFolderStore) CountChildren(ctx context.Context, parentID uint64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, folder := range s.folders {
		if folder.ParentID != nil && *folder.ParentID == parentID {
			return 1, nil
		}
	}
	return 0, nil
}
