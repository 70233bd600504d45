package metadata

import (
	"context"
	"errors"
	"strings"

	"github.com/Yash-Soni1/vectra-backend/model"
	"gorm.io/gorm"
)

// GormStore implements FileStore over a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore builds a metadata store from a gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// scopeFiles applies a folder scope to a files query.
func scopeFiles(query *gorm.DB, scope FolderScope) *gorm.DB {
	if id, ok := scope.FolderID(); ok {
		return query.Where("folder_id = ?", id)
	}
	return query.Where("folder_id IS NULL")
}

// scopeFolders applies a folder scope to a folders query.
func scopeFolders(query *gorm.DB, scope FolderScope) *gorm.DB {
	if id, ok := scope.FolderID(); ok {
		return query.Where("parent_id = ?", id)
	}
	return query.Where("parent_id IS NULL")
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Create inserts a file row.
func (s *GormStore) Create(ctx context.Context, file *model.File) error {
	return s.db.WithContext(ctx).Create(file).Error
}

// GetByID returns a file scoped by id and owner.
func (s *GormStore) GetByID(ctx context.Context, ownerID, fileID uint64) (*model.File, error) {
	var file model.File
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", fileID, ownerID).
		First(&file).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &file, nil
}

// List returns one page of a user's files plus the full filtered count.
func (s *GormStore) List(ctx context.Context, ownerID uint64, scope FolderScope, opts ListOptions) ([]model.File, int64, error) {
	var files []model.File
	var total int64

	query := s.db.WithContext(ctx).Model(&model.File{}).
		Where("user_id = ?", ownerID)
	query = scopeFiles(query, scope)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := SortColumn(opts.OrderBy)
	if opts.Ascending {
		order += " ASC"
	} else {
		order += " DESC"
	}

	if err := query.Order(order).Offset(opts.Offset).Limit(opts.Limit).Find(&files).Error; err != nil {
		return nil, 0, err
	}
	return files, total, nil
}

// Search matches display names case-insensitively within the scope, newest
// first.
func (s *GormStore) Search(ctx context.Context, ownerID uint64, scope FolderScope, query string) ([]model.File, error) {
	var files []model.File
	q := s.db.WithContext(ctx).Model(&model.File{}).
		Where("user_id = ?", ownerID).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	q = scopeFiles(q, scope)
	if err := q.Order("created_at DESC").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Delete removes a file row scoped by id and owner.
func (s *GormStore) Delete(ctx context.Context, ownerID, fileID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", fileID, ownerID).
		Delete(&model.File{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountInFolder counts files linked to a folder. The check is on global
// linkage, not filtered by owner; folder ids are globally unique.
func (s *GormStore) CountInFolder(ctx context.Context, folderID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.File{}).
		Where("folder_id = ?", folderID).
		Limit(1).
		Count(&count).Error
	return count, err
}

// ExistsByPath reports whether any file row references a blob path.
func (s *GormStore) ExistsByPath(ctx context.Context, path string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.File{}).
		Where("path = ?", path).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// ListPaths returns a batch of blob paths for reconciliation.
func (s *GormStore) ListPaths(ctx context.Context, offset, limit int) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).Model(&model.File{}).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Pluck("path", &paths).Error
	return paths, err
}

// GormFolderStore implements FolderStore over a gorm connection.
type GormFolderStore struct {
	db *gorm.DB
}

// NewGormFolderStore builds a folder store from a gorm connection.
func NewGormFolderStore(db *gorm.DB) *GormFolderStore {
	return &GormFolderStore{db: db}
}

// Create inserts a folder row.
func (s *GormFolderStore) Create(ctx context.Context, folder *model.Folder) error {
	return s.db.WithContext(ctx).Create(folder).Error
}

// GetByID returns a folder scoped by id and owner.
func (s *GormFolderStore) GetByID(ctx context.Context, ownerID, folderID uint64) (*model.Folder, error) {
	var folder model.Folder
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, ownerID).
		First(&folder).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &folder, nil
}

// List returns a user's folders under the given scope.
func (s *GormFolderStore) List(ctx context.Context, ownerID uint64, scope FolderScope) ([]model.Folder, error) {
	var folders []model.Folder
	query := s.db.WithContext(ctx).Model(&model.Folder{}).
		Where("user_id = ?", ownerID)
	query = scopeFolders(query, scope)
	if err := query.Order("created_at DESC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Rename updates a folder name scoped by id and owner.
func (s *GormFolderStore) Rename(ctx context.Context, ownerID, folderID uint64, name string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Folder{}).
		Where("id = ? AND user_id = ?", folderID, ownerID).
		Update("name", name)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a folder row scoped by id and owner.
func (s *GormFolderStore) Delete(ctx context.Context, ownerID, folderID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, ownerID).
		Delete(&model.Folder{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountChildren counts direct child folders, unfiltered by owner.
func (s *GormFolderStore) CountChildren(ctx context.Context, parentID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Folder{}).
		Where("parent_id = ?", parentID).
		Limit(1).
		Count(&count).Error
	return count, err
}
