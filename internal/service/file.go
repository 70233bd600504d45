package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/storage"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/Yash-Soni1/vectra-backend/utils"
	"github.com/google/uuid"
)

// DownloadLinkTTL is the lifetime of a signed download link.
const DownloadLinkTTL = 5 * time.Minute

const fileListCacheTTL = 30 * time.Second

// CleanupPublisher enqueues a blob path for asynchronous removal when the
// synchronous compensation after a failed metadata write did not succeed.
type CleanupPublisher interface {
	PublishCleanup(ctx context.Context, path string) error
}

// FileService owns file records and their blobs. The blob write always
// happens before the metadata write; on metadata failure the blob is
// removed again, falling back to the cleanup queue.
type FileService struct {
	files   metadata.FileStore
	blobs   storage.BlobStore
	bucket  string
	cache   utils.Cache
	cleanup CleanupPublisher
}

// NewFileService creates a FileService. cache and cleanup may be nil.
func NewFileService(files metadata.FileStore, blobs storage.BlobStore, bucket string, cache utils.Cache, cleanup CleanupPublisher) *FileService {
	return &FileService{
		files:   files,
		blobs:   blobs,
		bucket:  bucket,
		cache:   cache,
		cleanup: cleanup,
	}
}

// Upload stores one file: blob first under a fresh generated path, then the
// metadata row. The original filename only survives in metadata.
func (s *FileService) Upload(ctx context.Context, ownerID uint64, name string, size int64, contentType string, folderID *uint64, reader io.Reader) (*model.File, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrValidation("File name is required")
	}

	objectPath := fmt.Sprintf("%d/%s%s", ownerID, uuid.NewString(), path.Ext(name))

	err := s.blobs.PutObject(ctx, s.bucket, objectPath, reader, size, storage.PutOptions{
		ContentType: contentType,
		Overwrite:   false,
	})
	if err != nil {
		return nil, ErrUpstream("Failed to upload file to storage.", err)
	}

	file := &model.File{
		UserID:   ownerID,
		Name:     name,
		Path:     objectPath,
		Size:     size,
		Type:     contentType,
		FolderID: folderID,
	}
	if err := s.files.Create(ctx, file); err != nil {
		s.compensate(ctx, objectPath)
		return nil, ErrUpstream("Failed to save file metadata.", err)
	}

	s.invalidateListCache(ctx, ownerID)
	return file, nil
}

func (s *FileService) compensate(ctx context.Context, objectPath string) {
	if err := s.blobs.RemoveObject(ctx, s.bucket, objectPath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		log.Printf("compensation delete failed for %s: %v", objectPath, err)
		if s.cleanup != nil {
			if pubErr := s.cleanup.PublishCleanup(ctx, objectPath); pubErr != nil {
				log.Printf("cleanup enqueue failed for %s: %v", objectPath, pubErr)
			}
		}
	}
}

// ListResult is a page of files plus the unpaginated total.
type ListResult struct {
	Total int64        `json:"total"`
	Files []model.File `json:"files"`
}

// List returns one page of the owner's files in the given folder scope.
func (s *FileService) List(ctx context.Context, ownerID uint64, scope metadata.FolderScope, opts metadata.ListOptions) (*ListResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	opts.OrderBy = metadata.SortColumn(opts.OrderBy)

	cacheKey := s.listCacheKey(ownerID, scope, opts)
	if s.cache != nil {
		var cached ListResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	files, total, err := s.files.List(ctx, ownerID, scope, opts)
	if err != nil {
		return nil, ErrUpstream("Failed to list files.", err)
	}
	result := &ListResult{Total: total, Files: files}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, fileListCacheTTL); err != nil {
			log.Println("file list cache set failed:", err)
		}
	}
	return result, nil
}

// Search returns the owner's files in the given folder scope whose name
// contains the query, newest first. Matching ignores case.
func (s *FileService) Search(ctx context.Context, ownerID uint64, scope metadata.FolderScope, query string) ([]model.File, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrValidation("Search query is required")
	}
	files, err := s.files.Search(ctx, ownerID, scope, query)
	if err != nil {
		return nil, ErrUpstream("Failed to search files.", err)
	}
	return files, nil
}

// DownloadLink returns a signed URL for the file, valid for DownloadLinkTTL.
func (s *FileService) DownloadLink(ctx context.Context, ownerID, fileID uint64) (string, error) {
	file, err := s.files.GetByID(ctx, ownerID, fileID)
	if errors.Is(err, metadata.ErrNotFound) {
		return "", ErrNotFound("File not found")
	}
	if err != nil {
		return "", ErrUpstream("Failed to load file.", err)
	}

	params := map[string]string{
		"response-content-disposition": fmt.Sprintf("attachment; filename=%q", utils.SanitizeHeaderFilename(file.Name)),
	}
	url, err := s.blobs.PresignedGetObject(ctx, s.bucket, file.Path, DownloadLinkTTL, params)
	if err != nil {
		return "", ErrUpstream("Failed to generate download link.", err)
	}
	return url, nil
}

// Delete removes the blob first, then the metadata row. If the blob removal
// fails the record stays so the delete can be retried.
func (s *FileService) Delete(ctx context.Context, ownerID, fileID uint64) error {
	file, err := s.files.GetByID(ctx, ownerID, fileID)
	if errors.Is(err, metadata.ErrNotFound) {
		return ErrNotFound("File not found")
	}
	if err != nil {
		return ErrUpstream("Failed to load file.", err)
	}

	if err := s.blobs.RemoveObject(ctx, s.bucket, file.Path); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return ErrUpstream("Failed to delete file from storage.", err)
	}

	deleted, err := s.files.Delete(ctx, ownerID, fileID)
	if err != nil {
		return ErrUpstream("Failed to delete file metadata.", err)
	}
	if !deleted {
		return ErrNotFound("File not found")
	}

	s.invalidateListCache(ctx, ownerID)
	return nil
}

func (s *FileService) listCacheKey(ownerID uint64, scope metadata.FolderScope, opts metadata.ListOptions) string {
	folder := "root"
	if id, ok := scope.FolderID(); ok {
		folder = fmt.Sprintf("%d", id)
	}
	order := "desc"
	if opts.Ascending {
		order = "asc"
	}
	return utils.BuildCacheKey("files", ownerID, folder, opts.Limit, opts.Offset, opts.OrderBy, order)
}

func (s *FileService) invalidateListCache(ctx context.Context, ownerID uint64) {
	if s.cache == nil {
		return
	}
	pattern := utils.BuildCacheKey("files", ownerID) + ":*"
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		log.Println("file list cache invalidation failed:", err)
	}
}
