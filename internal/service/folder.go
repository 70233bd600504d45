package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/model"
)

// FolderService owns the folder hierarchy. Folders hold files and other
// folders; a folder with either kind of child cannot be deleted.
type FolderService struct {
	folders metadata.FolderStore
	files   metadata.FileStore
}

// NewFolderService creates a FolderService.
func NewFolderService(folders metadata.FolderStore, files metadata.FileStore) *FolderService {
	return &FolderService{folders: folders, files: files}
}

// Create makes a folder, optionally nested under a parent the caller owns.
func (s *FolderService) Create(ctx context.Context, ownerID uint64, name string, parentID *uint64) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation("Folder name required")
	}
	if parentID != nil {
		_, err := s.folders.GetByID(ctx, ownerID, *parentID)
		if errors.Is(err, metadata.ErrNotFound) {
			return nil, ErrNotFound("Parent folder not found")
		}
		if err != nil {
			return nil, ErrUpstream("Failed to load parent folder.", err)
		}
	}

	folder := &model.Folder{
		UserID:   ownerID,
		Name:     name,
		ParentID: parentID,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, ErrUpstream("Failed to create folder.", err)
	}
	return folder, nil
}

// List returns the owner's folders directly inside the scope, newest first.
func (s *FolderService) List(ctx context.Context, ownerID uint64, scope metadata.FolderScope) ([]model.Folder, error) {
	folders, err := s.folders.List(ctx, ownerID, scope)
	if err != nil {
		return nil, ErrUpstream("Failed to list folders.", err)
	}
	return folders, nil
}

// Rename changes a folder's name.
func (s *FolderService) Rename(ctx context.Context, ownerID, folderID uint64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrValidation("Folder name required")
	}

	renamed, err := s.folders.Rename(ctx, ownerID, folderID, name)
	if err != nil {
		return ErrUpstream("Failed to rename folder.", err)
	}
	if !renamed {
		return ErrNotFound("Folder not found")
	}
	return nil
}

// Delete removes an empty folder. The emptiness checks run before ownership
// is established, so a populated foreign folder reports a conflict.
func (s *FolderService) Delete(ctx context.Context, ownerID, folderID uint64) error {
	childFolders, err := s.folders.CountChildren(ctx, folderID)
	if err != nil {
		return ErrUpstream("Failed to check folder contents.", err)
	}
	if childFolders > 0 {
		return ErrConflict("Folder not empty (contains folders).")
	}

	childFiles, err := s.files.CountInFolder(ctx, folderID)
	if err != nil {
		return ErrUpstream("Failed to check folder contents.", err)
	}
	if childFiles > 0 {
		return ErrConflict("Folder not empty (contains files).")
	}

	deleted, err := s.folders.Delete(ctx, ownerID, folderID)
	if err != nil {
		return ErrUpstream("Failed to delete folder.", err)
	}
	if !deleted {
		return ErrNotFound("Folder not found")
	}
	return nil
}
